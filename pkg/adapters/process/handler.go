package process

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"slices"
	"strings"
	"time"

	"github.com/aretw0/flowline/pkg/domain"
	"github.com/aretw0/flowline/pkg/registry"
)

const waitDelay = 500 * time.Millisecond

// Handler runs an external command as a workflow node.
//
// The command receives the state's data as a JSON object on stdin, and the
// workflow and node names in FLOWLINE_WORKFLOW and FLOWLINE_NODE. Its stdout
// is the node result: a JSON object is merged into the state, a JSON
// scalar is returned as-is (so `true`/`false` drive condition nodes), and
// empty output yields no update. A non-zero exit fails the node.
type Handler struct {
	cfg     ProcessConfig
	baseDir string
}

var _ registry.Handler = (*Handler)(nil)

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithBaseDir sets the working directory for executed processes.
func WithBaseDir(dir string) HandlerOption {
	return func(h *Handler) {
		h.baseDir = dir
	}
}

// NewHandler creates a handler for the given command.
func NewHandler(cfg ProcessConfig, opts ...HandlerOption) *Handler {
	h := &Handler{cfg: cfg}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Kind reports KindAsync: the engine awaits the child process.
func (h *Handler) Kind() registry.Kind {
	return registry.KindAsync
}

// Execute runs the command and decodes its output.
func (h *Handler) Execute(ctx context.Context, state *domain.State) (any, error) {
	if h.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.cfg.Timeout)
		defer cancel()
	}

	input, err := json.Marshal(state.Data)
	if err != nil {
		return nil, fmt.Errorf("handler '%s': failed to encode state: %w", h.cfg.Name, err)
	}

	cmd := exec.CommandContext(ctx, h.cfg.Command, h.cfg.Args...)
	cmd.Dir = h.baseDir
	// Orphaned grandchildren may hold stdout open after a kill.
	cmd.WaitDelay = waitDelay
	cmd.Stdin = bytes.NewReader(input)

	env := []string{
		"FLOWLINE_WORKFLOW=" + state.Workflow,
		"FLOWLINE_NODE=" + state.CurrentNode,
	}
	for k, v := range h.cfg.Environment {
		env = append(env, k+"="+v)
	}
	cmd.Env = append(cmd.Environ(), env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("handler '%s': %w", h.cfg.Name, ctxErr)
		}
		return nil, fmt.Errorf("handler '%s' failed: %w: %s", h.cfg.Name, err, strings.TrimSpace(stderr.String()))
	}

	return decodeOutput(h.cfg.Name, stdout.Bytes())
}

func decodeOutput(name string, out []byte) (any, error) {
	trimmed := bytes.TrimSpace(out)
	if len(trimmed) == 0 {
		return nil, nil
	}

	var result any
	if err := json.Unmarshal(trimmed, &result); err != nil {
		// Plain text is accepted and returned as a string.
		return string(trimmed), nil
	}
	if m, ok := result.(map[string]any); ok {
		return domain.Update(m), nil
	}
	return result, nil
}

// Registrar is satisfied by *flowline.Engine.
type Registrar interface {
	RegisterHandler(name string, h registry.Handler)
}

// RegisterAll registers one Handler per config entry and returns the names.
func RegisterAll(r Registrar, configs map[string]ProcessConfig, opts ...HandlerOption) []string {
	names := make([]string, 0, len(configs))
	for name, cfg := range configs {
		r.RegisterHandler(name, NewHandler(cfg, opts...))
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
