package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/flowline"
	"github.com/aretw0/flowline/internal/config"
	"github.com/aretw0/flowline/internal/logging"
	"github.com/aretw0/flowline/internal/samples/codereview"
	"github.com/aretw0/flowline/pkg/adapters/process"
	"github.com/aretw0/flowline/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const echoWorkflow = `
name: echo
entry_point: copy
nodes:
  - node_id: copy
    function: copy
    next_nodes:
      default: null
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func copyEngine(t *testing.T) *flowline.Engine {
	t.Helper()
	eng := flowline.New()
	eng.RegisterFunc("copy", func(ctx context.Context, s *domain.State) (any, error) {
		return map[string]any{"copied": s.Data["value"]}, nil
	})
	return eng
}

func TestParseInput(t *testing.T) {
	in, err := ParseInput("")
	require.NoError(t, err)
	assert.Empty(t, in)

	in, err = ParseInput(`{"a": 1}`)
	require.NoError(t, err)
	assert.Equal(t, float64(1), in["a"])

	path := writeFile(t, t.TempDir(), "input.json", `{"code": "def f():\n    pass"}`)
	in, err = ParseInput("@" + path)
	require.NoError(t, err)
	assert.Contains(t, in["code"], "def f")

	_, err = ParseInput(`[1, 2]`)
	assert.Error(t, err)

	_, err = ParseInput("@" + filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadWorkflows(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "echo.yaml", echoWorkflow)
	writeFile(t, dir, "notes.txt", "ignored")
	writeFile(t, dir, "other.json", `{"name": "other", "entry_point": "copy", "nodes": {"copy": {"function": "copy"}}}`)

	eng := copyEngine(t)
	names, err := LoadWorkflows(eng, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"echo", "other"}, names)
	assert.Equal(t, []string{"echo", "other"}, eng.WorkflowNames())

	writeFile(t, dir, "zz-broken.yaml", "name: broken\nnodes: {}\n")
	_, err = LoadWorkflows(copyEngine(t), dir)
	assert.Error(t, err)

	_, err = LoadWorkflows(eng, filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestWorkflowWatcher_Reload(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "echo.yaml", echoWorkflow)

	eng := copyEngine(t)
	_, err := LoadWorkflows(eng, dir)
	require.NoError(t, err)

	var logs bytes.Buffer
	w, err := NewWorkflowWatcher(eng, dir, 0, logging.NewWithWriter(&logs, slog.LevelInfo))
	require.NoError(t, err)
	t.Cleanup(func() { w.fs.Close() })

	assert.False(t, w.Reload(path), "content loaded at startup is not reloaded")

	writeFile(t, dir, "echo.yaml", strings.Replace(echoWorkflow, "entry_point: copy", "entry_point: copy\n# edited", 1))
	assert.True(t, w.Reload(path))
	assert.False(t, w.Reload(path), "unchanged files are skipped")

	require.NoError(t, os.WriteFile(path, []byte("name: [broken"), 0o644))
	assert.False(t, w.Reload(path))
	assert.False(t, w.Reload(path))
	assert.Equal(t, 1, strings.Count(logs.String(), "workflow reload failed"), "a broken file is reported once")

	_, err = eng.Workflow("echo")
	assert.NoError(t, err, "last good version stays registered")

	writeFile(t, dir, "echo.yaml", echoWorkflow)
	assert.True(t, w.Reload(path), "a fixed file registers again")
}

func TestWatchWorkflows_RegistersNewFiles(t *testing.T) {
	dir := t.TempDir()
	eng := copyEngine(t)

	w, err := NewWorkflowWatcher(eng, dir, 10*time.Millisecond, logging.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	writeFile(t, dir, "notes.txt", "ignored")
	writeFile(t, dir, "echo.yaml", echoWorkflow)

	require.Eventually(t, func() bool {
		_, err := eng.Workflow("echo")
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, []string{"echo"}, eng.WorkflowNames())
}

func TestWatchWorkflows_MissingDir(t *testing.T) {
	err := WatchWorkflows(context.Background(), copyEngine(t), filepath.Join(t.TempDir(), "missing"), 0, logging.NewNop())
	assert.Error(t, err)
}

func TestCreateStore(t *testing.T) {
	logger := logging.NewNop()

	p, err := CreateStore(config.StoreConfig{Driver: config.StoreMemory}, logger)
	require.NoError(t, err)
	assert.NotNil(t, p.Store)
	assert.Nil(t, p.Locker)
	assert.NoError(t, p.Close())

	p, err = CreateStore(config.StoreConfig{Driver: config.StoreSQLite, SQLitePath: filepath.Join(t.TempDir(), "runs.db")}, logger)
	require.NoError(t, err)
	ids, err := p.Store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.NoError(t, p.Close())

	mr := miniredis.RunT(t)
	p, err = CreateStore(config.StoreConfig{Driver: config.StoreRedis, RedisAddr: mr.Addr(), DistributedLock: true}, logger)
	require.NoError(t, err)
	assert.NotNil(t, p.Locker)
	release, err := p.Locker.LockRun(context.Background(), "run-1", 0)
	require.NoError(t, err)
	require.NoError(t, release(context.Background()))
	assert.NoError(t, p.Close())

	_, err = CreateStore(config.StoreConfig{Driver: "etcd"}, logger)
	assert.Error(t, err)
}

func TestCreateEngine(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "echo.yaml", echoWorkflow)

	cfg := config.Default()
	cfg.WorkflowsDir = dir
	cfg.Engine.Strict = true

	handlersDir := t.TempDir()
	cfg.HandlersFile = writeFile(t, handlersDir, "handlers.yaml", "handlers:\n  - name: copy\n    command: cat\n")

	eng, err := CreateEngine(EngineOptions{Config: cfg, Logger: logging.NewNop()})
	require.NoError(t, err)
	assert.Contains(t, eng.WorkflowNames(), codereview.WorkflowName)
	assert.Contains(t, eng.WorkflowNames(), "echo")
	assert.Contains(t, eng.HandlerNames(), "copy")
	assert.Contains(t, eng.HandlerNames(), "extract_functions")

	writeFile(t, dir, "dangling.yaml", "name: dangling\nentry_point: a\nnodes:\n  a:\n    function: copy\n    next_nodes:\n      default: nowhere\n")
	_, err = CreateEngine(EngineOptions{Config: cfg, Logger: logging.NewNop()})
	assert.ErrorIs(t, err, domain.ErrInvalidGraph, "strict mode rejects dangling targets")
}

func TestCreateEngine_WarnsAboutUnreachableNodes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "orphan.yaml", "name: orphan\nentry_point: a\nnodes:\n  a:\n    function: copy\n  b:\n    function: copy\n")

	cfg := config.Default()
	cfg.WorkflowsDir = dir
	cfg.Server.Samples = false

	var logs bytes.Buffer
	eng, err := CreateEngine(EngineOptions{Config: cfg, Logger: logging.NewWithWriter(&logs, slog.LevelInfo)})
	require.NoError(t, err)
	assert.Equal(t, []string{"orphan"}, eng.WorkflowNames())
	assert.Contains(t, logs.String(), "workflow has unreachable nodes")
	assert.Contains(t, logs.String(), "unreachable node(s): b")
}

func TestRun_DefinitionFileJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "echo.yaml", echoWorkflow)

	var out bytes.Buffer
	state, err := Run(context.Background(), copyEngine(t), RunOptions{
		File:   path,
		Input:  `{"value": "x"}`,
		JSON:   true,
		Output: &out,
	})
	require.NoError(t, err)
	assert.Equal(t, "x", state.Data["copied"])

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "completed", decoded["status"])
}

func TestRun_Errors(t *testing.T) {
	var out bytes.Buffer
	_, err := Run(context.Background(), copyEngine(t), RunOptions{Output: &out})
	assert.Error(t, err)

	_, err = Run(context.Background(), copyEngine(t), RunOptions{Workflow: "missing", Output: &out})
	assert.ErrorIs(t, err, domain.ErrWorkflowNotFound)

	_, err = Run(context.Background(), copyEngine(t), RunOptions{Workflow: "echo", Input: "{", Output: &out})
	assert.Error(t, err)
}

func TestValidateFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "echo.yaml", echoWorkflow)
	writeFile(t, dir, "dangling.yaml", `
name: dangling
entry_point: a
nodes:
  a:
    function: copy
    next_nodes:
      default: nowhere
`)
	writeFile(t, dir, "unknown.yaml", strings.Replace(echoWorkflow, "function: copy", "function: mystery", 1))
	writeFile(t, dir, "orphan.yaml", `
name: orphan
entry_point: a
nodes:
  a:
    function: copy
  b:
    function: copy
`)

	results, err := ValidateFiles([]string{dir}, []string{"copy"})
	require.NoError(t, err)
	require.Len(t, results, 4)

	byName := map[string]ValidationResult{}
	for _, r := range results {
		byName[filepath.Base(r.File)] = r
	}
	assert.True(t, byName["echo.yaml"].OK())
	assert.ErrorIs(t, byName["dangling.yaml"].Err, domain.ErrInvalidGraph)
	assert.Equal(t, []string{"mystery"}, byName["unknown.yaml"].MissingHandlers)
	assert.True(t, byName["orphan.yaml"].OK())
	assert.Equal(t, []string{"b"}, byName["orphan.yaml"].Unreachable)

	var out bytes.Buffer
	assert.Equal(t, 2, WriteValidation(&out, results))
	assert.Contains(t, out.String(), "warning: unreachable nodes [b]")
	assert.Contains(t, out.String(), "4 file(s) checked, 2 failed.")
}

func TestValidateFiles_Examples(t *testing.T) {
	root := filepath.Join("..", "..", "examples", "word-count")
	configs, err := process.LoadHandlers(filepath.Join(root, "handlers.yaml"))
	require.NoError(t, err)

	known := make([]string, 0, len(configs))
	for name := range configs {
		known = append(known, name)
	}

	results, err := ValidateFiles([]string{filepath.Join(root, "workflows")}, known)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].OK(), "%+v", results[0])
	assert.Equal(t, "word_count", results[0].Workflow)
	assert.Empty(t, results[0].Unreachable)
}

func TestNewServer(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("process collector is not available")
	}
	cfg := config.Default()

	s, err := NewServer(ServeOptions{Config: cfg, Logger: logging.NewNop()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	srv := httptest.NewServer(s.Handler)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/v1/workflows/")
	require.NoError(t, err)
	var names []string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&names))
	resp.Body.Close()
	assert.Equal(t, []string{codereview.WorkflowName}, names)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateStore_Middleware(t *testing.T) {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}

	p, err := CreateStore(config.StoreConfig{
		Driver:        config.StoreMemory,
		EncryptionKey: base64.StdEncoding.EncodeToString(key),
		MaskFields:    []string{"password"},
	}, logging.NewNop())
	require.NoError(t, err)

	ctx := context.Background()
	run := domain.Run{
		ID:       "r1",
		Workflow: "wf",
		Status:   domain.RunCompleted,
		State:    domain.NewState("wf", map[string]any{"password": "hunter2", "user": "ada"}),
	}
	require.NoError(t, p.Store.Save(ctx, run))

	loaded, err := p.Store.Load(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "***", loaded.State.Data["password"])
	assert.Equal(t, "ada", loaded.State.Data["user"])

	_, err = CreateStore(config.StoreConfig{Driver: config.StoreMemory, EncryptionKey: "short"}, logging.NewNop())
	assert.Error(t, err)
}
