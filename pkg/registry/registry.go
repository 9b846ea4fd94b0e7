package registry

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/flowline/pkg/domain"
)

// Kind declares how a handler delivers its result.
type Kind int

const (
	// KindSync handlers return their result directly.
	KindSync Kind = iota
	// KindAsync handlers return a channel that delivers exactly one Outcome.
	KindAsync
)

func (k Kind) String() string {
	if k == KindAsync {
		return "async"
	}
	return "sync"
}

// Outcome is the single value delivered by an asynchronous handler.
type Outcome struct {
	Result any
	Err    error
}

// Func is the signature of a synchronous handler.
// The returned value is merged into the state when it is a mapping
// (map[string]any, domain.Update or domain.Decision) and is used raw
// to pick the branch of a condition node.
type Func func(ctx context.Context, state *domain.State) (any, error)

// AsyncFunc is the signature of a suspending handler. The engine awaits the
// channel before moving on; no other node of the run executes meanwhile.
type AsyncFunc func(ctx context.Context, state *domain.State) <-chan Outcome

// Handler is the capability invoked by the engine for every node.
type Handler interface {
	Kind() Kind
	Execute(ctx context.Context, state *domain.State) (any, error)
}

type syncHandler struct{ fn Func }

func (h syncHandler) Kind() Kind { return KindSync }

func (h syncHandler) Execute(ctx context.Context, state *domain.State) (any, error) {
	return h.fn(ctx, state)
}

type asyncHandler struct{ fn AsyncFunc }

func (h asyncHandler) Kind() Kind { return KindAsync }

// Execute awaits the outcome or the cancellation of ctx.
func (h asyncHandler) Execute(ctx context.Context, state *domain.State) (any, error) {
	ch := h.fn(ctx, state)
	if ch == nil {
		return nil, nil
	}
	select {
	case out, ok := <-ch:
		if !ok {
			return nil, nil
		}
		return out.Result, out.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Sync wraps a synchronous function as a Handler.
func Sync(fn Func) Handler { return syncHandler{fn: fn} }

// Async wraps a suspending function as a Handler.
func Async(fn AsyncFunc) Handler { return asyncHandler{fn: fn} }

// Handlers maps handler names to implementations.
type Handlers struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewHandlers creates a new empty handler registry.
func NewHandlers() *Handlers {
	return &Handlers{
		handlers: make(map[string]Handler),
	}
}

// Register adds a handler to the registry.
// If a handler with the same name exists, it is overwritten.
func (r *Handlers) Register(name string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = h
}

// RegisterFunc registers a synchronous function.
func (r *Handlers) RegisterFunc(name string, fn Func) {
	r.Register(name, Sync(fn))
}

// RegisterAsync registers a suspending function.
func (r *Handlers) RegisterAsync(name string, fn AsyncFunc) {
	r.Register(name, Async(fn))
}

// Resolve looks up a handler by name.
func (r *Handlers) Resolve(name string) (Handler, error) {
	r.mu.RLock()
	h, ok := r.handlers[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &domain.HandlerNotFoundError{Name: name}
	}
	return h, nil
}

// Names returns the registered handler names in sorted order.
func (r *Handlers) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.handlers)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
