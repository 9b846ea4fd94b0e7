package runs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/flowline/internal/logging"
	"github.com/aretw0/flowline/pkg/domain"
	"github.com/aretw0/flowline/pkg/ports"
	"github.com/aretw0/flowline/pkg/schema"
	"github.com/google/uuid"
)

// Executor runs registered workflows. *flowline.Engine satisfies it.
type Executor interface {
	Workflow(name string) (domain.Graph, error)
	Execute(ctx context.Context, name string, initialData map[string]any) (*domain.State, error)
}

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager launches runs and keeps their records current.
// It uses reference counting to garbage collect unused per-run locks.
type Manager struct {
	exec  Executor
	store ports.RunStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.RunLocker
	lockTTL time.Duration
	logger  *slog.Logger

	// Runs are detached from the request that started them.
	base   context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking of record writes.
func WithLocker(locker ports.RunLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the distributed lock expiry. Defaults to 30s.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a run Manager over an executor and a record store.
func NewManager(exec Executor, store ports.RunStore, opts ...Option) *Manager {
	base, cancel := context.WithCancel(context.Background())
	m := &Manager{
		exec:    exec,
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: 30 * time.Second,
		logger:  logging.NewNop(),
		base:    base,
		cancel:  cancel,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start validates that the workflow exists, records a new run and launches it.
// It returns immediately with the "started" record, whose State is the
// pending snapshot built from initialData.
func (m *Manager) Start(ctx context.Context, workflow string, initialData map[string]any) (domain.Run, error) {
	g, err := m.exec.Workflow(workflow)
	if err != nil {
		return domain.Run{}, err
	}
	if err := schema.ValidateInput(g.InputSchema, initialData); err != nil {
		return domain.Run{}, fmt.Errorf("workflow '%s': %w", workflow, err)
	}

	run := domain.Run{
		ID:        uuid.New().String(),
		Workflow:  workflow,
		Status:    domain.RunStarted,
		State:     domain.NewState(workflow, initialData),
		CreatedAt: time.Now().UTC(),
	}
	if err := m.save(ctx, run); err != nil {
		return domain.Run{}, fmt.Errorf("failed to record run: %w", err)
	}

	m.logger.Info("run started", "run_id", run.ID, "workflow", workflow)

	m.wg.Add(1)
	go m.execute(run.Clone(), initialData)

	return run, nil
}

func (m *Manager) execute(run domain.Run, initialData map[string]any) {
	defer m.wg.Done()
	ctx := m.base

	run.Status = domain.RunRunning
	if err := m.save(ctx, run); err != nil {
		m.logger.Error("failed to record run status", "run_id", run.ID, "status", run.Status, "err", err)
	}

	state, err := m.exec.Execute(ctx, run.Workflow, initialData)

	finished := time.Now().UTC()
	run.FinishedAt = &finished
	if state != nil {
		run.State = state
	}
	if err != nil {
		run.Status = domain.RunFailed
		run.Error = err.Error()
		m.logger.Warn("run failed", "run_id", run.ID, "workflow", run.Workflow, "err", err)
	} else {
		run.Status = domain.RunCompleted
		m.logger.Info("run completed", "run_id", run.ID, "workflow", run.Workflow, "steps", state.Steps)
	}

	// The final write must land even when the manager is shutting down.
	if err := m.save(context.WithoutCancel(ctx), run); err != nil {
		m.logger.Error("failed to record run result", "run_id", run.ID, "status", run.Status, "err", err)
	}
}

// Get returns the current record of a run, or ports.ErrRunNotFound.
func (m *Manager) Get(ctx context.Context, id string) (domain.Run, error) {
	var run domain.Run
	err := m.withLock(ctx, id, func(ctx context.Context) error {
		var err error
		run, err = m.store.Load(ctx, id)
		return err
	})
	return run, err
}

// List returns the ids of known runs.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Delete removes a run record.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.withLock(ctx, id, func(ctx context.Context) error {
		return m.store.Delete(ctx, id)
	})
}

// Store returns the underlying run store.
func (m *Manager) Store() ports.RunStore {
	return m.store
}

// Wait blocks until every launched run has finished.
func (m *Manager) Wait() {
	m.wg.Wait()
}

// Shutdown waits for in-flight runs. If ctx expires first, the runs are
// cancelled (they fail at the next node boundary) and awaited.
func (m *Manager) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.cancel()
		return nil
	case <-ctx.Done():
		m.cancel()
		<-done
		return ctx.Err()
	}
}

func (m *Manager) save(ctx context.Context, run domain.Run) error {
	return m.withLock(ctx, run.ID, func(ctx context.Context) error {
		return m.store.Save(ctx, run)
	})
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST lock entry.mu, and then call release(id) after unlocking.
func (m *Manager) acquire(id string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		entry = &lockEntry{}
		m.locks[id] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, id)
	}
}

// withLock executes fn while holding the lock for the run id.
func (m *Manager) withLock(ctx context.Context, id string, fn func(context.Context) error) error {
	entry := m.acquire(id)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(id)
	}()

	if m.locker != nil {
		release, err := m.locker.LockRun(ctx, id, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to lock run %s: %w", id, err)
		}
		defer func() {
			if err := release(ctx); err != nil {
				m.logger.Warn("run lock release failed, it lapses after its TTL",
					"run_id", id,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
