package pkgroutine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
)

// DefaultMaxGoroutine is used when NewManager receives a non-positive limit.
const DefaultMaxGoroutine = 10

// ErrPanic wraps the value recovered from a panicking task.
var ErrPanic = errors.New("goroutine panicked")

// Manager bounds how many tasks run at once. Go blocks while every slot is
// taken, and Wait joins the errors of all finished tasks.
type Manager struct {
	wg   sync.WaitGroup
	sema chan struct{}

	mu   sync.Mutex
	errs []error
}

func NewManager(maxGoroutine int) *Manager {
	if maxGoroutine < 1 {
		maxGoroutine = DefaultMaxGoroutine
	}

	return &Manager{sema: make(chan struct{}, maxGoroutine)}
}

// Go runs f once a slot frees up. If ctx ends first, f never runs and the
// context error is recorded.
func (g *Manager) Go(ctx context.Context, f func(ctx context.Context) error) {
	select {
	case g.sema <- struct{}{}:
	case <-ctx.Done():
		slog.WarnContext(ctx, "goroutine canceled before start", "error", ctx.Err())
		g.record(fmt.Errorf("not started: %w", ctx.Err()))
		return
	}

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer func() { <-g.sema }()

		g.record(g.run(ctx, f))
	}()
}

func (g *Manager) run(ctx context.Context, f func(ctx context.Context) error) (err error) {
	defer func() {
		if rvr := recover(); rvr != nil {
			slog.ErrorContext(ctx, "panic occurred in goroutine", "panic", rvr, "stack", string(debug.Stack()))
			err = fmt.Errorf("%w: %v", ErrPanic, rvr)
		}
	}()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("not started: %w", err)
	}

	return f(ctx)
}

func (g *Manager) record(err error) {
	if err == nil {
		return
	}

	g.mu.Lock()
	g.errs = append(g.errs, err)
	g.mu.Unlock()
}

// Wait blocks until every started task returns.
func (g *Manager) Wait() error {
	g.wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()

	return errors.Join(g.errs...)
}
