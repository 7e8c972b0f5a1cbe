package event

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/MidasLamb/banking-exercise/internal/ledger/entity"
)

type Handler interface {
	Handle(ctx context.Context, ev entity.AccountLockedEvent) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, ev entity.AccountLockedEvent) error

func (f HandlerFunc) Handle(ctx context.Context, ev entity.AccountLockedEvent) error {
	return f(ctx, ev)
}

type ConsumerConfig struct {
	Workers     int
	MaxRetries  int
	BaseBackoff time.Duration
}

// LockConsumer delivers lock notifications to a Handler from a fixed pool of
// workers. A failed delivery is retried with doubling backoff; an event id is
// delivered at most once.
type LockConsumer struct {
	bus     *Bus
	handler Handler
	cfg     ConsumerConfig

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.Mutex
	delivered map[string]struct{}
}

func NewLockConsumer(bus *Bus, handler Handler, cfg ConsumerConfig) *LockConsumer {
	if cfg.Workers < 1 {
		cfg.Workers = 4
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 100 * time.Millisecond
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &LockConsumer{
		bus:       bus,
		handler:   handler,
		cfg:       cfg,
		ctx:       ctx,
		cancel:    cancel,
		delivered: make(map[string]struct{}),
	}
}

func (c *LockConsumer) Start() {
	for i := 0; i < c.cfg.Workers; i++ {
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			for {
				ev, ok := c.bus.receive()
				if !ok {
					return
				}
				c.deliver(ev)
			}
		}()
	}
}

// Stop closes the bus and waits for queued events to be delivered. When ctx
// ends first, pending retries are abandoned and ctx's error is returned.
func (c *LockConsumer) Stop(ctx context.Context) error {
	c.bus.Close()

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.cancel()
		return nil
	case <-ctx.Done():
		c.cancel()
		return ctx.Err()
	}
}

func (c *LockConsumer) deliver(ev entity.AccountLockedEvent) {
	if c.handler == nil || !c.claim(ev.EventID) {
		return
	}

	backoff := c.cfg.BaseBackoff
	for attempt := 0; ; attempt++ {
		err := c.handler.Handle(c.ctx, ev)
		if err == nil {
			return
		}

		if attempt == c.cfg.MaxRetries || !c.wait(backoff) {
			slog.Error("account locked event dropped",
				"event_id", ev.EventID,
				"client", ev.Client,
				"attempts", attempt+1,
				"error", err,
			)
			c.release(ev.EventID)
			return
		}
		backoff *= 2
	}
}

// claim reports whether id has not been handed to the handler before.
// Events without an id are always delivered.
func (c *LockConsumer) claim(id string) bool {
	if id == "" {
		return true
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, dup := c.delivered[id]; dup {
		slog.Debug("skip duplicate account locked event", "event_id", id)
		return false
	}
	c.delivered[id] = struct{}{}
	return true
}

// release forgets a dropped event so a later publish may deliver it.
func (c *LockConsumer) release(id string) {
	c.mu.Lock()
	delete(c.delivered, id)
	c.mu.Unlock()
}

func (c *LockConsumer) wait(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-c.ctx.Done():
		return false
	}
}

var errMissingEventID = errors.New("missing event id")

// LogNotifier writes each locked account to the log at warn level.
type LogNotifier struct{}

func (LogNotifier) Handle(ctx context.Context, ev entity.AccountLockedEvent) error {
	if ev.EventID == "" {
		return errMissingEventID
	}

	slog.WarnContext(ctx, "account locked after chargeback",
		"event_id", ev.EventID,
		"batch_id", ev.BatchID,
		"client", ev.Client,
		"tx", ev.TxID,
	)
	return nil
}
