package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/MidasLamb/banking-exercise/internal/ledger/entity"
	"github.com/MidasLamb/banking-exercise/internal/pkg/pkgerror"
	"github.com/MidasLamb/banking-exercise/internal/pkg/pkglog"
	"github.com/MidasLamb/banking-exercise/internal/pkg/pkguid"
)

type Store interface {
	CreateBatch(ctx context.Context, meta entity.BatchMeta) error
	UpdateMeta(ctx context.Context, batchID string, fn func(meta *entity.BatchMeta)) error
	GetBatch(ctx context.Context, batchID string) (entity.BatchMeta, error)
}

type Ledger interface {
	Route(ev entity.Event) (entity.Outcome, error)
	SnapshotAll() []entity.AccountView
	Snapshot(client entity.ClientID) (entity.AccountView, bool)
}

type EventPublisher interface {
	Publish(ctx context.Context, event entity.AccountLockedEvent) error
}

type Runner interface {
	Go(ctx context.Context, f func(ctx context.Context) error)
}

type Clock interface {
	Now() time.Time
}

type Dependency struct {
	Store   Store
	Ledger  Ledger
	Events  EventPublisher
	Runner  Runner
	Clock   Clock
	ID      pkguid.StringID
	EventID pkguid.NumberID
	Strict  bool
	RootCtx context.Context
}

type Usecase struct {
	store   Store
	ledger  Ledger
	events  EventPublisher
	runner  Runner
	clock   Clock
	id      pkguid.StringID
	eventID pkguid.NumberID
	strict  bool
	rootCtx context.Context

	// one batch at a time keeps each client's events in input order
	ingestMu sync.Mutex
}

func New(dep Dependency) *Usecase {
	root := dep.RootCtx
	if root == nil {
		root = context.Background()
	}

	clock := dep.Clock
	if clock == nil {
		clock = realClock{}
	}

	return &Usecase{
		store:   dep.Store,
		ledger:  dep.Ledger,
		events:  dep.Events,
		runner:  dep.Runner,
		clock:   clock,
		id:      dep.ID,
		eventID: dep.EventID,
		strict:  dep.Strict,
		rootCtx: root,
	}
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// Ingest registers a new batch and applies it in the background. The batch
// status can be polled with Batch.
func (u *Usecase) Ingest(ctx context.Context, r io.Reader) (IngestResult, error) {
	if u.store == nil || u.ledger == nil || u.id == nil || u.runner == nil {
		return IngestResult{}, pkgerror.NewServer(errors.New("missing dependency"))
	}

	batchID, err := u.createBatch(ctx)
	if err != nil {
		return IngestResult{}, err
	}

	// the batch outlives the request, so only its correlation id is carried over
	bctx := pkglog.WithCorrelationID(u.rootCtx, pkglog.CorrelationID(ctx))

	u.runner.Go(bctx, func(ctx context.Context) error {
		// a batch aborted early must still drain r so the producer is released
		defer func() { _, _ = io.Copy(io.Discard, r) }()

		if err := u.processBatch(ctx, batchID, r); err != nil {
			slog.ErrorContext(pkglog.WithBatchID(ctx, batchID), "batch processing failed", "error", err)
			return err
		}
		return nil
	})

	return IngestResult{BatchID: batchID}, nil
}

// Run registers a batch and applies it before returning.
func (u *Usecase) Run(ctx context.Context, r io.Reader) (BatchResult, error) {
	if u.store == nil || u.ledger == nil || u.id == nil {
		return BatchResult{}, pkgerror.NewServer(errors.New("missing dependency"))
	}

	batchID, err := u.createBatch(ctx)
	if err != nil {
		return BatchResult{}, err
	}

	procErr := u.processBatch(ctx, batchID, r)

	meta, err := u.store.GetBatch(ctx, batchID)
	if err != nil {
		return BatchResult{}, mapStoreErr(err)
	}

	return BatchResult{Meta: meta}, procErr
}

func (u *Usecase) Batch(ctx context.Context, batchID string) (BatchResult, error) {
	if batchID == "" {
		return BatchResult{}, pkgerror.NewInvalidInput(errors.New("batch_id is required"))
	}

	meta, err := u.store.GetBatch(ctx, batchID)
	if err != nil {
		return BatchResult{}, mapStoreErr(err)
	}

	return BatchResult{Meta: meta}, nil
}

func (u *Usecase) Accounts(ctx context.Context) (AccountsResult, error) {
	return AccountsResult{Accounts: u.ledger.SnapshotAll()}, nil
}

func (u *Usecase) Account(ctx context.Context, client entity.ClientID) (entity.AccountView, error) {
	view, ok := u.ledger.Snapshot(client)
	if !ok {
		return entity.AccountView{}, pkgerror.NewNotFound("account")
	}

	return view, nil
}

func (u *Usecase) createBatch(ctx context.Context) (string, error) {
	batchID := u.id.Generate()
	if err := u.store.CreateBatch(ctx, entity.BatchMeta{
		ID:     batchID,
		Status: entity.BatchStatusQueued,
	}); err != nil {
		return "", normalizeErr(err)
	}

	return batchID, nil
}

func (u *Usecase) processBatch(ctx context.Context, batchID string, r io.Reader) error {
	u.ingestMu.Lock()
	defer u.ingestMu.Unlock()

	ctx = pkglog.WithBatchID(ctx, batchID)

	startedAt := u.clock.Now().Unix()
	if err := u.store.UpdateMeta(ctx, batchID, func(meta *entity.BatchMeta) {
		meta.Status = entity.BatchStatusProcessing
		meta.StartedAt = startedAt
	}); err != nil {
		return err
	}

	outcomes := make(map[entity.Outcome]int64)
	stats, err := parseCSV(ctx, r, u.strict, func(ev entity.Event) error {
		outcome, err := u.ledger.Route(ev)
		if err != nil {
			return pkgerror.NewServer(err)
		}

		outcomes[outcome]++
		slog.DebugContext(ctx, "event applied", "client", ev.ClientID(), "outcome", outcome)

		if outcome == entity.OutcomeChargebacked {
			u.publishLocked(ctx, batchID, ev)
		}
		return nil
	})

	endedAt := u.clock.Now().Unix()
	status := entity.BatchStatusDone
	errMsg := ""
	if err != nil {
		status = entity.BatchStatusFailed
		errMsg = err.Error()
	}

	if metaErr := u.store.UpdateMeta(ctx, batchID, func(meta *entity.BatchMeta) {
		meta.Status = status
		meta.Err = errMsg
		meta.EndedAt = endedAt
		meta.TotalLines = stats.TotalLines
		meta.ParsedOK = stats.ParsedOK
		meta.ParseErr = stats.ParseErr
		meta.Outcomes = outcomes
	}); metaErr != nil {
		return metaErr
	}

	slog.InfoContext(ctx, "batch processed",
		"status", status,
		"total_lines", stats.TotalLines,
		"parse_errors", stats.ParseErr,
	)

	return err
}

func (u *Usecase) publishLocked(ctx context.Context, batchID string, ev entity.Event) {
	if u.events == nil {
		return
	}

	action, ok := ev.(entity.DisputeAction)
	if !ok {
		return
	}

	event := entity.AccountLockedEvent{
		EventID: u.nextEventID(),
		BatchID: batchID,
		Client:  action.Client,
		TxID:    action.TxID,
	}
	if err := u.events.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to publish event", "event_id", event.EventID, "error", err)
	}
}

func (u *Usecase) nextEventID() string {
	if u.eventID != nil {
		return strconv.FormatInt(u.eventID.Generate(), 10)
	}
	return u.id.Generate()
}

func mapStoreErr(err error) error {
	if errors.Is(err, pkgerror.ErrNotFound) {
		return pkgerror.NewNotFound("batch")
	}
	return normalizeErr(err)
}

func normalizeErr(err error) error {
	if perr, ok := pkgerror.As(err); ok {
		return perr
	}
	return pkgerror.NewServer(err)
}
