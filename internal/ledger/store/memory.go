package store

import (
	"context"
	"maps"
	"sync"

	"github.com/MidasLamb/banking-exercise/internal/ledger/entity"
	"github.com/MidasLamb/banking-exercise/internal/pkg/pkgerror"
)

// BatchStore keeps the metadata of ingested batches in memory.
type BatchStore struct {
	mu      sync.RWMutex
	batches map[string]*batchRecord
}

type batchRecord struct {
	mu   sync.RWMutex
	meta entity.BatchMeta
}

func NewBatchStore() *BatchStore {
	return &BatchStore{
		batches: make(map[string]*batchRecord),
	}
}

func (s *BatchStore) CreateBatch(ctx context.Context, meta entity.BatchMeta) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.batches[meta.ID]; exists {
		return pkgerror.NewBusiness("batch already exists", pkgerror.CodeConflict)
	}

	s.batches[meta.ID] = &batchRecord{
		meta: cloneMeta(meta),
	}

	return nil
}

func (s *BatchStore) UpdateMeta(ctx context.Context, batchID string, fn func(meta *entity.BatchMeta)) error {
	rec, err := s.get(batchID)
	if err != nil {
		return err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	fn(&rec.meta)

	return nil
}

func (s *BatchStore) GetBatch(ctx context.Context, batchID string) (entity.BatchMeta, error) {
	rec, err := s.get(batchID)
	if err != nil {
		return entity.BatchMeta{}, err
	}

	rec.mu.RLock()
	defer rec.mu.RUnlock()

	return cloneMeta(rec.meta), nil
}

func (s *BatchStore) get(batchID string) (*batchRecord, error) {
	s.mu.RLock()
	rec, ok := s.batches[batchID]
	s.mu.RUnlock()
	if !ok {
		return nil, pkgerror.ErrNotFound
	}

	return rec, nil
}

// cloneMeta keeps callers from sharing the outcome counters with the store.
func cloneMeta(meta entity.BatchMeta) entity.BatchMeta {
	meta.Outcomes = maps.Clone(meta.Outcomes)
	return meta
}
