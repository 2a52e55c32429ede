package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gmoran-dev/csv-price-updater/internal/domain"
)

// BatchStore keeps completed batches in memory for a short window so clients
// can re-download exports by id instead of re-posting the whole result list.
// Entries vanish on expiry or process restart; nothing is persisted.
type BatchStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	batches map[uuid.UUID]*domain.Batch
	now     func() time.Time
}

func NewBatchStore(ttl time.Duration) *BatchStore {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &BatchStore{
		ttl:     ttl,
		batches: make(map[uuid.UUID]*domain.Batch),
		now:     time.Now,
	}
}

// Put stores a completed batch under a fresh id and returns the record.
func (s *BatchStore) Put(result domain.BatchResult) *domain.Batch {
	now := s.now()
	batch := &domain.Batch{
		ID:        uuid.New(),
		Result:    result,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked(now)
	s.batches[batch.ID] = batch
	return batch
}

// Get returns the batch for an id, or false when unknown or expired.
func (s *BatchStore) Get(id uuid.UUID) (*domain.Batch, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch, ok := s.batches[id]
	if !ok {
		return nil, false
	}
	if s.now().After(batch.ExpiresAt) {
		delete(s.batches, id)
		return nil, false
	}
	return batch, true
}

func (s *BatchStore) sweepLocked(now time.Time) {
	for id, batch := range s.batches {
		if now.After(batch.ExpiresAt) {
			delete(s.batches, id)
		}
	}
}
