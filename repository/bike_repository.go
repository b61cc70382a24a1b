package repository

import (
	"context"
	"sync"

	"bikefit/domain"
)

// BikeRepository serves the bike dataset in its stored order.
type BikeRepository interface {
	All(ctx context.Context) ([]domain.BikeRecord, error)
	Replace(ctx context.Context, records []domain.BikeRecord) error
}

type BikeRepositoryMemory struct {
	mu      sync.RWMutex
	records []domain.BikeRecord
}

func NewBikeRepositoryMemory(records []domain.BikeRecord) *BikeRepositoryMemory {
	return &BikeRepositoryMemory{records: records}
}

func (r *BikeRepositoryMemory) All(_ context.Context) ([]domain.BikeRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.BikeRecord, len(r.records))
	copy(out, r.records)
	return out, nil
}

func (r *BikeRepositoryMemory) Replace(_ context.Context, records []domain.BikeRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append([]domain.BikeRecord(nil), records...)
	return nil
}
