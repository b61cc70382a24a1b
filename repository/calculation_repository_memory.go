package repository

import (
	"context"
	"sync"

	"bikefit/domain"
)

// CalculationRepositoryMemory keeps the newest calculations in a fixed-size
// ring; older ones are overwritten.
type CalculationRepositoryMemory struct {
	mu   sync.Mutex
	ring []domain.CalculationRecord
	next int
	full bool
}

// NewCalculationRepositoryMemory creates an in-memory calculation repository
// holding at most capacity records.
func NewCalculationRepositoryMemory(capacity int) *CalculationRepositoryMemory {
	if capacity < 1 {
		capacity = 1
	}
	return &CalculationRepositoryMemory{
		ring: make([]domain.CalculationRecord, capacity),
	}
}

// Save stores the calculation, evicting the oldest one when full.
func (r *CalculationRepositoryMemory) Save(_ context.Context, rec domain.CalculationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ring[r.next] = rec
	r.next = (r.next + 1) % len(r.ring)
	if r.next == 0 {
		r.full = true
	}
	return nil
}

func (r *CalculationRepositoryMemory) Recent(_ context.Context, limit int) ([]domain.CalculationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := r.next
	if r.full {
		n = len(r.ring)
	}
	if limit < n {
		n = limit
	}
	out := make([]domain.CalculationRecord, 0, max(n, 0))
	for i := 1; i <= n; i++ {
		out = append(out, r.ring[(r.next-i+len(r.ring))%len(r.ring)])
	}
	return out, nil
}

// Len returns the number of records held.
func (r *CalculationRepositoryMemory) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.full {
		return len(r.ring)
	}
	return r.next
}
