package repository

import (
	"context"
	"sync"
	"time"
)

// MemorySeenRepository is the in-process fallback for the Redis seen store.
// Entries expire lazily on the next lookup of the same key.
type MemorySeenRepository struct {
	mu   sync.Mutex
	seen map[string]time.Time
	ttl  time.Duration
}

func NewMemorySeenRepository(ttl time.Duration) *MemorySeenRepository {
	return &MemorySeenRepository{
		seen: make(map[string]time.Time),
		ttl:  ttl,
	}
}

func (r *MemorySeenRepository) MarkSeen(_ context.Context, paymentID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if expiresAt, ok := r.seen[paymentID]; ok && now.Before(expiresAt) {
		return false, nil
	}

	r.seen[paymentID] = now.Add(r.ttl)
	return true, nil
}
