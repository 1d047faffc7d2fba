package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/locofvijay/room-reservation-service/internal/domain"
)

const recoveryInterval = time.Minute

// FailoverSeenRepository prefers the primary (Redis) seen store and drops to
// the in-memory fallback when it fails. Once a minute it probes the primary
// again. Dedup knowledge gathered while on the fallback is lost on recovery,
// which is acceptable because the reconcile path is idempotent.
type FailoverSeenRepository struct {
	primary  domain.SeenStore
	fallback domain.SeenStore
	logger   *zerolog.Logger

	isDown    atomic.Bool
	mu        sync.Mutex
	lastCheck time.Time
}

func NewFailoverSeenRepository(primary, fallback domain.SeenStore, logger *zerolog.Logger) *FailoverSeenRepository {
	return &FailoverSeenRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverSeenRepository) MarkSeen(ctx context.Context, paymentID string) (bool, error) {
	if !r.isDown.Load() || r.shouldProbe() {
		first, err := r.primary.MarkSeen(ctx, paymentID)
		if err == nil {
			r.isDown.Store(false)
			return first, nil
		}
		r.logger.Error().Err(err).Msg("primary seen store failed, falling back to memory")
		r.markDown()
	}

	return r.fallback.MarkSeen(ctx, paymentID)
}

func (r *FailoverSeenRepository) markDown() {
	r.isDown.Store(true)
	r.mu.Lock()
	r.lastCheck = time.Now()
	r.mu.Unlock()
}

// shouldProbe reports whether the primary is due for a recovery attempt.
func (r *FailoverSeenRepository) shouldProbe() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return time.Since(r.lastCheck) > recoveryInterval
}
