// Package worker hosts the background jobs of the reservation service: the
// periodic expiry sweeper and the retry policy shared with the queue consumer.
package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/locofvijay/room-reservation-service/internal/database"
	"github.com/locofvijay/room-reservation-service/internal/domain"
	"github.com/locofvijay/room-reservation-service/internal/events"
	"github.com/locofvijay/room-reservation-service/internal/metrics"
	"github.com/locofvijay/room-reservation-service/internal/models"
)

// SweepReport summarizes one sweeper pass.
type SweepReport struct {
	Examined  int
	Cancelled int
	Skipped   int
	Failed    int
}

// ExpirySweeper cancels bank-transfer reservations that are still pending
// payment when their start date is closer than the grace period allows.
type ExpirySweeper struct {
	repo      domain.Repository
	eventBus  domain.EventPublisher
	graceDays int
	interval  time.Duration
	logger    *zerolog.Logger
	now       func() time.Time
}

func NewExpirySweeper(repo domain.Repository, eventBus domain.EventPublisher, graceDays int, interval time.Duration, logger *zerolog.Logger) *ExpirySweeper {
	if graceDays < 0 {
		graceDays = models.DefaultGraceDays
	}
	if interval <= 0 {
		interval = time.Hour
	}
	return &ExpirySweeper{
		repo:      repo,
		eventBus:  eventBus,
		graceDays: graceDays,
		interval:  interval,
		logger:    logger,
		now:       time.Now,
	}
}

// Start launches the periodic sweep. One pass runs immediately, then every
// interval until ctx is cancelled.
func (s *ExpirySweeper) Start(ctx context.Context) {
	go func() {
		s.runAndLog(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.runAndLog(ctx)
			}
		}
	}()
}

func (s *ExpirySweeper) runAndLog(ctx context.Context) {
	report, err := s.RunOnce(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("expiry sweep failed")
		return
	}
	s.logger.Info().
		Int("examined", report.Examined).
		Int("cancelled", report.Cancelled).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Msg("expiry sweep done")
}

// RunOnce performs a single sweep. The cutoff is today plus the grace period:
// a pending reservation starting before it has run out of time to pay.
// Records that transitioned between the listing and the update are skipped,
// the concurrent payment keeps its win.
func (s *ExpirySweeper) RunOnce(ctx context.Context) (SweepReport, error) {
	var report SweepReport

	cutoff := s.now().AddDate(0, 0, s.graceDays)
	stale, err := s.repo.ListStalePendingBankTransfers(ctx, cutoff)
	if err != nil {
		return report, err
	}
	report.Examined = len(stale)

	for _, r := range stale {
		next, ok := models.ApplyExpiry(r.Status, r.PaymentMode, r.StartDate, cutoff)
		if !ok {
			report.Skipped++
			continue
		}

		err := s.repo.UpdateStatusIfCurrent(ctx, r.ID, models.StatusPendingPayment, next)
		if err == database.ErrStaleStatus {
			s.logger.Info().Str("reservation_id", r.ID).Msg("reservation transitioned during sweep, skipping")
			report.Skipped++
			continue
		}
		if err != nil {
			s.logger.Error().Err(err).Str("reservation_id", r.ID).Msg("sweep: cancel reservation error")
			metrics.IncSweeperFailure()
			report.Failed++
			continue
		}

		s.logger.Info().
			Str("reservation_id", r.ID).
			Str("start_date", r.StartDate.Format(models.DateLayout)).
			Msg("pending reservation cancelled, payment deadline passed")
		metrics.IncSweeperCancelled()
		report.Cancelled++

		s.publishCancelled(r)
	}

	return report, nil
}

func (s *ExpirySweeper) publishCancelled(r *models.Reservation) {
	if s.eventBus == nil {
		return
	}

	payload := events.ReservationEventPayload{
		ReservationID: r.ID,
		CustomerName:  r.CustomerName,
		RoomNumber:    r.RoomNumber,
		StartDate:     r.StartDate.Format(models.DateLayout),
		EndDate:       r.EndDate.Format(models.DateLayout),
		PaymentMode:   r.PaymentMode,
		Amount:        r.Amount.String(),
		Currency:      r.Currency,
		Status:        models.StatusCancelled,
		Reason:        "payment deadline passed",
	}

	if err := s.eventBus.PublishJSON(events.EventReservationCancelled, payload); err != nil {
		s.logger.Error().Err(err).Str("reservation_id", r.ID).Msg("publish cancel event error")
	}
}
