package worker

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locofvijay/room-reservation-service/internal/database"
	"github.com/locofvijay/room-reservation-service/internal/models"
)

// sweepRepo is a minimal repository fake driven by the sweeper tests.
type sweepRepo struct {
	reservations map[string]*models.Reservation
	updateErr    map[string]error
}

func newSweepRepo() *sweepRepo {
	return &sweepRepo{
		reservations: make(map[string]*models.Reservation),
		updateErr:    make(map[string]error),
	}
}

func (s *sweepRepo) CreateReservation(_ context.Context, r *models.Reservation) error {
	cp := *r
	s.reservations[r.ID] = &cp
	return nil
}

func (s *sweepRepo) GetReservation(_ context.Context, id string) (*models.Reservation, error) {
	r, ok := s.reservations[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return r, nil
}

func (s *sweepRepo) UpdateStatusIfCurrent(_ context.Context, id, from, to string) error {
	if err, ok := s.updateErr[id]; ok {
		return err
	}
	r, ok := s.reservations[id]
	if !ok || r.Status != from {
		return database.ErrStaleStatus
	}
	r.Status = to
	return nil
}

func (s *sweepRepo) ListStalePendingBankTransfers(_ context.Context, cutoff time.Time) ([]*models.Reservation, error) {
	var out []*models.Reservation
	for _, r := range s.reservations {
		if r.Status == models.StatusPendingPayment &&
			r.PaymentMode == models.PaymentBankTransfer &&
			r.StartDate.Before(cutoff) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *sweepRepo) ListReservationsByDateRange(context.Context, time.Time, time.Time) ([]*models.Reservation, error) {
	return nil, nil
}

func pendingTransfer(id string, start time.Time) *models.Reservation {
	return &models.Reservation{
		ID:          id,
		RoomNumber:  "101",
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, 2),
		RoomSegment: models.SegmentMedium,
		PaymentMode: models.PaymentBankTransfer,
		Amount:      decimal.RequireFromString("100.00"),
		Currency:    "EUR",
		Status:      models.StatusPendingPayment,
	}
}

func newTestSweeper(repo *sweepRepo, now time.Time) *ExpirySweeper {
	logger := zerolog.Nop()
	s := NewExpirySweeper(repo, nil, 2, time.Hour, &logger)
	s.now = func() time.Time { return now }
	return s
}

func TestSweepCancelsStalePending(t *testing.T) {
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	repo := newSweepRepo()

	// Starts tomorrow, inside the 2-day grace cutoff.
	require.NoError(t, repo.CreateReservation(context.Background(), pendingTransfer("RSTALE01", now.AddDate(0, 0, 1))))
	// Starts in a week, still has time to pay.
	require.NoError(t, repo.CreateReservation(context.Background(), pendingTransfer("RFRESH01", now.AddDate(0, 0, 7))))

	sweeper := newTestSweeper(repo, now)
	report, err := sweeper.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, SweepReport{Examined: 1, Cancelled: 1}, report)
	assert.Equal(t, models.StatusCancelled, repo.reservations["RSTALE01"].Status)
	assert.Equal(t, models.StatusPendingPayment, repo.reservations["RFRESH01"].Status)
}

func TestSweepSkipsConcurrentlyConfirmed(t *testing.T) {
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	repo := newSweepRepo()
	require.NoError(t, repo.CreateReservation(context.Background(), pendingTransfer("RRACE001", now.AddDate(0, 0, 1))))

	// A payment lands between the listing and the conditional update.
	repo.updateErr["RRACE001"] = database.ErrStaleStatus

	sweeper := newTestSweeper(repo, now)
	report, err := sweeper.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, SweepReport{Examined: 1, Skipped: 1}, report)
	assert.Equal(t, models.StatusPendingPayment, repo.reservations["RRACE001"].Status)
}

func TestSweepCountsFailures(t *testing.T) {
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	repo := newSweepRepo()
	require.NoError(t, repo.CreateReservation(context.Background(), pendingTransfer("RFAIL001", now.AddDate(0, 0, 1))))
	require.NoError(t, repo.CreateReservation(context.Background(), pendingTransfer("ROK00001", now.AddDate(0, 0, 1))))

	repo.updateErr["RFAIL001"] = context.DeadlineExceeded

	sweeper := newTestSweeper(repo, now)
	report, err := sweeper.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Examined)
	assert.Equal(t, 1, report.Cancelled)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, models.StatusCancelled, repo.reservations["ROK00001"].Status)
}

func TestSweepEmpty(t *testing.T) {
	repo := newSweepRepo()
	sweeper := newTestSweeper(repo, time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC))

	report, err := sweeper.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SweepReport{}, report)
}

func TestRetryPolicyNextDelay(t *testing.T) {
	policy := RetryPolicy{InitialDelay: time.Second, BackoffFactor: 2, MaxDelay: 5 * time.Second}

	assert.Equal(t, time.Second, policy.NextDelay(1))
	assert.Equal(t, 2*time.Second, policy.NextDelay(2))
	assert.Equal(t, 5*time.Second, policy.NextDelay(5), "delay must be capped at MaxDelay")
}
