package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locofvijay/room-reservation-service/internal/models"
)

func setupTestDB(t *testing.T) *DB {
	logger := zerolog.New(os.Stdout)
	db, err := NewDB(":memory:", &logger)
	require.NoError(t, err)
	return db
}

func testReservation(id, mode, status string) *models.Reservation {
	return &models.Reservation{
		ID:           id,
		CustomerName: "Alice Walker",
		RoomNumber:   "101",
		StartDate:    mustDate("2026-09-01"),
		EndDate:      mustDate("2026-09-05"),
		RoomSegment:  models.SegmentMedium,
		PaymentMode:  mode,
		Amount:       decimal.RequireFromString("100.00"),
		Currency:     "EUR",
		Status:       status,
	}
}

func mustDate(s string) time.Time {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestCreateAndGetReservation(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	r := testReservation("RAAAA001", models.PaymentBankTransfer, models.StatusPendingPayment)
	r.PaymentReference = "REF-42"
	require.NoError(t, db.CreateReservation(ctx, r))

	got, err := db.GetReservation(ctx, "RAAAA001")
	require.NoError(t, err)
	assert.Equal(t, "Alice Walker", got.CustomerName)
	assert.Equal(t, "101", got.RoomNumber)
	assert.Equal(t, models.SegmentMedium, got.RoomSegment)
	assert.Equal(t, models.PaymentBankTransfer, got.PaymentMode)
	assert.Equal(t, "REF-42", got.PaymentReference)
	assert.Equal(t, models.StatusPendingPayment, got.Status)
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("100.00")))
	assert.Equal(t, "2026-09-01", got.StartDate.Format(models.DateLayout))
	assert.Equal(t, "2026-09-05", got.EndDate.Format(models.DateLayout))
}

func TestGetReservationNotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, err := db.GetReservation(context.Background(), "RMISSING")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateReservationDuplicateID(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, db.CreateReservation(ctx, testReservation("RDUP0001", models.PaymentCash, models.StatusConfirmed)))
	err := db.CreateReservation(ctx, testReservation("RDUP0001", models.PaymentCash, models.StatusConfirmed))
	assert.Error(t, err)
}

func TestUpdateStatusIfCurrent(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, db.CreateReservation(ctx, testReservation("RCAS0001", models.PaymentBankTransfer, models.StatusPendingPayment)))

	err := db.UpdateStatusIfCurrent(ctx, "RCAS0001", models.StatusPendingPayment, models.StatusConfirmed)
	require.NoError(t, err)

	got, err := db.GetReservation(ctx, "RCAS0001")
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, got.Status)

	// Second conditional update no longer matches the row.
	err = db.UpdateStatusIfCurrent(ctx, "RCAS0001", models.StatusPendingPayment, models.StatusCancelled)
	assert.ErrorIs(t, err, ErrStaleStatus)

	got, err = db.GetReservation(ctx, "RCAS0001")
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, got.Status)
}

func TestUpdateStatusIfCurrentUnknownID(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	err := db.UpdateStatusIfCurrent(context.Background(), "RNOPE000", models.StatusPendingPayment, models.StatusCancelled)
	assert.ErrorIs(t, err, ErrStaleStatus)
}

func TestListStalePendingBankTransfers(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()

	stale := testReservation("RSTALE01", models.PaymentBankTransfer, models.StatusPendingPayment)
	stale.StartDate = mustDate("2026-09-01")
	require.NoError(t, db.CreateReservation(ctx, stale))

	future := testReservation("RFUTUR01", models.PaymentBankTransfer, models.StatusPendingPayment)
	future.StartDate = mustDate("2026-09-20")
	future.EndDate = mustDate("2026-09-22")
	require.NoError(t, db.CreateReservation(ctx, future))

	confirmed := testReservation("RCONF001", models.PaymentBankTransfer, models.StatusConfirmed)
	require.NoError(t, db.CreateReservation(ctx, confirmed))

	cash := testReservation("RCASH001", models.PaymentCash, models.StatusPendingPayment)
	require.NoError(t, db.CreateReservation(ctx, cash))

	list, err := db.ListStalePendingBankTransfers(ctx, mustDate("2026-09-03"))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "RSTALE01", list[0].ID)

	// Zero matches is a valid sweep.
	list, err = db.ListStalePendingBankTransfers(ctx, mustDate("2026-08-01"))
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListReservationsByDateRange(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	for i, id := range []string{"RRANGE01", "RRANGE02", "RRANGE03"} {
		r := testReservation(id, models.PaymentCash, models.StatusConfirmed)
		r.StartDate = mustDate("2026-09-01").AddDate(0, 0, i*10)
		r.EndDate = r.StartDate.AddDate(0, 0, 2)
		require.NoError(t, db.CreateReservation(ctx, r))
	}

	list, err := db.ListReservationsByDateRange(ctx, mustDate("2026-09-01"), mustDate("2026-09-15"))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "RRANGE01", list[0].ID)
	assert.Equal(t, "RRANGE02", list[1].ID)
}
