package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/locofvijay/room-reservation-service/internal/models"
)

func TestWriteReport(t *testing.T) {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)

	reservations := []*models.Reservation{
		{
			ID:           "RA1B2C3D",
			CustomerName: "Bob Ross",
			RoomNumber:   "305",
			RoomSegment:  models.SegmentMedium,
			StartDate:    start,
			EndDate:      start.AddDate(0, 0, 3),
			PaymentMode:  models.PaymentCash,
			Amount:       decimal.RequireFromString("100.00"),
			Currency:     "EUR",
			Status:       models.StatusConfirmed,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, start, end, reservations))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 3)

	assert.Equal(t, "Reservation ID", rows[1][0])
	assert.Equal(t, "RA1B2C3D", rows[2][0])
	assert.Equal(t, "Bob Ross", rows[2][1])
	assert.Equal(t, "100.00", rows[2][7])
	assert.Equal(t, "CONFIRMED", rows[2][9])
}

func TestWriteReportEmpty(t *testing.T) {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, start, start, nil))
	assert.NotZero(t, buf.Len())
}

func TestFileName(t *testing.T) {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "reservations_2026-09-01_to_2026-09-30.xlsx", FileName(start, end))
}
