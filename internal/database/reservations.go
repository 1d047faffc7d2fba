package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/locofvijay/room-reservation-service/internal/models"
)

const reservationColumns = `id, customer_name, room_number, start_date, end_date,
                 room_segment, payment_mode, payment_reference, amount,
                 currency, status, created_at, updated_at`

func (db *DB) CreateReservation(ctx context.Context, r *models.Reservation) error {
	query := `INSERT INTO reservations (
                id, customer_name, room_number, start_date, end_date,
                room_segment, payment_mode, payment_reference, amount,
                currency, status, created_at, updated_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	_, err := db.ExecContext(ctx, query,
		r.ID,
		r.CustomerName,
		r.RoomNumber,
		r.StartDate.Format(models.DateLayout),
		r.EndDate.Format(models.DateLayout),
		r.RoomSegment,
		r.PaymentMode,
		r.PaymentReference,
		r.Amount.String(),
		r.Currency,
		r.Status,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}
	r.CreatedAt = now
	r.UpdatedAt = now
	return nil
}

func (db *DB) GetReservation(ctx context.Context, id string) (*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	r, err := scanReservation(db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reservation %s: %w", id, err)
	}
	return r, nil
}

// UpdateStatusIfCurrent moves a reservation from one status to another as a
// single conditional write. Zero affected rows means another writer won the
// race (or the id does not exist) and ErrStaleStatus is returned; the row is
// left exactly as the winner wrote it.
func (db *DB) UpdateStatusIfCurrent(ctx context.Context, id, from, to string) error {
	query := `UPDATE reservations SET status = ?, updated_at = ? WHERE id = ? AND status = ?`
	result, err := db.ExecContext(ctx, query, to, time.Now(), id, from)
	if err != nil {
		return fmt.Errorf("failed to update reservation status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrStaleStatus
	}
	return nil
}

// ListStalePendingBankTransfers returns pending bank-transfer reservations
// whose start date lies strictly before the cutoff date.
func (db *DB) ListStalePendingBankTransfers(ctx context.Context, cutoff time.Time) ([]*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + `
              FROM reservations
              WHERE status = ? AND payment_mode = ? AND start_date < ?
              ORDER BY start_date ASC`
	rows, err := db.QueryContext(ctx, query,
		models.StatusPendingPayment, models.PaymentBankTransfer, cutoff.Format(models.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to list stale reservations: %w", err)
	}
	defer rows.Close()

	return collectReservations(rows)
}

// ListReservationsByDateRange returns reservations whose start date falls in
// [start, end], used by the export report.
func (db *DB) ListReservationsByDateRange(ctx context.Context, start, end time.Time) ([]*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + `
              FROM reservations
              WHERE start_date >= ? AND start_date <= ?
              ORDER BY start_date ASC, id ASC`
	rows, err := db.QueryContext(ctx, query,
		start.Format(models.DateLayout), end.Format(models.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations by date range: %w", err)
	}
	defer rows.Close()

	return collectReservations(rows)
}

func collectReservations(rows *sql.Rows) ([]*models.Reservation, error) {
	var reservations []*models.Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return reservations, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(row rowScanner) (*models.Reservation, error) {
	var (
		r                models.Reservation
		startStr, endStr string
		paymentRef       sql.NullString
		amountStr        string
	)
	err := row.Scan(
		&r.ID, &r.CustomerName, &r.RoomNumber, &startStr, &endStr,
		&r.RoomSegment, &r.PaymentMode, &paymentRef, &amountStr,
		&r.Currency, &r.Status, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if r.StartDate, err = time.Parse(models.DateLayout, startStr); err != nil {
		return nil, fmt.Errorf("failed to parse start date %s: %w", startStr, err)
	}
	if r.EndDate, err = time.Parse(models.DateLayout, endStr); err != nil {
		return nil, fmt.Errorf("failed to parse end date %s: %w", endStr, err)
	}
	if r.Amount, err = decimal.NewFromString(amountStr); err != nil {
		return nil, fmt.Errorf("failed to parse amount %s: %w", amountStr, err)
	}
	r.PaymentReference = paymentRef.String

	return &r, nil
}
