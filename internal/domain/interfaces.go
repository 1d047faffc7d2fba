package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/locofvijay/room-reservation-service/internal/models"
)

// Repository is the durable reservation store. UpdateStatusIfCurrent must be
// an atomic compare-and-set keyed on (id, expected current status); the
// reconciler and the sweeper both rely on it to make their race safe.
type Repository interface {
	CreateReservation(ctx context.Context, r *models.Reservation) error
	GetReservation(ctx context.Context, id string) (*models.Reservation, error)
	UpdateStatusIfCurrent(ctx context.Context, id, from, to string) error
	ListStalePendingBankTransfers(ctx context.Context, cutoff time.Time) ([]*models.Reservation, error)
	ListReservationsByDateRange(ctx context.Context, start, end time.Time) ([]*models.Reservation, error)
}

// PaymentStatus is the card verifier's answer for a payment reference.
type PaymentStatus struct {
	LastUpdateDate string `json:"lastUpdateDate"`
	Status         string `json:"status"`
}

// CardVerifier checks a credit-card payment with the external provider.
type CardVerifier interface {
	VerifyPayment(ctx context.Context, paymentReference string) (*PaymentStatus, error)
}

// ReservationConfirmer applies an inbound bank-transfer amount to a
// reservation. Implemented by the reservation service, consumed by the queue
// listener.
type ReservationConfirmer interface {
	ApplyBankTransfer(ctx context.Context, reservationID string, received decimal.Decimal) error
}

// EventPublisher pushes domain events to in-process subscribers.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// SeenStore remembers which notification ids were already processed. It is
// best effort: losing a mark only costs a duplicate log line, never a
// duplicate transition.
type SeenStore interface {
	MarkSeen(ctx context.Context, key string) (bool, error)
}
