package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Reservation is a booking of one room for an inclusive date range with an
// associated payment obligation. Status is the only field mutated after
// creation.
type Reservation struct {
	ID               string          `json:"id"`
	CustomerName     string          `json:"customer_name"`
	RoomNumber       string          `json:"room_number"`
	StartDate        time.Time       `json:"start_date"`
	EndDate          time.Time       `json:"end_date"`
	RoomSegment      string          `json:"room_segment"`
	PaymentMode      string          `json:"payment_mode"`
	PaymentReference string          `json:"payment_reference,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	Status           string          `json:"status"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// Room описывает позицию из каталога комнат (configs/rooms.yaml)
type Room struct {
	ID      int64  `yaml:"id" json:"id"`
	Number  string `yaml:"number" json:"number"`
	Segment string `yaml:"segment" json:"segment"`
}

// ParseRoomSegment normalizes a case-insensitive segment name.
func ParseRoomSegment(raw string) (string, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case SegmentSmall:
		return SegmentSmall, true
	case SegmentMedium:
		return SegmentMedium, true
	case SegmentLarge:
		return SegmentLarge, true
	case SegmentExtraLarge:
		return SegmentExtraLarge, true
	default:
		return "", false
	}
}

// ParsePaymentMode normalizes a case-insensitive payment mode name.
func ParsePaymentMode(raw string) (string, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case PaymentCash:
		return PaymentCash, true
	case PaymentBankTransfer:
		return PaymentBankTransfer, true
	case PaymentCreditCard:
		return PaymentCreditCard, true
	default:
		return "", false
	}
}
