package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Pure transition rules for the reservation lifecycle. No I/O happens here;
// the service, queue consumer and sweeper decide what to do with the result
// and are responsible for applying it atomically.

// StayDays returns the inclusive number of days between start and end.
func StayDays(start, end time.Time) int {
	return int(truncateDay(end).Sub(truncateDay(start))/(24*time.Hour)) + 1
}

// ValidateWindow checks the inclusive stay length against [1, MaxStayDays].
func ValidateWindow(start, end time.Time) (int, bool) {
	days := StayDays(start, end)
	if days <= 0 || days > MaxStayDays {
		return days, false
	}
	return days, true
}

// InitialStatus returns the status a reservation is persisted with. Only
// bank transfers start pending; cash and credit card resolve synchronously
// before anything is written, so they are persisted already confirmed.
func InitialStatus(mode string) string {
	if mode == PaymentBankTransfer {
		return StatusPendingPayment
	}
	return StatusConfirmed
}

// ApplyBankTransferPayment decides whether a received amount confirms a
// reservation. Returns (StatusConfirmed, true) only for a pending bank
// transfer paid in full; over-payment satisfies the obligation,
// under-payment leaves the reservation pending. Anything else is a no-op,
// which is what makes redelivered notifications harmless.
func ApplyBankTransferPayment(current, mode string, expected, received decimal.Decimal) (string, bool) {
	if mode != PaymentBankTransfer || current != StatusPendingPayment {
		return current, false
	}
	if received.Cmp(expected) < 0 {
		return current, false
	}
	return StatusConfirmed, true
}

// ApplyExpiry decides whether a reservation should be cancelled for never
// receiving its bank transfer. Only a pending bank transfer whose start date
// lies before the cutoff is cancelled.
func ApplyExpiry(current, mode string, startDate, cutoff time.Time) (string, bool) {
	if mode != PaymentBankTransfer || current != StatusPendingPayment {
		return current, false
	}
	if !truncateDay(startDate).Before(truncateDay(cutoff)) {
		return current, false
	}
	return StatusCancelled, true
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
