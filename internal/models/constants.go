package models

// Reservation statuses. CONFIRMED and CANCELLED are terminal: once a
// reservation reaches one of them its status never changes again.
const (
	StatusPendingPayment = "PENDING_PAYMENT"
	StatusConfirmed      = "CONFIRMED"
	StatusCancelled      = "CANCELLED"
)

// Payment modes, fixed at creation.
const (
	PaymentCash         = "CASH"
	PaymentBankTransfer = "BANK_TRANSFER"
	PaymentCreditCard   = "CREDIT_CARD"
)

// Room segments.
const (
	SegmentSmall      = "SMALL"
	SegmentMedium     = "MEDIUM"
	SegmentLarge      = "LARGE"
	SegmentExtraLarge = "EXTRA_LARGE"
)

const (
	// DateLayout is the calendar-date format used in storage and on the wire.
	DateLayout = "2006-01-02"

	// MaxStayDays is the longest inclusive reservation window accepted.
	MaxStayDays = 30

	// DefaultGraceDays is how many days before a bank-transfer reservation's
	// start date the sweeper gives up waiting for payment.
	DefaultGraceDays = 2

	// DefaultSeenTTL время жизни отметки об обработанном уведомлении в Redis
	DefaultSeenTTL = 24 * 60 * 60 // 24 часа в секундах
)
