// Package queue consumes bank-transfer payment notifications from RabbitMQ
// and feeds them into the reservation reconciliation flow.
package queue

import (
	"strings"

	"github.com/shopspring/decimal"
)

// BankTransferEvent is the payment notification as published by the banking
// integration. Field names follow its wire format.
type BankTransferEvent struct {
	PaymentID              string `json:"paymentId"`
	AmountReceived         string `json:"amountReceived"`
	TransactionDescription string `json:"transactionDescription"`
	DebtorAccount          string `json:"debtorAccount"`
}

// ReservationID extracts the reservation id from the free-text transaction
// description. The banking side formats it as "<prefix> <reservation-id>
// <anything...>", so the id is the second whitespace-separated token. Returns
// "" when the description does not carry one.
func (e BankTransferEvent) ReservationID() string {
	fields := strings.Fields(e.TransactionDescription)
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}

// Amount parses the received amount. An empty field means "0", which the
// banking side sends for zero-value notifications.
func (e BankTransferEvent) Amount() (decimal.Decimal, error) {
	raw := strings.TrimSpace(e.AmountReceived)
	if raw == "" {
		raw = "0"
	}
	return decimal.NewFromString(raw)
}
