// Package notify pushes reservation lifecycle updates to the manager chat
// in Telegram.
package notify

import (
	"encoding/json"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/locofvijay/room-reservation-service/internal/events"
)

// Sender is the slice of the Telegram bot API the notifier needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier forwards reservation events to a Telegram chat.
type Notifier struct {
	sender Sender
	chatID int64
	logger *zerolog.Logger
}

func NewNotifier(sender Sender, chatID int64, logger *zerolog.Logger) *Notifier {
	return &Notifier{
		sender: sender,
		chatID: chatID,
		logger: logger,
	}
}

// Subscribe attaches the notifier to confirmation and cancellation events.
// Creation events are skipped, they would only add noise.
func (n *Notifier) Subscribe(bus *events.EventBus) {
	bus.Subscribe(events.EventReservationConfirmed, n.handleEvent)
	bus.Subscribe(events.EventReservationCancelled, n.handleEvent)
}

func (n *Notifier) handleEvent(event *events.Event) error {
	var payload events.ReservationEventPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		n.logger.Error().Err(err).Str("event_type", event.Type).Msg("decode event payload error")
		return err
	}

	msg := tgbotapi.NewMessage(n.chatID, formatMessage(event.Type, payload))
	if _, err := n.sender.Send(msg); err != nil {
		n.logger.Error().Err(err).Str("reservation_id", payload.ReservationID).Msg("send telegram notification error")
		return err
	}
	return nil
}

func formatMessage(eventType string, p events.ReservationEventPayload) string {
	switch eventType {
	case events.EventReservationConfirmed:
		return fmt.Sprintf("✅ Reservation %s confirmed\nGuest: %s\nRoom: %s (%s)\nStay: %s - %s\nPaid: %s %s",
			p.ReservationID, p.CustomerName, p.RoomNumber, p.PaymentMode, p.StartDate, p.EndDate, p.Amount, p.Currency)
	case events.EventReservationCancelled:
		text := fmt.Sprintf("❌ Reservation %s cancelled\nGuest: %s\nRoom: %s\nStay: %s - %s",
			p.ReservationID, p.CustomerName, p.RoomNumber, p.StartDate, p.EndDate)
		if p.Reason != "" {
			text += "\nReason: " + p.Reason
		}
		return text
	default:
		return fmt.Sprintf("Reservation %s is now %s", p.ReservationID, p.Status)
	}
}
