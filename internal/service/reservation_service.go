package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/locofvijay/room-reservation-service/internal/database"
	"github.com/locofvijay/room-reservation-service/internal/domain"
	"github.com/locofvijay/room-reservation-service/internal/events"
	"github.com/locofvijay/room-reservation-service/internal/metrics"
	"github.com/locofvijay/room-reservation-service/internal/models"
)

// ConfirmRequest is a validated reservation request. Dates are calendar
// dates; enum fields are matched case-insensitively.
type ConfirmRequest struct {
	CustomerName     string
	RoomNumber       string
	StartDate        time.Time
	EndDate          time.Time
	RoomSegment      string
	PaymentMode      string
	PaymentReference string
	Amount           decimal.Decimal
	Currency         string
}

// ConfirmResult is what the caller gets back for a persisted reservation.
type ConfirmResult struct {
	ReservationID string
	Status        string
}

type ReservationService struct {
	repo     domain.Repository
	verifier domain.CardVerifier
	eventBus domain.EventPublisher
	genID    IDGenerator
	logger   *zerolog.Logger
}

func NewReservationService(repo domain.Repository, verifier domain.CardVerifier, eventBus domain.EventPublisher, logger *zerolog.Logger) *ReservationService {
	return &ReservationService{
		repo:     repo,
		verifier: verifier,
		eventBus: eventBus,
		genID:    NewReservationID,
		logger:   logger,
	}
}

// WithIDGenerator overrides reservation id generation, for tests.
func (s *ReservationService) WithIDGenerator(gen IDGenerator) *ReservationService {
	s.genID = gen
	return s
}

// Confirm runs the create-and-confirm workflow. Cash confirms immediately,
// credit card blocks on the external verifier before anything is persisted,
// bank transfer is persisted pending and left to the reconciler or the
// sweeper. On validation failure or card rejection nothing is persisted.
func (s *ReservationService) Confirm(ctx context.Context, req ConfirmRequest) (*ConfirmResult, error) {
	s.logger.Info().
		Str("customer", req.CustomerName).
		Str("room", req.RoomNumber).
		Msg("confirm reservation request")

	if _, ok := models.ValidateWindow(req.StartDate, req.EndDate); !ok {
		return nil, fmt.Errorf("%w: reservation length must be between 1 and %d days",
			ErrInvalidReservation, models.MaxStayDays)
	}

	segment, ok := models.ParseRoomSegment(req.RoomSegment)
	if !ok {
		return nil, fmt.Errorf("%w: unknown room segment %q", ErrInvalidReservation, req.RoomSegment)
	}

	mode, ok := models.ParsePaymentMode(req.PaymentMode)
	if !ok {
		return nil, fmt.Errorf("%w: unknown payment mode %q", ErrInvalidReservation, req.PaymentMode)
	}

	if req.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: amount must not be negative", ErrInvalidReservation)
	}

	r := &models.Reservation{
		ID:               s.genID(),
		CustomerName:     req.CustomerName,
		RoomNumber:       req.RoomNumber,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		RoomSegment:      segment,
		PaymentMode:      mode,
		PaymentReference: req.PaymentReference,
		Amount:           req.Amount,
		Currency:         req.Currency,
	}

	switch mode {
	case models.PaymentCash:
		r.Status = models.StatusConfirmed
		if err := s.repo.CreateReservation(ctx, r); err != nil {
			return nil, err
		}
		s.logger.Info().Str("reservation_id", r.ID).Msg("reservation confirmed (cash)")
		metrics.IncReservation(mode, r.Status)
		s.publishEvent(events.EventReservationCreated, r, "")
		return &ConfirmResult{ReservationID: r.ID, Status: r.Status}, nil

	case models.PaymentCreditCard:
		if strings.TrimSpace(req.PaymentReference) == "" {
			return nil, fmt.Errorf("%w: payment reference is required for credit card", ErrInvalidReservation)
		}

		// The record does not exist yet, so nothing store-side is held
		// across this network call.
		resp, err := s.verifier.VerifyPayment(ctx, req.PaymentReference)
		if err != nil {
			s.logger.Error().Err(err).Str("payment_reference", req.PaymentReference).Msg("card verifier call failed")
			return nil, fmt.Errorf("%w: %v", ErrVerifierUnavailable, err)
		}
		if !strings.EqualFold(resp.Status, models.StatusConfirmed) {
			s.logger.Warn().
				Str("payment_reference", req.PaymentReference).
				Str("verifier_status", resp.Status).
				Msg("credit card payment not confirmed")
			metrics.IncReservation(mode, "REJECTED")
			return nil, ErrPaymentNotConfirmed
		}

		r.Status = models.StatusConfirmed
		if err := s.repo.CreateReservation(ctx, r); err != nil {
			return nil, err
		}
		s.logger.Info().Str("reservation_id", r.ID).Msg("reservation confirmed (credit card)")
		metrics.IncReservation(mode, r.Status)
		s.publishEvent(events.EventReservationCreated, r, "")
		return &ConfirmResult{ReservationID: r.ID, Status: r.Status}, nil

	default: // BANK_TRANSFER
		r.Status = models.StatusPendingPayment
		if err := s.repo.CreateReservation(ctx, r); err != nil {
			return nil, err
		}
		s.logger.Info().Str("reservation_id", r.ID).Msg("reservation pending payment (bank transfer)")
		metrics.IncReservation(mode, r.Status)
		s.publishEvent(events.EventReservationCreated, r, "")
		return &ConfirmResult{ReservationID: r.ID, Status: r.Status}, nil
	}
}

// ApplyBankTransfer confirms a pending bank-transfer reservation if the
// received amount covers the expected one. Every other case is a logged
// no-op, which makes redelivered notifications harmless.
func (s *ReservationService) ApplyBankTransfer(ctx context.Context, reservationID string, received decimal.Decimal) error {
	r, err := s.repo.GetReservation(ctx, reservationID)
	if err != nil {
		if err == database.ErrNotFound {
			s.logger.Warn().Str("reservation_id", reservationID).Msg("reservation not found while processing payment event")
			metrics.IncReconcilerEvent("not_found")
			return nil
		}
		return err
	}

	next, changed := models.ApplyBankTransferPayment(r.Status, r.PaymentMode, r.Amount, received)
	if !changed {
		if r.PaymentMode == models.PaymentBankTransfer && r.Status == models.StatusPendingPayment {
			s.logger.Info().
				Str("reservation_id", reservationID).
				Str("received", received.String()).
				Str("expected", r.Amount.String()).
				Msg("received amount below expectation, reservation stays pending")
			metrics.IncReconcilerEvent("underpaid")
		} else {
			s.logger.Info().
				Str("reservation_id", reservationID).
				Str("status", r.Status).
				Str("payment_mode", r.PaymentMode).
				Msg("reservation not eligible for bank transfer confirm")
			metrics.IncReconcilerEvent("not_eligible")
		}
		return nil
	}

	err = s.repo.UpdateStatusIfCurrent(ctx, reservationID, models.StatusPendingPayment, next)
	if err == database.ErrStaleStatus {
		// Lost the race against the sweeper or a duplicate delivery.
		s.logger.Info().Str("reservation_id", reservationID).Msg("reservation already transitioned, payment event is a no-op")
		metrics.IncReconcilerEvent("lost_race")
		return nil
	}
	if err != nil {
		return err
	}

	s.logger.Info().Str("reservation_id", reservationID).Msg("reservation confirmed via bank transfer")
	metrics.IncReconcilerEvent("confirmed")

	r.Status = next
	s.publishEvent(events.EventReservationConfirmed, r, "")
	return nil
}

// GetByID returns a reservation or database.ErrNotFound.
func (s *ReservationService) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	return s.repo.GetReservation(ctx, id)
}

// ListByDateRange returns reservations starting within [start, end].
func (s *ReservationService) ListByDateRange(ctx context.Context, start, end time.Time) ([]*models.Reservation, error) {
	return s.repo.ListReservationsByDateRange(ctx, start, end)
}

func (s *ReservationService) publishEvent(eventType string, r *models.Reservation, reason string) {
	if s.eventBus == nil {
		return
	}

	payload := events.ReservationEventPayload{
		ReservationID: r.ID,
		CustomerName:  r.CustomerName,
		RoomNumber:    r.RoomNumber,
		StartDate:     r.StartDate.Format(models.DateLayout),
		EndDate:       r.EndDate.Format(models.DateLayout),
		PaymentMode:   r.PaymentMode,
		Amount:        r.Amount.String(),
		Currency:      r.Currency,
		Status:        r.Status,
		Reason:        reason,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Str("reservation_id", r.ID).Msg("publish event error")
	}
}
