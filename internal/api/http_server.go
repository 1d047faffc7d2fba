// Package api exposes the reservation service over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/locofvijay/room-reservation-service/internal/config"
	"github.com/locofvijay/room-reservation-service/internal/database"
	"github.com/locofvijay/room-reservation-service/internal/export"
	"github.com/locofvijay/room-reservation-service/internal/metrics"
	"github.com/locofvijay/room-reservation-service/internal/models"
	"github.com/locofvijay/room-reservation-service/internal/service"
)

// HTTPServer serves the reservation API plus health checks.
type HTTPServer struct {
	cfg    config.APIConfig
	svc    *service.ReservationService
	db     *database.DB
	rooms  []models.Room
	server *http.Server
	auth   *HTTPAuth
	logger *zerolog.Logger
}

func NewHTTPServer(cfg config.APIConfig, svc *service.ReservationService, db *database.DB, rooms []models.Room, logger *zerolog.Logger) *HTTPServer {
	srv := &HTTPServer{cfg: cfg, svc: svc, db: db, rooms: rooms, logger: logger}
	srv.auth = NewHTTPAuth(cfg)

	apiMux := http.NewServeMux()
	apiMux.HandleFunc("/api/v1/reservations/confirm", srv.handleConfirm)
	apiMux.HandleFunc("/api/v1/reservations/export", srv.handleExport)
	apiMux.HandleFunc("/api/v1/reservations/", srv.handleGetReservation)
	apiMux.HandleFunc("/api/v1/rooms", srv.handleRooms)

	// Health stays outside auth so load balancers can probe it.
	mux := http.NewServeMux()
	mux.Handle("/api/v1/", srv.auth.Wrap(apiMux))
	mux.HandleFunc("/healthz", srv.handleHealth)

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           loggingMiddleware(logger, mux),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	return srv
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("http api listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the root handler, for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

type confirmRequest struct {
	CustomerName     string          `json:"customerName"`
	RoomNumber       string          `json:"roomNumber"`
	StartDate        string          `json:"startDate"`
	EndDate          string          `json:"endDate"`
	RoomSegment      string          `json:"roomSegment"`
	PaymentMode      string          `json:"paymentMode"`
	PaymentReference string          `json:"paymentReference"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
}

type confirmResponse struct {
	ReservationID     string `json:"reservationId"`
	ReservationStatus string `json:"reservationStatus"`
}

type reservationResponse struct {
	ReservationID string `json:"reservationId"`
	CustomerName  string `json:"customerName"`
	RoomNumber    string `json:"roomNumber"`
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
	RoomSegment   string `json:"roomSegment"`
	PaymentMode   string `json:"paymentMode"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	Status        string `json:"status"`
}

func (s *HTTPServer) handleConfirm(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("confirm")
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}

	var body confirmRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	startDate, err := time.Parse(models.DateLayout, body.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid startDate; expected YYYY-MM-DD")
		return
	}
	endDate, err := time.Parse(models.DateLayout, body.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid endDate; expected YYYY-MM-DD")
		return
	}

	if strings.TrimSpace(body.CustomerName) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "customerName is required")
		return
	}
	if strings.TrimSpace(body.RoomNumber) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "roomNumber is required")
		return
	}

	result, err := s.svc.Confirm(r.Context(), service.ConfirmRequest{
		CustomerName:     body.CustomerName,
		RoomNumber:       body.RoomNumber,
		StartDate:        startDate,
		EndDate:          endDate,
		RoomSegment:      body.RoomSegment,
		PaymentMode:      body.PaymentMode,
		PaymentReference: body.PaymentReference,
		Amount:           body.Amount,
		Currency:         body.Currency,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, confirmResponse{
		ReservationID:     result.ReservationID,
		ReservationStatus: result.Status,
	})
}

func (s *HTTPServer) handleGetReservation(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("get_reservation")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}

	const prefix = "/api/v1/reservations/"
	id := strings.TrimSpace(strings.TrimPrefix(r.URL.Path, prefix))
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", "reservation id is required")
		return
	}

	reservation, err := s.svc.GetByID(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, reservationResponse{
		ReservationID: reservation.ID,
		CustomerName:  reservation.CustomerName,
		RoomNumber:    reservation.RoomNumber,
		StartDate:     reservation.StartDate.Format(models.DateLayout),
		EndDate:       reservation.EndDate.Format(models.DateLayout),
		RoomSegment:   reservation.RoomSegment,
		PaymentMode:   reservation.PaymentMode,
		Amount:        reservation.Amount.String(),
		Currency:      reservation.Currency,
		Status:        reservation.Status,
	})
}

func (s *HTTPServer) handleRooms(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("rooms")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}

	rooms := make([]models.Room, len(s.rooms))
	copy(rooms, s.rooms)
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].Number < rooms[j].Number })

	writeJSON(w, http.StatusOK, map[string]any{"rooms": rooms})
}

func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("export")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}

	startDate, endDate, err := exportPeriod(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	reservations, err := s.svc.ListByDateRange(r.Context(), startDate, endDate)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(startDate, endDate)))
	if err := export.WriteReport(w, startDate, endDate, reservations); err != nil {
		s.logger.Error().Err(err).Msg("write export report error")
	}
}

// exportPeriod parses the from/to query params, defaulting to the next 30
// days when absent.
func exportPeriod(r *http.Request) (time.Time, time.Time, error) {
	now := time.Now()
	startDate := now
	endDate := now.AddDate(0, 0, 30)

	if raw := strings.TrimSpace(r.URL.Query().Get("from")); raw != "" {
		parsed, err := time.Parse(models.DateLayout, raw)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid from date; expected YYYY-MM-DD")
		}
		startDate = parsed
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("to")); raw != "" {
		parsed, err := time.Parse(models.DateLayout, raw)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid to date; expected YYYY-MM-DD")
		}
		endDate = parsed
	}
	if endDate.Before(startDate) {
		return time.Time{}, time.Time{}, fmt.Errorf("to must not be before from")
	}
	return startDate, endDate, nil
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Healthcheck(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "unhealthy", "database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidReservation):
		writeError(w, http.StatusBadRequest, "invalid_reservation", err.Error())
	case errors.Is(err, service.ErrPaymentNotConfirmed):
		writeError(w, http.StatusBadRequest, "payment_not_confirmed", err.Error())
	case errors.Is(err, database.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "reservation not found")
	case errors.Is(err, service.ErrVerifierUnavailable):
		writeError(w, http.StatusBadGateway, "verifier_unavailable", "payment verification is temporarily unavailable")
	default:
		s.logger.Error().Err(err).Msg("internal error")
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

type errorResponse struct {
	Timestamp string `json:"timestamp"`
	Status    int    `json:"status"`
	Error     string `json:"error"`
	Message   string `json:"message"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, errCode, message string) {
	writeJSON(w, statusCode, errorResponse{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Status:    statusCode,
		Error:     errCode,
		Message:   message,
	})
}
