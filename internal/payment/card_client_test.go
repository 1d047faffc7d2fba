package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyPayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/payments/verify", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))

		var req verifyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "PAY-42", req.PaymentReference)

		json.NewEncoder(w).Encode(map[string]string{
			"lastUpdateDate": "2026-08-30",
			"status":         "CONFIRMED",
		})
	}))
	defer srv.Close()

	client := NewCardClient(srv.URL, "secret", 2*time.Second)
	status, err := client.VerifyPayment(context.Background(), "PAY-42")
	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", status.Status)
	assert.Equal(t, "2026-08-30", status.LastUpdateDate)
}

func TestVerifyPaymentServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewCardClient(srv.URL, "", 2*time.Second)
	_, err := client.VerifyPayment(context.Background(), "PAY-42")
	assert.ErrorContains(t, err, "http 500")
}

func TestVerifyPaymentUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	client := NewCardClient(srv.URL, "", time.Second)
	_, err := client.VerifyPayment(context.Background(), "PAY-42")
	assert.Error(t, err)
}
