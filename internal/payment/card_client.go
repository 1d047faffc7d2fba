package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/locofvijay/room-reservation-service/internal/domain"
)

// CardClient calls the external card verification service. The service is
// expected to answer POST /payments/verify with a JSON status document.
type CardClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type verifyRequest struct {
	PaymentReference string `json:"paymentReference"`
}

// NewCardClient constructs a client with baseURL and an optional API key.
func NewCardClient(baseURL, apiKey string, timeout time.Duration) *CardClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &CardClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// VerifyPayment asks the verifier about a payment reference. Any transport
// failure or non-2xx answer is returned as an error; the caller decides how
// to surface it.
func (c *CardClient) VerifyPayment(ctx context.Context, paymentReference string) (*domain.PaymentStatus, error) {
	endpoint := c.baseURL + "/payments/verify"

	data, err := json.Marshal(verifyRequest{PaymentReference: paymentReference})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(data)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("card verifier: http %d", resp.StatusCode)
	}

	var status domain.PaymentStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("card verifier: decode response: %w", err)
	}
	return &status, nil
}
