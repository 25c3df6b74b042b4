package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "docportal/pkg/errors"
)

const (
	apiVersion = "2024-06-20"
	currency   = "usd"
)

// PaymentGateway creates payment intents with an external processor. The
// returned client secret is what the browser hands to the card element.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amountCents int64, metadata map[string]string) (*Intent, error)
}

type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

// StripeGateway talks to the Stripe payment intents API over its
// form-encoded HTTP surface.
type StripeGateway struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

func NewStripeGateway(secretKey, baseURL string) *StripeGateway {
	return &StripeGateway{
		secretKey:  secretKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func (g *StripeGateway) WithHTTPClient(client *http.Client) *StripeGateway {
	if client != nil {
		g.httpClient = client
	}
	return g
}

func (g *StripeGateway) CreateIntent(ctx context.Context, amountCents int64, metadata map[string]string) (*Intent, error) {
	if amountCents <= 0 {
		return nil, apperrors.InvalidInput("Payment amount must be positive")
	}

	form := url.Values{}
	form.Set("amount", fmt.Sprintf("%d", amountCents))
	form.Set("currency", currency)
	form.Set("payment_method_types[]", "card")
	for key, value := range metadata {
		form.Set(fmt.Sprintf("metadata[%s]", key), value)
	}

	apiURL := g.baseURL + "/v1/payment_intents"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("gateway: build stripe request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Stripe-Version", apiVersion)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Upstream("stripe", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, apperrors.Upstream("stripe", fmt.Errorf("status %d: %s", resp.StatusCode, readStripeError(resp.Body)))
	}

	var intent Intent
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return nil, apperrors.Upstream("stripe", fmt.Errorf("decode response: %w", err))
	}
	if intent.ClientSecret == "" {
		return nil, apperrors.Upstream("stripe", fmt.Errorf("response missing client secret"))
	}

	return &intent, nil
}

type stripeErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

func readStripeError(body io.Reader) string {
	data, err := io.ReadAll(body)
	if err != nil {
		return "unknown error"
	}
	var parsed stripeErrorResponse
	if json.Unmarshal(data, &parsed) == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	return string(data)
}
