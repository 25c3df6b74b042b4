package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "docportal/pkg/errors"
)

func TestCreateIntent_Success(t *testing.T) {
	var gotForm map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/payment_intents" {
			t.Errorf("expected path /v1/payment_intents, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk_test_123" {
			t.Errorf("unexpected authorization header: %s", r.Header.Get("Authorization"))
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("unexpected content type: %s", ct)
		}

		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse form: %v", err)
		}
		gotForm = map[string]string{
			"amount":                 r.PostForm.Get("amount"),
			"currency":               r.PostForm.Get("currency"),
			"payment_method_types[]": r.PostForm.Get("payment_method_types[]"),
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"pi_123","client_secret":"pi_123_secret_abc","amount":15050,"currency":"usd"}`))
	}))
	defer server.Close()

	gw := NewStripeGateway("sk_test_123", server.URL)

	intent, err := gw.CreateIntent(context.Background(), 15050, map[string]string{"booking_id": "abc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if intent.ClientSecret != "pi_123_secret_abc" {
		t.Errorf("expected client secret pi_123_secret_abc, got %s", intent.ClientSecret)
	}
	if gotForm["amount"] != "15050" {
		t.Errorf("expected amount 15050, got %s", gotForm["amount"])
	}
	if gotForm["currency"] != "usd" {
		t.Errorf("expected currency usd, got %s", gotForm["currency"])
	}
	if gotForm["payment_method_types[]"] != "card" {
		t.Errorf("expected card payment method, got %s", gotForm["payment_method_types[]"])
	}
}

func TestCreateIntent_APIErrorIsUpstream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error":{"message":"Your card was declined.","type":"card_error","code":"card_declined"}}`))
	}))
	defer server.Close()

	gw := NewStripeGateway("sk_test_123", server.URL)

	_, err := gw.CreateIntent(context.Background(), 1000, nil)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeUpstream {
		t.Errorf("expected code %s, got %s", apperrors.CodeUpstream, appErr.Code)
	}
	if appErr.HTTPStatus != http.StatusBadGateway {
		t.Errorf("expected status 502, got %d", appErr.HTTPStatus)
	}
}

func TestCreateIntent_MissingClientSecretIsUpstream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"pi_123"}`))
	}))
	defer server.Close()

	gw := NewStripeGateway("sk_test_123", server.URL)

	_, err := gw.CreateIntent(context.Background(), 1000, nil)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeUpstream {
		t.Errorf("expected code %s, got %s", apperrors.CodeUpstream, appErr.Code)
	}
}

func TestCreateIntent_NonPositiveAmountRejected(t *testing.T) {
	gw := NewStripeGateway("sk_test_123", "http://localhost:0")

	for _, amount := range []int64{0, -100} {
		_, err := gw.CreateIntent(context.Background(), amount, nil)
		if err == nil {
			t.Fatalf("expected error for amount %d, got nil", amount)
		}
		appErr := apperrors.AsAppError(err)
		if appErr.Code != apperrors.CodeInvalidInput {
			t.Errorf("expected code %s, got %s", apperrors.CodeInvalidInput, appErr.Code)
		}
	}
}
