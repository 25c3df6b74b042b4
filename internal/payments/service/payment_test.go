package service

import (
	"context"
	"testing"

	"docportal/internal/payments/gateway"
	"docportal/pkg/config"
	apperrors "docportal/pkg/errors"
	"docportal/pkg/logger"
)

type mockGateway struct {
	createIntentFunc func(ctx context.Context, amountCents int64, metadata map[string]string) (*gateway.Intent, error)
}

func (m *mockGateway) CreateIntent(ctx context.Context, amountCents int64, metadata map[string]string) (*gateway.Intent, error) {
	if m.createIntentFunc != nil {
		return m.createIntentFunc(ctx, amountCents, metadata)
	}
	return &gateway.Intent{ID: "pi_123", ClientSecret: "pi_123_secret", Amount: amountCents, Currency: "usd"}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.TEXT,
			Service: "test",
		}),
	}
}

func TestCreateIntent_ConvertsPriceToCents(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		want  int64
	}{
		{"whole dollars", 100, 10000},
		{"with cents", 150.5, 15050},
		// int64 conversion truncates the sub-cent remainder.
		{"sub-cent precision", 19.999, 1999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotAmount int64
			gw := &mockGateway{
				createIntentFunc: func(ctx context.Context, amountCents int64, metadata map[string]string) (*gateway.Intent, error) {
					gotAmount = amountCents
					return &gateway.Intent{ClientSecret: "secret"}, nil
				},
			}
			service := NewPaymentService(gw, testConfig())

			result, err := service.CreateIntent(context.Background(), &IntentRequest{Price: tt.price})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if gotAmount != tt.want {
				t.Errorf("expected amount %d, got %d", tt.want, gotAmount)
			}
			if result.ClientSecret == "" {
				t.Error("expected a client secret")
			}
		})
	}
}

func TestCreateIntent_NonPositivePriceRejected(t *testing.T) {
	service := NewPaymentService(&mockGateway{}, testConfig())

	for _, price := range []float64{0, -10} {
		_, err := service.CreateIntent(context.Background(), &IntentRequest{Price: price})
		if err == nil {
			t.Fatalf("expected error for price %v, got nil", price)
		}
		if code := apperrors.AsAppError(err).Code; code != apperrors.CodeInvalidInput {
			t.Errorf("expected code %s, got %s", apperrors.CodeInvalidInput, code)
		}
	}
}

func TestCreateIntent_GatewayFailurePropagates(t *testing.T) {
	gw := &mockGateway{
		createIntentFunc: func(ctx context.Context, amountCents int64, metadata map[string]string) (*gateway.Intent, error) {
			return nil, apperrors.Upstream("stripe", context.DeadlineExceeded)
		},
	}
	service := NewPaymentService(gw, testConfig())

	_, err := service.CreateIntent(context.Background(), &IntentRequest{Price: 100})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if code := apperrors.AsAppError(err).Code; code != apperrors.CodeUpstream {
		t.Errorf("expected code %s, got %s", apperrors.CodeUpstream, code)
	}
}

func TestCreateIntent_MetadataForwarded(t *testing.T) {
	var gotMetadata map[string]string
	gw := &mockGateway{
		createIntentFunc: func(ctx context.Context, amountCents int64, metadata map[string]string) (*gateway.Intent, error) {
			gotMetadata = metadata
			return &gateway.Intent{ClientSecret: "secret"}, nil
		},
	}
	service := NewPaymentService(gw, testConfig())

	_, err := service.CreateIntent(context.Background(), &IntentRequest{
		Price:        100,
		BookingID:    "64f1b2c3d4e5f6a7b8c9d0e1",
		PatientEmail: "jordan@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotMetadata["booking_id"] != "64f1b2c3d4e5f6a7b8c9d0e1" {
		t.Errorf("expected booking id in metadata, got %v", gotMetadata)
	}
	if gotMetadata["patient_email"] != "jordan@example.com" {
		t.Errorf("expected patient email in metadata, got %v", gotMetadata)
	}
}
