package service

import (
	"context"

	"docportal/internal/payments/gateway"
	"docportal/pkg/config"
	apperrors "docportal/pkg/errors"
)

// IntentRequest carries the charge the browser is about to collect. Price is
// in whole currency units, the way the treatment catalog stores it.
type IntentRequest struct {
	Price        float64 `json:"price"`
	BookingID    string  `json:"booking_id,omitempty"`
	PatientEmail string  `json:"patient_email,omitempty"`
}

type IntentResponse struct {
	ClientSecret string `json:"client_secret"`
}

type PaymentService interface {
	CreateIntent(ctx context.Context, req *IntentRequest) (*IntentResponse, error)
}

type paymentService struct {
	gateway gateway.PaymentGateway
	cfg     *config.Config
}

func NewPaymentService(gw gateway.PaymentGateway, cfg *config.Config) PaymentService {
	return &paymentService{
		gateway: gw,
		cfg:     cfg,
	}
}

// CreateIntent converts the catalog price to cents and asks the gateway for a
// payment intent. Gateway failures surface as-is; the caller retries by
// submitting the form again, the service never does.
func (s *paymentService) CreateIntent(ctx context.Context, req *IntentRequest) (*IntentResponse, error) {
	if req.Price <= 0 {
		return nil, apperrors.InvalidInput("price must be positive")
	}

	amount := int64(req.Price * 100)

	metadata := make(map[string]string)
	if req.BookingID != "" {
		metadata["booking_id"] = req.BookingID
	}
	if req.PatientEmail != "" {
		metadata["patient_email"] = req.PatientEmail
	}

	intent, err := s.gateway.CreateIntent(ctx, amount, metadata)
	if err != nil {
		s.cfg.Log.Error("Failed to create payment intent", "amount_cents", amount, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Payment intent created", "intent_id", intent.ID, "amount_cents", amount)
	return &IntentResponse{ClientSecret: intent.ClientSecret}, nil
}
