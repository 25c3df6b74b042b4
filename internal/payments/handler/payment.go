package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"docportal/internal/payments/service"
	"docportal/pkg/auth"
	apperrors "docportal/pkg/errors"
	httputil "docportal/pkg/http"
	"docportal/pkg/logger"
	"docportal/pkg/middleware"
)

type PaymentHandler struct {
	service service.PaymentService
	tokens  *auth.TokenMaker
	log     *logger.Logger
}

func NewPaymentHandler(service service.PaymentService, tokens *auth.TokenMaker, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		tokens:  tokens,
		log:     log,
	}
}

func (h *PaymentHandler) CreateIntent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req service.IntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Invalid request body")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CreateIntent", "error", writeErr)
		}
		return
	}

	if email, ok := middleware.IdentityFromContext(r.Context()); ok && req.PatientEmail == "" {
		req.PatientEmail = email
	}

	result, err := h.service.CreateIntent(r.Context(), &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CreateIntent", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "CreateIntent", "error", err)
	}
}

func (h *PaymentHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/payments/intent", middleware.Authenticated(h.tokens, h.CreateIntent))
}
