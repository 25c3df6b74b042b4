package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"docportal/internal/bookings/service"
	"docportal/pkg/auth"
	apperrors "docportal/pkg/errors"
	httputil "docportal/pkg/http"
	"docportal/pkg/logger"
	"docportal/pkg/middleware"
	"docportal/pkg/model"
)

type BookingHandler struct {
	service service.BookingService
	tokens  *auth.TokenMaker
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, tokens *auth.TokenMaker, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		tokens:  tokens,
		log:     log,
	}
}

// Create is public: the booking form runs before the patient signs in.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var booking model.Booking
	if err := json.NewDecoder(r.Body).Decode(&booking); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Invalid request body")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "error", writeErr)
		}
		return
	}

	result, err := h.service.Create(r.Context(), &booking)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "error", writeErr)
		}
		return
	}

	status := http.StatusCreated
	if !result.Success {
		// Duplicate submission is a normal response, not an error.
		status = http.StatusOK
	}
	if err := httputil.WriteJSON(w, status, result); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Create", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	email, _ := middleware.IdentityFromContext(r.Context())

	booking, err := h.service.GetByID(r.Context(), ps.ByName("id"), email)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *BookingHandler) ListByPatient(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	email, _ := middleware.IdentityFromContext(r.Context())
	patientEmail := r.URL.Query().Get("patient_email")

	bookings, err := h.service.ListByPatient(r.Context(), patientEmail, email)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListByPatient", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "ListByPatient", "error", err)
	}
}

func (h *BookingHandler) Settle(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	email, _ := middleware.IdentityFromContext(r.Context())

	var settlement model.Settlement
	if err := json.NewDecoder(r.Body).Decode(&settlement); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Invalid request body")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Settle", "error", writeErr)
		}
		return
	}

	booking, err := h.service.Settle(r.Context(), ps.ByName("id"), email, &settlement)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Settle", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Settle", "error", err)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings", middleware.Authenticated(h.tokens, h.ListByPatient))
	router.GET("/api/v1/bookings/id/:id", middleware.Authenticated(h.tokens, h.GetByID))
	router.PATCH("/api/v1/bookings/id/:id/payment", middleware.Authenticated(h.tokens, h.Settle))
}
