package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"docportal/internal/treatments/service"
	httputil "docportal/pkg/http"
	"docportal/pkg/logger"
)

type TreatmentHandler struct {
	service service.TreatmentService
	log     *logger.Logger
}

func NewTreatmentHandler(service service.TreatmentService, log *logger.Logger) *TreatmentHandler {
	return &TreatmentHandler{
		service: service,
		log:     log,
	}
}

func (h *TreatmentHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	treatments, err := h.service.ListNames(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, treatments); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "error", err)
	}
}

func (h *TreatmentHandler) Availability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	date := r.URL.Query().Get("date")

	availability, err := h.service.Availability(r.Context(), date)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Availability", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, availability); err != nil {
		h.log.Error("failed to write success response", "handler", "Availability", "error", err)
	}
}

func (h *TreatmentHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/treatments", h.List)
	router.GET("/api/v1/treatments/available", h.Availability)
}
