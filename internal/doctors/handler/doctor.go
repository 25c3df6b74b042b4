package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"docportal/internal/doctors/service"
	"docportal/pkg/auth"
	apperrors "docportal/pkg/errors"
	httputil "docportal/pkg/http"
	"docportal/pkg/logger"
	"docportal/pkg/middleware"
	"docportal/pkg/model"
)

type DoctorHandler struct {
	service service.DoctorService
	tokens  *auth.TokenMaker
	roles   middleware.RoleAuthority
	log     *logger.Logger
}

func NewDoctorHandler(service service.DoctorService, tokens *auth.TokenMaker, roles middleware.RoleAuthority, log *logger.Logger) *DoctorHandler {
	return &DoctorHandler{
		service: service,
		tokens:  tokens,
		roles:   roles,
		log:     log,
	}
}

func (h *DoctorHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	doctors, err := h.service.List(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, doctors); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "error", err)
	}
}

func (h *DoctorHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var doctor model.Doctor
	if err := json.NewDecoder(r.Body).Decode(&doctor); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Invalid request body")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "error", writeErr)
		}
		return
	}

	created, err := h.service.Create(r.Context(), &doctor)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, created); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *DoctorHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.DeleteByEmail(r.Context(), ps.ByName("email")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

// The entire doctor surface is admin-only.
func (h *DoctorHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/doctors",
		middleware.Authenticated(h.tokens, middleware.AdminOnly(h.roles, h.List)))
	router.POST("/api/v1/doctors",
		middleware.Authenticated(h.tokens, middleware.AdminOnly(h.roles, h.Create)))
	router.DELETE("/api/v1/doctors/:email",
		middleware.Authenticated(h.tokens, middleware.AdminOnly(h.roles, h.Delete)))
}
