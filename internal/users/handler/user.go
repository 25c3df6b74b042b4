package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"docportal/internal/users/service"
	"docportal/pkg/auth"
	apperrors "docportal/pkg/errors"
	httputil "docportal/pkg/http"
	"docportal/pkg/logger"
	"docportal/pkg/middleware"
	"docportal/pkg/model"
)

type UserHandler struct {
	service service.UserService
	tokens  *auth.TokenMaker
	log     *logger.Logger
}

func NewUserHandler(service service.UserService, tokens *auth.TokenMaker, log *logger.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		tokens:  tokens,
		log:     log,
	}
}

// SignIn upserts the user and hands back a bearer token.
func (h *UserHandler) SignIn(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var profile model.User
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Invalid request body")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "SignIn", "error", writeErr)
		}
		return
	}

	result, err := h.service.SignIn(r.Context(), ps.ByName("email"), &profile)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "SignIn", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "SignIn", "error", err)
	}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	users, err := h.service.List(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, users); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "error", err)
	}
}

type adminStatusResponse struct {
	Admin bool `json:"admin"`
}

func (h *UserHandler) AdminStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	isAdmin, err := h.service.IsAdmin(r.Context(), ps.ByName("email"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "AdminStatus", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, adminStatusResponse{Admin: isAdmin}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "AdminStatus", "error", err)
	}
}

func (h *UserHandler) Promote(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	user, err := h.service.Promote(r.Context(), ps.ByName("email"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Promote", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, user); err != nil {
		h.log.Error("failed to write success response", "handler", "Promote", "error", err)
	}
}

// Sign-in lives under /id/:email so the wildcard cannot collide with the
// static /admin subtree in the router.
func (h *UserHandler) RegisterRoutes(router *httprouter.Router) {
	router.PUT("/api/v1/users/id/:email", h.SignIn)
	router.GET("/api/v1/users", middleware.Authenticated(h.tokens, h.List))
	router.GET("/api/v1/users/admin/:email", h.AdminStatus)
	router.PUT("/api/v1/users/admin/:email",
		middleware.Authenticated(h.tokens, middleware.AdminOnly(h.service, h.Promote)))
}
