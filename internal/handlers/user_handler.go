package handlers

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/staranysa/TheHappyHaul/internal/models"
	"github.com/staranysa/TheHappyHaul/internal/services"
	"github.com/staranysa/TheHappyHaul/pkg/middleware"
)

// UserHandler handles HTTP requests related to accounts.
type UserHandler struct {
	Service *services.UserService
}

// NewUserHandler creates a new instance of UserHandler.
func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{Service: service}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

// RegisterHandler creates an account and logs it in.
func (h *UserHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if !decodeJSON(w, r, &req) {
		return
	}

	token, user, err := h.Service.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err, "Failed to register user")
		return
	}

	log.WithField("userID", user.ID).Info("Registration successful")
	writeJSON(w, http.StatusOK, authResponse{Token: token, User: user.Public()})
}

// LoginHandler exchanges credentials for a token.
func (h *UserHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if !decodeJSON(w, r, &req) {
		return
	}

	token, user, err := h.Service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err, "Failed to login")
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: token, User: user.Public()})
}

// MeHandler returns the authenticated account.
func (h *UserHandler) MeHandler(w http.ResponseWriter, r *http.Request) {
	user, err := h.Service.GetUserByID(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, err, "Failed to get user info")
		return
	}
	writeJSON(w, http.StatusOK, user.Public())
}
