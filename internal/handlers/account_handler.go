package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/paymybuddy/backend/internal/middleware"
	"github.com/paymybuddy/backend/internal/models"
	"github.com/paymybuddy/backend/internal/services"
)

// AuthResponse represents the authentication response
// @Description Authentication response structure
type AuthResponse struct {
	Token string          `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."` // JWT token
	User  *models.Account `json:"user"`                                                    // Account information
}

type AccountHandler struct {
	service   *services.AccountService
	validator *services.ValidationHelper
}

func NewAccountHandler(service *services.AccountService) *AccountHandler {
	return &AccountHandler{
		service:   service,
		validator: services.NewValidationHelper(),
	}
}

// Register handles user registration
// @Summary Register a new user
// @Description Register a new user with username, email and password. The account starts with a zero balance.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.RegisterParams true "Registration request"
// @Success 201 {object} models.Account "Registration successful"
// @Failure 400 {object} services.ErrorResponse "Invalid request"
// @Failure 409 {object} services.ErrorResponse "Username or email already exists"
// @Failure 500 {object} services.ErrorResponse "Internal server error"
// @Router /auth/register [post]
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	log.Printf("[AUTH] Registration attempt from IP: %s", r.RemoteAddr)

	var req services.RegisterParams
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	account, err := h.service.Register(r.Context(), req)
	if err != nil {
		log.Printf("[AUTH] Registration failed for %s: %v", req.Email, err)
		services.SendServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, account)
}

// Login handles user authentication
// @Summary Login user
// @Description Authenticate user with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.LoginParams true "Login request"
// @Success 200 {object} AuthResponse "Login successful"
// @Failure 400 {object} services.ErrorResponse "Invalid request"
// @Failure 401 {object} services.ErrorResponse "Invalid credentials"
// @Failure 500 {object} services.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	log.Printf("[AUTH] Login attempt from IP: %s", r.RemoteAddr)

	var req services.LoginParams
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	account, token, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		services.SendErrorResponse(w, "Invalid credentials", http.StatusUnauthorized, nil)
		return
	}
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{Token: token, User: account})
}

// Logout handles user logout
// @Summary Logout user
// @Description Revoke the bearer token used for this request
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string "Logout successful"
// @Failure 401 {object} services.ErrorResponse
// @Router /auth/logout [post]
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		services.SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	if err := h.service.Logout(r.Context(), claims.TokenID, claims.ExpiresAt); err != nil {
		services.SendServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}

// GetProfile returns the caller's account
// @Summary Get profile
// @Description Get the authenticated user's account, including balance
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Account
// @Failure 401 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /profile [get]
func (h *AccountHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	account, err := h.service.GetAccount(r.Context(), userID)
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, account)
}

// UpdateProfile changes the caller's username, email or password
// @Summary Update profile
// @Description Update username and email; a non-empty password replaces the current one
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.ProfileParams true "Profile update"
// @Success 200 {object} models.Account
// @Failure 400 {object} services.ErrorResponse
// @Failure 401 {object} services.ErrorResponse
// @Failure 409 {object} services.ErrorResponse
// @Router /profile [put]
func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req services.ProfileParams
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	account, err := h.service.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, account)
}
