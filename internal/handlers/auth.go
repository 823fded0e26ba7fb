package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/khanhng/coinfolio/internal/apperrors"
	"github.com/khanhng/coinfolio/internal/models"
	"github.com/khanhng/coinfolio/internal/services"
)

type AuthHandler struct {
	auth      services.AuthService
	portfolio services.PortfolioService
}

func NewAuthHandler(auth services.AuthService, portfolio services.PortfolioService) *AuthHandler {
	return &AuthHandler{auth: auth, portfolio: portfolio}
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// HandleSignup handles POST /api/auth/signup
// @Summary Create an account
// @Description Register a new user and return a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param body body signupRequest true "Signup payload"
// @Success 201 {object} authResponse
// @Failure 400 {object} errorResponse
// @Router /auth/signup [post]
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperrors.NewValidation("body", "is not valid JSON"))
		return
	}

	user, token, err := h.auth.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, authResponse{User: user, Token: token})
}

// HandleLogin handles POST /api/auth/login
// @Summary Log in
// @Description Exchange credentials for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param body body loginRequest true "Login payload"
// @Success 200 {object} authResponse
// @Failure 400 {object} errorResponse
// @Router /auth/login [post]
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperrors.NewValidation("body", "is not valid JSON"))
		return
	}

	user, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, authResponse{User: user, Token: token})
}

// HandleMe handles GET /api/auth/me
// @Summary Current user
// @Description Return the user identified by the bearer token
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]models.User
// @Failure 401 {object} errorResponse
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Message: "Unauthorized"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]*models.User{"user": user})
}

// HandleLogout handles POST /api/auth/logout
// @Summary Log out
// @Description Discard the caller's portfolio session state
// @Tags auth
// @Success 204 {string} string ""
// @Failure 401 {object} errorResponse
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Message: "Unauthorized"})
		return
	}
	h.portfolio.Release(user.ID)
	w.WriteHeader(http.StatusNoContent)
}
