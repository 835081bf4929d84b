package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/todopalm/todopalm-api/internal/database"
	"github.com/todopalm/todopalm-api/internal/models"
	"github.com/todopalm/todopalm-api/internal/services/token"
	"github.com/todopalm/todopalm-api/internal/validation"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler handles login, Google login and refresh token rotation
type AuthHandler struct {
	users  database.UserRepositoryInterface
	tokens *token.Service
	logger *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users database.UserRepositoryInterface, tokens *token.Service, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, logger: logger}
}

// RegisterRoutes registers the public auth routes on the given router.
// These routes are the gate's allow-list: the router must NOT carry the auth
// middleware.
func (h *AuthHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/login", h.Login).Methods("POST")
	r.HandleFunc("/google", h.GoogleLogin).Methods("POST")
	r.HandleFunc("/refresh-token", h.RefreshToken).Methods("POST")
}

// LoginRequest represents a password login request. Name is used only when
// the email is new and an account gets created.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=1,max=256"`
	Name     string `json:"name,omitempty" validate:"omitempty,max=200"`
}

// GoogleLoginRequest carries the profile the web client received from its
// Google session. The code exchange happens client-side.
type GoogleLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name,omitempty" validate:"omitempty,max=200"`
	ImageURL string `json:"imageUrl,omitempty" validate:"omitempty,url,max=2000"`
}

// RefreshTokenRequest carries the refresh token to rotate
type RefreshTokenRequest struct {
	Token string `json:"token"`
}

// LoginResponse is returned by both login endpoints
type LoginResponse struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    int64     `json:"expiresAt"`
	ID           uuid.UUID `json:"id"`
}

// Login authenticates with email and password. An unknown email creates a
// new account, matching the original combined login/registration flow.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	if err := validation.Validate.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Validation failed: "+validationErrors[0].Error())
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Validation failed")
		return
	}

	ctx := r.Context()
	user, err := h.users.GetByEmail(ctx, req.Email)
	if err != nil {
		h.logger.Error("login_lookup_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Something went wrong")
		return
	}

	if user == nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Something went wrong")
			return
		}
		hashStr := string(hash)
		user = &models.User{
			ID:           uuid.New(),
			Email:        req.Email,
			PasswordHash: &hashStr,
			Theme:        models.DefaultTheme,
		}
		if req.Name != "" {
			name := validation.SanitizeText(req.Name)
			user.Name = &name
		}
		if err := h.users.Create(ctx, user); err != nil {
			h.logger.Error("login_create_user_failed", zap.Error(err))
			respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Something went wrong")
			return
		}
		h.issueLoginResponse(w, user)
		return
	}

	// Google-only accounts have no password to check against.
	if user.PasswordHash == nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "User not found")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "Invalid password")
		return
	}

	h.issueLoginResponse(w, user)
}

// GoogleLogin upserts an account from a Google profile and issues a pair
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req GoogleLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Validation failed")
		return
	}

	ctx := r.Context()
	user, err := h.users.GetByEmail(ctx, req.Email)
	if err != nil {
		h.logger.Error("google_login_lookup_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Something went wrong")
		return
	}

	if user == nil {
		user = &models.User{
			ID:    uuid.New(),
			Email: req.Email,
			Theme: models.DefaultTheme,
		}
		if req.Name != "" {
			name := validation.SanitizeText(req.Name)
			user.Name = &name
		}
		if req.ImageURL != "" {
			imageURL := req.ImageURL
			user.ImageURL = &imageURL
		}
		if err := h.users.Create(ctx, user); err != nil {
			h.logger.Error("google_login_create_user_failed", zap.Error(err))
			respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Something went wrong")
			return
		}
	}

	h.issueLoginResponse(w, user)
}

// RefreshToken rotates a refresh token into a new access/refresh pair.
// A missing token is a validation error with a specific message; every
// verification failure is a single generic rejection.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "No token provided")
		return
	}

	pair, err := h.tokens.Rotate(req.Token)
	if err != nil {
		switch {
		case errors.Is(err, token.ErrMissingToken):
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "No token provided")
		case errors.Is(err, token.ErrInvalidRefreshToken):
			respondJSONError(w, http.StatusForbidden, "Forbidden", "Invalid refresh token")
		default:
			h.logger.Error("refresh_token_rotation_failed", zap.Error(err))
			respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Something went wrong")
		}
		return
	}

	respondJSON(w, http.StatusOK, pair)
}

func (h *AuthHandler) issueLoginResponse(w http.ResponseWriter, user *models.User) {
	pair, err := h.tokens.IssuePair(user.ID.String())
	if err != nil {
		h.logger.Error("token_issuance_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Something went wrong")
		return
	}

	respondJSON(w, http.StatusOK, LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt,
		ID:           user.ID,
	})
}
