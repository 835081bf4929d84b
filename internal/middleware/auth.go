package middleware

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/todopalm/todopalm-api/internal/request"
	"github.com/todopalm/todopalm-api/internal/services/token"
	"go.uber.org/zap"
)

// Auth creates the authentication gate. It verifies the bearer access token
// against the access secret only and attaches the resolved subject to the
// request context. A missing header, a malformed scheme and an invalid or
// expired token all produce the same 401 body, so callers cannot probe which
// check failed. Routes that skip the gate (login, refresh) are simply
// registered on subrouters without it.
func Auth(tokens *token.Service, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondAuthError(w, logger)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				respondAuthError(w, logger)
				return
			}

			subject, err := tokens.VerifyAccessToken(parts[1])
			if err != nil {
				// Never log the token itself.
				logger.Debug("access_token_rejected", zap.Error(err))
				respondAuthError(w, logger)
				return
			}

			userID, err := uuid.Parse(subject)
			if err != nil {
				logger.Debug("access_token_subject_not_uuid")
				respondAuthError(w, logger)
				return
			}

			ctx := request.WithPrincipal(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func respondAuthError(w http.ResponseWriter, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)

	response := map[string]any{
		"success":   false,
		"error":     "Unauthorized",
		"message":   "Invalid or expired token",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error("failed_to_encode_auth_error_response", zap.Error(err))
	}
}
