package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/taskflow-api/internal/api/shared"
	"github.com/phrazzld/taskflow-api/internal/platform/logger"
	"github.com/phrazzld/taskflow-api/internal/service/auth"
)

// AuthMiddleware guards the task and project routes with bearer tokens.
type AuthMiddleware struct {
	jwtService auth.JWTService
}

// NewAuthMiddleware returns middleware validating tokens with jwtService.
func NewAuthMiddleware(jwtService auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// Authenticate rejects requests without a valid bearer token with 401.
// Accepted requests carry the token's user ID and a logger tagged with it.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}

		token, ok := bearerToken(header)
		if !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			if msg, known := tokenErrorMessage(err); known {
				shared.RespondWithError(w, r, http.StatusUnauthorized, msg)
			} else {
				shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Authentication error", err)
			}
			return
		}

		ctx := shared.WithUserID(r.Context(), claims.UserID)
		log := logger.FromContext(ctx).With(slog.String("user_id", claims.UserID.String()))
		next.ServeHTTP(w, r.WithContext(logger.WithLogger(ctx, log)))
	})
}

// bearerToken returns the token of a "Bearer <token>" header; the scheme is case-insensitive.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}

func tokenErrorMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired", true
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token", true
	default:
		return "", false
	}
}
