package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/khanhng/coinfolio/internal/models"
	"github.com/khanhng/coinfolio/internal/services"
)

type contextKey string

const userContextKey contextKey = "coinfolio.user"

// UserFromContext returns the authenticated user stored by RequireAuth.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok
}

// RequireAuth gates a route on a valid bearer token. The resolved user is
// placed on the request context; unauthenticated requests get a 401 before
// the wrapped handler (and any store access) runs.
func RequireAuth(auth services.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				respondJSON(w, http.StatusUnauthorized, errorResponse{Message: "Unauthorized"})
				return
			}

			user, err := auth.ResolveSession(r.Context(), token)
			if err != nil {
				respondError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
