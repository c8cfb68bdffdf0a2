package middleware

import (
	"net/http"
	"strings"

	"github.com/paytrack/paytrack-backend/internal/auth"
	"github.com/paytrack/paytrack-backend/internal/handler"
	"github.com/paytrack/paytrack-backend/internal/logging"
)

// Auth validates the bearer token and puts the owner into the request
// context. The request logger is re-bound with the owner attached, since
// Logging runs before the owner is known.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				handler.RespondAppError(w, handler.ErrMissingToken, nil)
				return
			}

			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				handler.RespondAppError(w, handler.ErrInvalidToken, nil)
				return
			}

			claims, err := auth.ValidateToken(token, secret)
			if err != nil {
				handler.RespondAppError(w, handler.ErrInvalidToken, nil)
				return
			}

			ctx := auth.ContextWithOwnerID(r.Context(), claims.OwnerID)
			log := logging.FromContext(ctx).With("owner_id", claims.OwnerID)
			ctx = logging.WithLogger(ctx, log)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
