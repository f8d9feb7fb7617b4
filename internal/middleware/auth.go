package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/mintreplica/mintlite/internal/ctxkeys"
)

// TokenVerifier resolves a bearer token to a user id and role.
type TokenVerifier interface {
	Identify(token string) (userID, role string, err error)
}

// RequireAuth answers 401 unless the request carries a valid "Authorization: Bearer"
// token, and puts the token's user id and role in the context.
func RequireAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				WriteError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			userID, role, err := verifier.Identify(strings.TrimSpace(token))
			if err != nil {
				slog.Debug("rejected token", "error", err, "path", r.URL.Path)
				WriteError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := ctxkeys.WithUserID(r.Context(), userID)
			ctx = ctxkeys.WithRole(ctx, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole answers 403 unless RequireAuth has put role in the context.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ctxkeys.Role(r.Context()) != role {
				slog.Warn("forbidden",
					"user_id", ctxkeys.UserID(r.Context()),
					"path", r.URL.Path,
					"required_role", role,
				)
				WriteError(w, http.StatusForbidden, "this endpoint requires the "+role+" role")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
