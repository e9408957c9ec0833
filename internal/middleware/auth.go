package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/eventtrail/eventtrail-go/internal/crypto"
	"github.com/eventtrail/eventtrail-go/internal/model"
	"github.com/eventtrail/eventtrail-go/internal/repository"
)

type contextKey string

const authUserKey contextKey = "authUser"

// AuthUser is the resolved identity attached to the request context after
// the bearer token checks out.
type AuthUser struct {
	ID       int64
	Username string
	Email    string
}

// UserFinder resolves a token's user ID to a live account.
type UserFinder interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// JWTAuth returns middleware that validates a Bearer token from the
// Authorization header. A missing or malformed header is 401; a token
// that fails verification is 403; a valid token whose user no longer
// exists is 401 again, since the session refers to nobody.
func JWTAuth(secret string, users UserFinder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeAuthError(w, http.StatusUnauthorized, "no token provided")
				return
			}

			token, found := strings.CutPrefix(authHeader, "Bearer ")
			if !found || token == "" {
				writeAuthError(w, http.StatusUnauthorized, "no token provided")
				return
			}

			claims, err := crypto.ValidateToken(token, secret)
			if err != nil {
				writeAuthError(w, http.StatusForbidden, "invalid or expired token")
				return
			}

			user, err := users.GetByID(r.Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, repository.ErrUserNotFound) {
					writeAuthError(w, http.StatusUnauthorized, "invalid token - user not found")
					return
				}
				slog.Error("auth user lookup failed", "error", err)
				writeAuthError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			identity := AuthUser{ID: user.ID, Username: user.Username, Email: user.Email}
			ctx := context.WithValue(r.Context(), authUserKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext extracts the authenticated identity from the request context.
func UserFromContext(ctx context.Context) (AuthUser, bool) {
	user, ok := ctx.Value(authUserKey).(AuthUser)
	return user, ok
}

func writeAuthError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	category := "Access denied"
	if status == http.StatusInternalServerError {
		category = "Authentication failed"
	}
	json.NewEncoder(w).Encode(map[string]string{"error": category, "message": msg})
}
