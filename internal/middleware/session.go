// Package middleware provides HTTP middleware for session resolution and rate limiting.
package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"formdesk-backend/internal/ctxkeys"
	"formdesk-backend/internal/session"
)

// Session validates the session token from the Authorization header, checks
// that the session is still live and injects its id into the request context.
// The token identifies a browser session, not a user.
func Session(secret string, store *session.Store) func(http.Handler) http.Handler {
	key := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "Session token required")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				writeError(w, http.StatusUnauthorized, "Invalid authorization format. Use: Bearer <token>")
				return
			}

			token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return key, nil
			})
			if err != nil || !token.Valid {
				writeError(w, http.StatusUnauthorized, "Invalid or expired session token")
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				writeError(w, http.StatusUnauthorized, "Invalid token claims")
				return
			}

			sid, _ := claims["sid"].(string)
			if sid == "" {
				writeError(w, http.StatusUnauthorized, "Invalid token: missing session ID")
				return
			}
			if _, err := store.Get(sid); err != nil {
				writeError(w, http.StatusUnauthorized, "Session expired. Start a new session.")
				return
			}

			next.ServeHTTP(w, r.WithContext(ctxkeys.WithSessionID(r.Context(), sid)))
		})
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
