package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"formdesk-backend/internal/ctxkeys"
	"formdesk-backend/internal/models"
	"formdesk-backend/internal/session"
)

// SessionHandler starts and ends browser sessions.
type SessionHandler struct {
	store  *session.Store
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionHandler creates a SessionHandler signing tokens with secret.
// Tokens expire after ttl, the same idle limit the sweeper enforces.
func NewSessionHandler(store *session.Store, secret string, ttl time.Duration) *SessionHandler {
	return &SessionHandler{
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Create starts a session with an empty form and a fresh invoice.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess := h.store.Create()

	token, expiresAt, err := h.generateToken(sess.ID)
	if err != nil {
		log.Printf("[session] sign token: %v", err)
		h.store.Delete(sess.ID)
		JSONError(w, http.StatusInternalServerError, "Failed to start session")
		return
	}

	JSON(w, http.StatusCreated, models.SessionResponse{
		SessionID: sess.ID,
		Token:     token,
		ExpiresAt: expiresAt,
	})
}

// Delete ends the caller's session. Its token stops working immediately.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.store.Delete(ctxkeys.GetSessionID(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

// Health reports liveness and the number of open sessions.
func (h *SessionHandler) Health(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, models.HealthResponse{Status: "up", Sessions: h.store.Len()})
}

func (h *SessionHandler) generateToken(sid string) (string, time.Time, error) {
	now := h.now()
	expiresAt := now.Add(h.ttl)
	claims := jwt.MapClaims{
		"sid": sid,
		"exp": expiresAt.Unix(),
		"iat": now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(h.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}
