package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"formdesk-backend/internal/ctxkeys"
	"formdesk-backend/internal/session"
)

// JSON writes v as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[http] encode response: %v", err)
	}
}

// JSONError writes {"error": message}.
func JSONError(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// validationFailed writes the 422 envelope used for rejected submissions.
func validationFailed(w http.ResponseWriter, details interface{}) {
	JSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
		"error":   "Validation failed",
		"details": details,
	})
}

// decode reads a JSON request body into v, answering 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		JSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}

// currentSession resolves the session the middleware put on the context.
// The session can still vanish between the middleware and here if the
// sweeper runs in between.
func currentSession(w http.ResponseWriter, r *http.Request, store *session.Store) (*session.Session, bool) {
	sid := ctxkeys.GetSessionID(r.Context())
	if sid == "" {
		JSONError(w, http.StatusUnauthorized, "Not authenticated")
		return nil, false
	}
	sess, err := store.Get(sid)
	if err != nil {
		JSONError(w, http.StatusUnauthorized, "Session expired. Start a new session.")
		return nil, false
	}
	return sess, true
}
