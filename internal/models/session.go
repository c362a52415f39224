package models

import "time"

// SessionResponse is returned when a browser session starts.
type SessionResponse struct {
	SessionID string    `json:"sessionId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// HealthResponse reports liveness.
type HealthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}
