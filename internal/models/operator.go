package models

import "time"

// LoginRequest represents the request body for operator login
type LoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// AuthResponse represents the response after successful authentication
type AuthResponse struct {
	Token     string    `json:"token"`
	Operator  string    `json:"operator"`
	ExpiresAt time.Time `json:"expires_at"`
}
