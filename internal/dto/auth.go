package dto

import "time"

// TokenRequest exchanges the configured terminal API key for a bearer token.
type TokenRequest struct {
	TerminalID string `json:"terminalId" binding:"required"`
	APIKey     string `json:"apiKey" binding:"required"`
}

// TokenResponse carries the issued JWT.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
