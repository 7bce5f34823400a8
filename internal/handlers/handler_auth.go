package handlers

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/nucash/nucash_backend/internal/dto"
	"github.com/nucash/nucash_backend/internal/middleware"
	"github.com/nucash/nucash_backend/pkg/config"
)

// authHandler issues bearer tokens to collecting devices and admin terminals.
type authHandler struct {
	cfg *config.Config
}

func newAuthHandler(cfg *config.Config) *authHandler {
	return &authHandler{cfg: cfg}
}

// registerAuthRoutes registers the public authentication routes.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config) {
	h := newAuthHandler(cfg)
	auth := r.Group("/auth")
	{
		auth.POST("/token", h.issueToken)
	}
}

// issueToken godoc
// @Summary Exchange the terminal API key for a bearer token
// @Description Issues a JWT for a collecting device or admin terminal
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   request body dto.TokenRequest true "Terminal credentials"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 401 {object} map[string]string "Invalid API key"
// @Router /auth/token [post]
func (h *authHandler) issueToken(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for token request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if h.cfg.TerminalAPIKey == "" ||
		subtle.ConstantTimeCompare([]byte(req.APIKey), []byte(h.cfg.TerminalAPIKey)) != 1 {
		logger.Warn("Token request with invalid API key", slog.String("terminal_id", req.TerminalID))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
		return
	}

	now := time.Now().UTC()
	expiresAt := now.Add(h.cfg.JWTExpiryDuration)
	claims := jwt.RegisteredClaims{
		Subject:   req.TerminalID,
		Issuer:    h.cfg.JWTIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.cfg.JWTSecret))
	if err != nil {
		logger.Error("Failed to sign token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	logger.Info("Token issued", slog.String("terminal_id", req.TerminalID))
	c.JSON(http.StatusOK, dto.TokenResponse{Token: signed, ExpiresAt: expiresAt})
}
