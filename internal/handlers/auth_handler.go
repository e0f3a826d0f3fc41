package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"ledger-backend/internal/auth"
	"ledger-backend/internal/config"
	"ledger-backend/internal/models"
	"ledger-backend/internal/timeutil"
	"ledger-backend/pkg/utils"
)

type AuthHandler struct {
	Operators auth.Operators
	JWT       *auth.JWTManager
	cfg       *config.Config
}

func NewAuthHandler(cfg *config.Config, jwtManager *auth.JWTManager) *AuthHandler {
	return &AuthHandler{
		Operators: auth.Operators(cfg.Auth.Operators),
		JWT:       jwtManager,
		cfg:       cfg,
	}
}

// Login exchanges operator credentials for a bearer token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	name := strings.TrimSpace(req.Name)

	if !h.Operators.Authenticate(name, req.Password) {
		log.Printf("[Auth] Failed login for %q from %s", name, r.RemoteAddr)
		utils.RespondError(w, http.StatusUnauthorized, "Invalid name or password")
		return
	}

	token, err := h.JWT.GenerateToken(name)
	if err != nil {
		log.Printf("[Auth] Token generation failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Could not issue token")
		return
	}

	utils.JSON(w, http.StatusOK, models.AuthResponse{
		Token:     token,
		Operator:  name,
		ExpiresAt: timeutil.Now().Add(time.Duration(h.cfg.JWT.ExpirationHours) * time.Hour),
	})
}
