package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"checkin-backend/internal/apperrors"
	"checkin-backend/internal/auth"
	"checkin-backend/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	Orgs       *repositories.OrganizationRepository
	JWTManager *auth.JWTManager
}

func NewAuthHandler(orgs *repositories.OrganizationRepository, jwtManager *auth.JWTManager) *AuthHandler {
	return &AuthHandler{Orgs: orgs, JWTManager: jwtManager}
}

type tokenRequest struct {
	Slug      string `json:"slug"`
	APISecret string `json:"api_secret"`
}

// Token exchanges an org slug + API secret for an org-scoped bearer token
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Validation("invalid request body"))
		return
	}
	if req.Slug == "" || req.APISecret == "" {
		writeError(w, apperrors.Validation("slug and api_secret are required"))
		return
	}

	org, err := h.Orgs.GetBySlug(r.Context(), req.Slug)
	if err != nil {
		writeError(w, err)
		return
	}
	if org == nil || bcrypt.CompareHashAndPassword([]byte(org.APISecretHash), []byte(req.APISecret)) != nil {
		writeError(w, apperrors.Unauthorized("invalid organization credentials"))
		return
	}
	if org.SubscriptionState == "suspended" {
		writeError(w, apperrors.Unauthorized("organization is suspended"))
		return
	}

	token, err := h.JWTManager.Generate(org)
	if err != nil {
		writeError(w, err)
		return
	}

	log.Printf("[Auth] Issued token for org %s", org.Slug)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token":  token,
		"org_id": org.ID,
	})
}
