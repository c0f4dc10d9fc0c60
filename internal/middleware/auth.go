package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"checkin-backend/internal/auth"
)

type contextKey string

const orgIDKey contextKey = "org_id"

// OrgID extracts the authenticated organization id from a request context.
// Zero means the request never passed the auth middleware.
func OrgID(ctx context.Context) int {
	if v, ok := ctx.Value(orgIDKey).(int); ok {
		return v
	}
	return 0
}

// WithOrgID returns a context carrying an org scope; used by tests and the
// kiosk agent's internal calls
func WithOrgID(ctx context.Context, orgID int) context.Context {
	return context.WithValue(ctx, orgIDKey, orgID)
}

type AuthMiddleware struct {
	jwtManager *auth.JWTManager
}

func NewAuthMiddleware(jwtManager *auth.JWTManager) *AuthMiddleware {
	return &AuthMiddleware{jwtManager: jwtManager}
}

// RequireOrg rejects any request without a valid org-scoped bearer token and
// stores the org id in the request context
func (m *AuthMiddleware) RequireOrg(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			unauthorized(w, "missing bearer token")
			return
		}

		claims, err := m.jwtManager.Validate(token)
		if err != nil {
			unauthorized(w, "invalid token")
			return
		}

		ctx := WithOrgID(r.Context(), claims.OrgID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	// Websocket clients cannot set headers from browsers; allow query param
	return r.URL.Query().Get("token")
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg, "kind": "authorization"})
}
