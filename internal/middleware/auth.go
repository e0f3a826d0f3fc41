package middleware

import (
	"context"
	"net/http"
	"strings"

	"ledger-backend/internal/auth"
	"ledger-backend/pkg/utils"
)

type AuthMiddleware struct {
	jwtManager *auth.JWTManager
}

func NewAuthMiddleware(jwtManager *auth.JWTManager) *AuthMiddleware {
	return &AuthMiddleware{jwtManager: jwtManager}
}

// Authenticate is a middleware that validates JWT tokens and puts the
// operator name on the request context
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			utils.RespondError(w, http.StatusUnauthorized, "Authorization header required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.RespondError(w, http.StatusUnauthorized, "Invalid authorization format")
			return
		}

		claims, err := m.jwtManager.ValidateToken(parts[1])
		if err != nil {
			utils.RespondError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		if sink, ok := r.Context().Value(operatorSinkKey).(*string); ok {
			*sink = claims.Operator
		}
		ctx := auth.WithOperator(r.Context(), claims.Operator)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type sinkKey struct{}

var operatorSinkKey sinkKey

// withOperatorSink lets an outer middleware learn which operator the inner
// Authenticate accepted.
func withOperatorSink(ctx context.Context, sink *string) context.Context {
	return context.WithValue(ctx, operatorSinkKey, sink)
}
