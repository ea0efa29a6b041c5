package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/ray-remotestate/swiftserve/models"
	"github.com/ray-remotestate/swiftserve/utils"
)

type ContextKey string

const (
	userContextKey ContextKey = "user"
)

// Auth guards staff routes with bearer access tokens. A nil issuer leaves
// every route open.
type Auth struct {
	issuer *utils.TokenIssuer
}

func NewAuth(issuer *utils.TokenIssuer) *Auth {
	return &Auth{issuer: issuer}
}

func (a *Auth) Enabled() bool {
	return a != nil && a.issuer != nil
}

func (a *Auth) AuthMiddleware(next http.Handler) http.Handler {
	if !a.Enabled() {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr, err := extractBearerToken(r)
		if err != nil {
			utils.RespondError(w, http.StatusUnauthorized, "unauthorized: missing token")
			return
		}

		claims, err := a.issuer.ParseAccess(tokenStr)
		if err != nil {
			utils.RespondError(w, http.StatusUnauthorized, "unauthorized: invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetAuthenticatedUser(r *http.Request) (*utils.Claims, error) {
	claims, ok := r.Context().Value(userContextKey).(*utils.Claims)
	if !ok {
		return nil, errors.New("no user in context")
	}
	return claims, nil
}

func extractBearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.New("authorization header missing")
	}
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", errors.New("invalid authorization format")
	}
	return parts[1], nil
}

// RoleBasedMiddleware admits only the given roles. It must run after
// AuthMiddleware.
func (a *Auth) RoleBasedMiddleware(allowedRoles ...models.Role) func(http.Handler) http.Handler {
	allowed := make(map[models.Role]bool)
	for _, role := range allowedRoles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		if !a.Enabled() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := GetAuthenticatedUser(r)
			if err != nil {
				utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			if !allowed[claims.Role] {
				utils.RespondError(w, http.StatusForbidden, "forbidden: insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
