// Package middleware implements the request-level access control gate:
// bearer-token authentication followed by role-based authorization.
package middleware

import (
	"net/http"
	"strings"

	"github.com/recouvro/recouvro/pkg/apperrors"
	"github.com/recouvro/recouvro/pkg/auth"
	"github.com/recouvro/recouvro/pkg/contextkeys"
	"github.com/recouvro/recouvro/pkg/httputil"
)

// AuthMiddleware verifies bearer tokens and attaches the caller identity to
// the request context.
type AuthMiddleware struct {
	issuer auth.TokenIssuer
}

// NewAuthMiddleware creates the authentication middleware.
func NewAuthMiddleware(issuer auth.TokenIssuer) *AuthMiddleware {
	return &AuthMiddleware{issuer: issuer}
}

// Handler wraps an HTTP handler with token authentication. Requests without
// a valid token receive a 401; the handler never runs.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := m.authenticate(r)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}

		ctx := contextkeys.WithIdentity(r.Context(), identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) authenticate(r *http.Request) (*auth.Identity, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, apperrors.ErrUnauthenticated
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, apperrors.ErrUnauthenticated
	}

	return m.issuer.Verify(parts[1])
}

// Authorize is the pure authorization decision: given an identity and the
// required role set it returns nil (allow) or a specific denial reason. It
// has no side effects. An empty role set admits any caller.
func Authorize(identity *auth.Identity, required ...auth.Role) error {
	if len(required) == 0 {
		return nil
	}
	if identity == nil {
		return apperrors.ErrUnauthenticated
	}
	for _, role := range required {
		if identity.Role == role {
			return nil
		}
	}
	return apperrors.ErrForbidden
}

// RequireRole creates middleware enforcing that the authenticated caller
// holds one of the given roles. Must run after Handler.
func RequireRole(roles ...auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := Authorize(GetIdentity(r), roles...); err != nil {
				httputil.WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetIdentity extracts the verified identity from the request, or nil when
// the request is anonymous.
func GetIdentity(r *http.Request) *auth.Identity {
	identity, ok := contextkeys.IdentityValue(r.Context()).(*auth.Identity)
	if !ok {
		return nil
	}
	return identity
}
