package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/techmine/techmine/internal/auth/jwt"
	"github.com/techmine/techmine/internal/common/cnst"
	"github.com/techmine/techmine/internal/common/errorx"
)

// TokenVerifier checks a raw bearer token
type TokenVerifier interface {
	Verify(token string) (*jwt.Identity, error)
}

// RoleResolver decides the effective role of a verified identity
type RoleResolver interface {
	Resolve(ctx context.Context, id *jwt.Identity) (string, error)
}

// Authenticate rejects requests without a valid bearer token and stores the
// verified identity in the context
func Authenticate(v TokenVerifier, eh *errorx.ErrorHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			eh.HandleError(c, errorx.Unauthenticated())
			return
		}

		id, err := v.Verify(token)
		if err != nil {
			eh.HandleError(c, errorx.InvalidToken(err))
			return
		}

		c.Set(cnst.CtxKeyIdentity, id)
		c.Next()
	}
}

// RequireAdmin lets the request through only when the resolved role is
// Admin. A failing role lookup is a server error, not a refusal.
func RequireAdmin(r RoleResolver, isAdmin func(string) bool, eh *errorx.ErrorHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok {
			eh.HandleError(c, errorx.Unauthenticated())
			return
		}

		role, err := r.Resolve(c.Request.Context(), id)
		if err != nil {
			eh.HandleError(c, errorx.Internal(err))
			return
		}
		c.Set(cnst.CtxKeyRole, role)

		if !isAdmin(role) {
			eh.HandleError(c, errorx.Forbidden())
			return
		}
		c.Next()
	}
}

// IdentityFrom returns the identity set by Authenticate
func IdentityFrom(c *gin.Context) (*jwt.Identity, bool) {
	v, ok := c.Get(cnst.CtxKeyIdentity)
	if !ok {
		return nil, false
	}
	id, ok := v.(*jwt.Identity)
	return id, ok && id != nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
