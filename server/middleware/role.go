package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/huzzdev/sincrolab-backend/auth"
	"github.com/huzzdev/sincrolab-backend/auth/authctx"
	"github.com/huzzdev/sincrolab-backend/authz"
	apperrors "github.com/huzzdev/sincrolab-backend/errors"
	"github.com/huzzdev/sincrolab-backend/observability"
)

// RoleGate returns a Gin middleware that admits only identities whose role
// is allowed by roles. It must run after the AccessGate; a request without
// an attached identity is refused with 403.
func RoleGate(roles authz.Checker) gin.HandlerFunc {
	return roleGate(roles, nil)
}

// RoleGate is RoleGate with the gate's metrics attached.
func (g *AccessGate) RoleGate(roles authz.Checker) gin.HandlerFunc {
	return roleGate(roles, g.metrics)
}

func roleGate(roles authz.Checker, metrics *observability.AuthMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := authctx.Get[*auth.SessionClaims](c.Request.Context())
		if !ok || claims == nil || !roles.Allows(string(claims.Role)) {
			metrics.RecordGateDecision(c.Request.Context(), observability.OutcomeForbidden)
			c.AbortWithStatusJSON(http.StatusForbidden, apperrors.Forbidden("").ToResponse())
			return
		}
		c.Next()
	}
}
