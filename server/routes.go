package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/huzzdev/sincrolab-backend/authz"
	"github.com/huzzdev/sincrolab-backend/server/endpoint"
)

// Access is the authentication metadata attached to a route.
type Access struct {
	// Public routes skip the access gate entirely.
	Public bool
	// Roles restricts an authenticated route. An empty set admits any
	// authenticated identity.
	Roles authz.RoleSet
}

// PublicAccess marks a route as reachable without a token.
var PublicAccess = Access{Public: true}

// Authenticated admits any valid, unrevoked token.
var Authenticated = Access{}

// RequireRoles admits only the given roles.
func RequireRoles[R ~string](roles ...R) Access {
	return Access{Roles: authz.Roles(roles...)}
}

// Route is one entry of the route table.
type Route struct {
	Method  string
	Path    string
	Access  Access
	Handler gin.HandlerFunc
}

// Mount installs routes on the engine. Each route gets the access gate
// (unless public), then the role gate (when roles are set), then its
// handler.
func (s *Server) Mount(routes ...Route) error {
	for _, r := range routes {
		if r.Access.Public && !r.Access.Roles.Unrestricted() {
			return fmt.Errorf("route %s %s: public routes cannot restrict roles", r.Method, r.Path)
		}
		if r.Handler == nil {
			return fmt.Errorf("route %s %s: nil handler", r.Method, r.Path)
		}

		chain := make([]gin.HandlerFunc, 0, 3)
		if r.Access.Public {
			chain = append(chain, s.gate.Public())
		} else {
			chain = append(chain, s.gate.Handler())
			if !r.Access.Roles.Unrestricted() {
				chain = append(chain, s.gate.RoleGate(r.Access.Roles))
			}
		}
		chain = append(chain, r.Handler)
		s.engine.Handle(r.Method, r.Path, chain...)

		s.log.Debug("Route mounted", map[string]interface{}{
			"method": r.Method,
			"path":   r.Path,
			"public": r.Access.Public,
			"roles":  r.Access.Roles.String(),
		})
	}
	return nil
}

// OperationalRoutes returns the public /health and /info routes.
func OperationalRoutes(serviceName string, checker endpoint.HealthChecker) []Route {
	return []Route{
		{Method: http.MethodGet, Path: "/health", Access: PublicAccess, Handler: endpoint.Health(serviceName, checker)},
		{Method: http.MethodGet, Path: "/info", Access: PublicAccess, Handler: endpoint.Info(serviceName)},
	}
}
