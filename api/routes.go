package api

import "github.com/huzzdev/sincrolab-backend/server"

// RouteProvider exposes a handler group's route table.
type RouteProvider interface {
	Routes() []server.Route
}

// Routes concatenates the route tables of providers.
func Routes(providers ...RouteProvider) []server.Route {
	var routes []server.Route
	for _, p := range providers {
		routes = append(routes, p.Routes()...)
	}
	return routes
}
