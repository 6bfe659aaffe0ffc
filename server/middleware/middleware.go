package middleware

import "net/http"

// Middleware wraps an http.Handler. These run outside the Gin engine so
// they also see requests gin never routes, such as CORS preflights.
type Middleware func(http.Handler) http.Handler

// Chain composes middleware with the first argument outermost.
func Chain(middlewares ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}
