package main

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"

	"github.com/huzzdev/sincrolab-backend/account"
	"github.com/huzzdev/sincrolab-backend/api"
	"github.com/huzzdev/sincrolab-backend/auth"
	"github.com/huzzdev/sincrolab-backend/auth/jwt"
	"github.com/huzzdev/sincrolab-backend/auth/password"
	"github.com/huzzdev/sincrolab-backend/auth/revocation"
	"github.com/huzzdev/sincrolab-backend/bootstrap"
	"github.com/huzzdev/sincrolab-backend/database"
	"github.com/huzzdev/sincrolab-backend/observability"
	"github.com/huzzdev/sincrolab-backend/server"
	"github.com/huzzdev/sincrolab-backend/server/middleware"
)

// configure builds the auth core on top of the started database and
// registers the HTTP server, which bootstrap starts next.
func configure(db *database.Component) func(context.Context, *bootstrap.App[*AppConfig]) error {
	return func(ctx context.Context, app *bootstrap.App[*AppConfig]) error {
		cfg := app.Cfg
		log := app.Logger

		metrics, err := observability.NewAuthMetrics(otel.GetMeterProvider().Meter(observability.InstrumentationName))
		if err != nil {
			return fmt.Errorf("auth metrics: %w", err)
		}

		codec, err := jwt.NewCodec(&cfg.Auth.JWT, func() *auth.SessionClaims { return &auth.SessionClaims{} })
		if err != nil {
			return err
		}

		store := account.NewGormStore(db.DB())
		svc := auth.NewService(store,
			password.NewHasher(cfg.Auth.Password),
			codec,
			revocation.NewMemoryRegistry(),
			auth.WithLogger(log),
			auth.WithMetrics(metrics),
		)

		if cfg.Auth.SeedAdmin.Enabled() {
			if err := svc.EnsureAdmin(ctx, cfg.Auth.SeedAdmin.Email, cfg.Auth.SeedAdmin.Password); err != nil {
				return err
			}
		}

		gate := middleware.NewAccessGate(svc,
			middleware.WithGateLogger(log),
			middleware.WithGateMetrics(metrics),
		)
		srv := server.New(cfg.Server, gate, log)

		routes := server.OperationalRoutes(cfg.Name, app.Components.HealthAll)
		routes = append(routes, api.Routes(
			api.NewAuthHandler(svc),
			api.NewUsersHandler(svc, store),
		)...)
		if err := srv.Mount(routes...); err != nil {
			return err
		}

		log.Info("Auth configured", map[string]interface{}{
			"auth":        cfg.Auth.Describe(),
			"cors":        cfg.Server.CORS.AllowedOrigins,
			"seed_admin":  cfg.Auth.SeedAdmin.Enabled(),
			"routes":      len(routes),
			"environment": cfg.Environment,
		})
		return app.RegisterComponent(server.NewComponent(srv))
	}
}
