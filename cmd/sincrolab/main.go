package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/huzzdev/sincrolab-backend/account"
	"github.com/huzzdev/sincrolab-backend/bootstrap"
	"github.com/huzzdev/sincrolab-backend/database"
	"github.com/huzzdev/sincrolab-backend/observability"
	"github.com/huzzdev/sincrolab-backend/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config.yml")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Get().String())
		return nil
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		return err
	}

	ctx := context.Background()
	shutdownTelemetry, err := observability.Init(ctx, cfg.Observability, observability.ServiceInfo{
		Name:        cfg.Name,
		Version:     version.Get().String(),
		Environment: cfg.Environment,
	}, app.Logger)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	app.OnStop(bootstrap.Hook(shutdownTelemetry))

	db := database.NewComponent(cfg.Database, app.Logger).WithAutoMigrate(&account.Account{})
	if err := app.RegisterComponent(db); err != nil {
		return err
	}
	app.OnConfigure(configure(db))

	return app.Run(ctx)
}
