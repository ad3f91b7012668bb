// Package app provides application initialization and dependency wiring.
//
// App is the container that assembles the advisor service: configuration,
// tracing, the PostgreSQL pool with migrations, Genkit with the selected
// model provider, the artifact store, and the review pipeline. Construct
// with Setup and release with Close.
package app

import (
	"log/slog"

	"github.com/firebase/genkit/go/genkit"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prodsuite/advisor/internal/advisor"
	"github.com/prodsuite/advisor/internal/artifact"
	"github.com/prodsuite/advisor/internal/config"
)

// App is the core application container.
type App struct {
	Config *config.Config
	Logger *slog.Logger

	Genkit   *genkit.Genkit
	DBPool   *pgxpool.Pool
	Store    *artifact.Store
	Pipeline *advisor.Pipeline

	otelCleanup func()
}

// Close gracefully releases all resources.
func (a *App) Close() error {
	a.logger().Info("shutting down application")

	if a.DBPool != nil {
		a.DBPool.Close()
		a.logger().Debug("database pool closed")
	}

	if a.otelCleanup != nil {
		a.otelCleanup()
	}

	return nil
}

func (a *App) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}
