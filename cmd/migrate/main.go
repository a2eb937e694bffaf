// Command migrate applies pending database migrations and exits. Use it in
// deployments that disable DATABASE_MIGRATE_ON_START.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"time"

	"github.com/wordweave/backend/internal/adapter/postgres"
	"github.com/wordweave/backend/internal/app"
	"github.com/wordweave/backend/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	logger.Info("migrations applied")
}
