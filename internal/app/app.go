// Package app wires configuration, storage, services, and transport into a
// running HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/wordweave/backend/internal/adapter/postgres"
	cardrepo "github.com/wordweave/backend/internal/adapter/postgres/card"
	"github.com/wordweave/backend/internal/adapter/postgres/dictcache"
	userrepo "github.com/wordweave/backend/internal/adapter/postgres/user"
	"github.com/wordweave/backend/internal/adapter/provider/lexgen"
	"github.com/wordweave/backend/internal/auth"
	"github.com/wordweave/backend/internal/config"
	cardsvc "github.com/wordweave/backend/internal/service/card"
	"github.com/wordweave/backend/internal/service/credit"
	"github.com/wordweave/backend/internal/service/lexicon"
	"github.com/wordweave/backend/internal/transport/middleware"
	"github.com/wordweave/backend/internal/transport/rest"
)

// Run is the application entry point. It blocks until ctx is canceled,
// then shuts the server down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if cfg.Database.MigrateOnStart {
		if err := postgres.Migrate(ctx, pool); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		logger.Info("migrations applied")
	}

	txManager := postgres.NewTxManager(pool)
	users := userrepo.New(pool)
	cards := cardrepo.New(pool)
	cache := dictcache.New(pool)

	genClient := lexgen.NewClient(cfg.LexGen.BaseURL, cfg.LexGen.APIKey, cfg.LexGen.Model, cfg.LexGen.Timeout)
	defer genClient.Close() //nolint:errcheck

	ledger := credit.NewLedger(logger, users, txManager)
	lexiconSvc := lexicon.NewService(logger, genClient, cache, ledger, cfg.LexGen, cfg.Credits)
	cardSvc := cardsvc.NewService(logger, cards, lexiconSvc, ledger, txManager, cfg.Credits)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)

	mux := rest.NewRouter(rest.Handlers{
		Health:  rest.NewHealthHandler(pool, BuildVersion()),
		Lexicon: rest.NewLexiconHandler(lexiconSvc, logger),
		Cards:   rest.NewCardHandler(cardSvc, logger),
		Credits: rest.NewCreditsHandler(ledger, logger),
	})

	rateLimiter := middleware.NewRateLimiter(time.Minute)
	defer rateLimiter.Stop()

	handler := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.CORS(cfg.CORS),
		rateLimiter.Limit(cfg.Server.RateLimitPerMin),
		middleware.Auth(jwtManager),
		middleware.Logger(logger),
	)(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
