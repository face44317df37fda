// Command server runs the sales-order proxy backend: a JSON API for drafting
// sales orders, backed by a third-party inventory/accounting service.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ordersync/go-orders-backend/internal/config"
	httpapi "github.com/ordersync/go-orders-backend/internal/http"
	"github.com/ordersync/go-orders-backend/internal/observability"
	"github.com/ordersync/go-orders-backend/internal/sysutil"
	"github.com/ordersync/go-orders-backend/internal/zoho"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	// .env is optional; real deployments inject environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("configuration invalid")
	}

	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	var tokens zoho.TokenSource
	if cfg.Remote.AccessToken != "" {
		tokens = zoho.StaticToken(cfg.Remote.AccessToken)
	} else {
		tokens = zoho.NewOAuthTokenSource(zoho.OAuthConfig{
			TokenURL:     cfg.Remote.TokenURL,
			ClientID:     cfg.Remote.ClientID,
			ClientSecret: cfg.Remote.ClientSecret,
			RefreshToken: cfg.Remote.RefreshToken,
		}, nil)
	}

	remote := zoho.NewClient(zoho.Config{
		BaseURL:        cfg.Remote.APIBaseURL,
		OrganizationID: cfg.Remote.OrganizationID,
		Timeout:        cfg.Remote.RequestTimeout,
		Retry:          zoho.RetryPolicy(cfg.Remote.RetryPolicy),
	}, tokens, nil)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, remote, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received, draining")

	sctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server stopped")
}
