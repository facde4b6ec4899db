package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookstore/internal/catalog"
	"bookstore/internal/config"
	"bookstore/internal/httpx"
	"bookstore/internal/platform/logger"
	"bookstore/internal/storefront"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log := logger.New(logger.Options{
		FilePath:   cfg.App.LogFilePath,
		Production: cfg.IsProduction(),
	})
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, closeSource, err := catalog.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeSource()

	svc := storefront.NewService(source, cfg.Catalog.ItemsPerPage, cfg.Catalog.DetailCacheTTL, log)
	if _, err := svc.Load(ctx); err != nil {
		log.Warn("starting with an empty catalog; POST /v1/catalog/reload to retry", zap.Error(err))
	}
	go svc.RefreshEvery(ctx, cfg.Catalog.RefreshInterval)

	httpServer := &http.Server{
		Addr:         cfg.App.Addr,
		Handler:      newRouter(ctx, cfg, svc, log),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting server",
			zap.String("addr", cfg.App.Addr),
			zap.String("env", cfg.App.Environment),
			zap.String("catalog_source", cfg.Catalog.Source),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// newRouter registers the storefront routes behind the middleware stack.
func newRouter(ctx context.Context, cfg *config.Config, svc *storefront.Service, log *zap.Logger) http.Handler {
	mux := http.NewServeMux()
	storefront.NewHTTPHandler(svc).Routes(mux)

	limiter := httpx.NewRateLimiter(ctx, cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst)

	return httpx.Chain(mux,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(log),
		httpx.RecoveryMiddleware(log),
		httpx.SecurityHeadersMiddleware(cfg.IsProduction()),
		httpx.CORSMiddleware(cfg.HTTP.CORSAllowedOrigins),
		limiter.Middleware,
		httpx.RequestSizeLimitMiddleware(cfg.HTTP.MaxRequestBytes),
	)
}
