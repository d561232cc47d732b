package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wikiquiz"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := wikiquiz.FromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	wikiquiz.SetVerbose(cfg.Verbose)
	logger, err := wikiquiz.NewLogger(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()
	wikiquiz.SetLogger(logger)

	views, err := wikiquiz.OpenViewStore(cfg)
	if err != nil {
		logger.Fatalw("Failed to open view store", "store", cfg.ViewStore, "error", err)
	}
	defer views.Close()

	server, err := NewServer(cfg, views, logger)
	if err != nil {
		logger.Fatalw("Failed to create server", "error", err)
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infow("Starting server", "port", cfg.Port, "api", server.api.BaseURL(), "store", cfg.ViewStore)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		pruneViews(gctx, views, cfg.ViewTTL, logger)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Errorw("Server stopped", "error", err)
		return
	}
	logger.Infow("Server stopped")
}

// pruneViews drops views idle for longer than ttl until ctx is done.
func pruneViews(ctx context.Context, views wikiquiz.ViewStore, ttl time.Duration, logger *zap.SugaredLogger) {
	if ttl <= 0 {
		<-ctx.Done()
		return
	}
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := views.Prune(ctx, now.Add(-ttl))
			if err != nil {
				logger.Warnw("Failed to prune views", "error", err)
				continue
			}
			if n > 0 {
				logger.Infow("Pruned idle views", "count", n)
			}
		}
	}
}
