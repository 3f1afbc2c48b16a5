// Command tastematchd serves the group restaurant recommendation API.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	tastematch "github.com/gkoduol/tastematch"
	"github.com/gkoduol/tastematch/config"
	"github.com/gkoduol/tastematch/embedding"
	"github.com/gkoduol/tastematch/embedding/huggingface"
	"github.com/gkoduol/tastematch/pooling"
	"github.com/gkoduol/tastematch/rating"
	"github.com/gkoduol/tastematch/server"
	"github.com/gkoduol/tastematch/store"
	"github.com/gkoduol/tastematch/yelp"
)

func main() {
	if err := run(); err != nil {
		slog.Error("daemon failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	blend, _ := rating.BlendByName(cfg.Engine.Blend)
	strategy, _ := pooling.ByName(cfg.Engine.Strategy)

	mem := store.NewMemory()
	stores := tastematch.Stores{
		Ratings: mem,
		Groups:  mem,
		Vectors: mem,
		Catalog: mem,
	}

	rec, err := tastematch.New(stores,
		tastematch.WithBlend(blend),
		tastematch.WithStrategy(strategy),
		tastematch.WithLikeThreshold(cfg.Engine.LikeThreshold),
		tastematch.WithLogger(&tastematch.Logger{Logger: logger}),
	)
	if err != nil {
		return err
	}

	opts := []server.Option{server.WithLogger(logger)}
	if cfg.Yelp.APIKey != "" {
		opts = append(opts, server.WithSearcher(yelp.New(cfg.Yelp.APIKey)))
	} else {
		logger.Warn("yelp api key not set, candidate search disabled")
	}
	if cfg.Embedding.Token != "" {
		hfOpts := []huggingface.Option{huggingface.WithRateLimit(cfg.Embedding.RateLimit)}
		if cfg.Embedding.Endpoint != "" {
			hfOpts = append(hfOpts, huggingface.WithEndpoint(cfg.Embedding.Endpoint))
		}
		hf := huggingface.New(cfg.Embedding.Token, hfOpts...)
		opts = append(opts, server.WithEmbedder(embedding.NewCached(hf)))
	} else {
		logger.Warn("embedding token not set, similarity ranking disabled")
	}

	srv := server.New(rec, stores, opts...)
	httpSrv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Server.Addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stderr, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	}
	return slog.New(handler)
}
