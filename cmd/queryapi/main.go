// Command queryapi serves the §4.8 HTTP query service: lookup sentences
// by word or phrase, with OpenAPI documentation.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/dpriskorn/riksdagen-sentences/internal/config"
	"github.com/dpriskorn/riksdagen-sentences/internal/queryapi"
	"github.com/dpriskorn/riksdagen-sentences/internal/refcache"
	"github.com/dpriskorn/riksdagen-sentences/internal/refdata"
	"github.com/dpriskorn/riksdagen-sentences/internal/store"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	s, err := store.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Fatal("open store", zap.Error(err))
	}
	defer s.Close()

	cache := refcache.New()
	loader := refdata.New(s, cache)
	// The query service only needs the reference rows hydrated into the
	// cache, not the dataset list the ingest path consumes.
	if _, err := loader.Load(refdata.Paths{
		Languages:         cfg.LanguagesConfigPath,
		LexicalCategories: cfg.LexicalCategoriesConfigPath,
		EntityTypeLabels:  cfg.EntityTypeLabelsConfigPath,
		Datasets:          cfg.DatasetsConfigPath,
	}); err != nil {
		logger.Fatal("load reference data", zap.Error(err))
	}

	handler := queryapi.NewRouter(s, cache, logger, cfg.EnableCORS)

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting query service", zap.String("address", cfg.ServerAddress))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down query service")
	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	var zapLevel zap.AtomicLevel
	if err := zapLevel.UnmarshalText([]byte(level)); err == nil {
		cfg.Level = zapLevel
	}
	return cfg.Build()
}
