// main.go
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LilVoxy/survey_report/config"
	"github.com/LilVoxy/survey_report/routes"
	"github.com/LilVoxy/survey_report/summarizer"
	"github.com/LilVoxy/survey_report/transform"
	"github.com/LilVoxy/survey_report/utils"
	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	logger := utils.NewLogger(cfg.EnableDetailedLogging)
	defer logger.Sync()
	logger.Info("Starting report server...")

	client, err := summarizer.New(cfg.Summarizer, logger)
	if err != nil {
		logger.Warn("⚠️ Summarization service disabled: %v", err)
	}
	transformer := transform.NewTransformer(client, logger, cfg.Summarizer.Timeout)

	router := mux.NewRouter()
	routes.SetupRoutes(router, cfg, transformer, logger)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("✅ Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("⚠️ Shutdown signal received, closing connections...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("❌ Server failed: %v", err)
	}

	logger.Info("👋 Server stopped")
}
