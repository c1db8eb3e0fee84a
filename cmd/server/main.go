package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"brandhub/config"
	"brandhub/internal/database"
	"brandhub/internal/router"
	"brandhub/internal/ws"
	"brandhub/pkg/events"
	"brandhub/pkg/logger"

	"github.com/shopspring/decimal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Config{}).Fatalf("config: %v", err)
	}
	log := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	// amounts go over the wire as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true

	db, err := database.NewDB(&cfg.Database, log)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	ledgerHub := ws.NewLedgerHub()
	pub := events.Multi{newBroker(cfg, log), ledgerHub}
	defer pub.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engine := router.Setup(ctx, cfg, db, log, pub, ledgerHub)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Infof("server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown")
		os.Exit(1)
	}
	log.Info("server stopped")
}

// newBroker connects to RabbitMQ, or returns a logging no-op publisher when AMQP is
// unset or unreachable so settlement never depends on the broker being up.
func newBroker(cfg *config.Config, log *logger.Logger) events.Publisher {
	if cfg.Events.AMQPURL == "" {
		log.Info("events: AMQP_URL not set, domain events stay in-process")
		return &events.Fallback{Log: log}
	}
	p, err := events.NewProducer(cfg.Events.AMQPURL, cfg.Events.Exchange)
	if err != nil {
		log.WithError(err).Warn("events: broker unavailable, domain events stay in-process")
		return &events.Fallback{Log: log}
	}
	log.WithField("exchange", cfg.Events.Exchange).Info("events: publishing to rabbitmq")
	return p
}
