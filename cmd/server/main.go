package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wlmost/dog-school-app-sub001/internal/config"
	"github.com/wlmost/dog-school-app-sub001/internal/infra"
	"github.com/wlmost/dog-school-app-sub001/internal/repository"
	"github.com/wlmost/dog-school-app-sub001/internal/router"
	"github.com/wlmost/dog-school-app-sub001/internal/worker"
)

// @title           Hundeschule API
// @version         1.0
// @description     Backend für Kundenverwaltung, Kursbuchung und Rechnungswesen einer Hundeschule.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Env == "production" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := infra.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// A configured PayPal integration must be able to verify webhooks.
	// Refusing to start beats silently booking unverified payments.
	var verifier *infra.WebhookVerifier
	if cfg.PayPalClientID != "" {
		verifier, err = infra.NewWebhookVerifier(cfg.PayPalWebhookID)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize paypal webhook verifier")
		}
	} else {
		log.Warn().Msg("paypal not configured, online payments disabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Async workers: domain events -> notification composer -> email sender
	dispatcher := worker.NewDispatcher(rdb)
	invoiceRepo := repository.NewInvoiceRepository(db)
	handlers := &worker.Handlers{
		Notification: worker.NewNotificationWorker(
			invoiceRepo,
			repository.NewPaymentRepository(db),
			repository.NewBookingRepository(db),
			repository.NewUserRepository(db),
			dispatcher,
		),
		Email: worker.NewEmailWorker(infra.NewMailer(cfg), rdb),
	}
	worker.StartWorkerPool(ctx, rdb, handlers, cfg.WorkerPoolSize)

	// Daily overdue sweep
	sweep := worker.NewReminderSweep(invoiceRepo, dispatcher)
	cronRunner, err := worker.StartReminderCron(ctx, sweep, cfg.ReminderCron, cfg.ReminderDueDays)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start reminder cron")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router.New(cfg, db, rdb, verifier),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	cancel()
	cronCtx := cronRunner.Stop()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	<-cronCtx.Done()
	log.Info().Msg("server stopped")
}
