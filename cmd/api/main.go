package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"payment-notify-relay/internal/client"
	"payment-notify-relay/internal/config"
	"payment-notify-relay/internal/logger"
	"payment-notify-relay/internal/repository"
	"payment-notify-relay/internal/server"
	"payment-notify-relay/internal/service"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// load .env into os.Environ
	envErr := godotenv.Load()

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		logrus.WithError(err).Fatal("failed to parse config")
	}

	log := logger.New(cfg.Log, cfg.Environment.Name)
	if envErr != nil {
		log.Info("no .env file found (ok in prod)")
	}
	if cfg.Mail.From == "" || cfg.Mail.Password == "" {
		log.Warn("EMAIL_FROM / EMAIL_PASS not set, confirmation emails will fail")
	}
	if cfg.Webhook.PaidURL == "" {
		log.Warn("WEBHOOK_PAID not set, payment notifications will fail")
	}

	webhookClient := client.NewWebhookClient(&cfg.Webhook)
	mailClient := client.NewMailClient(&cfg.Mail)

	submissionRepo := repository.NewSubmissionRepository(cfg.Store.SubmissionTTL, log)
	defer submissionRepo.Close()

	submissionService := service.NewSubmissionService(
		submissionRepo,
		webhookClient,
		mailClient,
		cfg.Webhook,
		log,
	)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	// Init HTTP server
	srv := server.NewServer(submissionService, log)

	log.WithField("addr", serverAddr).Info("starting HTTP server")
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Info("signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown error")
	}
}
