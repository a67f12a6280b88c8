package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gameswap/configs"
	"gameswap/internal/event"
	"gameswap/internal/mail"
	"gameswap/internal/metrics"
	"gameswap/internal/notifier"
	"gameswap/internal/store"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	cfg := configs.AppLoad()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		logger.Error("Failed to connect to DB", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	meterProvider, err := metrics.SetupProvider(ctx, cfg.OTLPEndpoint, "gameswap-notifier")
	if err != nil {
		logger.Error("Failed to set up metrics exporter", "error", err)
		os.Exit(1)
	}
	m, err := metrics.New(otel.Meter("gameswap-notifier"))
	if err != nil {
		logger.Error("Failed to create metrics", "error", err)
		os.Exit(1)
	}

	kafkaReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{cfg.Kafka.Broker},
		GroupTopics: []string{
			event.TopicTradeOffers,
			event.TopicStatusUpdate,
			event.TopicUserChanges,
		},
		GroupID:        cfg.Kafka.GroupID,
		StartOffset:    kafka.FirstOffset,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: 0,    // Important: we commit manually after processing!
	})

	mailer, err := mail.NewSMTPMailer(mail.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
	})
	if err != nil {
		logger.Error("Failed to create mail client", "error", err)
		os.Exit(1)
	}

	svc := notifier.New(kafkaReader, store.New(db), mailer, cfg.SMTP.Sender, logger, m)

	logger.Info("Notifier started successfully")

	if err := svc.Start(ctx); err != nil {
		logger.Error("Notifier stopped with error", "error", err)
		os.Exit(1)
	}

	if meterProvider != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			logger.Error("Metrics shutdown error", "error", err)
		}
	}

	logger.Info("Notifier shutdown complete")
}
