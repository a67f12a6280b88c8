package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gameswap/configs"
	"gameswap/internal/cache"
	"gameswap/internal/handler"
	"gameswap/internal/metrics"
	"gameswap/internal/producer"
	"gameswap/internal/router"
	"gameswap/internal/service"
	"gameswap/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
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

	migrateFlag := flag.Bool("migrate", false, "Run database migrations and exit")
	flag.Parse()

	if *migrateFlag {
		sqlDB, err := db.DB()
		if err != nil {
			logger.Error("Failed to get sql.DB", "error", err)
			os.Exit(1)
		}
		if err := goose.SetDialect("postgres"); err != nil {
			logger.Error("Goose: failed to set dialect", "error", err)
			os.Exit(1)
		}
		logger.Info("Running database migrations...")
		if err := goose.Up(sqlDB, "internal/migrations"); err != nil {
			logger.Error("Goose migration failed", "error", err)
			os.Exit(1)
		}
		logger.Info("Migrations completed successfully")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	meterProvider, err := metrics.SetupProvider(ctx, cfg.OTLPEndpoint, "gameswap-api")
	if err != nil {
		logger.Error("Failed to set up metrics exporter", "error", err)
		os.Exit(1)
	}
	m, err := metrics.New(otel.Meter("gameswap-api"))
	if err != nil {
		logger.Error("Failed to create metrics", "error", err)
		os.Exit(1)
	}

	st := store.New(db)
	if err := st.Ping(ctx); err != nil {
		logger.Error("Failed to ping DB", "error", err)
		os.Exit(1)
	}
	m.SetStoreUp(ctx, true)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	var userCache *cache.UserCache
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unreachable, user caching disabled", "error", err)
	} else {
		userCache = cache.NewUserCache(redisClient, time.Duration(cfg.Redis.TTLSeconds)*time.Second)
	}

	publisher := producer.New(cfg.Kafka.Broker, logger)
	defer publisher.Close()

	tradeService := service.NewTradeService(st, publisher, logger, m)
	userService := service.NewUserService(st, publisher, userCache, logger, m)
	gameService := service.NewGameService(st)

	routerConfig := &router.Config{
		TradeHandler: handler.NewTradeHandler(tradeService),
		UserHandler:  handler.NewUserHandler(userService),
		GameHandler:  handler.NewGameHandler(gameService),
		Healthz: func(c *gin.Context) {
			if err := st.Ping(c.Request.Context()); err != nil {
				m.SetStoreUp(c.Request.Context(), false)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
				return
			}
			m.SetStoreUp(c.Request.Context(), true)
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		},
	}

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router.NewRouter(routerConfig),
	}

	go func() {
		logger.Info("Trade API listening", "port", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown error", "error", err)
	}
	if meterProvider != nil {
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			logger.Error("Metrics shutdown error", "error", err)
		}
	}

	logger.Info("Shutdown complete")
}
