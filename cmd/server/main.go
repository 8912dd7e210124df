package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Seyfullahkurt9/warehouse-system-AP/internal/auth"
	"github.com/Seyfullahkurt9/warehouse-system-AP/internal/config"
	"github.com/Seyfullahkurt9/warehouse-system-AP/internal/db"
	httpapi "github.com/Seyfullahkurt9/warehouse-system-AP/internal/http"
	"github.com/Seyfullahkurt9/warehouse-system-AP/internal/logging"
	"github.com/Seyfullahkurt9/warehouse-system-AP/internal/messaging"
	"github.com/Seyfullahkurt9/warehouse-system-AP/internal/repository"
	"github.com/Seyfullahkurt9/warehouse-system-AP/internal/service"

	"go.uber.org/zap"
)

type publisher interface {
	service.EventPublisher
	Close() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := cfg.RequireServer(); err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		logger.Fatal("database error", zap.Error(err))
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, logger); err != nil {
		logger.Fatal("migration error", zap.Error(err))
	}

	var events publisher = messaging.NopPublisher{}
	if cfg.Kafka.Enabled() {
		events = messaging.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		logger.Info("publishing stock events",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.Topic),
		)
	}
	defer func() {
		if err := events.Close(); err != nil {
			logger.Warn("close event publisher", zap.Error(err))
		}
	}()

	repo := repository.New(pool)
	svc := service.New(repo, events, logger)
	authn := auth.NewJWTAuthenticator(cfg.JWTSecret)
	gate := auth.NewGate(repo, auth.DefaultPolicy(), logger)
	handler := httpapi.NewHandler(svc, logger)
	router := httpapi.NewRouter(handler, authn, gate, logger)

	server := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("force close failed", zap.Error(closeErr))
		}
	}
	logger.Info("server stopped")
}
