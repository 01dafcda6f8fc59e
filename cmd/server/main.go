package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/rl1809/order-service/internal/adapter/handler"
	"github.com/rl1809/order-service/internal/adapter/inventory"
	"github.com/rl1809/order-service/internal/adapter/messaging"
	"github.com/rl1809/order-service/internal/adapter/storage"
	"github.com/rl1809/order-service/internal/config"
	"github.com/rl1809/order-service/internal/core/service"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// MySQL
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal("failed to open mysql", zap.Error(err))
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		log.Fatal("failed to ping mysql", zap.Error(err))
	}
	log.Info("connected to mysql")

	// Kafka producer
	writer := messaging.NewWriter([]string{cfg.KafkaAddr})

	// Adapters
	repo := storage.NewMySQLAdapter(db)
	publisher := messaging.NewKafkaPublisher(log, writer, cfg.NotificationTopic)
	inventoryClient := inventory.NewHTTPClient(cfg.InventoryURL, cfg.InventoryTimeout)

	// Orchestrator, optionally wrapped with the circuit breaker
	var placer service.Placer = service.NewOrderService(log, inventoryClient, repo, publisher, service.Options{
		StrictLineItems: cfg.StrictLineItems,
	})
	if cfg.BreakerEnabled {
		placer = service.NewBreakerService(log, placer, service.BreakerConfig{
			MaxFailures: cfg.BreakerMaxFails,
			OpenFor:     cfg.BreakerOpenFor,
		})
	}

	// HTTP server
	httpHandler := handler.NewHTTPHandler(log, placer)
	httpServer := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpHandler.Routes(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Error("http server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	log.Info("http server stopped")

	if err := writer.Close(); err != nil {
		log.Error("kafka writer close error", zap.Error(err))
	}
	db.Close()
	log.Info("connections closed")
}
