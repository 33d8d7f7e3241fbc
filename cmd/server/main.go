package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"smaug/internal/client"
	"smaug/internal/config"
	"smaug/internal/infrastructure/cache"
	"smaug/internal/infrastructure/logger"
	"smaug/internal/infrastructure/mysql"
	"smaug/internal/order"
	"smaug/internal/product"
	"smaug/internal/server"
	"smaug/internal/stock"
	"smaug/internal/supplier"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file, using system environment: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	// The cache is an optimization; the service runs without it.
	var cacheClient cache.Client
	redisClient, err := cache.NewRedisClient(cfg.Redis.Addr)
	if err != nil {
		zapLogger.Warn("redis unavailable, product cache disabled", zap.Error(err))
	} else {
		defer redisClient.Close()
		cacheClient = redisClient
		zapLogger.Info("redis connected")
	}

	clientCtrl := client.NewModule(db, zapLogger)
	supplierCtrl := supplier.NewModule(db, zapLogger)
	productCtrl := product.NewModule(db, cacheClient, cfg.Redis.CacheTTL, zapLogger)
	stockCtrl := stock.NewModule(db, cacheClient, cfg.Redis.CacheTTL, zapLogger)
	orderCtrl := order.NewModule(db, cacheClient, order.ModuleConfig{
		CacheTTL:         cfg.Redis.CacheTTL,
		TxTimeout:        cfg.Order.TxTimeout,
		MaxRetryAttempts: cfg.Order.MaxRetryAttempts,
	}, zapLogger)

	router := server.NewRouter(clientCtrl, supplierCtrl, productCtrl, stockCtrl, orderCtrl, zapLogger)

	srv := server.New(cfg.Server.Port, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}
