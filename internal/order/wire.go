package order

import (
	"database/sql"
	"time"

	"go.uber.org/zap"

	"smaug/internal/client"
	"smaug/internal/infrastructure/cache"
	"smaug/internal/order/controller"
	"smaug/internal/order/repository"
	"smaug/internal/order/service"
	"smaug/internal/product"
	stockrepo "smaug/internal/stock/repository"
)

type ModuleConfig struct {
	CacheTTL         time.Duration
	TxTimeout        time.Duration
	MaxRetryAttempts int
}

func NewModule(db *sql.DB, cacheClient cache.Client, cfg ModuleConfig, logger *zap.Logger) *controller.OrderController {
	orderRepo := repository.NewMySQLOrderRepository(db)
	stockRepo := stockrepo.NewMySQLStockRepository(db)
	clientRepo := client.NewMySQLRepository(db)
	productRepo := product.NewMySQLRepository(db, cacheClient, cfg.CacheTTL, logger)

	svc := service.NewOrderService(
		db,
		orderRepo,
		stockRepo,
		clientRepo,
		productRepo,
		logger,
		cfg.TxTimeout,
		cfg.MaxRetryAttempts,
	)

	return controller.NewOrderController(svc, logger)
}
