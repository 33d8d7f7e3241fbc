package stock

import (
	"database/sql"
	"time"

	"go.uber.org/zap"

	"smaug/internal/infrastructure/cache"
	"smaug/internal/product"
	"smaug/internal/stock/controller"
	"smaug/internal/stock/repository"
	"smaug/internal/stock/service"
)

func NewModule(db *sql.DB, cacheClient cache.Client, cacheTTL time.Duration, logger *zap.Logger) *controller.StockController {
	stockRepo := repository.NewMySQLStockRepository(db)
	productRepo := product.NewMySQLRepository(db, cacheClient, cacheTTL, logger)

	svc := service.NewStockService(db, stockRepo, productRepo, logger)

	return controller.NewStockController(svc, logger)
}
