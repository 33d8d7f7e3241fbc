package product

import (
	"database/sql"
	"time"

	"go.uber.org/zap"

	"smaug/internal/infrastructure/cache"
	"smaug/internal/supplier"
)

func NewModule(db *sql.DB, cacheClient cache.Client, cacheTTL time.Duration, logger *zap.Logger) *Controller {
	repo := NewMySQLRepository(db, cacheClient, cacheTTL, logger)
	supplierRepo := supplier.NewMySQLRepository(db)
	svc := NewService(repo, supplierRepo)
	return NewController(svc, logger)
}
