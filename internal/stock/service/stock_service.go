package service

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"smaug/internal/domain"
	"smaug/internal/errors"
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type StockRepository interface {
	FindByProductID(ctx context.Context, productID int64) (*domain.StockRecord, error)
	FindByProductIDForUpdate(ctx context.Context, tx *sql.Tx, productID int64) (*domain.StockRecord, error)
	Insert(ctx context.Context, tx *sql.Tx, productID int64, quantity int) (int64, error)
	UpdateQuantity(ctx context.Context, tx *sql.Tx, id int64, quantity int) error
}

type ProductRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
}

// StockService owns the stock ledger. Every mutation runs inside one
// transaction holding a row lock on the product's record.
type StockService struct {
	db          TransactionManager
	stockRepo   StockRepository
	productRepo ProductRepository
	logger      *zap.Logger
}

func NewStockService(
	db TransactionManager,
	stockRepo StockRepository,
	productRepo ProductRepository,
	logger *zap.Logger,
) *StockService {
	return &StockService{
		db:          db,
		stockRepo:   stockRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// Increase adds amount to the product's stock, creating the record at zero
// on first movement.
func (s *StockService) Increase(ctx context.Context, productID int64, amount int) (*domain.StockRecord, error) {
	if amount <= 0 {
		return nil, errors.NewValidationError("quantidade deve ser positiva", errors.ValidationDetail{
			Field:   "quantidade",
			Message: "quantidade deve ser maior que zero",
		})
	}

	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if _, ok := errors.IsNotFoundError(err); ok {
			return nil, errors.NewNotFoundError("produto não encontrado")
		}
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	record, err := s.stockRepo.FindByProductIDForUpdate(ctx, tx, productID)
	if err != nil {
		if _, ok := errors.IsNotFoundError(err); !ok {
			return nil, err
		}
		// First movement for this product: create the record lazily.
		id, insertErr := s.stockRepo.Insert(ctx, tx, productID, 0)
		if insertErr != nil {
			return nil, insertErr
		}
		record = &domain.StockRecord{ID: id, ProductID: productID, Quantity: 0}
	}

	newQuantity := record.Quantity + amount
	if err := s.stockRepo.UpdateQuantity(ctx, tx, record.ID, newQuantity); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit stock increase", zap.Int64("productId", productID), zap.Error(err))
		return nil, err
	}

	record.Quantity = newQuantity
	s.logger.Info("stock increased",
		zap.Int64("productId", productID),
		zap.Int("amount", amount),
		zap.Int("quantity", newQuantity))
	return record, nil
}

// Decrease removes amount from the product's stock. Fails without mutating
// anything when the balance is short or the record does not exist.
func (s *StockService) Decrease(ctx context.Context, productID int64, amount int) (*domain.StockRecord, error) {
	if amount <= 0 {
		return nil, errors.NewValidationError("quantidade deve ser positiva", errors.ValidationDetail{
			Field:   "quantidade",
			Message: "quantidade deve ser maior que zero",
		})
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	record, err := s.stockRepo.FindByProductIDForUpdate(ctx, tx, productID)
	if err != nil {
		if _, ok := errors.IsNotFoundError(err); ok {
			return nil, errors.NewNotFoundError("estoque não encontrado")
		}
		return nil, err
	}

	if !record.CanDecrease(amount) {
		s.logger.Warn("insufficient stock balance",
			zap.Int64("productId", productID),
			zap.Int("requested", amount),
			zap.Int("available", record.Quantity))
		return nil, errors.NewInsufficientStockError(
			"saldo insuficiente no estoque", productID, "")
	}

	newQuantity := record.Quantity - amount
	if err := s.stockRepo.UpdateQuantity(ctx, tx, record.ID, newQuantity); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit stock decrease", zap.Int64("productId", productID), zap.Error(err))
		return nil, err
	}

	record.Quantity = newQuantity
	s.logger.Info("stock decreased",
		zap.Int64("productId", productID),
		zap.Int("amount", amount),
		zap.Int("quantity", newQuantity))
	return record, nil
}

// Balance returns the current quantity for a product.
func (s *StockService) Balance(ctx context.Context, productID int64) (*domain.StockRecord, error) {
	record, err := s.stockRepo.FindByProductID(ctx, productID)
	if err != nil {
		if _, ok := errors.IsNotFoundError(err); ok {
			return nil, errors.NewNotFoundError("estoque não encontrado")
		}
		return nil, fmt.Errorf("querying stock balance: %w", err)
	}
	return record, nil
}
