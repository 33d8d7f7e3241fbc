package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"smaug/internal/domain"
	"smaug/internal/dto"
	apperrors "smaug/internal/errors"
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type OrderRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, order *domain.Order) (int64, error)
	InsertLine(ctx context.Context, tx *sql.Tx, line domain.OrderLine) (int64, error)
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.Order, error)
	UpdateStatus(ctx context.Context, tx *sql.Tx, id int64, status domain.OrderStatus) error
	CountAll(ctx context.Context) (int64, error)
	FindAll(ctx context.Context, limit, offset int) ([]domain.Order, error)
	FindByClientID(ctx context.Context, clientID int64) ([]domain.Order, error)
	FindByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error)
}

type StockRepository interface {
	FindByProductID(ctx context.Context, productID int64) (*domain.StockRecord, error)
	FindByProductIDForUpdate(ctx context.Context, tx *sql.Tx, productID int64) (*domain.StockRecord, error)
	UpdateQuantity(ctx context.Context, tx *sql.Tx, id int64, quantity int) error
}

type ClientRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Client, error)
}

type ProductRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
}

// OrderService orchestrates the order workflow. Stock is only committed at
// completion; creation performs a read-only availability check.
type OrderService struct {
	db               TransactionManager
	orderRepo        OrderRepository
	stockRepo        StockRepository
	clientRepo       ClientRepository
	productRepo      ProductRepository
	logger           *zap.Logger
	txTimeout        time.Duration
	maxRetryAttempts int
}

func NewOrderService(
	db TransactionManager,
	orderRepo OrderRepository,
	stockRepo StockRepository,
	clientRepo ClientRepository,
	productRepo ProductRepository,
	logger *zap.Logger,
	txTimeout time.Duration,
	maxRetryAttempts int,
) *OrderService {
	return &OrderService{
		db:               db,
		orderRepo:        orderRepo,
		stockRepo:        stockRepo,
		clientRepo:       clientRepo,
		productRepo:      productRepo,
		logger:           logger,
		txTimeout:        txTimeout,
		maxRetryAttempts: maxRetryAttempts,
	}
}

// Create validates the request against the catalog and current stock, then
// persists the order as ABERTO with its total fixed.
func (s *OrderService) Create(ctx context.Context, req dto.PedidoRequest) (*domain.Order, error) {
	if len(req.Items) == 0 {
		return nil, apperrors.NewValidationError("lista de itens não pode estar vazia", apperrors.ValidationDetail{
			Field:   "itens",
			Message: "itens não pode estar vazio",
		})
	}

	client, err := s.clientRepo.FindByID(ctx, req.ClientID)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return nil, apperrors.NewNotFoundError("cliente não encontrado")
		}
		return nil, err
	}

	order := &domain.Order{
		ClientID:   client.ID,
		ClientName: client.Name,
		CreatedAt:  time.Now().UTC(),
		Status:     domain.OrderStatusAberto,
	}

	for _, item := range req.Items {
		if item.Quantity < 1 {
			return nil, apperrors.NewValidationError("quantidade deve ser positiva", apperrors.ValidationDetail{
				Field:   "quantidade",
				Message: "quantidade deve ser no mínimo 1",
			})
		}
		if item.UnitPrice <= 0 {
			return nil, apperrors.NewValidationError("preço unitário deve ser positivo", apperrors.ValidationDetail{
				Field:   "precoUnitario",
				Message: "precoUnitario deve ser positivo",
			})
		}

		product, err := s.productRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			if _, ok := apperrors.IsNotFoundError(err); ok {
				return nil, apperrors.NewNotFoundError(
					fmt.Sprintf("produto com ID %d não encontrado", item.ProductID))
			}
			return nil, err
		}

		// Availability pre-check only; nothing is reserved here.
		record, err := s.stockRepo.FindByProductID(ctx, item.ProductID)
		if err != nil {
			if _, ok := apperrors.IsNotFoundError(err); ok {
				return nil, apperrors.NewNotFoundError(
					fmt.Sprintf("estoque não encontrado para o produto: %s", product.Name))
			}
			return nil, err
		}
		if !record.CanDecrease(item.Quantity) {
			return nil, apperrors.NewInsufficientStockError(
				fmt.Sprintf("quantidade insuficiente em estoque para o produto: %s", product.Name),
				product.ID, product.Name)
		}

		order.Lines = append(order.Lines, domain.OrderLine{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}

	order.Total = order.ComputeTotal()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	orderID, err := s.orderRepo.Insert(ctx, tx, order)
	if err != nil {
		return nil, err
	}
	order.ID = orderID

	for i := range order.Lines {
		order.Lines[i].OrderID = orderID
		lineID, err := s.orderRepo.InsertLine(ctx, tx, order.Lines[i])
		if err != nil {
			return nil, err
		}
		order.Lines[i].ID = lineID
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit order creation", zap.Error(err))
		return nil, err
	}

	s.logger.Info("order created",
		zap.Int64("orderId", order.ID),
		zap.Int64("clientId", order.ClientID),
		zap.Int("lineCount", len(order.Lines)),
		zap.Float64("total", order.Total))
	return order, nil
}

// Process moves an order from ABERTO to PROCESSANDO.
func (s *OrderService) Process(ctx context.Context, orderID int64) (*domain.Order, error) {
	if err := s.transition(ctx, orderID, (*domain.Order).Process); err != nil {
		return nil, err
	}

	s.logger.Info("order processing", zap.Int64("orderId", orderID))
	return s.orderRepo.FindByID(ctx, orderID)
}

// Cancel moves an order from ABERTO or PROCESSANDO to CANCELADO.
func (s *OrderService) Cancel(ctx context.Context, orderID int64) (*domain.Order, error) {
	if err := s.transition(ctx, orderID, (*domain.Order).Cancel); err != nil {
		return nil, err
	}

	s.logger.Info("order canceled", zap.Int64("orderId", orderID))
	return s.orderRepo.FindByID(ctx, orderID)
}

// transition applies a side-effect-free status change inside one
// transaction, locking the order row so concurrent transitions serialize.
func (s *OrderService) transition(ctx context.Context, orderID int64, apply func(*domain.Order) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	order, err := s.orderRepo.FindByIDForUpdate(ctx, tx, orderID)
	if err != nil {
		return err
	}

	if err := apply(order); err != nil {
		s.logger.Warn("transition rejected",
			zap.Int64("orderId", orderID),
			zap.Error(err))
		return err
	}

	if err := s.orderRepo.UpdateStatus(ctx, tx, orderID, order.Status); err != nil {
		return err
	}

	return tx.Commit()
}

// Complete finalizes a PROCESSANDO order, decrementing stock for every line
// in one transaction. Either every decrement succeeds and the order becomes
// CONCLUIDO, or nothing is persisted and the status stays PROCESSANDO.
func (s *OrderService) Complete(ctx context.Context, orderID int64) (*domain.Order, error) {
	maxAttempts := s.maxRetryAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	backoffs := []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := s.completeOnce(ctx, orderID)
		if err == nil {
			s.logger.Info("order completed", zap.Int64("orderId", orderID))
			return s.orderRepo.FindByID(ctx, orderID)
		}

		if !isDeadlockError(err) {
			return nil, err
		}

		if attempt < maxAttempts {
			backoff := backoffs[len(backoffs)-1]
			if attempt-1 < len(backoffs) {
				backoff = backoffs[attempt-1]
			}
			jitter := time.Duration(rand.Float64() * 0.4 * float64(backoff))
			time.Sleep(backoff + jitter)
			s.logger.Warn("deadlock detected, retrying completion",
				zap.Int("attempt", attempt),
				zap.Int("maxAttempts", maxAttempts),
				zap.Int64("orderId", orderID))
		}
	}

	return nil, apperrors.NewDeadlockError("max retries exceeded")
}

func (s *OrderService) completeOnce(ctx context.Context, orderID int64) error {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, nil)
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return err
	}
	// Rollback on any exit path; a no-op after commit.
	defer tx.Rollback()

	order, err := s.orderRepo.FindByIDForUpdate(txCtx, tx, orderID)
	if err != nil {
		return err
	}

	if err := order.Complete(); err != nil {
		s.logger.Warn("completion rejected",
			zap.Int64("orderId", orderID),
			zap.Error(err))
		return err
	}

	// Lock stock rows in ascending product id order so concurrent
	// completions touching the same products cannot deadlock each other.
	lines := make([]domain.OrderLine, len(order.Lines))
	copy(lines, order.Lines)
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })

	for _, line := range lines {
		record, err := s.stockRepo.FindByProductIDForUpdate(txCtx, tx, line.ProductID)
		if err != nil {
			if _, ok := apperrors.IsNotFoundError(err); ok {
				return apperrors.NewNotFoundError(
					fmt.Sprintf("estoque não encontrado para o produto: %s", line.ProductName))
			}
			return err
		}

		if !record.CanDecrease(line.Quantity) {
			s.logger.Warn("insufficient stock on completion",
				zap.Int64("orderId", orderID),
				zap.Int64("productId", line.ProductID),
				zap.Int("requested", line.Quantity),
				zap.Int("available", record.Quantity))
			return apperrors.NewInsufficientStockError(
				fmt.Sprintf("estoque insuficiente para o produto: %s", line.ProductName),
				line.ProductID, line.ProductName)
		}

		if err := s.stockRepo.UpdateQuantity(txCtx, tx, record.ID, record.Quantity-line.Quantity); err != nil {
			return err
		}
	}

	if err := s.orderRepo.UpdateStatus(txCtx, tx, orderID, domain.OrderStatusConcluido); err != nil {
		return err
	}

	return tx.Commit()
}

// GetByID returns one order with its lines.
func (s *OrderService) GetByID(ctx context.Context, orderID int64) (*domain.Order, error) {
	return s.orderRepo.FindByID(ctx, orderID)
}

// ListAll returns one page of orders, newest first, plus the total count.
func (s *OrderService) ListAll(ctx context.Context, page, size int) ([]domain.Order, int64, error) {
	total, err := s.orderRepo.CountAll(ctx)
	if err != nil {
		return nil, 0, err
	}

	orders, err := s.orderRepo.FindAll(ctx, size, page*size)
	if err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (s *OrderService) ListByClient(ctx context.Context, clientID int64) ([]domain.Order, error) {
	return s.orderRepo.FindByClientID(ctx, clientID)
}

func (s *OrderService) ListByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	return s.orderRepo.FindByStatus(ctx, status)
}

func isDeadlockError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1213 || mysqlErr.Number == 1205
	}
	return false
}
