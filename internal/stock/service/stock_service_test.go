package service

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"smaug/internal/domain"
	apperrors "smaug/internal/errors"
)

// stubDriver backs a real *sql.DB whose transactions commit and roll back
// without touching a database.
type stubDriver struct{}

func (stubDriver) Open(string) (driver.Conn, error) { return stubConn{}, nil }

type stubConn struct{}

func (stubConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not supported") }
func (stubConn) Close() error                        { return nil }
func (stubConn) Begin() (driver.Tx, error)           { return stubTx{}, nil }

type stubTx struct{}

func (stubTx) Commit() error   { return nil }
func (stubTx) Rollback() error { return nil }

func init() {
	sql.Register("stocktest", stubDriver{})
}

func newStubDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("stocktest", "")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

type mockStockRepository struct {
	FindByProductIDFunc          func(ctx context.Context, productID int64) (*domain.StockRecord, error)
	FindByProductIDForUpdateFunc func(ctx context.Context, tx *sql.Tx, productID int64) (*domain.StockRecord, error)
	InsertFunc                   func(ctx context.Context, tx *sql.Tx, productID int64, quantity int) (int64, error)
	UpdateQuantityFunc           func(ctx context.Context, tx *sql.Tx, id int64, quantity int) error
}

func (m *mockStockRepository) FindByProductID(ctx context.Context, productID int64) (*domain.StockRecord, error) {
	return m.FindByProductIDFunc(ctx, productID)
}

func (m *mockStockRepository) FindByProductIDForUpdate(ctx context.Context, tx *sql.Tx, productID int64) (*domain.StockRecord, error) {
	return m.FindByProductIDForUpdateFunc(ctx, tx, productID)
}

func (m *mockStockRepository) Insert(ctx context.Context, tx *sql.Tx, productID int64, quantity int) (int64, error) {
	return m.InsertFunc(ctx, tx, productID, quantity)
}

func (m *mockStockRepository) UpdateQuantity(ctx context.Context, tx *sql.Tx, id int64, quantity int) error {
	return m.UpdateQuantityFunc(ctx, tx, id, quantity)
}

type mockProductRepository struct {
	FindByIDFunc func(ctx context.Context, id int64) (*domain.Product, error)
}

func (m *mockProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	return m.FindByIDFunc(ctx, id)
}

func stubProductRepo() *mockProductRepository {
	return &mockProductRepository{
		FindByIDFunc: func(ctx context.Context, id int64) (*domain.Product, error) {
			return &domain.Product{ID: id, Name: "Caneta Azul"}, nil
		},
	}
}

func newTestStockService(t *testing.T, stockRepo StockRepository, productRepo ProductRepository) *StockService {
	return NewStockService(newStubDB(t), stockRepo, productRepo, zap.NewNop())
}

func TestIncrease_ExistingRecord(t *testing.T) {
	var updatedQuantity int
	stockRepo := &mockStockRepository{
		FindByProductIDForUpdateFunc: func(ctx context.Context, tx *sql.Tx, productID int64) (*domain.StockRecord, error) {
			return &domain.StockRecord{ID: 1, ProductID: productID, Quantity: 40}, nil
		},
		UpdateQuantityFunc: func(ctx context.Context, tx *sql.Tx, id int64, quantity int) error {
			updatedQuantity = quantity
			return nil
		},
	}

	svc := newTestStockService(t, stockRepo, stubProductRepo())

	record, err := svc.Increase(context.Background(), 1, 10)

	require.NoError(t, err)
	assert.Equal(t, 50, updatedQuantity)
	assert.Equal(t, 50, record.Quantity)
}

func TestIncrease_CreatesRecordOnFirstMovement(t *testing.T) {
	var insertedQuantity = -1
	stockRepo := &mockStockRepository{
		FindByProductIDForUpdateFunc: func(ctx context.Context, tx *sql.Tx, productID int64) (*domain.StockRecord, error) {
			return nil, apperrors.NewNotFoundError("estoque não encontrado")
		},
		InsertFunc: func(ctx context.Context, tx *sql.Tx, productID int64, quantity int) (int64, error) {
			insertedQuantity = quantity
			return 9, nil
		},
		UpdateQuantityFunc: func(ctx context.Context, tx *sql.Tx, id int64, quantity int) error {
			return nil
		},
	}

	svc := newTestStockService(t, stockRepo, stubProductRepo())

	record, err := svc.Increase(context.Background(), 1, 15)

	require.NoError(t, err)
	assert.Equal(t, 0, insertedQuantity)
	assert.Equal(t, int64(9), record.ID)
	assert.Equal(t, 15, record.Quantity)
}

func TestIncrease_NonPositiveAmount(t *testing.T) {
	svc := newTestStockService(t, &mockStockRepository{}, stubProductRepo())

	_, err := svc.Increase(context.Background(), 1, 0)

	require.Error(t, err)
	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)
}

func TestIncrease_ProductNotFound(t *testing.T) {
	productRepo := &mockProductRepository{
		FindByIDFunc: func(ctx context.Context, id int64) (*domain.Product, error) {
			return nil, apperrors.NewNotFoundError("produto não encontrado")
		},
	}

	svc := newTestStockService(t, &mockStockRepository{}, productRepo)

	_, err := svc.Increase(context.Background(), 99, 10)

	require.Error(t, err)
	nfe, ok := apperrors.IsNotFoundError(err)
	require.True(t, ok)
	assert.Equal(t, "produto não encontrado", nfe.Message)
}

func TestDecrease_Success(t *testing.T) {
	var updatedQuantity int
	stockRepo := &mockStockRepository{
		FindByProductIDForUpdateFunc: func(ctx context.Context, tx *sql.Tx, productID int64) (*domain.StockRecord, error) {
			return &domain.StockRecord{ID: 1, ProductID: productID, Quantity: 100}, nil
		},
		UpdateQuantityFunc: func(ctx context.Context, tx *sql.Tx, id int64, quantity int) error {
			updatedQuantity = quantity
			return nil
		},
	}

	svc := newTestStockService(t, stockRepo, stubProductRepo())

	record, err := svc.Decrease(context.Background(), 1, 30)

	require.NoError(t, err)
	assert.Equal(t, 70, updatedQuantity)
	assert.Equal(t, 70, record.Quantity)
}

func TestDecrease_InsufficientBalance(t *testing.T) {
	stockRepo := &mockStockRepository{
		FindByProductIDForUpdateFunc: func(ctx context.Context, tx *sql.Tx, productID int64) (*domain.StockRecord, error) {
			return &domain.StockRecord{ID: 1, ProductID: productID, Quantity: 5}, nil
		},
		UpdateQuantityFunc: func(ctx context.Context, tx *sql.Tx, id int64, quantity int) error {
			return errors.New("should not be called")
		},
	}

	svc := newTestStockService(t, stockRepo, stubProductRepo())

	_, err := svc.Decrease(context.Background(), 1, 10)

	require.Error(t, err)
	ise, ok := apperrors.IsInsufficientStockError(err)
	require.True(t, ok)
	assert.Equal(t, int64(1), ise.ProductID)
}

func TestDecrease_NoRecord(t *testing.T) {
	stockRepo := &mockStockRepository{
		FindByProductIDForUpdateFunc: func(ctx context.Context, tx *sql.Tx, productID int64) (*domain.StockRecord, error) {
			return nil, apperrors.NewNotFoundError("estoque não encontrado")
		},
	}

	svc := newTestStockService(t, stockRepo, stubProductRepo())

	_, err := svc.Decrease(context.Background(), 1, 10)

	require.Error(t, err)
	nfe, ok := apperrors.IsNotFoundError(err)
	require.True(t, ok)
	assert.Equal(t, "estoque não encontrado", nfe.Message)
}

func TestBalance(t *testing.T) {
	stockRepo := &mockStockRepository{
		FindByProductIDFunc: func(ctx context.Context, productID int64) (*domain.StockRecord, error) {
			return &domain.StockRecord{ID: 1, ProductID: productID, Quantity: 42}, nil
		},
	}

	svc := newTestStockService(t, stockRepo, stubProductRepo())

	record, err := svc.Balance(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, 42, record.Quantity)
}
