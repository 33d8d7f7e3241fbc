package product

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"smaug/internal/domain"
	"smaug/internal/errors"
	"smaug/internal/infrastructure/cache"
)

type MySQLRepository struct {
	db       *sql.DB
	cache    cache.Client
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewMySQLRepository builds the product repository. cache may be nil, in
// which case every lookup goes to the database.
func NewMySQLRepository(db *sql.DB, cacheClient cache.Client, cacheTTL time.Duration, logger *zap.Logger) *MySQLRepository {
	return &MySQLRepository{
		db:       db,
		cache:    cacheClient,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

func cacheKey(id int64) string {
	return fmt.Sprintf("produto:%d", id)
}

// cachedProduct is the redis payload shape. Kept separate from the domain
// type so the cache encoding is not coupled to it.
type cachedProduct struct {
	ID          int64   `json:"id"`
	Name        string  `json:"nome"`
	Description string  `json:"descricao"`
	Barcode     string  `json:"codigoBarras"`
	Price       float64 `json:"preco"`
	SupplierID  int64   `json:"fornecedorId"`
}

func toCachedProduct(p domain.Product) cachedProduct {
	return cachedProduct(p)
}

func (c cachedProduct) toDomain() domain.Product {
	return domain.Product(c)
}

func (r *MySQLRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT id, nome, COALESCE(descricao, ''), COALESCE(codigo_barras, ''), preco, fornecedor_id
		FROM produtos ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Barcode, &p.Price, &p.SupplierID); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

// FindByID serves reads through the cache. A cache failure is logged and
// falls back to the database, never surfaced to the caller.
func (r *MySQLRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	if r.cache != nil {
		if cached, err := r.cache.Get(ctx, cacheKey(id)); err == nil {
			var cp cachedProduct
			if jsonErr := json.Unmarshal([]byte(cached), &cp); jsonErr == nil {
				p := cp.toDomain()
				return &p, nil
			}
		} else if err != cache.ErrCacheMiss {
			r.logger.Warn("product cache read failed", zap.Int64("productId", id), zap.Error(err))
		}
	}

	query := `SELECT id, nome, COALESCE(descricao, ''), COALESCE(codigo_barras, ''), preco, fornecedor_id
		FROM produtos WHERE id = ?`

	var p domain.Product
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Barcode, &p.Price, &p.SupplierID,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("produto não encontrado com o ID: %d", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying product by id: %w", err)
	}

	if r.cache != nil {
		if payload, jsonErr := json.Marshal(toCachedProduct(p)); jsonErr == nil {
			if err := r.cache.Set(ctx, cacheKey(id), payload, r.cacheTTL); err != nil {
				r.logger.Warn("product cache write failed", zap.Int64("productId", id), zap.Error(err))
			}
		}
	}

	return &p, nil
}

func (r *MySQLRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM produtos WHERE id = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking product existence: %w", err)
	}

	return exists, nil
}

func (r *MySQLRepository) ExistsByBarcode(ctx context.Context, barcode string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM produtos WHERE codigo_barras = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, barcode).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking product barcode: %w", err)
	}

	return exists, nil
}

func (r *MySQLRepository) Insert(ctx context.Context, p domain.Product) (int64, error) {
	query := `INSERT INTO produtos (nome, descricao, codigo_barras, preco, fornecedor_id) VALUES (?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, p.Name, p.Description, p.Barcode, p.Price, p.SupplierID)
	if err != nil {
		return 0, fmt.Errorf("inserting product: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return lastInsertID, nil
}

func (r *MySQLRepository) Update(ctx context.Context, p domain.Product) error {
	query := `UPDATE produtos SET nome = ?, descricao = ?, codigo_barras = ?, preco = ?, fornecedor_id = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, p.Name, p.Description, p.Barcode, p.Price, p.SupplierID, p.ID)
	if err != nil {
		return fmt.Errorf("updating product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("produto não encontrado com o ID: %d", p.ID))
	}

	r.invalidate(ctx, p.ID)
	return nil
}

func (r *MySQLRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM produtos WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("produto não encontrado com o ID: %d", id))
	}

	r.invalidate(ctx, id)
	return nil
}

func (r *MySQLRepository) invalidate(ctx context.Context, id int64) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Delete(ctx, cacheKey(id)); err != nil {
		r.logger.Warn("product cache invalidation failed", zap.Int64("productId", id), zap.Error(err))
	}
}
