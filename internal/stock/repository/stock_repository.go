package repository

import (
	"context"
	"database/sql"
	"fmt"

	"smaug/internal/domain"
	"smaug/internal/errors"
)

type MySQLStockRepository struct {
	db *sql.DB
}

func NewMySQLStockRepository(db *sql.DB) *MySQLStockRepository {
	return &MySQLStockRepository{db: db}
}

func (r *MySQLStockRepository) FindByProductID(ctx context.Context, productID int64) (*domain.StockRecord, error) {
	query := `SELECT id, produto_id, quantidade FROM estoque WHERE produto_id = ?`

	var record domain.StockRecord
	err := r.db.QueryRowContext(ctx, query, productID).Scan(
		&record.ID, &record.ProductID, &record.Quantity,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("estoque não encontrado para o produto %d", productID))
	}
	if err != nil {
		return nil, fmt.Errorf("querying stock by product id: %w", err)
	}

	return &record, nil
}

// FindByProductIDForUpdate locks the product's stock row for the duration of
// the transaction. Concurrent mutations on the same product serialize here.
func (r *MySQLStockRepository) FindByProductIDForUpdate(ctx context.Context, tx *sql.Tx, productID int64) (*domain.StockRecord, error) {
	query := `SELECT id, produto_id, quantidade FROM estoque WHERE produto_id = ? FOR UPDATE`

	var record domain.StockRecord
	err := tx.QueryRowContext(ctx, query, productID).Scan(
		&record.ID, &record.ProductID, &record.Quantity,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("estoque não encontrado para o produto %d", productID))
	}
	if err != nil {
		return nil, fmt.Errorf("querying stock for update: %w", err)
	}

	return &record, nil
}

func (r *MySQLStockRepository) Insert(ctx context.Context, tx *sql.Tx, productID int64, quantity int) (int64, error) {
	query := `INSERT INTO estoque (produto_id, quantidade) VALUES (?, ?)`

	result, err := tx.ExecContext(ctx, query, productID, quantity)
	if err != nil {
		return 0, fmt.Errorf("inserting stock record: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return lastInsertID, nil
}

func (r *MySQLStockRepository) UpdateQuantity(ctx context.Context, tx *sql.Tx, id int64, quantity int) error {
	query := `UPDATE estoque SET quantidade = ? WHERE id = ?`

	result, err := tx.ExecContext(ctx, query, quantity, id)
	if err != nil {
		return fmt.Errorf("updating stock quantity: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("registro de estoque %d não encontrado", id))
	}

	return nil
}
