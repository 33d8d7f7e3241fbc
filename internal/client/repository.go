package client

import (
	"context"
	"database/sql"
	"fmt"

	"smaug/internal/domain"
	"smaug/internal/errors"
)

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

func (r *MySQLRepository) FindAll(ctx context.Context) ([]domain.Client, error) {
	query := `SELECT id, nome, email, documento, telefone, ativo FROM clientes ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying clients: %w", err)
	}
	defer rows.Close()

	var clients []domain.Client
	for rows.Next() {
		var c domain.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Document, &c.Phone, &c.Active); err != nil {
			return nil, fmt.Errorf("scanning client: %w", err)
		}
		clients = append(clients, c)
	}

	return clients, rows.Err()
}

func (r *MySQLRepository) FindByID(ctx context.Context, id int64) (*domain.Client, error) {
	query := `SELECT id, nome, email, documento, telefone, ativo FROM clientes WHERE id = ?`

	var c domain.Client
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Email, &c.Document, &c.Phone, &c.Active,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("cliente não encontrado com o ID: %d", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying client by id: %w", err)
	}

	return &c, nil
}

func (r *MySQLRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM clientes WHERE email = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking client email: %w", err)
	}

	return exists, nil
}

func (r *MySQLRepository) Insert(ctx context.Context, c domain.Client) (int64, error) {
	query := `INSERT INTO clientes (nome, email, documento, telefone, ativo) VALUES (?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, c.Name, c.Email, c.Document, c.Phone, c.Active)
	if err != nil {
		return 0, fmt.Errorf("inserting client: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return lastInsertID, nil
}

func (r *MySQLRepository) Update(ctx context.Context, c domain.Client) error {
	query := `UPDATE clientes SET nome = ?, email = ?, documento = ?, telefone = ?, ativo = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, c.Name, c.Email, c.Document, c.Phone, c.Active, c.ID)
	if err != nil {
		return fmt.Errorf("updating client: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("cliente não encontrado com o ID: %d", c.ID))
	}

	return nil
}

func (r *MySQLRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM clientes WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting client: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("cliente não encontrado com o ID: %d", id))
	}

	return nil
}
