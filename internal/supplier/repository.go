package supplier

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

func (r *MySQLRepository) FindAll(ctx context.Context) ([]domain.Supplier, error) {
	query := `SELECT id, nome, email, documento, telefone, ativo FROM fornecedores ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []domain.Supplier
	for rows.Next() {
		var s domain.Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Document, &s.Phone, &s.Active); err != nil {
			return nil, fmt.Errorf("scanning supplier: %w", err)
		}
		suppliers = append(suppliers, s)
	}

	return suppliers, rows.Err()
}

func (r *MySQLRepository) FindByID(ctx context.Context, id int64) (*domain.Supplier, error) {
	query := `SELECT id, nome, email, documento, telefone, ativo FROM fornecedores WHERE id = ?`

	var s domain.Supplier
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.Email, &s.Document, &s.Phone, &s.Active,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("fornecedor não encontrado com o ID: %d", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying supplier by id: %w", err)
	}

	return &s, nil
}

func (r *MySQLRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM fornecedores WHERE email = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking supplier email: %w", err)
	}

	return exists, nil
}

func (r *MySQLRepository) Insert(ctx context.Context, s domain.Supplier) (int64, error) {
	query := `INSERT INTO fornecedores (nome, email, documento, telefone, ativo) VALUES (?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, s.Name, s.Email, s.Document, s.Phone, s.Active)
	if err != nil {
		return 0, fmt.Errorf("inserting supplier: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return lastInsertID, nil
}

func (r *MySQLRepository) Update(ctx context.Context, s domain.Supplier) error {
	query := `UPDATE fornecedores SET nome = ?, email = ?, documento = ?, telefone = ?, ativo = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, s.Name, s.Email, s.Document, s.Phone, s.Active, s.ID)
	if err != nil {
		return fmt.Errorf("updating supplier: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("fornecedor não encontrado com o ID: %d", s.ID))
	}

	return nil
}

func (r *MySQLRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM fornecedores WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting supplier: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("fornecedor não encontrado com o ID: %d", id))
	}

	return nil
}
