package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"smaug/internal/domain"
	"smaug/internal/errors"
)

// querier is satisfied by both *sql.DB and *sql.Tx so line loading works
// inside and outside a transaction.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

func (r *MySQLOrderRepository) Insert(ctx context.Context, tx *sql.Tx, order *domain.Order) (int64, error) {
	query := `INSERT INTO pedidos (cliente_id, data_pedido, status, total) VALUES (?, ?, ?, ?)`

	result, err := tx.ExecContext(ctx, query, order.ClientID, order.CreatedAt, string(order.Status), order.Total)
	if err != nil {
		return 0, fmt.Errorf("inserting order: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return lastInsertID, nil
}

func (r *MySQLOrderRepository) InsertLine(ctx context.Context, tx *sql.Tx, line domain.OrderLine) (int64, error) {
	query := `INSERT INTO itens_pedido (pedido_id, produto_id, quantidade, preco_unitario) VALUES (?, ?, ?, ?)`

	result, err := tx.ExecContext(ctx, query, line.OrderID, line.ProductID, line.Quantity, line.UnitPrice)
	if err != nil {
		return 0, fmt.Errorf("inserting order line: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return lastInsertID, nil
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	query := `
		SELECT p.id, p.cliente_id, c.nome, p.data_pedido, p.status, p.total
		FROM pedidos p
		JOIN clientes c ON c.id = p.cliente_id
		WHERE p.id = ?
	`

	var order domain.Order
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID, &order.ClientID, &order.ClientName, &order.CreatedAt, &order.Status, &order.Total,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("pedido não encontrado")
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}

	lines, err := r.linesByOrderID(ctx, r.db, order.ID)
	if err != nil {
		return nil, err
	}
	order.Lines = lines

	return &order, nil
}

// FindByIDForUpdate locks the order row for the duration of the transaction
// and loads its lines through the same transaction. The client name is not
// joined here; callers re-read the full order after commit.
func (r *MySQLOrderRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.Order, error) {
	query := `SELECT id, cliente_id, data_pedido, status, total FROM pedidos WHERE id = ? FOR UPDATE`

	var order domain.Order
	err := tx.QueryRowContext(ctx, query, id).Scan(
		&order.ID, &order.ClientID, &order.CreatedAt, &order.Status, &order.Total,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("pedido não encontrado")
	}
	if err != nil {
		return nil, fmt.Errorf("querying order for update: %w", err)
	}

	lines, err := r.linesByOrderID(ctx, tx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Lines = lines

	return &order, nil
}

func (r *MySQLOrderRepository) UpdateStatus(ctx context.Context, tx *sql.Tx, id int64, status domain.OrderStatus) error {
	query := `UPDATE pedidos SET status = ? WHERE id = ?`

	result, err := tx.ExecContext(ctx, query, string(status), id)
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError("pedido não encontrado")
	}

	return nil
}

func (r *MySQLOrderRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pedidos`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting orders: %w", err)
	}
	return count, nil
}

func (r *MySQLOrderRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.Order, error) {
	query := `
		SELECT p.id, p.cliente_id, c.nome, p.data_pedido, p.status, p.total
		FROM pedidos p
		JOIN clientes c ON c.id = p.cliente_id
		ORDER BY p.data_pedido DESC, p.id DESC
		LIMIT ? OFFSET ?
	`

	return r.queryOrders(ctx, query, limit, offset)
}

func (r *MySQLOrderRepository) FindByClientID(ctx context.Context, clientID int64) ([]domain.Order, error) {
	query := `
		SELECT p.id, p.cliente_id, c.nome, p.data_pedido, p.status, p.total
		FROM pedidos p
		JOIN clientes c ON c.id = p.cliente_id
		WHERE p.cliente_id = ?
		ORDER BY p.data_pedido DESC, p.id DESC
	`

	return r.queryOrders(ctx, query, clientID)
}

func (r *MySQLOrderRepository) FindByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	query := `
		SELECT p.id, p.cliente_id, c.nome, p.data_pedido, p.status, p.total
		FROM pedidos p
		JOIN clientes c ON c.id = p.cliente_id
		WHERE p.status = ?
		ORDER BY p.data_pedido DESC, p.id DESC
	`

	return r.queryOrders(ctx, query, string(status))
}

func (r *MySQLOrderRepository) queryOrders(ctx context.Context, query string, args ...interface{}) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID, &order.ClientID, &order.ClientName, &order.CreatedAt, &order.Status, &order.Total,
		); err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachLines(ctx, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *MySQLOrderRepository) linesByOrderID(ctx context.Context, q querier, orderID int64) ([]domain.OrderLine, error) {
	query := `
		SELECT i.id, i.pedido_id, i.produto_id, pr.nome, i.quantidade, i.preco_unitario
		FROM itens_pedido i
		JOIN produtos pr ON pr.id = i.produto_id
		WHERE i.pedido_id = ?
		ORDER BY i.id
	`

	rows, err := q.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("querying order lines: %w", err)
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(
			&line.ID, &line.OrderID, &line.ProductID, &line.ProductName, &line.Quantity, &line.UnitPrice,
		); err != nil {
			return nil, fmt.Errorf("scanning order line: %w", err)
		}
		lines = append(lines, line)
	}

	return lines, rows.Err()
}

// attachLines loads the lines for a batch of orders with a single IN query.
func (r *MySQLOrderRepository) attachLines(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	placeholders := make([]string, len(orders))
	args := make([]interface{}, 0, len(orders))
	index := make(map[int64]*domain.Order, len(orders))
	for i := range orders {
		placeholders[i] = "?"
		args = append(args, orders[i].ID)
		index[orders[i].ID] = &orders[i]
	}

	query := fmt.Sprintf(`
		SELECT i.id, i.pedido_id, i.produto_id, pr.nome, i.quantidade, i.preco_unitario
		FROM itens_pedido i
		JOIN produtos pr ON pr.id = i.produto_id
		WHERE i.pedido_id IN (%s)
		ORDER BY i.pedido_id, i.id`,
		strings.Join(placeholders, ", "),
	)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("querying order lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(
			&line.ID, &line.OrderID, &line.ProductID, &line.ProductName, &line.Quantity, &line.UnitPrice,
		); err != nil {
			return fmt.Errorf("scanning order line: %w", err)
		}
		if order, ok := index[line.OrderID]; ok {
			order.Lines = append(order.Lines, line)
		}
	}

	return rows.Err()
}
