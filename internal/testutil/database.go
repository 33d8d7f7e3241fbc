package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

// SetupTestDB opens the integration test database. It expects a MySQL
// instance at localhost:3306 with a database named 'smaug_test' and skips
// the test when none is reachable.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := "root:@tcp(localhost:3306)/smaug_test?parseTime=true"
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// CleanupTestDB removes test data in FK-safe order and closes the pool.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{"itens_pedido", "pedidos", "estoque", "produtos", "fornecedores", "clientes"}
	for _, table := range tables {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// SetupTestTables creates the schema used by the repository tests. Mirrors
// migrations/00001_create_tables.sql.
func SetupTestTables(t *testing.T, db *sql.DB) {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS clientes (
			id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			nome VARCHAR(100),
			email VARCHAR(255) UNIQUE,
			documento VARCHAR(20),
			telefone VARCHAR(20),
			ativo TINYINT(1) NOT NULL DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS fornecedores (
			id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			nome VARCHAR(100),
			email VARCHAR(255) UNIQUE,
			documento VARCHAR(20),
			telefone VARCHAR(20),
			ativo TINYINT(1) NOT NULL DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS produtos (
			id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			nome VARCHAR(100) NOT NULL,
			descricao TEXT,
			codigo_barras VARCHAR(50) UNIQUE,
			preco DECIMAL(10,2) NOT NULL,
			fornecedor_id BIGINT NOT NULL,
			CONSTRAINT fk_produtos_fornecedor FOREIGN KEY (fornecedor_id) REFERENCES fornecedores (id)
		)`,
		`CREATE TABLE IF NOT EXISTS estoque (
			id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			produto_id BIGINT NOT NULL UNIQUE,
			quantidade INT NOT NULL DEFAULT 0,
			CONSTRAINT fk_estoque_produto FOREIGN KEY (produto_id) REFERENCES produtos (id)
		)`,
		`CREATE TABLE IF NOT EXISTS pedidos (
			id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			cliente_id BIGINT NOT NULL,
			data_pedido DATETIME NOT NULL,
			status VARCHAR(20) NOT NULL,
			total DECIMAL(12,2) NOT NULL DEFAULT 0,
			CONSTRAINT fk_pedidos_cliente FOREIGN KEY (cliente_id) REFERENCES clientes (id)
		)`,
		`CREATE TABLE IF NOT EXISTS itens_pedido (
			id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			pedido_id BIGINT NOT NULL,
			produto_id BIGINT NOT NULL,
			quantidade INT NOT NULL,
			preco_unitario DECIMAL(10,2) NOT NULL,
			CONSTRAINT fk_itens_pedido FOREIGN KEY (pedido_id) REFERENCES pedidos (id) ON DELETE CASCADE,
			CONSTRAINT fk_itens_produto FOREIGN KEY (produto_id) REFERENCES produtos (id)
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("failed to create test table: %v", err)
		}
	}
}
