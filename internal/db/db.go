package db

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// InitDB opens the database for the configured driver. "mysql" is used in
// production; "sqlite" (pure Go driver) is used for local development and
// tests. The MySQL DSN must include parseTime=true so DATETIME columns scan
// into time.Time.
func InitDB(driver, dbURL string) (*sql.DB, error) {
	database, err := sql.Open(driver, dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == "sqlite" {
		// modernc sqlite allows a single writer; funnel everything through
		// one connection so concurrent requests queue instead of erroring.
		database.SetMaxOpenConns(1)
		if _, err := database.Exec("PRAGMA foreign_keys = ON"); err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	if err := database.Ping(); err != nil {
		database.Close()
		return nil, fmt.Errorf("database is not reachable: %w", err)
	}

	return database, nil
}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS roles (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(50) NOT NULL UNIQUE
	);`,
	`CREATE TABLE IF NOT EXISTS users (
		id INT AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(100) NOT NULL UNIQUE,
		full_name VARCHAR(255) NOT NULL,
		email VARCHAR(100),
		phone VARCHAR(50),
		password_hash VARCHAR(255) NOT NULL,
		role_id INT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		FOREIGN KEY (role_id) REFERENCES roles(id)
	);`,
	`CREATE TABLE IF NOT EXISTS customers (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		address VARCHAR(255),
		phone VARCHAR(50),
		email VARCHAR(100),
		created_at DATETIME NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS items (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		price DECIMAL(10,2) NOT NULL,
		stock INT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS bills (
		id INT AUTO_INCREMENT PRIMARY KEY,
		customer_id INT NOT NULL,
		bill_date DATETIME NOT NULL,
		total_amount DECIMAL(10,2) NOT NULL,
		FOREIGN KEY (customer_id) REFERENCES customers(id),
		INDEX idx_bills_customer_id (customer_id)
	);`,
	`CREATE TABLE IF NOT EXISTS bill_items (
		id INT AUTO_INCREMENT PRIMARY KEY,
		bill_id INT NOT NULL,
		item_id INT NOT NULL,
		item_name VARCHAR(255) NOT NULL,
		quantity INT NOT NULL,
		unit_price DECIMAL(10,2) NOT NULL,
		subtotal DECIMAL(10,2) NOT NULL,
		FOREIGN KEY (bill_id) REFERENCES bills(id),
		INDEX idx_bill_items_bill_id (bill_id)
	);`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS roles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	);`,
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		full_name TEXT NOT NULL,
		email TEXT,
		phone TEXT,
		password_hash TEXT NOT NULL,
		role_id INTEGER NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		FOREIGN KEY (role_id) REFERENCES roles(id)
	);`,
	`CREATE TABLE IF NOT EXISTS customers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		address TEXT,
		phone TEXT,
		email TEXT,
		created_at DATETIME NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		price REAL NOT NULL,
		stock INTEGER NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS bills (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		customer_id INTEGER NOT NULL,
		bill_date DATETIME NOT NULL,
		total_amount REAL NOT NULL,
		FOREIGN KEY (customer_id) REFERENCES customers(id)
	);`,
	`CREATE TABLE IF NOT EXISTS bill_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		bill_id INTEGER NOT NULL,
		item_id INTEGER NOT NULL,
		item_name TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		unit_price REAL NOT NULL,
		subtotal REAL NOT NULL,
		FOREIGN KEY (bill_id) REFERENCES bills(id)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_bills_customer_id ON bills(customer_id);`,
	`CREATE INDEX IF NOT EXISTS idx_bill_items_bill_id ON bill_items(bill_id);`,
}

// RunMigrations creates the schema for the given driver. Statements are
// idempotent and run on every startup.
//
// bill_items.item_id is deliberately not a foreign key: a bill line is a
// snapshot of the sale (name and price included), and must survive the
// catalog item being removed later.
func RunMigrations(database *sql.DB, driver string) error {
	schema := mysqlSchema
	if driver == "sqlite" {
		schema = sqliteSchema
	}

	for _, q := range schema {
		if _, err := database.Exec(q); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
