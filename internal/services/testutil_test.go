package services

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/Nethmini-Hirunika/Pahana-Edu-Billing/internal/db"
	"github.com/Nethmini-Hirunika/Pahana-Edu-Billing/internal/models"

	"github.com/rs/zerolog"
)

// newTestDB opens a throwaway SQLite database with the full schema and role
// seed, so the services run against the real SQL they use in production.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	database, err := db.InitDB("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := db.RunMigrations(database, "sqlite"); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	if err := db.Seed(database); err != nil {
		t.Fatalf("failed to seed database: %v", err)
	}

	return database
}

func testCustomer(t *testing.T, svc *CustomerService, name string) *models.Customer {
	t.Helper()

	customer, err := svc.CreateCustomer(&models.CustomerRequest{
		Name:    name,
		Address: "12 Galle Road",
		Phone:   "0771234567",
		Email:   name + "@example.com",
	})
	if err != nil {
		t.Fatalf("failed to create customer %q: %v", name, err)
	}
	return customer
}

func testItem(t *testing.T, svc *ItemService, name string, price float64, stock int) *models.Item {
	t.Helper()

	item, err := svc.CreateItem(&models.CreateItemRequest{
		Name:  name,
		Price: price,
		Stock: stock,
	})
	if err != nil {
		t.Fatalf("failed to create item %q: %v", name, err)
	}
	return item
}

var testLogger = zerolog.Nop()
