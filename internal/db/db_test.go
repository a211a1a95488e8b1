package db

import (
	"path/filepath"
	"testing"
)

func TestMigrationsAndSeed(t *testing.T) {
	database, err := InitDB("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	// Both are safe to run more than once.
	for i := 0; i < 2; i++ {
		if err := RunMigrations(database, "sqlite"); err != nil {
			t.Fatalf("RunMigrations (pass %d) failed: %v", i+1, err)
		}
		if err := Seed(database); err != nil {
			t.Fatalf("Seed (pass %d) failed: %v", i+1, err)
		}
	}

	var roles int
	if err := database.QueryRow("SELECT COUNT(*) FROM roles").Scan(&roles); err != nil {
		t.Fatalf("counting roles: %v", err)
	}
	if roles != 3 {
		t.Errorf("expected 3 roles, got %d", roles)
	}

	var admins int
	if err := database.QueryRow("SELECT COUNT(*) FROM users WHERE username = 'admin'").Scan(&admins); err != nil {
		t.Fatalf("counting admins: %v", err)
	}
	if admins != 1 {
		t.Errorf("expected exactly one seeded admin, got %d", admins)
	}
}

func TestInitDBUnknownDriver(t *testing.T) {
	if _, err := InitDB("oracle", "whatever"); err == nil {
		t.Fatal("expected an error for an unsupported driver")
	}
}
