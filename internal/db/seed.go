package db

import (
	"database/sql"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Nethmini-Hirunika/Pahana-Edu-Billing/internal/models"
)

// Seed inserts the fixed role set and, on a fresh database, a default admin
// account so the API is usable out of the box.
func Seed(database *sql.DB) error {
	roles := []models.UserRole{models.RoleAdmin, models.RoleStaff, models.RoleUser}
	for _, role := range roles {
		var id int
		err := database.QueryRow("SELECT id FROM roles WHERE name = ?", string(role)).Scan(&id)
		if err == sql.ErrNoRows {
			if _, err := database.Exec("INSERT INTO roles (name) VALUES (?)", string(role)); err != nil {
				return fmt.Errorf("failed to seed role %s: %w", role, err)
			}
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to check role %s: %w", role, err)
		}
	}

	var userCount int
	if err := database.QueryRow("SELECT COUNT(*) FROM users").Scan(&userCount); err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if userCount > 0 {
		return nil
	}

	var adminRoleID int
	if err := database.QueryRow("SELECT id FROM roles WHERE name = ?", string(models.RoleAdmin)).Scan(&adminRoleID); err != nil {
		return fmt.Errorf("failed to resolve admin role: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash default admin password: %w", err)
	}

	now := time.Now()
	_, err = database.Exec(
		"INSERT INTO users (username, full_name, email, phone, password_hash, role_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		"admin", "System Administrator", "admin@pahanaedu.com", "+1234567890", string(hash), adminRoleID, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}
	return nil
}
