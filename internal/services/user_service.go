package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Nethmini-Hirunika/Pahana-Edu-Billing/internal/models"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// UserService manages staff and admin accounts. Every user holds exactly one
// role, resolved against the fixed role table. Passwords are stored only as
// bcrypt hashes.
type UserService struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewUserService(db *sql.DB, logger zerolog.Logger) *UserService {
	return &UserService{
		db:     db,
		logger: logger,
	}
}

const userSelect = `
	SELECT u.id, u.username, u.full_name, u.email, u.phone, u.password_hash, r.name, u.created_at, u.updated_at
	FROM users u
	JOIN roles r ON r.id = u.role_id`

func scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Username, &user.FullName, &user.Email, &user.Phone,
		&user.PasswordHash, &user.Role, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) resolveRole(roleName string) (int, error) {
	var roleID int
	err := s.db.QueryRow("SELECT id FROM roles WHERE name = ?", roleName).Scan(&roleID)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("role %q is not known: %w", roleName, ErrInvalidArgument)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve role: %w", err)
	}
	return roleID, nil
}

func (s *UserService) CreateUser(req *models.CreateUserRequest) (*models.User, error) {
	if req.Username == "" || req.Password == "" || req.FullName == "" {
		return nil, fmt.Errorf("username, password and full name are required: %w", ErrInvalidArgument)
	}

	roleID, err := s.resolveRole(req.Role)
	if err != nil {
		return nil, err
	}

	var existingID int
	err = s.db.QueryRow("SELECT id FROM users WHERE username = ?", req.Username).Scan(&existingID)
	if err == nil {
		return nil, fmt.Errorf("username %q: %w", req.Username, ErrConflict)
	}
	if err != sql.ErrNoRows {
		s.logger.Error().Err(err).Msg("Error checking existing user")
		return nil, fmt.Errorf("database error: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error hashing password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	result, err := s.db.Exec(
		"INSERT INTO users (username, full_name, email, phone, password_hash, role_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		req.Username, req.FullName, req.Email, req.Phone, string(hashedPassword), roleID, now, now,
	)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error creating user")
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	userID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get user ID: %w", err)
	}

	user, err := s.GetUserByID(int(userID))
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int("user_id", user.ID).Str("username", user.Username).Str("role", user.Role).Msg("User created")
	return user, nil
}

func (s *UserService) Authenticate(req *models.LoginRequest) (*models.User, error) {
	if req.Username == "" || req.Password == "" {
		return nil, fmt.Errorf("username and password are required: %w", ErrInvalidArgument)
	}

	user, err := scanUser(s.db.QueryRow(userSelect+" WHERE u.username = ?", req.Username))
	if err == sql.ErrNoRows {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("Error querying user")
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn().Str("username", req.Username).Msg("Failed authentication attempt")
		return nil, ErrInvalidCredentials
	}

	s.logger.Info().Int("user_id", user.ID).Str("username", user.Username).Msg("User authenticated")
	return user, nil
}

func (s *UserService) GetUserByID(userID int) (*models.User, error) {
	user, err := scanUser(s.db.QueryRow(userSelect+" WHERE u.id = ?", userID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user with id %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		s.logger.Error().Err(err).Int("user_id", userID).Msg("Error fetching user")
		return nil, fmt.Errorf("database error: %w", err)
	}
	return user, nil
}

// GetUsers lists users, optionally filtered by a free-text query matched
// against username, full name and email.
func (s *UserService) GetUsers(query string, limit, offset int) ([]*models.User, error) {
	q := userSelect + " ORDER BY u.id LIMIT ? OFFSET ?"
	args := []interface{}{limit, offset}
	if query != "" {
		q = userSelect + ` WHERE u.username LIKE ? OR u.full_name LIKE ? OR u.email LIKE ?
			ORDER BY u.id LIMIT ? OFFSET ?`
		pattern := "%" + query + "%"
		args = []interface{}{pattern, pattern, pattern, limit, offset}
	}

	rows, err := s.db.Query(q, args...)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error fetching users")
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var user models.User
		err := rows.Scan(
			&user.ID, &user.Username, &user.FullName, &user.Email, &user.Phone,
			&user.PasswordHash, &user.Role, &user.CreatedAt, &user.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning user: %w", err)
		}
		users = append(users, &user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// UpdateUser overwrites only the fields present in the request. A role change
// replaces the user's role with the newly resolved one.
func (s *UserService) UpdateUser(userID int, req *models.UpdateUserRequest) (*models.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil && *req.Username != "" {
		var existingID int
		err := s.db.QueryRow("SELECT id FROM users WHERE username = ? AND id <> ?", *req.Username, userID).Scan(&existingID)
		if err == nil {
			return nil, fmt.Errorf("username %q: %w", *req.Username, ErrConflict)
		}
		if err != sql.ErrNoRows {
			return nil, fmt.Errorf("database error: %w", err)
		}
		user.Username = *req.Username
	}
	if req.FullName != nil && *req.FullName != "" {
		user.FullName = *req.FullName
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}

	roleID := 0
	if req.Role != nil && *req.Role != "" {
		roleID, err = s.resolveRole(*req.Role)
		if err != nil {
			return nil, err
		}
		user.Role = *req.Role
	} else {
		roleID, err = s.resolveRole(user.Role)
		if err != nil {
			return nil, err
		}
	}

	_, err = s.db.Exec(
		"UPDATE users SET username = ?, full_name = ?, email = ?, phone = ?, role_id = ?, updated_at = ? WHERE id = ?",
		user.Username, user.FullName, user.Email, user.Phone, roleID, time.Now(), userID,
	)
	if err != nil {
		s.logger.Error().Err(err).Int("user_id", userID).Msg("Error updating user")
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	updated, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int("user_id", userID).Msg("User updated")
	return updated, nil
}

// ChangePassword re-hashes and overwrites unconditionally; verifying the old
// password is the authentication layer's concern, not this one's.
func (s *UserService) ChangePassword(userID int, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("password is required: %w", ErrInvalidArgument)
	}

	if _, err := s.GetUserByID(userID); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error hashing password")
		return fmt.Errorf("failed to hash password: %w", err)
	}

	_, err = s.db.Exec("UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?",
		string(hashedPassword), time.Now(), userID)
	if err != nil {
		s.logger.Error().Err(err).Int("user_id", userID).Msg("Error changing password")
		return fmt.Errorf("failed to change password: %w", err)
	}

	s.logger.Info().Int("user_id", userID).Msg("Password changed")
	return nil
}

// DeleteUser removes an account. callerID, when non-zero, is the identity of
// the requesting user; deleting one's own account is refused.
func (s *UserService) DeleteUser(userID, callerID int) error {
	if _, err := s.GetUserByID(userID); err != nil {
		return err
	}

	if callerID != 0 && callerID == userID {
		return fmt.Errorf("cannot delete your own account: %w", ErrInvalidArgument)
	}

	if _, err := s.db.Exec("DELETE FROM users WHERE id = ?", userID); err != nil {
		s.logger.Error().Err(err).Int("user_id", userID).Msg("Error deleting user")
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.Info().Int("user_id", userID).Int("caller_id", callerID).Msg("User deleted")
	return nil
}
