package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/contracthub/cms-backend/internal/models"
)

// AdminUserRepository handles admin user database operations
type AdminUserRepository struct {
	db DB
}

// NewAdminUserRepository creates a new admin user repository
func NewAdminUserRepository(db DB) *AdminUserRepository {
	return &AdminUserRepository{
		db: db,
	}
}

// GetByEmail returns the admin user with the given email.
// Returns sql.ErrNoRows when no account exists.
func (r *AdminUserRepository) GetByEmail(email string) (*models.AdminUser, error) {
	query := `
		SELECT id, email, password_hash, full_name, role, status,
		       last_login_at, created_at, updated_at
		FROM admin_users
		WHERE LOWER(email) = LOWER($1)
	`

	var user models.AdminUser
	if err := r.db.Get(&user, query, email); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID returns the admin user with the given id
func (r *AdminUserRepository) GetByID(id uuid.UUID) (*models.AdminUser, error) {
	query := `
		SELECT id, email, password_hash, full_name, role, status,
		       last_login_at, created_at, updated_at
		FROM admin_users
		WHERE id = $1
	`

	var user models.AdminUser
	if err := r.db.Get(&user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new admin user
func (r *AdminUserRepository) Create(user *models.AdminUser) error {
	query := `
		INSERT INTO admin_users (
			id, email, password_hash, full_name, role, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(
		query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FullName,
		user.Role,
		user.Status,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	return nil
}

// TouchLastLogin records a successful login time
func (r *AdminUserRepository) TouchLastLogin(id uuid.UUID) error {
	query := "UPDATE admin_users SET last_login_at = $1, updated_at = $1 WHERE id = $2"
	if _, err := r.db.Exec(query, time.Now(), id); err != nil {
		return fmt.Errorf("failed to record last login: %w", err)
	}
	return nil
}
