package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/contracthub/cms-backend/internal/models"
)

// PromoterRepository handles promoter database operations
type PromoterRepository struct {
	db DB
}

// NewPromoterRepository creates a new promoter repository
func NewPromoterRepository(db DB) *PromoterRepository {
	return &PromoterRepository{
		db: db,
	}
}

// promoterColumns is the base select list shared by List and GetByID.
// Contract counts come from a LEFT JOIN aggregate so promoters without
// contracts still appear with zero counts.
const promoterColumns = `
	p.id, p.name_en, p.name_ar,
	p.id_card_number, p.id_card_expiry_date,
	p.passport_number, p.passport_expiry_date,
	p.email, p.phone, p.address,
	p.created_at, p.updated_at,
	COALESCE(c.active_count, 0) AS active_contracts_count,
	COALESCE(c.total_count, 0) AS total_contracts_count
`

const promoterContractCounts = `
	LEFT JOIN (
		SELECT promoter_id,
		       COUNT(*) FILTER (WHERE status = 'active' OR (status IS NULL AND contract_start_date <= NOW() AND contract_end_date > NOW())) AS active_count,
		       COUNT(*) AS total_count
		FROM contracts
		WHERE promoter_id IS NOT NULL
		GROUP BY promoter_id
	) c ON c.promoter_id = p.id
`

// List returns all promoters with their contract counts, newest first
func (r *PromoterRepository) List() ([]models.Promoter, error) {
	query := `
		SELECT ` + promoterColumns + `
		FROM promoters p
		` + promoterContractCounts + `
		ORDER BY p.created_at DESC
	`

	promoters := []models.Promoter{}
	if err := r.db.Select(&promoters, query); err != nil {
		return nil, fmt.Errorf("failed to list promoters: %w", err)
	}
	return promoters, nil
}

// GetByID returns a single promoter with its contract counts
func (r *PromoterRepository) GetByID(id uuid.UUID) (*models.Promoter, error) {
	query := `
		SELECT ` + promoterColumns + `
		FROM promoters p
		` + promoterContractCounts + `
		WHERE p.id = $1
	`

	var promoter models.Promoter
	if err := r.db.Get(&promoter, query, id); err != nil {
		return nil, err
	}
	return &promoter, nil
}

// Create inserts a new promoter
func (r *PromoterRepository) Create(promoter *models.Promoter) error {
	query := `
		INSERT INTO promoters (
			id, name_en, name_ar,
			id_card_number, id_card_expiry_date,
			passport_number, passport_expiry_date,
			email, phone, address,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(
		query,
		promoter.ID,
		promoter.NameEn,
		promoter.NameAr,
		promoter.IDCardNumber,
		promoter.IDCardExpiryDate,
		promoter.PassportNumber,
		promoter.PassportExpiryDate,
		promoter.Email,
		promoter.Phone,
		promoter.Address,
		promoter.CreatedAt,
		promoter.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create promoter: %w", err)
	}
	return nil
}

// UpdateFields updates specific columns of a promoter record
func (r *PromoterRepository) UpdateFields(id uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return fmt.Errorf("no fields to update")
	}

	query := "UPDATE promoters SET "
	args := []interface{}{}
	argPos := 1

	for field, value := range fields {
		if argPos > 1 {
			query += ", "
		}
		query += fmt.Sprintf("%s = $%d", field, argPos)
		args = append(args, value)
		argPos++
	}

	query += fmt.Sprintf(", updated_at = $%d", argPos)
	args = append(args, time.Now())
	argPos++

	query += fmt.Sprintf(" WHERE id = $%d", argPos)
	args = append(args, id)

	if _, err := r.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to update promoter: %w", err)
	}
	return nil
}

// Delete removes a promoter record
func (r *PromoterRepository) Delete(id uuid.UUID) error {
	result, err := r.db.Exec("DELETE FROM promoters WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete promoter: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("promoter not found: %s", id)
	}
	return nil
}

// ListExpiringDocuments returns promoters whose ID card or passport is
// already expired or expires within the given number of days. Used by
// the expiry notifier.
func (r *PromoterRepository) ListExpiringDocuments(windowDays int) ([]models.Promoter, error) {
	query := `
		SELECT ` + promoterColumns + `
		FROM promoters p
		` + promoterContractCounts + `
		WHERE (p.id_card_expiry_date IS NOT NULL AND p.id_card_expiry_date <= NOW() + ($1 || ' days')::interval)
		   OR (p.passport_expiry_date IS NOT NULL AND p.passport_expiry_date <= NOW() + ($1 || ' days')::interval)
		ORDER BY LEAST(
			COALESCE(p.id_card_expiry_date, 'infinity'::timestamptz),
			COALESCE(p.passport_expiry_date, 'infinity'::timestamptz)
		) ASC
	`

	promoters := []models.Promoter{}
	if err := r.db.Select(&promoters, query, windowDays); err != nil {
		return nil, fmt.Errorf("failed to list promoters with expiring documents: %w", err)
	}
	return promoters, nil
}
