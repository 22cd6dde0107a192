package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/contracthub/cms-backend/internal/models"
)

// ErrDuplicateContractNumber indicates the contract number is already taken
var ErrDuplicateContractNumber = errors.New("contract number already exists")

// uniqueViolation is the Postgres error code for unique constraint violations
const uniqueViolation = "23505"

// ContractRepository handles contract database operations
type ContractRepository struct {
	db DB
}

// NewContractRepository creates a new contract repository
func NewContractRepository(db DB) *ContractRepository {
	return &ContractRepository{
		db: db,
	}
}

const contractColumns = `
	ct.id, ct.contract_number,
	ct.first_party_id, ct.second_party_id, ct.promoter_id,
	ct.job_title, ct.work_location,
	ct.contract_start_date, ct.contract_end_date,
	ct.contract_value, ct.currency, ct.status,
	ct.google_doc_url, ct.pdf_url,
	ct.created_at, ct.updated_at,
	fp.name_en AS first_party_name_en,
	sp.name_en AS second_party_name_en,
	pr.name_en AS promoter_name_en
`

const contractJoins = `
	LEFT JOIN parties fp ON fp.id = ct.first_party_id
	LEFT JOIN parties sp ON sp.id = ct.second_party_id
	LEFT JOIN promoters pr ON pr.id = ct.promoter_id
`

// List returns all contracts with party and promoter names, newest first
func (r *ContractRepository) List() ([]models.Contract, error) {
	query := `
		SELECT ` + contractColumns + `
		FROM contracts ct
		` + contractJoins + `
		ORDER BY ct.created_at DESC
	`

	contracts := []models.Contract{}
	if err := r.db.Select(&contracts, query); err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	return contracts, nil
}

// GetByID returns a single contract with its joined names
func (r *ContractRepository) GetByID(id uuid.UUID) (*models.Contract, error) {
	query := `
		SELECT ` + contractColumns + `
		FROM contracts ct
		` + contractJoins + `
		WHERE ct.id = $1
	`

	var contract models.Contract
	if err := r.db.Get(&contract, query, id); err != nil {
		return nil, err
	}
	return &contract, nil
}

// ListByPromoter returns all contracts assigned to a promoter
func (r *ContractRepository) ListByPromoter(promoterID uuid.UUID) ([]models.Contract, error) {
	query := `
		SELECT ` + contractColumns + `
		FROM contracts ct
		` + contractJoins + `
		WHERE ct.promoter_id = $1
		ORDER BY ct.created_at DESC
	`

	contracts := []models.Contract{}
	if err := r.db.Select(&contracts, query, promoterID); err != nil {
		return nil, fmt.Errorf("failed to list contracts for promoter: %w", err)
	}
	return contracts, nil
}

// Create inserts a new contract
func (r *ContractRepository) Create(contract *models.Contract) error {
	query := `
		INSERT INTO contracts (
			id, contract_number,
			first_party_id, second_party_id, promoter_id,
			job_title, work_location,
			contract_start_date, contract_end_date,
			contract_value, currency, status,
			google_doc_url, pdf_url,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := r.db.Exec(
		query,
		contract.ID,
		contract.ContractNumber,
		contract.FirstPartyID,
		contract.SecondPartyID,
		contract.PromoterID,
		contract.JobTitle,
		contract.WorkLocation,
		contract.ContractStartDate,
		contract.ContractEndDate,
		contract.ContractValue,
		contract.Currency,
		contract.Status,
		contract.GoogleDocURL,
		contract.PDFURL,
		contract.CreatedAt,
		contract.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicateContractNumber
		}
		return fmt.Errorf("failed to create contract: %w", err)
	}
	return nil
}

// UpdateFields updates specific columns of a contract record
func (r *ContractRepository) UpdateFields(id uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return fmt.Errorf("no fields to update")
	}

	query := "UPDATE contracts SET "
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
		return fmt.Errorf("failed to update contract: %w", err)
	}
	return nil
}

// Delete removes a contract record
func (r *ContractRepository) Delete(id uuid.UUID) error {
	result, err := r.db.Exec("DELETE FROM contracts WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete contract: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("contract not found: %s", id)
	}
	return nil
}

// ListEnding returns contracts whose end date falls within the given
// number of days from now (including already ended ones without a
// stored terminal status). Used by the expiry notifier.
func (r *ContractRepository) ListEnding(windowDays int) ([]models.Contract, error) {
	query := `
		SELECT ` + contractColumns + `
		FROM contracts ct
		` + contractJoins + `
		WHERE ct.contract_end_date IS NOT NULL
		  AND ct.contract_end_date <= NOW() + ($1 || ' days')::interval
		  AND (ct.status IS NULL OR ct.status NOT IN ('expired', 'terminated'))
		ORDER BY ct.contract_end_date ASC
	`

	contracts := []models.Contract{}
	if err := r.db.Select(&contracts, query, windowDays); err != nil {
		return nil, fmt.Errorf("failed to list ending contracts: %w", err)
	}
	return contracts, nil
}
