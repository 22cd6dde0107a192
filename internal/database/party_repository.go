package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/contracthub/cms-backend/internal/models"
)

// PartyRepository handles party (employer/client) database operations
type PartyRepository struct {
	db DB
}

// NewPartyRepository creates a new party repository
func NewPartyRepository(db DB) *PartyRepository {
	return &PartyRepository{
		db: db,
	}
}

const partyColumns = `
	pa.id, pa.name_en, pa.name_ar, pa.crn,
	pa.type, pa.role, pa.status,
	pa.cr_expiry_date, pa.license_expiry_date,
	pa.contact_person, pa.contact_email, pa.contact_phone,
	pa.address_en, pa.tax_number,
	pa.created_at, pa.updated_at,
	COALESCE(c.total_count, 0) AS total_contracts_count
`

const partyContractCounts = `
	LEFT JOIN (
		SELECT party_id, COUNT(*) AS total_count
		FROM (
			SELECT first_party_id AS party_id FROM contracts
			UNION ALL
			SELECT second_party_id FROM contracts
		) pc
		GROUP BY party_id
	) c ON c.party_id = pa.id
`

// List returns all parties with their contract counts, newest first
func (r *PartyRepository) List() ([]models.Party, error) {
	query := `
		SELECT ` + partyColumns + `
		FROM parties pa
		` + partyContractCounts + `
		ORDER BY pa.created_at DESC
	`

	parties := []models.Party{}
	if err := r.db.Select(&parties, query); err != nil {
		return nil, fmt.Errorf("failed to list parties: %w", err)
	}
	return parties, nil
}

// GetByID returns a single party with its contract count
func (r *PartyRepository) GetByID(id uuid.UUID) (*models.Party, error) {
	query := `
		SELECT ` + partyColumns + `
		FROM parties pa
		` + partyContractCounts + `
		WHERE pa.id = $1
	`

	var party models.Party
	if err := r.db.Get(&party, query, id); err != nil {
		return nil, err
	}
	return &party, nil
}

// Create inserts a new party
func (r *PartyRepository) Create(party *models.Party) error {
	query := `
		INSERT INTO parties (
			id, name_en, name_ar, crn,
			type, role, status,
			cr_expiry_date, license_expiry_date,
			contact_person, contact_email, contact_phone,
			address_en, tax_number,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := r.db.Exec(
		query,
		party.ID,
		party.NameEn,
		party.NameAr,
		party.CRN,
		party.Type,
		party.Role,
		party.Status,
		party.CRExpiryDate,
		party.LicenseExpiryDate,
		party.ContactPerson,
		party.ContactEmail,
		party.ContactPhone,
		party.AddressEn,
		party.TaxNumber,
		party.CreatedAt,
		party.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create party: %w", err)
	}
	return nil
}

// UpdateFields updates specific columns of a party record
func (r *PartyRepository) UpdateFields(id uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return fmt.Errorf("no fields to update")
	}

	query := "UPDATE parties SET "
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
		return fmt.Errorf("failed to update party: %w", err)
	}
	return nil
}

// Delete removes a party record
func (r *PartyRepository) Delete(id uuid.UUID) error {
	result, err := r.db.Exec("DELETE FROM parties WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete party: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("party not found: %s", id)
	}
	return nil
}
