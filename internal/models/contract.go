package models

import (
	"time"

	"github.com/google/uuid"
)

// Contract represents an agreement between two parties, optionally
// assigned a promoter. Status is stored when set explicitly by an
// operator and derived from the date range otherwise.
type Contract struct {
	ID                uuid.UUID   `json:"id" db:"id"`
	ContractNumber    string      `json:"contract_number" db:"contract_number"`
	FirstPartyID      uuid.UUID   `json:"first_party_id" db:"first_party_id"`
	SecondPartyID     uuid.UUID   `json:"second_party_id" db:"second_party_id"`
	PromoterID        *uuid.UUID  `json:"promoter_id,omitempty" db:"promoter_id"`
	JobTitle          NullString  `json:"job_title,omitempty" db:"job_title"`
	WorkLocation      NullString  `json:"work_location,omitempty" db:"work_location"`
	ContractStartDate NullTime    `json:"contract_start_date,omitempty" db:"contract_start_date"`
	ContractEndDate   NullTime    `json:"contract_end_date,omitempty" db:"contract_end_date"`
	ContractValue     NullFloat64 `json:"contract_value,omitempty" db:"contract_value"`
	Currency          NullString  `json:"currency,omitempty" db:"currency"`
	Status            NullString  `json:"status,omitempty" db:"status"`
	GoogleDocURL      NullString  `json:"google_doc_url,omitempty" db:"google_doc_url"`
	PDFURL            NullString  `json:"pdf_url,omitempty" db:"pdf_url"`
	CreatedAt         time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at" db:"updated_at"`

	// Joined party/promoter display names
	FirstPartyNameEn  NullString `json:"first_party_name_en,omitempty" db:"first_party_name_en"`
	SecondPartyNameEn NullString `json:"second_party_name_en,omitempty" db:"second_party_name_en"`
	PromoterNameEn    NullString `json:"promoter_name_en,omitempty" db:"promoter_name_en"`

	// Derived fields, computed by the service layer
	ComputedStatus string `json:"computed_status,omitempty" db:"-"`
	DurationLabel  string `json:"duration,omitempty" db:"-"`
}

// CreateContractRequest is the payload for creating a contract
type CreateContractRequest struct {
	ContractNumber    string     `json:"contract_number" binding:"required"`
	FirstPartyID      uuid.UUID  `json:"first_party_id" binding:"required"`
	SecondPartyID     uuid.UUID  `json:"second_party_id" binding:"required"`
	PromoterID        *uuid.UUID `json:"promoter_id"`
	JobTitle          string     `json:"job_title"`
	WorkLocation      string     `json:"work_location"`
	ContractStartDate *time.Time `json:"contract_start_date"`
	ContractEndDate   *time.Time `json:"contract_end_date"`
	ContractValue     *float64   `json:"contract_value"`
	Currency          string     `json:"currency"`
	Status            string     `json:"status"`
	GoogleDocURL      string     `json:"google_doc_url"`
	PDFURL            string     `json:"pdf_url"`
}

// UpdateContractRequest is the payload for a partial contract update.
// Nil pointers leave the stored value unchanged.
type UpdateContractRequest struct {
	ContractNumber    *string    `json:"contract_number"`
	FirstPartyID      *uuid.UUID `json:"first_party_id"`
	SecondPartyID     *uuid.UUID `json:"second_party_id"`
	PromoterID        *uuid.UUID `json:"promoter_id"`
	JobTitle          *string    `json:"job_title"`
	WorkLocation      *string    `json:"work_location"`
	ContractStartDate *time.Time `json:"contract_start_date"`
	ContractEndDate   *time.Time `json:"contract_end_date"`
	ContractValue     *float64   `json:"contract_value"`
	Currency          *string    `json:"currency"`
	Status            *string    `json:"status"`
	GoogleDocURL      *string    `json:"google_doc_url"`
	PDFURL            *string    `json:"pdf_url"`
}

// ContractStats summarizes a contract collection for the dashboard
type ContractStats struct {
	Total         int            `json:"total"`
	ByStatus      map[string]int `json:"by_status"`
	RecentlyAdded int            `json:"recently_added"`
	TotalValue    float64        `json:"total_value"`
}
