package models

import (
	"time"

	"github.com/google/uuid"
)

// Party statuses as stored in the parties table
const (
	PartyStatusActive    = "Active"
	PartyStatusInactive  = "Inactive"
	PartyStatusSuspended = "Suspended"
)

// Party represents an employer or client organization that can be a
// counterparty to a contract.
type Party struct {
	ID                uuid.UUID  `json:"id" db:"id"`
	NameEn            NullString `json:"name_en,omitempty" db:"name_en"`
	NameAr            NullString `json:"name_ar,omitempty" db:"name_ar"`
	CRN               NullString `json:"crn,omitempty" db:"crn"`
	Type              NullString `json:"type,omitempty" db:"type"`
	Role              NullString `json:"role,omitempty" db:"role"`
	Status            string     `json:"status" db:"status"`
	CRExpiryDate      NullTime   `json:"cr_expiry_date,omitempty" db:"cr_expiry_date"`
	LicenseExpiryDate NullTime   `json:"license_expiry_date,omitempty" db:"license_expiry_date"`
	ContactPerson     NullString `json:"contact_person,omitempty" db:"contact_person"`
	ContactEmail      NullString `json:"contact_email,omitempty" db:"contact_email"`
	ContactPhone      NullString `json:"contact_phone,omitempty" db:"contact_phone"`
	AddressEn         NullString `json:"address_en,omitempty" db:"address_en"`
	TaxNumber         NullString `json:"tax_number,omitempty" db:"tax_number"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`

	// Derived fields, computed by the service layer
	DocumentStatus      string `json:"document_status,omitempty" db:"-"`
	OverallStatus       string `json:"overall_status,omitempty" db:"-"`
	TotalContractsCount int    `json:"total_contracts_count" db:"total_contracts_count"`
}

// CreatePartyRequest is the payload for creating a party
type CreatePartyRequest struct {
	NameEn            string     `json:"name_en" binding:"required"`
	NameAr            string     `json:"name_ar"`
	CRN               string     `json:"crn"`
	Type              string     `json:"type"`
	Role              string     `json:"role"`
	Status            string     `json:"status"`
	CRExpiryDate      *time.Time `json:"cr_expiry_date"`
	LicenseExpiryDate *time.Time `json:"license_expiry_date"`
	ContactPerson     string     `json:"contact_person"`
	ContactEmail      string     `json:"contact_email"`
	ContactPhone      string     `json:"contact_phone"`
	AddressEn         string     `json:"address_en"`
	TaxNumber         string     `json:"tax_number"`
}

// UpdatePartyRequest is the payload for a partial party update.
// Nil pointers leave the stored value unchanged.
type UpdatePartyRequest struct {
	NameEn            *string    `json:"name_en"`
	NameAr            *string    `json:"name_ar"`
	CRN               *string    `json:"crn"`
	Type              *string    `json:"type"`
	Role              *string    `json:"role"`
	Status            *string    `json:"status"`
	CRExpiryDate      *time.Time `json:"cr_expiry_date"`
	LicenseExpiryDate *time.Time `json:"license_expiry_date"`
	ContactPerson     *string    `json:"contact_person"`
	ContactEmail      *string    `json:"contact_email"`
	ContactPhone      *string    `json:"contact_phone"`
	AddressEn         *string    `json:"address_en"`
	TaxNumber         *string    `json:"tax_number"`
}
