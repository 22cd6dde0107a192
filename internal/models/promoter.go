package models

import (
	"time"

	"github.com/google/uuid"
)

// Promoter represents an individual assigned to work under contracts.
// Document and overall statuses are derived per request and never stored.
type Promoter struct {
	ID                 uuid.UUID  `json:"id" db:"id"`
	NameEn             NullString `json:"name_en,omitempty" db:"name_en"`
	NameAr             NullString `json:"name_ar,omitempty" db:"name_ar"`
	IDCardNumber       NullString `json:"id_card_number,omitempty" db:"id_card_number"`
	IDCardExpiryDate   NullTime   `json:"id_card_expiry_date,omitempty" db:"id_card_expiry_date"`
	PassportNumber     NullString `json:"passport_number,omitempty" db:"passport_number"`
	PassportExpiryDate NullTime   `json:"passport_expiry_date,omitempty" db:"passport_expiry_date"`
	Email              NullString `json:"email,omitempty" db:"email"`
	Phone              NullString `json:"phone,omitempty" db:"phone"`
	Address            NullString `json:"address,omitempty" db:"address"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`

	// Derived fields, computed by the service layer
	DocumentStatus       string `json:"document_status,omitempty" db:"-"`
	OverallStatus        string `json:"overall_status,omitempty" db:"-"`
	ActiveContractsCount int    `json:"active_contracts_count" db:"active_contracts_count"`
	TotalContractsCount  int    `json:"total_contracts_count" db:"total_contracts_count"`
}

// CreatePromoterRequest is the payload for creating a promoter
type CreatePromoterRequest struct {
	NameEn             string     `json:"name_en" binding:"required"`
	NameAr             string     `json:"name_ar"`
	IDCardNumber       string     `json:"id_card_number"`
	IDCardExpiryDate   *time.Time `json:"id_card_expiry_date"`
	PassportNumber     string     `json:"passport_number"`
	PassportExpiryDate *time.Time `json:"passport_expiry_date"`
	Email              string     `json:"email"`
	Phone              string     `json:"phone"`
	Address            string     `json:"address"`
}

// UpdatePromoterRequest is the payload for a partial promoter update.
// Nil pointers leave the stored value unchanged.
type UpdatePromoterRequest struct {
	NameEn             *string    `json:"name_en"`
	NameAr             *string    `json:"name_ar"`
	IDCardNumber       *string    `json:"id_card_number"`
	IDCardExpiryDate   *time.Time `json:"id_card_expiry_date"`
	PassportNumber     *string    `json:"passport_number"`
	PassportExpiryDate *time.Time `json:"passport_expiry_date"`
	Email              *string    `json:"email"`
	Phone              *string    `json:"phone"`
	Address            *string    `json:"address"`
}

// PromoterStats summarizes a promoter collection for the dashboard
type PromoterStats struct {
	Total                       int            `json:"total"`
	ByStatus                    map[string]int `json:"by_status"`
	ByDocumentStatus            map[string]int `json:"by_document_status"`
	RecentlyAdded               int            `json:"recently_added"`
	AverageContractsPerPromoter float64        `json:"average_contracts_per_promoter"`
}
