package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/contracthub/cms-backend/internal/database"
	"github.com/contracthub/cms-backend/internal/events"
	"github.com/contracthub/cms-backend/internal/filter"
	"github.com/contracthub/cms-backend/internal/models"
	"github.com/contracthub/cms-backend/internal/status"
	"github.com/contracthub/cms-backend/pkg/validator"
)

// PartyService handles business logic for employer/client organizations
type PartyService struct {
	partyRepo *database.PartyRepository
	hub       *events.Hub
	contacts  *validator.ContactValidator
	logger    *logrus.Logger
	clock     func() time.Time
}

// NewPartyService creates a new party service
func NewPartyService(partyRepo *database.PartyRepository, hub *events.Hub, logger *logrus.Logger) *PartyService {
	return &PartyService{
		partyRepo: partyRepo,
		hub:       hub,
		contacts:  validator.NewContactValidator(),
		logger:    logger,
		clock:     time.Now,
	}
}

// Annotate fills the derived document status of a party in place.
// Parties are classified on their CR and license expiry dates; the
// overall status folds in the stored Active/Inactive/Suspended state.
func (s *PartyService) Annotate(p *models.Party, now time.Time) {
	p.DocumentStatus = status.ClassifyDocuments(now, p.CRExpiryDate.TimePtr(), p.LicenseExpiryDate.TimePtr())

	switch {
	case p.DocumentStatus == status.DocumentExpired:
		p.OverallStatus = status.OverallCritical
	case p.DocumentStatus == status.DocumentExpiring:
		p.OverallStatus = status.OverallWarning
	case p.Status == models.PartyStatusActive:
		p.OverallStatus = status.OverallActive
	default:
		p.OverallStatus = status.OverallInactive
	}
}

// List returns annotated parties narrowed by search, status, and
// document-status selections
func (s *PartyService) List(st filter.State) ([]models.Party, error) {
	parties, err := s.partyRepo.List()
	if err != nil {
		return nil, err
	}

	now := s.clock()
	for i := range parties {
		s.Annotate(&parties[i], now)
	}
	return filter.Parties(parties, st), nil
}

// Get returns a single annotated party
func (s *PartyService) Get(id uuid.UUID) (*models.Party, error) {
	party, err := s.partyRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	s.Annotate(party, s.clock())
	return party, nil
}

// Create stores a new party and publishes a change event
func (s *PartyService) Create(req *models.CreatePartyRequest) (*models.Party, error) {
	now := s.clock()

	partyStatus := req.Status
	if partyStatus == "" {
		partyStatus = models.PartyStatusActive
	}

	party := &models.Party{
		ID:        uuid.New(),
		NameEn:    models.NewNullString(req.NameEn),
		Status:    partyStatus,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.NameAr != "" {
		party.NameAr = models.NewNullString(req.NameAr)
	}
	if req.CRN != "" {
		party.CRN = models.NewNullString(req.CRN)
	}
	if req.Type != "" {
		party.Type = models.NewNullString(req.Type)
	}
	if req.Role != "" {
		party.Role = models.NewNullString(req.Role)
	}
	if req.CRExpiryDate != nil {
		party.CRExpiryDate = models.NewNullTime(*req.CRExpiryDate)
	}
	if req.LicenseExpiryDate != nil {
		party.LicenseExpiryDate = models.NewNullTime(*req.LicenseExpiryDate)
	}
	if req.ContactPerson != "" {
		party.ContactPerson = models.NewNullString(req.ContactPerson)
	}
	if req.ContactEmail != "" {
		email, err := s.contacts.ValidateEmail(req.ContactEmail)
		if err != nil {
			return nil, err
		}
		party.ContactEmail = models.NewNullString(email)
	}
	if req.ContactPhone != "" {
		phone, err := s.contacts.ValidatePhone(req.ContactPhone)
		if err != nil {
			return nil, err
		}
		party.ContactPhone = models.NewNullString(phone)
	}
	if req.AddressEn != "" {
		party.AddressEn = models.NewNullString(req.AddressEn)
	}
	if req.TaxNumber != "" {
		party.TaxNumber = models.NewNullString(req.TaxNumber)
	}

	if err := s.partyRepo.Create(party); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"party_id": party.ID,
		"name_en":  req.NameEn,
	}).Info("Party created")

	s.hub.Publish(events.CollectionChanged{Entity: "parties", Action: events.ActionCreated, EntityID: party.ID.String()})

	s.Annotate(party, now)
	return party, nil
}

// Update applies a partial update and returns the refreshed record
func (s *PartyService) Update(id uuid.UUID, req *models.UpdatePartyRequest) (*models.Party, error) {
	fields := map[string]interface{}{}
	if req.NameEn != nil {
		fields["name_en"] = *req.NameEn
	}
	if req.NameAr != nil {
		fields["name_ar"] = *req.NameAr
	}
	if req.CRN != nil {
		fields["crn"] = *req.CRN
	}
	if req.Type != nil {
		fields["type"] = *req.Type
	}
	if req.Role != nil {
		fields["role"] = *req.Role
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.CRExpiryDate != nil {
		fields["cr_expiry_date"] = *req.CRExpiryDate
	}
	if req.LicenseExpiryDate != nil {
		fields["license_expiry_date"] = *req.LicenseExpiryDate
	}
	if req.ContactPerson != nil {
		fields["contact_person"] = *req.ContactPerson
	}
	if req.ContactEmail != nil {
		// Empty string clears the field
		if *req.ContactEmail == "" {
			fields["contact_email"] = nil
		} else {
			email, err := s.contacts.ValidateEmail(*req.ContactEmail)
			if err != nil {
				return nil, err
			}
			fields["contact_email"] = email
		}
	}
	if req.ContactPhone != nil {
		if *req.ContactPhone == "" {
			fields["contact_phone"] = nil
		} else {
			phone, err := s.contacts.ValidatePhone(*req.ContactPhone)
			if err != nil {
				return nil, err
			}
			fields["contact_phone"] = phone
		}
	}
	if req.AddressEn != nil {
		fields["address_en"] = *req.AddressEn
	}
	if req.TaxNumber != nil {
		fields["tax_number"] = *req.TaxNumber
	}

	if len(fields) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	if err := s.partyRepo.UpdateFields(id, fields); err != nil {
		return nil, err
	}

	s.hub.Publish(events.CollectionChanged{Entity: "parties", Action: events.ActionUpdated, EntityID: id.String()})

	return s.Get(id)
}

// Delete removes a party and publishes a change event. Parties that
// are a counterparty to any contract cannot be deleted.
func (s *PartyService) Delete(id uuid.UUID) error {
	party, err := s.partyRepo.GetByID(id)
	if err != nil {
		return err
	}
	if party.TotalContractsCount > 0 {
		return fmt.Errorf("party is a counterparty to %d contracts and cannot be deleted", party.TotalContractsCount)
	}

	if err := s.partyRepo.Delete(id); err != nil {
		return err
	}

	s.logger.WithField("party_id", id).Info("Party deleted")
	s.hub.Publish(events.CollectionChanged{Entity: "parties", Action: events.ActionDeleted, EntityID: id.String()})
	return nil
}
