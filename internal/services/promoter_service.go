package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/contracthub/cms-backend/internal/database"
	"github.com/contracthub/cms-backend/internal/events"
	"github.com/contracthub/cms-backend/internal/export"
	"github.com/contracthub/cms-backend/internal/filter"
	"github.com/contracthub/cms-backend/internal/models"
	"github.com/contracthub/cms-backend/internal/stats"
	"github.com/contracthub/cms-backend/internal/status"
	"github.com/contracthub/cms-backend/pkg/validator"
)

// PromoterService handles business logic for promoters: status
// annotation, statistics, filtering, and CSV export over the stored
// records.
type PromoterService struct {
	promoterRepo *database.PromoterRepository
	hub          *events.Hub
	contacts     *validator.ContactValidator
	logger       *logrus.Logger
	clock        func() time.Time
}

// NewPromoterService creates a new promoter service
func NewPromoterService(promoterRepo *database.PromoterRepository, hub *events.Hub, logger *logrus.Logger) *PromoterService {
	return &PromoterService{
		promoterRepo: promoterRepo,
		hub:          hub,
		contacts:     validator.NewContactValidator(),
		logger:       logger,
		clock:        time.Now,
	}
}

// PromoterListResult is the annotated, filtered promoter collection
// with its dashboard statistics
type PromoterListResult struct {
	Promoters []models.Promoter    `json:"promoters"`
	Stats     models.PromoterStats `json:"stats"`
	Total     int                  `json:"total"`
	Page      int                  `json:"page"`
	PageSize  int                  `json:"page_size"`
}

// Annotate fills the derived status fields of a promoter in place
func (s *PromoterService) Annotate(p *models.Promoter, now time.Time) {
	p.DocumentStatus = status.ClassifyDocuments(now, p.IDCardExpiryDate.TimePtr(), p.PassportExpiryDate.TimePtr())
	p.OverallStatus = status.ClassifyOverall(p.DocumentStatus, p.ActiveContractsCount)
}

// List returns the annotated promoter collection narrowed by the filter
// state. Stats are computed over the full collection so the dashboard
// cards stay stable while filters change; the total reflects the
// filtered set before pagination.
func (s *PromoterService) List(st filter.State, page, pageSize int) (*PromoterListResult, error) {
	promoters, err := s.promoterRepo.List()
	if err != nil {
		return nil, err
	}

	now := s.clock()
	for i := range promoters {
		s.Annotate(&promoters[i], now)
	}

	collectionStats := stats.Promoters(promoters, now)
	filtered := filter.Promoters(promoters, st)

	return &PromoterListResult{
		Promoters: filter.Paginate(filtered, page, pageSize),
		Stats:     collectionStats,
		Total:     len(filtered),
		Page:      page,
		PageSize:  pageSize,
	}, nil
}

// Get returns a single annotated promoter
func (s *PromoterService) Get(id uuid.UUID) (*models.Promoter, error) {
	promoter, err := s.promoterRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	s.Annotate(promoter, s.clock())
	return promoter, nil
}

// ListExpiring returns annotated promoters whose documents are expired
// or expire within the window, ordered by the nearest expiry
func (s *PromoterService) ListExpiring(windowDays int) ([]models.Promoter, error) {
	promoters, err := s.promoterRepo.ListExpiringDocuments(windowDays)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	for i := range promoters {
		s.Annotate(&promoters[i], now)
	}
	return promoters, nil
}

// Create stores a new promoter and publishes a change event
func (s *PromoterService) Create(req *models.CreatePromoterRequest) (*models.Promoter, error) {
	now := s.clock()
	promoter := &models.Promoter{
		ID:        uuid.New(),
		NameEn:    models.NewNullString(req.NameEn),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.NameAr != "" {
		promoter.NameAr = models.NewNullString(req.NameAr)
	}
	if req.IDCardNumber != "" {
		promoter.IDCardNumber = models.NewNullString(req.IDCardNumber)
	}
	if req.IDCardExpiryDate != nil {
		promoter.IDCardExpiryDate = models.NewNullTime(*req.IDCardExpiryDate)
	}
	if req.PassportNumber != "" {
		promoter.PassportNumber = models.NewNullString(req.PassportNumber)
	}
	if req.PassportExpiryDate != nil {
		promoter.PassportExpiryDate = models.NewNullTime(*req.PassportExpiryDate)
	}
	if req.Email != "" {
		email, err := s.contacts.ValidateEmail(req.Email)
		if err != nil {
			return nil, err
		}
		promoter.Email = models.NewNullString(email)
	}
	if req.Phone != "" {
		phone, err := s.contacts.ValidatePhone(req.Phone)
		if err != nil {
			return nil, err
		}
		promoter.Phone = models.NewNullString(phone)
	}
	if req.Address != "" {
		promoter.Address = models.NewNullString(req.Address)
	}

	if err := s.promoterRepo.Create(promoter); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"promoter_id": promoter.ID,
		"name_en":     req.NameEn,
	}).Info("Promoter created")

	s.hub.Publish(events.CollectionChanged{Entity: "promoters", Action: events.ActionCreated, EntityID: promoter.ID.String()})

	s.Annotate(promoter, now)
	return promoter, nil
}

// Update applies a partial update and returns the refreshed record
func (s *PromoterService) Update(id uuid.UUID, req *models.UpdatePromoterRequest) (*models.Promoter, error) {
	fields := map[string]interface{}{}
	if req.NameEn != nil {
		fields["name_en"] = *req.NameEn
	}
	if req.NameAr != nil {
		fields["name_ar"] = *req.NameAr
	}
	if req.IDCardNumber != nil {
		fields["id_card_number"] = *req.IDCardNumber
	}
	if req.IDCardExpiryDate != nil {
		fields["id_card_expiry_date"] = *req.IDCardExpiryDate
	}
	if req.PassportNumber != nil {
		fields["passport_number"] = *req.PassportNumber
	}
	if req.PassportExpiryDate != nil {
		fields["passport_expiry_date"] = *req.PassportExpiryDate
	}
	if req.Email != nil {
		// Empty string clears the field
		if *req.Email == "" {
			fields["email"] = nil
		} else {
			email, err := s.contacts.ValidateEmail(*req.Email)
			if err != nil {
				return nil, err
			}
			fields["email"] = email
		}
	}
	if req.Phone != nil {
		if *req.Phone == "" {
			fields["phone"] = nil
		} else {
			phone, err := s.contacts.ValidatePhone(*req.Phone)
			if err != nil {
				return nil, err
			}
			fields["phone"] = phone
		}
	}
	if req.Address != nil {
		fields["address"] = *req.Address
	}

	if len(fields) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	if err := s.promoterRepo.UpdateFields(id, fields); err != nil {
		return nil, err
	}

	s.hub.Publish(events.CollectionChanged{Entity: "promoters", Action: events.ActionUpdated, EntityID: id.String()})

	return s.Get(id)
}

// Delete removes a promoter and publishes a change event. Promoters
// with active contracts cannot be deleted.
func (s *PromoterService) Delete(id uuid.UUID) error {
	promoter, err := s.promoterRepo.GetByID(id)
	if err != nil {
		return err
	}
	if promoter.ActiveContractsCount > 0 {
		return fmt.Errorf("promoter has %d active contracts and cannot be deleted", promoter.ActiveContractsCount)
	}

	if err := s.promoterRepo.Delete(id); err != nil {
		return err
	}

	s.logger.WithField("promoter_id", id).Info("Promoter deleted")
	s.hub.Publish(events.CollectionChanged{Entity: "promoters", Action: events.ActionDeleted, EntityID: id.String()})
	return nil
}

// promoterCSVColumns defines the export layout for promoters
var promoterCSVColumns = []export.Column[models.Promoter]{
	{Header: "Name (EN)", Value: func(p models.Promoter) string { return p.NameEn.String }},
	{Header: "Name (AR)", Value: func(p models.Promoter) string { return p.NameAr.String }},
	{Header: "ID Card Number", Value: func(p models.Promoter) string { return p.IDCardNumber.String }},
	{Header: "ID Card Expiry", Value: func(p models.Promoter) string { return formatDate(p.IDCardExpiryDate) }},
	{Header: "Passport Number", Value: func(p models.Promoter) string { return p.PassportNumber.String }},
	{Header: "Passport Expiry", Value: func(p models.Promoter) string { return formatDate(p.PassportExpiryDate) }},
	{Header: "Email", Value: func(p models.Promoter) string { return p.Email.String }},
	{Header: "Phone", Value: func(p models.Promoter) string { return p.Phone.String }},
	{Header: "Document Status", Value: func(p models.Promoter) string { return p.DocumentStatus }},
	{Header: "Overall Status", Value: func(p models.Promoter) string { return p.OverallStatus }},
	{Header: "Active Contracts", Value: func(p models.Promoter) string { return fmt.Sprintf("%d", p.ActiveContractsCount) }},
	{Header: "Created At", Value: func(p models.Promoter) string { return p.CreatedAt.Format("2006-01-02") }},
}

// ExportCSV serializes the filtered promoter collection
func (s *PromoterService) ExportCSV(st filter.State) (string, error) {
	promoters, err := s.promoterRepo.List()
	if err != nil {
		return "", err
	}

	now := s.clock()
	for i := range promoters {
		s.Annotate(&promoters[i], now)
	}

	filtered := filter.Promoters(promoters, st)

	s.logger.WithField("rows", len(filtered)).Info("Exporting promoters to CSV")
	return export.CSV(filtered, promoterCSVColumns), nil
}

// formatDate renders a nullable date for CSV export, empty when unset
func formatDate(t models.NullTime) string {
	if !t.Valid {
		return ""
	}
	return t.Time.Format("2006-01-02")
}
