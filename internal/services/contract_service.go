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
)

// ContractService handles business logic for contracts: lifecycle
// derivation, duration labels, statistics, filtering, and CSV export.
type ContractService struct {
	contractRepo *database.ContractRepository
	hub          *events.Hub
	logger       *logrus.Logger
	clock        func() time.Time
}

// NewContractService creates a new contract service
func NewContractService(contractRepo *database.ContractRepository, hub *events.Hub, logger *logrus.Logger) *ContractService {
	return &ContractService{
		contractRepo: contractRepo,
		hub:          hub,
		logger:       logger,
		clock:        time.Now,
	}
}

// ContractListResult is the annotated, filtered contract collection
// with its dashboard statistics
type ContractListResult struct {
	Contracts []models.Contract    `json:"contracts"`
	Stats     models.ContractStats `json:"stats"`
	Total     int                  `json:"total"`
	Page      int                  `json:"page"`
	PageSize  int                  `json:"page_size"`
}

// Annotate fills the derived status and duration fields of a contract
// in place. A stored status wins over derivation.
func (s *ContractService) Annotate(c *models.Contract, now time.Time) {
	hasPDF := c.PDFURL.Valid && c.PDFURL.String != ""
	c.ComputedStatus = status.DeriveContract(
		c.Status.String,
		c.ContractStartDate.TimePtr(),
		c.ContractEndDate.TimePtr(),
		hasPDF,
		now,
	)
	c.DurationLabel = status.DurationLabel(c.ContractStartDate.TimePtr(), c.ContractEndDate.TimePtr())
}

// List returns the annotated contract collection narrowed by the
// filter state, with stats over the full collection.
func (s *ContractService) List(st filter.State, page, pageSize int) (*ContractListResult, error) {
	contracts, err := s.contractRepo.List()
	if err != nil {
		return nil, err
	}

	now := s.clock()
	for i := range contracts {
		s.Annotate(&contracts[i], now)
	}

	collectionStats := stats.Contracts(contracts, now)
	filtered := filter.Contracts(contracts, st)

	return &ContractListResult{
		Contracts: filter.Paginate(filtered, page, pageSize),
		Stats:     collectionStats,
		Total:     len(filtered),
		Page:      page,
		PageSize:  pageSize,
	}, nil
}

// Get returns a single annotated contract
func (s *ContractService) Get(id uuid.UUID) (*models.Contract, error) {
	contract, err := s.contractRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	s.Annotate(contract, s.clock())
	return contract, nil
}

// ListByPromoter returns the annotated contracts assigned to a promoter
func (s *ContractService) ListByPromoter(promoterID uuid.UUID) ([]models.Contract, error) {
	contracts, err := s.contractRepo.ListByPromoter(promoterID)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	for i := range contracts {
		s.Annotate(&contracts[i], now)
	}
	return contracts, nil
}

// ListEnding returns annotated contracts ending within the window,
// soonest first
func (s *ContractService) ListEnding(windowDays int) ([]models.Contract, error) {
	contracts, err := s.contractRepo.ListEnding(windowDays)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	for i := range contracts {
		s.Annotate(&contracts[i], now)
	}
	return contracts, nil
}

// Create stores a new contract and publishes a change event
func (s *ContractService) Create(req *models.CreateContractRequest) (*models.Contract, error) {
	if req.FirstPartyID == req.SecondPartyID {
		return nil, fmt.Errorf("first and second party cannot be the same organization")
	}
	if req.ContractStartDate != nil && req.ContractEndDate != nil && req.ContractEndDate.Before(*req.ContractStartDate) {
		return nil, fmt.Errorf("contract end date cannot precede the start date")
	}

	now := s.clock()
	contract := &models.Contract{
		ID:             uuid.New(),
		ContractNumber: req.ContractNumber,
		FirstPartyID:   req.FirstPartyID,
		SecondPartyID:  req.SecondPartyID,
		PromoterID:     req.PromoterID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if req.JobTitle != "" {
		contract.JobTitle = models.NewNullString(req.JobTitle)
	}
	if req.WorkLocation != "" {
		contract.WorkLocation = models.NewNullString(req.WorkLocation)
	}
	if req.ContractStartDate != nil {
		contract.ContractStartDate = models.NewNullTime(*req.ContractStartDate)
	}
	if req.ContractEndDate != nil {
		contract.ContractEndDate = models.NewNullTime(*req.ContractEndDate)
	}
	if req.ContractValue != nil {
		contract.ContractValue.Valid = true
		contract.ContractValue.Float64 = *req.ContractValue
	}
	if req.Currency != "" {
		contract.Currency = models.NewNullString(req.Currency)
	}
	if req.Status != "" {
		contract.Status = models.NewNullString(req.Status)
	}
	if req.GoogleDocURL != "" {
		contract.GoogleDocURL = models.NewNullString(req.GoogleDocURL)
	}
	if req.PDFURL != "" {
		contract.PDFURL = models.NewNullString(req.PDFURL)
	}

	if err := s.contractRepo.Create(contract); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"contract_id":     contract.ID,
		"contract_number": contract.ContractNumber,
	}).Info("Contract created")

	s.hub.Publish(events.CollectionChanged{Entity: "contracts", Action: events.ActionCreated, EntityID: contract.ID.String()})

	s.Annotate(contract, now)
	return contract, nil
}

// Update applies a partial update and returns the refreshed record
func (s *ContractService) Update(id uuid.UUID, req *models.UpdateContractRequest) (*models.Contract, error) {
	fields := map[string]interface{}{}
	if req.ContractNumber != nil {
		fields["contract_number"] = *req.ContractNumber
	}
	if req.FirstPartyID != nil {
		fields["first_party_id"] = *req.FirstPartyID
	}
	if req.SecondPartyID != nil {
		fields["second_party_id"] = *req.SecondPartyID
	}
	if req.PromoterID != nil {
		fields["promoter_id"] = *req.PromoterID
	}
	if req.JobTitle != nil {
		fields["job_title"] = *req.JobTitle
	}
	if req.WorkLocation != nil {
		fields["work_location"] = *req.WorkLocation
	}
	if req.ContractStartDate != nil {
		fields["contract_start_date"] = *req.ContractStartDate
	}
	if req.ContractEndDate != nil {
		fields["contract_end_date"] = *req.ContractEndDate
	}
	if req.ContractValue != nil {
		fields["contract_value"] = *req.ContractValue
	}
	if req.Currency != nil {
		fields["currency"] = *req.Currency
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.GoogleDocURL != nil {
		fields["google_doc_url"] = *req.GoogleDocURL
	}
	if req.PDFURL != nil {
		fields["pdf_url"] = *req.PDFURL
	}

	if len(fields) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	if err := s.contractRepo.UpdateFields(id, fields); err != nil {
		return nil, err
	}

	s.hub.Publish(events.CollectionChanged{Entity: "contracts", Action: events.ActionUpdated, EntityID: id.String()})

	return s.Get(id)
}

// Delete removes a contract and publishes a change event
func (s *ContractService) Delete(id uuid.UUID) error {
	if err := s.contractRepo.Delete(id); err != nil {
		return err
	}

	s.logger.WithField("contract_id", id).Info("Contract deleted")
	s.hub.Publish(events.CollectionChanged{Entity: "contracts", Action: events.ActionDeleted, EntityID: id.String()})
	return nil
}

// contractCSVColumns defines the export layout for contracts
var contractCSVColumns = []export.Column[models.Contract]{
	{Header: "Contract Number", Value: func(c models.Contract) string { return c.ContractNumber }},
	{Header: "First Party", Value: func(c models.Contract) string { return c.FirstPartyNameEn.String }},
	{Header: "Second Party", Value: func(c models.Contract) string { return c.SecondPartyNameEn.String }},
	{Header: "Promoter", Value: func(c models.Contract) string { return c.PromoterNameEn.String }},
	{Header: "Job Title", Value: func(c models.Contract) string { return c.JobTitle.String }},
	{Header: "Start Date", Value: func(c models.Contract) string { return formatDate(c.ContractStartDate) }},
	{Header: "End Date", Value: func(c models.Contract) string { return formatDate(c.ContractEndDate) }},
	{Header: "Duration", Value: func(c models.Contract) string { return c.DurationLabel }},
	{Header: "Value", Value: func(c models.Contract) string {
		if !c.ContractValue.Valid {
			return ""
		}
		return fmt.Sprintf("%.2f", c.ContractValue.Float64)
	}},
	{Header: "Currency", Value: func(c models.Contract) string { return c.Currency.String }},
	{Header: "Status", Value: func(c models.Contract) string { return c.ComputedStatus }},
	{Header: "Created At", Value: func(c models.Contract) string { return c.CreatedAt.Format("2006-01-02") }},
}

// ExportCSV serializes the filtered contract collection
func (s *ContractService) ExportCSV(st filter.State) (string, error) {
	contracts, err := s.contractRepo.List()
	if err != nil {
		return "", err
	}

	now := s.clock()
	for i := range contracts {
		s.Annotate(&contracts[i], now)
	}

	filtered := filter.Contracts(contracts, st)

	s.logger.WithField("rows", len(filtered)).Info("Exporting contracts to CSV")
	return export.CSV(filtered, contractCSVColumns), nil
}
