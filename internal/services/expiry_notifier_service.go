package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/contracthub/cms-backend/internal/config"
	"github.com/contracthub/cms-backend/internal/database"
	"github.com/contracthub/cms-backend/internal/models"
	"github.com/contracthub/cms-backend/internal/status"
)

// Notification types produced by the notifier. Each document kind gets
// its own type so deduplication tracks them independently.
const (
	NotificationIDCardExpiry   = "id_card_expiry"
	NotificationPassportExpiry = "passport_expiry"
	NotificationContractExpiry = "contract_expiry"
)

// dedupWindowDays suppresses repeat alerts for the same entity and
// type. One alert per week per document is enough for a daily scan.
const dedupWindowDays = 7

// ExpiryNotifierService scans promoters and contracts on a schedule and
// raises notifications for documents and contracts that are expired or
// about to expire.
type ExpiryNotifierService struct {
	promoterRepo     *database.PromoterRepository
	contractRepo     *database.ContractRepository
	notificationRepo *database.NotificationRepository
	notifications    *NotificationService
	cfg              config.NotifierConfig
	logger           *logrus.Logger
	clock            func() time.Time
	cron             *cron.Cron
}

// NewExpiryNotifierService creates a new expiry notifier
func NewExpiryNotifierService(
	promoterRepo *database.PromoterRepository,
	contractRepo *database.ContractRepository,
	notificationRepo *database.NotificationRepository,
	notifications *NotificationService,
	cfg config.NotifierConfig,
	logger *logrus.Logger,
) *ExpiryNotifierService {
	return &ExpiryNotifierService{
		promoterRepo:     promoterRepo,
		contractRepo:     contractRepo,
		notificationRepo: notificationRepo,
		notifications:    notifications,
		cfg:              cfg,
		logger:           logger,
		clock:            time.Now,
	}
}

// Start schedules the periodic scan. The schedule is a cron expression
// with seconds precision.
func (s *ExpiryNotifierService) Start() error {
	if !s.cfg.Enabled {
		s.logger.Info("Expiry notifier disabled")
		return nil
	}

	s.cron = cron.New(cron.WithSeconds())
	if _, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		if err := s.RunOnce(); err != nil {
			s.logger.WithError(err).Error("Expiry scan failed")
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule expiry notifier: %w", err)
	}

	s.cron.Start()
	s.logger.WithField("schedule", s.cfg.Schedule).Info("Expiry notifier started")
	return nil
}

// Stop halts the scheduler, waiting for a running scan to finish
func (s *ExpiryNotifierService) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.logger.Info("Expiry notifier stopped")
	}
}

// RunOnce performs a single scan over both collections. It is also the
// entry point for the manual trigger endpoint.
func (s *ExpiryNotifierService) RunOnce() error {
	now := s.clock()
	created := 0

	n, err := s.scanPromoters(now)
	if err != nil {
		return err
	}
	created += n

	n, err = s.scanContracts(now)
	if err != nil {
		return err
	}
	created += n

	s.logger.WithField("notifications_created", created).Info("Expiry scan complete")
	return nil
}

func (s *ExpiryNotifierService) scanPromoters(now time.Time) (int, error) {
	promoters, err := s.promoterRepo.ListExpiringDocuments(status.ExpiryWindowDays)
	if err != nil {
		return 0, fmt.Errorf("expiry scan: %w", err)
	}

	created := 0
	for _, p := range promoters {
		docs := []struct {
			name      string
			notifType string
			expiry    *time.Time
		}{
			{"ID card", NotificationIDCardExpiry, p.IDCardExpiryDate.TimePtr()},
			{"passport", NotificationPassportExpiry, p.PassportExpiryDate.TimePtr()},
		}

		for _, doc := range docs {
			if doc.expiry == nil {
				continue
			}
			days := status.DaysUntil(*doc.expiry, now)
			if days > status.ExpiryWindowDays {
				continue
			}

			ok, err := s.raise(now, doc.notifType, "promoter", p.ID,
				documentExpiryTitle(doc.name, days),
				fmt.Sprintf("%s for %s: %s", documentExpiryTitle(doc.name, days), p.NameEn.String, expiryPhrase(days)),
				expiryPriority(days))
			if err != nil {
				return created, err
			}
			if ok {
				created++
			}
		}
	}
	return created, nil
}

func (s *ExpiryNotifierService) scanContracts(now time.Time) (int, error) {
	contracts, err := s.contractRepo.ListEnding(status.ExpiryWindowDays)
	if err != nil {
		return 0, fmt.Errorf("expiry scan: %w", err)
	}

	created := 0
	for _, c := range contracts {
		end := c.ContractEndDate.TimePtr()
		if end == nil {
			continue
		}
		days := status.DaysUntil(*end, now)

		title := fmt.Sprintf("Contract %s ending soon", c.ContractNumber)
		if days < 0 {
			title = fmt.Sprintf("Contract %s has ended", c.ContractNumber)
		}

		ok, err := s.raise(now, NotificationContractExpiry, "contract", c.ID,
			title,
			fmt.Sprintf("Contract %s (%s / %s) %s", c.ContractNumber,
				c.FirstPartyNameEn.String, c.SecondPartyNameEn.String, expiryPhrase(days)),
			expiryPriority(days))
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}
	return created, nil
}

// raise creates a notification unless an identical one was created
// inside the dedup window. Returns whether a notification was created.
func (s *ExpiryNotifierService) raise(now time.Time, notificationType, entityType string, entityID uuid.UUID, title, message, priority string) (bool, error) {
	exists, err := s.notificationRepo.ExistsForEntitySince(notificationType, entityType, entityID, dedupWindowDays)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	_, err = s.notifications.Create(&models.CreateNotificationRequest{
		Type:       notificationType,
		Category:   "expiry",
		Priority:   priority,
		Title:      title,
		Message:    message,
		EntityType: entityType,
		EntityID:   &entityID,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func documentExpiryTitle(docName string, days int) string {
	if days < 0 {
		return fmt.Sprintf("%s expired", docName)
	}
	return fmt.Sprintf("%s expiring", docName)
}

// expiryPhrase renders the time remaining in human terms
func expiryPhrase(days int) string {
	switch {
	case days < 0:
		return fmt.Sprintf("expired %d days ago", -days)
	case days == 0:
		return "expires today"
	case days == 1:
		return "expires tomorrow"
	default:
		return fmt.Sprintf("expires in %d days", days)
	}
}

// expiryPriority maps urgency to notification priority. Already expired
// is urgent, a week or less is high, anything else in the window is
// medium.
func expiryPriority(days int) string {
	switch {
	case days < 0:
		return models.PriorityUrgent
	case days <= 7:
		return models.PriorityHigh
	default:
		return models.PriorityMedium
	}
}
