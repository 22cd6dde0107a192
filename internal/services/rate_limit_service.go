package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/contracthub/cms-backend/internal/config"
	"github.com/contracthub/cms-backend/internal/database"
)

// RateLimitService throttles login attempts per email and per IP,
// backed by the login_attempts table so limits survive restarts.
type RateLimitService struct {
	db  database.DB
	cfg config.RateLimitConfig
}

// NewRateLimitService creates a new rate limit service
func NewRateLimitService(db database.DB, cfg config.RateLimitConfig) *RateLimitService {
	return &RateLimitService{
		db:  db,
		cfg: cfg,
	}
}

// RateLimitError represents a rate limit exceeded error
type RateLimitError struct {
	Message    string
	RetryAfter time.Time
	Type       string // "email" or "ip"
}

func (e *RateLimitError) Error() string {
	return e.Message
}

// CheckLoginRateLimit checks whether an email or IP has exceeded the
// allowed number of login attempts inside the window
func (s *RateLimitService) CheckLoginRateLimit(email, ip string) error {
	window := time.Duration(s.cfg.WindowMinutes) * time.Minute

	if email != "" {
		count, lastAttempt, err := s.getAttemptCount(email, "email", window)
		if err != nil {
			return fmt.Errorf("failed to check email rate limit: %w", err)
		}
		if count >= s.cfg.Attempts {
			retryAfter := lastAttempt.Add(window)
			return &RateLimitError{
				Message:    fmt.Sprintf("Too many login attempts for this account. Please try again after %s", retryAfter.Format("15:04:05")),
				RetryAfter: retryAfter,
				Type:       "email",
			}
		}
	}

	if ip != "" {
		count, lastAttempt, err := s.getAttemptCount(ip, "ip", window)
		if err != nil {
			return fmt.Errorf("failed to check IP rate limit: %w", err)
		}
		// IP limit is looser than the per-account one to tolerate
		// shared office addresses.
		if count >= s.cfg.Attempts*4 {
			retryAfter := lastAttempt.Add(window)
			return &RateLimitError{
				Message:    fmt.Sprintf("Too many login attempts from this address. Please try again after %s", retryAfter.Format("15:04:05")),
				RetryAfter: retryAfter,
				Type:       "ip",
			}
		}
	}

	return nil
}

func (s *RateLimitService) getAttemptCount(identifier, identifierType string, window time.Duration) (int, time.Time, error) {
	windowStart := time.Now().Add(-window)

	query := `
		SELECT COUNT(*), COALESCE(MAX(created_at), NOW())
		FROM login_attempts
		WHERE identifier = $1
		  AND identifier_type = $2
		  AND created_at > $3
	`

	var count int
	var lastAttempt time.Time

	err := s.db.QueryRow(query, identifier, identifierType, windowStart).Scan(&count, &lastAttempt)
	if err != nil && err != sql.ErrNoRows {
		return 0, time.Time{}, err
	}
	return count, lastAttempt, nil
}

// RecordFailedLogin records a failed attempt against both identifiers.
// Successful logins are not recorded so a legitimate user cannot lock
// themselves out.
func (s *RateLimitService) RecordFailedLogin(email, ip string) error {
	if email != "" {
		if err := s.recordAttempt(email, "email"); err != nil {
			return fmt.Errorf("failed to record email attempt: %w", err)
		}
	}
	if ip != "" {
		if err := s.recordAttempt(ip, "ip"); err != nil {
			return fmt.Errorf("failed to record IP attempt: %w", err)
		}
	}
	return nil
}

func (s *RateLimitService) recordAttempt(identifier, identifierType string) error {
	query := `
		INSERT INTO login_attempts (identifier, identifier_type, created_at)
		VALUES ($1, $2, NOW())
	`
	_, err := s.db.Exec(query, identifier, identifierType)
	return err
}

// ClearAttempts removes the attempt history for an identifier after a
// successful login
func (s *RateLimitService) ClearAttempts(email string) error {
	_, err := s.db.Exec("DELETE FROM login_attempts WHERE identifier = $1 AND identifier_type = 'email'", email)
	if err != nil {
		return fmt.Errorf("failed to clear login attempts: %w", err)
	}
	return nil
}

// CleanupExpiredAttempts removes attempt records older than the window
func (s *RateLimitService) CleanupExpiredAttempts() (int64, error) {
	cutoff := time.Now().Add(-time.Duration(s.cfg.WindowMinutes) * time.Minute)

	result, err := s.db.Exec("DELETE FROM login_attempts WHERE created_at < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup login attempts: %w", err)
	}
	return result.RowsAffected()
}
