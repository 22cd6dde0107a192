package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/contracthub/cms-backend/internal/database"
	"github.com/contracthub/cms-backend/internal/models"
	"github.com/contracthub/cms-backend/pkg/jwt"
)

// ErrInvalidCredentials is returned for any authentication failure so
// the response does not reveal whether the account exists.
var ErrInvalidCredentials = fmt.Errorf("invalid email or password")

// AuthService handles admin authentication
type AuthService struct {
	adminRepo         *database.AdminUserRepository
	rateLimiter       *RateLimitService
	audit             *AuditService
	jwtService        *jwt.Service
	accessTokenExpiry time.Duration
	logger            *logrus.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	adminRepo *database.AdminUserRepository,
	rateLimiter *RateLimitService,
	audit *AuditService,
	jwtService *jwt.Service,
	accessTokenExpiry time.Duration,
	logger *logrus.Logger,
) *AuthService {
	return &AuthService{
		adminRepo:         adminRepo,
		rateLimiter:       rateLimiter,
		audit:             audit,
		jwtService:        jwtService,
		accessTokenExpiry: accessTokenExpiry,
		logger:            logger,
	}
}

// Login authenticates an admin user and returns a token pair. Failed
// attempts are rate limited per email and per IP and recorded in the
// audit log.
func (s *AuthService) Login(email, password, ipAddress, userAgent string) (*models.LoginResponse, error) {
	if err := s.rateLimiter.CheckLoginRateLimit(email, ipAddress); err != nil {
		if rlErr, ok := err.(*RateLimitError); ok {
			if auditErr := s.audit.LogRateLimitViolation(email, ipAddress, userAgent, rlErr.RetryAfter); auditErr != nil {
				s.logger.WithError(auditErr).Warn("Failed to write audit record")
			}
		}
		return nil, err
	}

	admin, err := s.adminRepo.GetByEmail(email)
	if err != nil {
		s.recordFailure(nil, email, ipAddress, userAgent, "unknown account")
		return nil, ErrInvalidCredentials
	}

	if admin.Status != "active" {
		s.recordFailure(&admin.ID, email, ipAddress, userAgent, "account "+admin.Status)
		return nil, fmt.Errorf("account is %s", admin.Status)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		s.recordFailure(&admin.ID, email, ipAddress, userAgent, "wrong password")
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.jwtService.GenerateAccessToken(admin.ID, admin.Email, admin.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtService.GenerateRefreshToken(admin.ID, admin.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	if err := s.rateLimiter.ClearAttempts(email); err != nil {
		s.logger.WithError(err).Warn("Failed to clear login attempts")
	}
	if err := s.adminRepo.TouchLastLogin(admin.ID); err != nil {
		s.logger.WithError(err).WithField("user_id", admin.ID).Warn("Failed to record last login")
	}
	if err := s.audit.LogLogin(&admin.ID, email, ipAddress, userAgent, true, ""); err != nil {
		s.logger.WithError(err).Warn("Failed to write audit record")
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": admin.ID,
		"email":   admin.Email,
	}).Info("Admin logged in")

	admin.PasswordHash = ""
	return &models.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.accessTokenExpiry.Seconds()),
		User:         admin,
	}, nil
}

// Refresh validates a refresh token and issues a new token pair
func (s *AuthService) Refresh(refreshToken string) (*models.LoginResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	admin, err := s.adminRepo.GetByID(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("account not found")
	}
	if admin.Status != "active" {
		return nil, fmt.Errorf("account is %s", admin.Status)
	}

	accessToken, err := s.jwtService.GenerateAccessToken(admin.ID, admin.Email, admin.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	newRefreshToken, err := s.jwtService.GenerateRefreshToken(admin.ID, admin.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	admin.PasswordHash = ""
	return &models.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		ExpiresIn:    int64(s.accessTokenExpiry.Seconds()),
		User:         admin,
	}, nil
}

// Me returns the account for an authenticated user ID
func (s *AuthService) Me(userID uuid.UUID) (*models.AdminUser, error) {
	admin, err := s.adminRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	admin.PasswordHash = ""
	return admin, nil
}

func (s *AuthService) recordFailure(userID *uuid.UUID, email, ipAddress, userAgent, reason string) {
	if err := s.rateLimiter.RecordFailedLogin(email, ipAddress); err != nil {
		s.logger.WithError(err).Warn("Failed to record login attempt")
	}
	if err := s.audit.LogLogin(userID, email, ipAddress, userAgent, false, reason); err != nil {
		s.logger.WithError(err).Warn("Failed to write audit record")
	}
}
