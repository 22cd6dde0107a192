// Command create-admin bootstraps a dashboard operator account. Run it
// once after provisioning the database:
//
//	create-admin -email admin@example.com -password '...' -name "Jane Admin"
package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/contracthub/cms-backend/internal/config"
	"github.com/contracthub/cms-backend/internal/database"
	"github.com/contracthub/cms-backend/internal/models"
	"github.com/contracthub/cms-backend/pkg/validator"
)

func main() {
	email := flag.String("email", "", "account email (required)")
	password := flag.String("password", "", "account password (required)")
	fullName := flag.String("name", "", "display name")
	role := flag.String("role", models.RoleAdmin, "account role: admin or viewer")
	flag.Parse()

	if *email == "" || *password == "" {
		flag.Usage()
		log.Fatal("both -email and -password are required")
	}
	if *role != models.RoleAdmin && *role != models.RoleViewer {
		log.Fatalf("invalid role %q: must be %s or %s", *role, models.RoleAdmin, models.RoleViewer)
	}

	normalizedEmail, err := validator.NewContactValidator().ValidateEmail(*email)
	if err != nil {
		log.Fatalf("Invalid email: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	adminRepo := database.NewAdminUserRepository(db)

	if _, err := adminRepo.GetByEmail(normalizedEmail); err == nil {
		log.Fatalf("An account for %s already exists", normalizedEmail)
	} else if !errors.Is(err, sql.ErrNoRows) {
		log.Fatalf("Failed to check for existing account: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), cfg.Security.BcryptCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	now := time.Now()
	user := &models.AdminUser{
		ID:           uuid.New(),
		Email:        normalizedEmail,
		PasswordHash: string(hash),
		Role:         *role,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if *fullName != "" {
		user.FullName = models.NewNullString(*fullName)
	}

	if err := adminRepo.Create(user); err != nil {
		log.Fatalf("Failed to create account: %v", err)
	}

	fmt.Printf("Created %s account %s (%s)\n", user.Role, user.Email, user.ID)
}
