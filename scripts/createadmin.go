// createadmin creates an admin account, or promotes an existing one.
// Signup only hands out the candidato and empresa roles.
//
//	ADMIN_PASSWORD=... go run ./scripts/createadmin.go -email ops@agroskills.com.br -name "Equipe AgroSkills"
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"agroskills-platform/config"
	"agroskills-platform/internal/domain"
	"agroskills-platform/internal/repository/postgres"
	"agroskills-platform/pkg/database"
	"agroskills-platform/pkg/security"

	"github.com/google/uuid"
)

func main() {
	emailFlag := flag.String("email", "", "admin e-mail")
	nameFlag := flag.String("name", "Administrador", "display name")
	flag.Parse()

	addr := strings.ToLower(strings.TrimSpace(*emailFlag))
	password := os.Getenv("ADMIN_PASSWORD")
	if addr == "" || len(password) < 8 {
		log.Fatal("usage: ADMIN_PASSWORD=<min 8 chars> createadmin -email <addr> [-name <name>]")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	users := postgres.NewUserRepository(db)
	hash, err := security.HashPassword(password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	existing, err := users.GetByEmail(ctx, addr)
	switch {
	case err == nil:
		existing.Role = domain.RoleAdmin
		existing.UpdatedAt = time.Now()
		if err := users.Update(ctx, existing); err != nil {
			log.Fatalf("Failed to promote user: %v", err)
		}
		if err := users.UpdatePassword(ctx, existing.ID, hash); err != nil {
			log.Fatalf("Failed to set password: %v", err)
		}
		log.Printf("promoted %s (%s) to admin", addr, existing.ID)
	case errors.Is(err, domain.ErrNotFound):
		now := time.Now()
		user := &domain.User{
			ID:           uuid.NewString(),
			Name:         *nameFlag,
			Email:        addr,
			PasswordHash: hash,
			Role:         domain.RoleAdmin,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := users.Create(ctx, user); err != nil {
			log.Fatalf("Failed to create admin: %v", err)
		}
		log.Printf("created admin %s (%s)", addr, user.ID)
	default:
		log.Fatalf("Failed to look up user: %v", err)
	}
}
