// Command seed populates the user store with a known data set: one admin,
// one standard user and twenty test users (every third one an admin). All
// accounts share the password "password". Safe to re-run: existing emails
// are skipped.
package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/userhub/user-management/internal/core/domain"
	mongodb "github.com/userhub/user-management/internal/infrastructure/db/mongo"
	"github.com/userhub/user-management/internal/pkg/config"
	"github.com/userhub/user-management/pkg/logger"
)

const seedPassword = "password"

func main() {
	_ = godotenv.Load()

	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		fallback := logger.Init(logger.Config{})
		fallback.Fatal().Err(err).Msg("failed to load configuration")
	}
	log := logger.Init(logger.Config{Level: cfg.LogLevel, Pretty: true})

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	repo := mongodb.NewUserRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to hash seed password")
	}

	created, skipped := 0, 0
	for _, u := range seedUsers() {
		u.PasswordHash = string(hash)
		now := time.Now().UTC()
		u.CreatedAt = now
		u.UpdatedAt = now

		stored, err := repo.Create(ctx, &u)
		if err != nil {
			if errors.Is(err, domain.ErrEmailTaken) {
				skipped++
				continue
			}
			log.Fatal().Err(err).Str("email", u.Email).Msg("failed to seed user")
		}
		created++
		log.Debug().Int64("user_id", stored.ID).Str("email", stored.Email).Str("role", stored.Role).Msg("seeded")
	}

	log.Info().Int("created", created).Int("skipped", skipped).Msg("seeding complete")
}

func seedUsers() []domain.User {
	users := []domain.User{
		{Name: "Admin User", Email: "admin@example.com", Phone: "+1234567890", Role: domain.RoleAdmin},
		{Name: "Standard User", Email: "user@example.com", Phone: "+0987654321", Role: domain.RoleUser},
	}

	for i := 1; i <= 20; i++ {
		role := domain.RoleUser
		if i%3 == 0 {
			role = domain.RoleAdmin
		}
		users = append(users, domain.User{
			Name:  fmt.Sprintf("Test User %d", i),
			Email: fmt.Sprintf("testuser%d@example.com", i),
			Phone: fmt.Sprintf("+1%010d", i),
			Role:  role,
		})
	}
	return users
}
