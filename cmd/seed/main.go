package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/zatekoja/dentalclinic/internal/adapters/database"
	"github.com/zatekoja/dentalclinic/internal/adapters/identity"
	"github.com/zatekoja/dentalclinic/internal/adapters/seed"
	"github.com/zatekoja/dentalclinic/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/dentalclinic/internal/infrastructure/observability"
	"github.com/zatekoja/dentalclinic/pkg/config"
	apperrors "github.com/zatekoja/dentalclinic/pkg/errors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	observability.InitLogger("dental-clinic-seed", cfg.Env)
	logger := observability.GetLogger()

	ctx := context.Background()

	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to DB")
	}
	defer pgClient.Close()

	if err := pgClient.Migrate(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Failed to apply migrations")
	}

	if os.Getenv("RESET_DB") == "true" {
		logger.Info().Msg("RESET_DB=true detected, truncating tables before seeding")
		if err := pgClient.Truncate(ctx); err != nil {
			logger.Fatal().Err(err).Msg("Failed to reset tables")
		}
	}

	// 1. Seed the clinic directory
	users := database.NewUserAdapter(pgClient)
	for _, u := range seed.Users() {
		if err := users.Upsert(ctx, u); err != nil {
			logger.Fatal().Err(err).Str("user", u.Name).Msg("Failed to seed user")
		}
	}

	catalog := database.NewServiceCatalogAdapter(pgClient)
	for _, s := range seed.Services() {
		if err := catalog.Upsert(ctx, s); err != nil {
			logger.Fatal().Err(err).Str("service", s.Name).Msg("Failed to seed service")
		}
	}

	// 2. Seed demo appointments and records. Rows left from an earlier run are kept.
	err = seed.Load(ctx, seed.Stores{
		Appointments: database.NewAppointmentAdapter(pgClient),
		Records:      database.NewPatientRecordAdapter(pgClient),
	}, time.Now())
	switch {
	case apperrors.IsType(err, apperrors.ErrorTypeConflict):
		logger.Warn().Msg("Demo appointments already present; set RESET_DB=true to reload them")
	case err != nil:
		logger.Fatal().Err(err).Msg("Failed to seed demo data")
	}

	logger.Info().Int("users", len(seed.Users())).Int("services", len(seed.Services())).Msg("Seeding completed")

	// 3. Optionally mint development tokens for every seeded user
	if os.Getenv("PRINT_TOKENS") != "true" {
		return
	}
	verifier := identity.NewJWTVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer, users)
	for _, u := range seed.Users() {
		token, err := verifier.Issue(u.ID, 24*time.Hour)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to issue token; set JWT_SECRET")
		}
		fmt.Printf("%-8s %-22s %s\n", u.Role, u.Name, token)
	}
}
