package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/evrenos-dev/vaxtrack/internal/app/models"
	"github.com/evrenos-dev/vaxtrack/internal/app/repositories"
	"github.com/evrenos-dev/vaxtrack/internal/pkg/apperrors"
	"github.com/evrenos-dev/vaxtrack/internal/pkg/auth"
)

// Default coordinator credentials created on first startup. The password
// must be changed in any real deployment.
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin123"
)

// CreateDefaultData seeds the default coordinator account if no user with
// that username exists yet.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := repositories.NewUserRepository(dbPool)

	_, err := userRepo.GetByUsername(ctx, DefaultAdminUsername)
	if err == nil {
		lgr.Debug().Msg("Default coordinator account already exists")
		return nil
	}
	if !errors.Is(err, apperrors.ErrResourceNotFound) {
		return err
	}

	hash, err := auth.HashPassword(DefaultAdminPassword)
	if err != nil {
		return err
	}

	admin := &models.User{
		Username: DefaultAdminUsername,
		Password: hash,
		Name:     "School Coordinator",
		RoleType: models.RoleCoordinator,
		IsActive: true,
	}

	if err := userRepo.Create(ctx, admin); err != nil {
		lgr.Error().Err(err).Msg("Error creating default coordinator account")
		return err
	}

	lgr.Info().Str("username", DefaultAdminUsername).Msg("Default coordinator account created")
	return nil
}
