package services

import (
	"context"
	"errors"
	"strings"

	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/anonto42/petconnect/backend/internal/repositories"
	"github.com/anonto42/petconnect/backend/pkg/config"
	log "github.com/sirupsen/logrus"
)

// SeedAdmin provisions the bootstrap administrator once at startup. It creates
// the account when neither the email nor the username exists, promotes a
// matching non-admin account, and otherwise does nothing.
func (s *AccountService) SeedAdmin(ctx context.Context, seed config.AdminSeed) error {
	if !seed.Create {
		return nil
	}
	seed.Email = strings.ToLower(strings.TrimSpace(seed.Email))
	seed.Username = strings.TrimSpace(seed.Username)
	seed.FullName = strings.TrimSpace(seed.FullName)
	if seed.Email == "" || seed.Username == "" || seed.Password == "" {
		log.Warn("CREATE_ADMIN is set but ADMIN_EMAIL, ADMIN_USERNAME or ADMIN_PASSWORD is missing; skipping admin seed")
		return nil
	}

	existing, err := s.users.FindByEmailOrUsername(ctx, seed.Email, seed.Username)
	switch {
	case err == nil && existing.Role == models.RoleAdmin:
		log.WithField("email", existing.Email).Info("Admin account already exists.")
		return nil
	case err == nil:
		role := models.RoleAdmin
		if _, err := s.users.UpdateUser(ctx, existing.ID, models.UserPatch{Role: &role}); err != nil {
			return storeErr(err, "user")
		}
		log.WithField("email", existing.Email).Info("Existing account promoted to admin.")
		return nil
	case !errors.Is(err, repositories.ErrNotFound):
		return storeErr(err, "user")
	}

	admin := &models.User{
		Username: seed.Username,
		Email:    seed.Email,
		FullName: seed.FullName,
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	if err := s.createAccount(ctx, admin, seed.Password); err != nil {
		return err
	}
	log.WithField("email", admin.Email).Info("Admin account created.")
	return nil
}
