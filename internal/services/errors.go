package services

import (
	"errors"

	"github.com/anonto42/petconnect/backend/internal/apperrors"
	"github.com/anonto42/petconnect/backend/internal/repositories"
)

// storeErr classifies a repository error for the entity named what.
func storeErr(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return apperrors.NotFoundf("%s not found", what)
	case errors.Is(err, repositories.ErrDuplicate):
		return apperrors.Conflictf("%s already exists", what)
	default:
		return apperrors.Wrap(apperrors.Internal, "could not access "+what, err)
	}
}

func forbidden(action string) error {
	return apperrors.Forbiddenf("you are not allowed to %s", action)
}
