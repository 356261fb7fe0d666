package usecase

import (
	"errors"

	"agroskills-platform/internal/domain"
	"agroskills-platform/pkg/apperror"
	"agroskills-platform/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// notFoundOr maps domain.ErrNotFound to a 404 with msg and wraps anything
// else as an internal error.
func notFoundOr(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return apperror.NotFound(msg)
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperror.Internal(err)
}

func internal(err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperror.Internal(err)
}

func validate(v *validator.Validate, s any) error {
	if err := v.Struct(s); err != nil {
		return apperror.BadRequest(validation.Message(err))
	}
	return nil
}

func isAdmin(role string) bool {
	return role == domain.RoleAdmin
}

func canManageJobs(role string) bool {
	return role == domain.RoleAdmin || role == domain.RoleCompany
}
