package service

import (
	"errors"

	"growfi-backend/internal/core/domain"
	"growfi-backend/pkg/apperror"
)

// validationError turns a domain rule failure into a VAL_001 AppError.
func validationError(err error) error {
	var fe *domain.FieldError
	if errors.As(err, &fe) {
		return apperror.ErrValidation(fe.Field, fe.Reason)
	}
	return apperror.Validation(err.Error())
}
