package handler

import (
	"errors"

	"github.com/deppfellow/userstore/internal/errs"
	"github.com/deppfellow/userstore/internal/service"
)

var invalidIDCode = "INVALID_ID"

// serviceError maps service errors onto HTTP errors. nil stays nil and
// unrecognised errors become a bare 500.
func serviceError(err error) error {
	if err == nil {
		return nil
	}

	var (
		invalidID *service.InvalidIDError
		notFound  *service.NotFoundError
		conflict  *service.ConflictError
	)

	switch {
	case errors.As(err, &invalidID):
		return errs.NewBadRequestError("Invalid user id", true, &invalidIDCode,
			[]errs.FieldError{{Field: "id", Error: "must be a valid UUID"}}, nil)

	case errors.As(err, &notFound):
		return errs.NewNotFoundError("User not found", true, nil)

	case errors.As(err, &conflict):
		return errs.NewConflictError(conflict.Message, true, nil)

	default:
		return errs.NewInternalServerError()
	}
}
