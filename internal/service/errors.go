package service

import (
	"fmt"

	"github.com/google/uuid"
)

// InvalidIDError reports an id that is not a UUID.
type InvalidIDError struct {
	Raw string
}

func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("invalid user id %q", e.Raw)
}

// NotFoundError reports that no user has ID.
type NotFoundError struct {
	ID uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("user %s not found", e.ID)
}

// ConflictError carries the repository conflict message unchanged.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// InternalError hides the cause. The cause is logged where it happens.
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string {
	return e.Message
}
