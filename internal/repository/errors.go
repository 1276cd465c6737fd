package repository

import (
	"fmt"

	"github.com/google/uuid"
)

// NotFoundError reports that no row matched ID.
type NotFoundError struct {
	ID uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("user %s not found", e.ID)
}

// ConflictError reports a unique-constraint collision. Message is client safe.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// DBError wraps any unexpected persistence failure.
type DBError struct {
	Err error
}

func (e *DBError) Error() string {
	return fmt.Sprintf("database error: %v", e.Err)
}

func (e *DBError) Unwrap() error {
	return e.Err
}
