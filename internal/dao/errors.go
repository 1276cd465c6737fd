package dao

import (
	"fmt"

	"github.com/deppfellow/userstore/internal/sqlerr"
)

// UniqueViolationError reports that a write collided with a unique constraint.
type UniqueViolationError struct {
	// Field is the column behind the constraint, "field" when it cannot be inferred.
	Field      string
	Table      string
	Constraint string
	Err        error
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("unique violation on %s.%s (%s)", e.Table, e.Field, e.Constraint)
}

func (e *UniqueViolationError) Unwrap() error {
	return e.Err
}

// UnexpectedError carries every other failure: driver, network, pool, SQL.
type UnexpectedError struct {
	Op  string
	Err error
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("%s: unexpected database error: %v", e.Op, e.Err)
}

func (e *UnexpectedError) Unwrap() error {
	return e.Err
}

// classify converts whatever the driver returned into one of the two
// DAO error types. nil stays nil.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	if sqlErr := sqlerr.Classify(err); sqlErr != nil && sqlErr.Code == sqlerr.UniqueViolation {
		field := sqlerr.ColumnForUniqueViolation(sqlErr.ConstraintName)
		if field == "" {
			field = sqlErr.ColumnName
		}
		if field == "" {
			field = "field"
		}

		table := sqlErr.TableName
		if table == "" {
			table = usersTable
		}

		return &UniqueViolationError{
			Field:      field,
			Table:      table,
			Constraint: sqlErr.ConstraintName,
			Err:        err,
		}
	}

	return &UnexpectedError{Op: op, Err: err}
}
