package sqlerr

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var uniqueKeySuffix = regexp.MustCompile(`_([^_]+)_(?:key|ukey)$`)

// ColumnForUniqueViolation infers the column from a unique constraint name.
//
// It supports two conventions:
//
//  1. "unique_<table>_<column>", e.g. unique_users_email -> "email"
//  2. "<table>_<column>_(key|ukey)", e.g. users_email_key -> "email"
func ColumnForUniqueViolation(constraintName string) string {
	if constraintName == "" {
		return ""
	}

	if strings.HasPrefix(constraintName, "unique_") {
		parts := strings.Split(constraintName, "_")
		if len(parts) >= 3 {
			return parts[len(parts)-1]
		}
	}

	if matches := uniqueKeySuffix.FindStringSubmatch(constraintName); len(matches) > 1 {
		return matches[1]
	}

	return ""
}

// UniqueViolationMessage renders the client-facing conflict message.
//
//	UniqueViolationMessage("users", "email")
//	// A user with this Email already exists (unique constraint on email)
func UniqueViolationMessage(tableName, column string) string {
	entity := strings.ToLower(EntityName(tableName, ""))
	if column == "" {
		return fmt.Sprintf("A %s with this identifier already exists", entity)
	}
	return fmt.Sprintf("A %s with this %s already exists (unique constraint on %s)", entity, humanizeText(column), column)
}

// FriendlyMessage renders a client-facing message for a classified error.
func FriendlyMessage(sqlErr *Error) string {
	entityName := EntityName(sqlErr.TableName, sqlErr.ColumnName)

	switch sqlErr.Code {
	case UniqueViolation:
		column := ColumnForUniqueViolation(sqlErr.ConstraintName)
		return UniqueViolationMessage(sqlErr.TableName, column)

	case ForeignKeyViolation:
		return fmt.Sprintf("The referenced %s does not exist", entityName)

	case NotNullViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName == "" {
			fieldName = "field"
		}
		return fmt.Sprintf("The %s is required", fieldName)

	case CheckViolation:
		if fieldName := humanizeText(sqlErr.ColumnName); fieldName != "" {
			return fmt.Sprintf("The %s value does not meet required conditions", fieldName)
		}
		return "One or more values do not meet required conditions"

	default:
		return "An error occurred while processing your request"
	}
}

// EntityName infers an entity name from table/column data.
//
// A column ending in "_id" wins ("user_id" -> "User"), then the table
// name with a trailing "s" dropped, then "record".
func EntityName(tableName, columnName string) string {
	if columnName != "" && strings.HasSuffix(strings.ToLower(columnName), "_id") {
		return humanizeText(strings.TrimSuffix(strings.ToLower(columnName), "_id"))
	}

	if tableName != "" {
		entity := tableName
		if strings.HasSuffix(entity, "s") && len(entity) > 1 {
			entity = entity[:len(entity)-1]
		}
		return humanizeText(entity)
	}

	return "record"
}

// humanizeText converts snake_case into Title Case, "first_name" -> "First Name".
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}
