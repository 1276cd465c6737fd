package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructorsDefaultCodes(t *testing.T) {
	assert.Equal(t, "BAD_REQUEST", NewBadRequestError("x", false, nil, nil, nil).Code)
	assert.Equal(t, "NOT_FOUND", NewNotFoundError("x", false, nil).Code)
	assert.Equal(t, "CONFLICT", NewConflictError("x", true, nil).Code)
	assert.Equal(t, "UNAUTHORIZED", NewUnauthorizedError("x", false).Code)
	assert.Equal(t, "TOO_MANY_REQUESTS", NewTooManyRequestsError("slow down").Code)

	internal := NewInternalServerError()
	assert.Equal(t, http.StatusInternalServerError, internal.Status)
	assert.Equal(t, "Internal Server Error", internal.Message)
}

func TestCustomCode(t *testing.T) {
	code := "INVALID_ID"
	err := NewBadRequestError("bad id", true, &code, []FieldError{{Field: "id", Error: "must be a valid UUID"}}, nil)

	assert.Equal(t, "INVALID_ID", err.Code)
	assert.Len(t, err.Errors, 1)
}

func TestHTTPErrorIs(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NewNotFoundError("gone", false, nil))

	assert.True(t, errors.Is(wrapped, &HTTPError{}))
	assert.False(t, errors.Is(errors.New("plain"), &HTTPError{}))
}

func TestWithMessageCopies(t *testing.T) {
	base := NewConflictError("original", false, nil)
	changed := base.WithMessage("changed")

	assert.Equal(t, "original", base.Message)
	assert.Equal(t, "changed", changed.Message)
	assert.Equal(t, base.Code, changed.Code)
}
