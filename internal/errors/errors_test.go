package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError_Creation(t *testing.T) {
	message := "order not found"
	err := NewNotFoundError(message)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
}

func TestNotFoundError_IsNotFoundError(t *testing.T) {
	err := NewNotFoundError("test not found")

	notFoundErr, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.NotNil(t, notFoundErr)
	assert.Equal(t, "test not found", notFoundErr.Message)
}

func TestNotFoundError_IsNotFoundError_WithOtherError(t *testing.T) {
	err := errors.New("some other error")

	notFoundErr, ok := IsNotFoundError(err)
	assert.False(t, ok)
	assert.Nil(t, notFoundErr)
}

func TestValidationError_Creation(t *testing.T) {
	message := "validation failed"
	details := []ValidationDetail{
		{Field: "email", Message: "invalid email"},
		{Field: "name", Message: "required field"},
	}

	err := NewValidationError(message, details...)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
	assert.Len(t, err.Details, 2)
}

func TestForbiddenError(t *testing.T) {
	err := NewForbiddenError("access denied")

	fe, ok := IsForbiddenError(err)
	assert.True(t, ok)
	assert.Equal(t, "access denied", fe.Error())

	_, ok = IsForbiddenError(errors.New("other"))
	assert.False(t, ok)
}

func TestUnauthorizedError(t *testing.T) {
	err := NewUnauthorizedError("missing token")

	ue, ok := IsUnauthorizedError(err)
	assert.True(t, ok)
	assert.Equal(t, "missing token", ue.Error())

	_, ok = IsUnauthorizedError(NewForbiddenError("nope"))
	assert.False(t, ok)
}

func TestConflictError(t *testing.T) {
	err := NewConflictError("sku must be unique")

	ce, ok := IsConflictError(err)
	assert.True(t, ok)
	assert.Equal(t, "sku must be unique", ce.Error())
}

func TestInternalError_Creation(t *testing.T) {
	cause := errors.New("database error")
	err := NewInternalError("failed to query database", cause)

	assert.NotNil(t, err)
	assert.Equal(t, "failed to query database: database error", err.Error())
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestInternalError_NoCause(t *testing.T) {
	err := NewInternalError("something broke", nil)

	assert.Equal(t, "something broke", err.Error())
	assert.Nil(t, errors.Unwrap(err))
}
