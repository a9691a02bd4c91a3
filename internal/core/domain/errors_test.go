package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorTaxonomy(t *testing.T) {
	validation := NewValidationError(map[string]string{"year": "must be between 1900 and 2027", "make": "is required"})
	assert.True(t, errors.Is(validation, ErrValidation))
	assert.Equal(t, "validation failed: make: is required; year: must be between 1900 and 2027", validation.Error())

	notFound := fmt.Errorf("get car: %w", NewNotFoundError("car", int64(42)))
	assert.True(t, errors.Is(notFound, ErrNotFound))
	var nf *NotFoundError
	assert.True(t, errors.As(notFound, &nf))
	assert.Equal(t, "car", nf.Kind)

	conflict := &ConflictError{Reason: "photo 3 does not belong to car 1"}
	assert.True(t, errors.Is(conflict, ErrConflict))
	assert.False(t, errors.Is(conflict, ErrNotFound))

	cause := errors.New("connection reset")
	storage := NewStorageError("insert car", cause)
	assert.True(t, errors.Is(storage, cause))
}

func TestDictionaryKind_Valid(t *testing.T) {
	assert.True(t, KindColor.Valid())
	assert.False(t, DictionaryKind("engine").Valid())
}
