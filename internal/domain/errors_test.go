package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationErrors(t *testing.T) {
	ve := NewValidationError("title", "is required")
	assert.ErrorIs(t, ve, ErrValidation)
	assert.Equal(t, "validation failed: title is required", ve.Error())

	fe := FieldErrors{"title": "is required", "color": "is invalid"}
	assert.ErrorIs(t, fe, ErrValidation)
	assert.Equal(t, "validation failed: color is invalid; title is required", fe.Error())
}

func TestAsFieldErrors(t *testing.T) {
	fields, ok := AsFieldErrors(fmt.Errorf("create task: %w", NewValidationError("title", "is required")))
	require.True(t, ok)
	assert.Equal(t, FieldErrors{"title": "is required"}, fields)

	fields, ok = AsFieldErrors(FieldErrors{"name": "is required"})
	require.True(t, ok)
	assert.Equal(t, "is required", fields["name"])

	_, ok = AsFieldErrors(errors.New("boom"))
	assert.False(t, ok)
	_, ok = AsFieldErrors(ErrIllegalTransition)
	assert.False(t, ok)
}
