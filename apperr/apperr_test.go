package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorString(t *testing.T) {
	assert.Equal(t, "Shop not found", NotFound("Shop not found").Error())

	wrapped := Internal("Failed to fetch shop", errors.New("connection refused"))
	assert.Equal(t, "Failed to fetch shop: connection refused", wrapped.Error())
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Internal("Failed to save", cause)
	assert.ErrorIs(t, err, cause)
}

func TestFrom(t *testing.T) {
	appErr := Conflict("You have already reported this item")
	assert.Same(t, appErr, From(appErr))

	// Wrapped *Error is still recovered.
	assert.Same(t, appErr, From(fmt.Errorf("handler: %w", appErr)))

	// Arbitrary errors become opaque 500s.
	plain := From(errors.New("pq: syntax error"))
	require.NotNil(t, plain)
	assert.Equal(t, http.StatusInternalServerError, plain.Status)
	assert.Equal(t, "Internal server error", plain.Message)
}

func TestStatuses(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, BadRequest("x").Status)
	assert.Equal(t, http.StatusBadRequest, BadRequestf("have %d", 2).Status)
	assert.Equal(t, "have 2", BadRequestf("have %d", 2).Message)
	assert.Equal(t, http.StatusForbidden, Forbidden("x").Status)
	assert.Equal(t, http.StatusConflict, Conflict("x").Status)
	assert.Equal(t, http.StatusNotFound, NotFound("x").Status)
}
