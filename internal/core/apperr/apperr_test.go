package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKinds(t *testing.T) {
	notFound := NotFound("seed not found")
	wrapped := fmt.Errorf("get seed: %w", notFound)

	assert.ErrorIs(t, wrapped, ErrNotFound)
	assert.NotErrorIs(t, wrapped, ErrConflict)
	assert.Equal(t, "seed not found", notFound.Error())

	var appErr *Error
	assert.True(t, errors.As(wrapped, &appErr))

	assert.ErrorIs(t, BadRequest("Please provide a search query"), ErrBadRequest)
	assert.ErrorIs(t, Conflict("referenced seed or plot does not exist"), ErrConflict)
}
