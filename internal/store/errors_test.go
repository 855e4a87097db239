package store_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/musicgraph/musicgraph-server/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestError_ErrorWithCause(t *testing.T) {
	cause := errors.New("UNIQUE constraint failed: genres.id")
	err := store.ErrAlreadyExists.WithCause(cause)

	assert.Contains(t, err.Error(), "resource already exists")
	assert.Contains(t, err.Error(), "UNIQUE constraint failed")
	assert.Equal(t, cause, err.Unwrap())
	assert.Equal(t, http.StatusConflict, err.HTTPCode())
}

func TestError_IsSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("get band: %w", store.ErrNotFound.WithMessage("band not found"))

	assert.True(t, errors.Is(err, store.ErrNotFound))
	assert.True(t, store.IsNotFound(err))
	assert.False(t, errors.Is(err, store.ErrAlreadyExists))
}

func TestError_WithMessage(t *testing.T) {
	err := store.ErrInvalidInput.WithMessage("bad slug")

	assert.Equal(t, "bad slug", err.Error())
	assert.Equal(t, "invalid input", store.ErrInvalidInput.Message, "sentinel must not be mutated")
}
