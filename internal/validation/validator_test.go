package validation_test

import (
	"testing"

	domainerrors "github.com/musicgraph/musicgraph-server/internal/errors"
	"github.com/musicgraph/musicgraph-server/internal/genre"
	"github.com/musicgraph/musicgraph-server/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createUserRequest struct {
	Username string `json:"username" validate:"required,username,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=1024"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	err := v.Validate(createUserRequest{
		Username: "metal_head.99",
		Email:    "test@example.com",
		Password: "password123",
	})
	assert.NoError(t, err)
}

func TestValidator_CollectsEveryField(t *testing.T) {
	v := validation.New()

	err := v.Validate(createUserRequest{
		Username: "no spaces",
		Email:    "not-an-email",
		Password: "short",
	})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))

	assert.Equal(t, []string{
		"username may contain only letters, numbers, '.', '_' and '-'",
		"email must be a valid email address",
		"password must be at least 8 characters",
	}, domainerrors.Messages(err))
}

func TestValidator_JSONFieldNames(t *testing.T) {
	v := validation.New()

	err := v.Validate(createUserRequest{Username: "u", Password: "password123"})
	require.Error(t, err)

	msgs := domainerrors.Messages(err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "email is required", msgs[0])
}

func TestValidator_SeedDocuments(t *testing.T) {
	v := validation.New()

	assert.NoError(t, v.Validate(genre.DefaultTaxonomy))

	bad := genre.Taxonomy{
		Genres: []genre.GenreSeed{{ID: "Bad ID", Name: "Bad", Type: "subgenre"}},
		Bands:  []genre.BandSeed{{Name: "Nameless", Primary: "metal"}},
	}
	err := v.Validate(bad)
	require.Error(t, err)

	msgs := domainerrors.Messages(err)
	assert.Contains(t, msgs, "genres[0].id must contain only lowercase letters, numbers, and hyphens")
	assert.Contains(t, msgs, "genres[0].type must be one of: root, intermediate, leaf")
	assert.Contains(t, msgs, "bands[0].genres is required")
}
