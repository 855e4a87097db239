package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Uniqueness(t *testing.T) {
	ids := make(map[string]bool)
	count := 1000

	for range count {
		id, err := Generate(PrefixSession)
		require.NoError(t, err)
		assert.False(t, ids[id], "ID should be unique: %s", id)
		ids[id] = true
	}

	assert.Len(t, ids, count)
}

func TestGenerate_Format(t *testing.T) {
	for _, prefix := range []string{PrefixUser, PrefixSession, PrefixToken} {
		t.Run(prefix, func(t *testing.T) {
			id, err := Generate(prefix)
			require.NoError(t, err)

			assert.True(t, strings.HasPrefix(id, prefix+"-"))
			assert.Len(t, id, len(prefix)+1+21)
			assert.True(t, HasPrefix(id, prefix))
		})
	}
}

func TestHasPrefix(t *testing.T) {
	assert.False(t, HasPrefix("user-", PrefixUser))
	assert.False(t, HasPrefix("session-abc", PrefixUser))
	assert.True(t, HasPrefix("user-abc", PrefixUser))
}

func TestMustGenerate(t *testing.T) {
	assert.NotPanics(t, func() {
		assert.True(t, HasPrefix(MustGenerate(PrefixUser), PrefixUser))
	})
}
