package security

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var urlSafe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func TestNewCode_Shape(t *testing.T) {
	code, err := NewCode()
	require.NoError(t, err)

	assert.GreaterOrEqual(t, len(code), 21)
	assert.Regexp(t, urlSafe, code)
}

func TestNewCode_Unique(t *testing.T) {
	seen := make(map[string]struct{})

	for i := 0; i < 100; i++ {
		code, err := NewCode()
		require.NoError(t, err)

		_, dup := seen[code]
		require.False(t, dup, "generated a duplicate code")
		seen[code] = struct{}{}
	}
}
