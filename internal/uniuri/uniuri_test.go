package uniuri

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLen(t *testing.T) {
	for _, n := range []int{0, 1, 16, StateLen, SecretLen, 1000} {
		s := NewLen(n)
		require.Len(t, s, n)

		for i := range len(s) {
			assert.True(t, bytes.IndexByte(URLChars, s[i]) >= 0, "unexpected %q", s[i])
		}
	}
}

func TestNewStateIsUnique(t *testing.T) {
	seen := make(map[string]struct{}, 1000)

	for range 1000 {
		s := NewState()
		_, dup := seen[s]
		require.False(t, dup)
		seen[s] = struct{}{}
	}
}

func TestNewLenCharsSmallAlphabet(t *testing.T) {
	out := NewLenChars(200, []byte("ab"))
	require.Len(t, out, 200)
	assert.Contains(t, string(out), "a")
	assert.Contains(t, string(out), "b")
}

func TestNewLenCharsPanicsOnBadCharset(t *testing.T) {
	assert.Panics(t, func() { NewLenChars(4, []byte("a")) })
}
