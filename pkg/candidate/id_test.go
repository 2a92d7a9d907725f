package candidate

import (
	"bytes"
	"errors"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextMatchesPattern(t *testing.T) {
	g := NewIDGenerator()
	for i := 0; i < 100; i++ {
		id, err := g.Next()
		require.NoError(t, err)
		assert.True(t, IsValidID(id), "id %q", id)
	}
}

func TestNextIsUnique(t *testing.T) {
	g := NewIDGenerator()
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id, err := g.Next()
		require.NoError(t, err)
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %q", id)
		seen[id] = struct{}{}
	}
}

func TestNextWithPinnedSources(t *testing.T) {
	now := func() time.Time { return time.UnixMilli(1700000000000) }
	// 252..255 are rejected, 36 wraps to '0', 35 is 'z'
	entropy := append([]byte{252, 253, 0, 1, 2, 10, 35, 36, 255, 37, 9}, make([]byte, 32)...)

	id, err := NewIDGeneratorWith(now, bytes.NewReader(entropy)).Next()
	require.NoError(t, err)
	assert.Equal(t, "candidate_1700000000000_012az0190", id)
}

func TestNextPropagatesEntropyFailure(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewIDGeneratorWith(time.Now, iotest.ErrReader(boom)).Next()
	assert.ErrorIs(t, err, boom)
}

func TestIsValidID(t *testing.T) {
	assert.True(t, IsValidID("candidate_1_abcdefghi"))
	assert.False(t, IsValidID("candidate_1_ABCDEFGHI"))
	assert.False(t, IsValidID("candidate_x_abcdefghi"))
	assert.False(t, IsValidID("candidate_1_abcdefgh"))
}
