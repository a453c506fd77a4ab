package player_test

import (
	"testing"

	"groovebot/player"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveQueryFromURL(t *testing.T) {
	t.Parallel()

	track, err := player.ResolveQuery("https://example.com/tracks/midnight-drive")
	require.NoError(t, err)
	assert.Equal(t, "midnight-drive", track.Title)
	assert.Equal(t, "https://example.com/tracks/midnight-drive", track.URL)

	// Bare-host URLs fall back to the host as the title.
	track, err = player.ResolveQuery("https://example.com/")
	require.NoError(t, err)
	assert.Equal(t, "example.com", track.Title)
}

func TestResolveQueryFromSearchTerms(t *testing.T) {
	t.Parallel()

	track, err := player.ResolveQuery("  midnight drive  ")
	require.NoError(t, err)
	assert.Equal(t, "midnight drive", track.Title)
	assert.Empty(t, track.URL)
}

func TestResolveQueryRejectsEmpty(t *testing.T) {
	t.Parallel()

	_, err := player.ResolveQuery("   ")
	assert.Error(t, err)
}
