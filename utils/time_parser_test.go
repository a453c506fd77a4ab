package utils_test

import (
	"testing"
	"time"

	"groovebot/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	t.Parallel()

	d, err := utils.ParseDuration("3d")
	require.NoError(t, err)
	assert.Equal(t, 72*time.Hour, d)

	d, err = utils.ParseDuration("90s")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, d)

	_, err = utils.ParseDuration("xd")
	assert.Error(t, err)
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "250ms", utils.FormatDuration(250*time.Millisecond))
	assert.Equal(t, "3.5s", utils.FormatDuration(3500*time.Millisecond))
	assert.Equal(t, "2.0m", utils.FormatDuration(2*time.Minute))
}
