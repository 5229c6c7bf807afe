package main

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, key, value string) {
	t.Helper()

	require.NoError(t, os.Setenv(key, value))
	t.Cleanup(func() { os.Unsetenv(key) })
}

func TestMalformedEnvironmentFailsStartup(t *testing.T) {
	setEnv(t, "REFRESH_SECONDS", "abc")
	setEnv(t, "METRICS_PORT", "not-a-port")
	setEnv(t, "RETRIES", "five")

	c := &command{}
	c.Cmd()

	err := c.RunE(nil, nil)
	require.Error(t, err)

	assert.Contains(t, err.Error(), "REFRESH_SECONDS")
	assert.Contains(t, err.Error(), "METRICS_PORT")
	assert.Contains(t, err.Error(), "RETRIES")
}

func TestMalformedSliceEnvironmentFailsStartup(t *testing.T) {
	setEnv(t, "SMARTFEE_BLOCKS", "2,three,5")

	c := &command{}
	c.Cmd()

	err := c.RunE(nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SMARTFEE_BLOCKS")
}

func TestEnvironmentDefaultsWhenUnset(t *testing.T) {
	c := &command{}

	assert.Equal(t, 9332, c.envInt("METRICS_PORT", 9332))
	assert.Equal(t, 30*time.Second,
		c.envDuration("REFRESH_SECONDS", 30*time.Second))
	assert.Equal(t, []int64{2, 3, 5, 20},
		c.envInt64Slice("SMARTFEE_BLOCKS", []int64{2, 3, 5, 20}))

	require.NoError(t, c.configErr())
}

func TestEnvironmentValuesParsed(t *testing.T) {
	setEnv(t, "RETRIES", "7")
	setEnv(t, "REFRESH_SECONDS", "10")
	setEnv(t, "TIMEOUT", "15s")
	setEnv(t, "SMARTFEE_BLOCKS", "1, 6")

	c := &command{}

	assert.Equal(t, 7, c.envInt("RETRIES", 5))

	// a bare number means seconds; duration syntax also works.
	assert.Equal(t, 10*time.Second,
		c.envDuration("REFRESH_SECONDS", 30*time.Second))
	assert.Equal(t, 15*time.Second,
		c.envDuration("TIMEOUT", 30*time.Second))

	assert.Equal(t, []int64{1, 6},
		c.envInt64Slice("SMARTFEE_BLOCKS", nil))

	require.NoError(t, c.configErr())
}
