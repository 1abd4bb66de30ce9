package main

import (
	"testing"
	"time"

	"github.com/phrazzld/taskflow-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	t.Run("no flags", func(t *testing.T) {
		opts, err := parseFlags(nil)
		require.NoError(t, err)
		assert.Empty(t, opts.migrate)
	})

	t.Run("migrate", func(t *testing.T) {
		opts, err := parseFlags([]string{"-migrate", "up"})
		require.NoError(t, err)
		assert.Equal(t, "up", opts.migrate)
	})

	t.Run("unknown flag", func(t *testing.T) {
		_, err := parseFlags([]string{"-bogus"})
		assert.Error(t, err)
	})
}

func TestRunnerConfig(t *testing.T) {
	rc := runnerConfig(config.JobsConfig{
		WorkerCount:                  4,
		QueueSize:                    50,
		StuckJobAgeMinutes:           15,
		StuckJobCheckIntervalMinutes: 3,
		PendingJobGraceSeconds:       45,
	})

	assert.Equal(t, 4, rc.WorkerCount)
	assert.Equal(t, 50, rc.QueueSize)
	assert.Equal(t, 15*time.Minute, rc.StuckJobAge)
	assert.Equal(t, 3*time.Minute, rc.StuckJobCheckInterval)
	assert.Equal(t, 45*time.Second, rc.PendingJobGrace)
	assert.Positive(t, rc.JobTimeout)
}
