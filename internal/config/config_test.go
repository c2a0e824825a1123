package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsWhenUnset(t *testing.T) {
	assert.Equal(t, 1323, GetInt("test.unset.int", 1323))
	assert.Equal(t, "x", GetString("test.unset.string", "x"))
	assert.True(t, GetBool("test.unset.bool", true))
	assert.Equal(t, 0.5, GetFloat("test.unset.float", 0.5))
	assert.Equal(t, int64(42), GetInt64("test.unset.int64", 42))
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("ARCHBENCH_SINK_TIMEOUT_MS", "500")
	t.Setenv("ARCHBENCH_TRACING_ENABLED", "true")

	assert.Equal(t, 500, GetInt(SINK_TIMEOUT_MS, 2000))
	assert.True(t, GetBool(TRACING_ENABLED, false))
}

func TestReadConfigurationFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "bench-test.yaml")
	require.NoError(t, os.WriteFile(file, []byte("workload:\n  seed: 7\nlogging:\n  level: debug\n"), 0o644))

	ReadConfiguration(file)
	assert.Equal(t, int64(7), GetInt64(WORKLOAD_SEED, 42))
	assert.Equal(t, "debug", GetString(LOGGING_LEVEL, "info"))

	Set(WORKLOAD_SEED, 9)
	assert.Equal(t, 9, GetInt(WORKLOAD_SEED, 42))
}
