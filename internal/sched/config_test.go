package sched_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/internal/sched"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// chdir moves the process into dir for the rest of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(wd)) })
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := sched.Load("")
	require.NoError(t, err)

	assert.Equal(t, 1000, cfg.UnitMS)
	assert.Equal(t, time.Second, cfg.Unit())
	assert.Equal(t, 10, cfg.TaskCount)
	assert.Equal(t, 10, cfg.MaxUnits)
	assert.Equal(t, 1, cfg.Producers)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.True(t, cfg.Color)
}

func TestLoad_MissingFileKeepsDefaults(t *testing.T) {
	cfg, err := sched.Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.TaskCount)
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, `
unit_ms: 20
task_count: 4
producers: 3
seed: 7
log_format: json
color: false
`)
	cfg, err := sched.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 20*time.Millisecond, cfg.Unit())
	assert.Equal(t, 4, cfg.TaskCount)
	assert.Equal(t, 3, cfg.Producers)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.False(t, cfg.Color)
	assert.Equal(t, 10, cfg.MaxUnits, "unset keys keep their default")
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	t.Setenv("TASKFLOW_TASK_COUNT", "25")
	t.Setenv("TASKFLOW_LOG_LEVEL", "debug")

	cfg, err := sched.Load(writeConfig(t, "task_count: 4\n"))
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.TaskCount)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_Clamps(t *testing.T) {
	cfg, err := sched.Load(writeConfig(t, "unit_ms: -5\nmax_units: 0\nproducers: -1\ntask_count: -3\nevent_buffer: 0\n"))
	require.NoError(t, err)

	assert.Equal(t, 1000, cfg.UnitMS)
	assert.Equal(t, 10, cfg.MaxUnits)
	assert.Equal(t, 1, cfg.Producers)
	assert.Equal(t, 0, cfg.TaskCount)
	assert.Equal(t, 256, cfg.EventBuffer)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("malformed yaml", func(t *testing.T) {
		_, err := sched.Load(writeConfig(t, "unit_ms: [1, 2\n"))
		assert.Error(t, err)
	})

	t.Run("malformed env", func(t *testing.T) {
		t.Setenv("TASKFLOW_PRODUCERS", "many")
		_, err := sched.Load("")
		assert.Error(t, err)
	})

	t.Run("malformed dotenv", func(t *testing.T) {
		for _, body := range []string{"TASKFLOW_TASK_COUNT='unterminated\n", "=bad line\n"} {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(body), 0o600))
			chdir(t, dir)

			_, err := sched.Load("")
			require.Error(t, err, body)
			assert.Contains(t, err.Error(), "load .env", body)
		}
	})
}
