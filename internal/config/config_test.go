package config

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()

	cmd := &cobra.Command{Use: "kaiwa", RunE: func(*cobra.Command, []string) error { return nil }}
	cmd.Flags().String("config", "", "")
	cmd.Flags().StringP("api-key", "k", "", "")
	cmd.Flags().StringP("base-url", "b", "", "")
	cmd.Flags().StringP("model", "m", DefaultModel, "")
	cmd.Flags().Float32P("temperature", "t", DefaultTemperature, "")
	cmd.Flags().Float32P("top-p", "p", DefaultTopP, "")
	cmd.Flags().String("log-level", DefaultLogLevel, "")
	cmd.Flags().Int("max-rounds", DefaultMaxRounds, "")
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvBaseURL, "")

	cfg, err := Load(testCommand(t))
	require.NoError(t, err)

	assert.Equal(t, DefaultModel, cfg.API.Model)
	assert.InDelta(t, DefaultTemperature, cfg.API.Temperature, 1e-6)
	assert.InDelta(t, DefaultTopP, cfg.API.TopP, 1e-6)
	assert.Equal(t, DefaultMaxRounds, cfg.Agent.MaxRounds)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Empty(t, cfg.API.Key)
}

func TestLoadEnvCredentialFallback(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvAPIKey, "sk-from-env")
	t.Setenv(EnvBaseURL, "https://proxy.example.com/v1/")

	cfg, err := Load(testCommand(t))
	require.NoError(t, err)

	assert.Equal(t, "sk-from-env", cfg.API.Key)
	assert.Equal(t, "https://proxy.example.com/v1", cfg.API.BaseURL, "trailing slash trimmed")
}

func TestLoadFlagOverridesEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvAPIKey, "sk-from-env")
	t.Setenv("KAIWA_API_MODEL", "env-model")

	cfg, err := Load(testCommand(t, "-k", "sk-from-flag", "-m", "flag-model", "-t", "0.1"))
	require.NoError(t, err)

	assert.Equal(t, "sk-from-flag", cfg.API.Key)
	assert.Equal(t, "flag-model", cfg.API.Model)
	assert.InDelta(t, 0.1, cfg.API.Temperature, 1e-6)
}

func TestLoadKaiwaEnvOverridesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("KAIWA_API_BASE_URL", "http://localhost:11434/v1")
	t.Setenv("KAIWA_LOG_LEVEL", "debug")

	cfg, err := Load(testCommand(t))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:11434/v1", cfg.API.BaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvAPIKey, "")

	cfg, err := Load(testCommand(t))
	require.NoError(t, err)
	assert.Error(t, cfg.Validate(), "missing API key is fatal")

	cfg.API.Key = "sk-test"
	assert.NoError(t, cfg.Validate())

	cfg.Agent.MaxRounds = 0
	assert.Error(t, cfg.Validate())
}

func TestDurationOrDefault(t *testing.T) {
	assert.Equal(t, 10*time.Second, DurationOrDefault("10s", time.Minute))
	assert.Equal(t, time.Minute, DurationOrDefault("", time.Minute))
	assert.Equal(t, time.Minute, DurationOrDefault("bogus", time.Minute))
	assert.Equal(t, time.Minute, DurationOrDefault("-3s", time.Minute))
}

func TestEnvToKey(t *testing.T) {
	assert.Equal(t, "api.base_url", envToKey("API_BASE_URL"))
	assert.Equal(t, "log.level", envToKey("LOG_LEVEL"))
	assert.Equal(t, "api", envToKey("API"))
}
