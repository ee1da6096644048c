package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kaiwa-ai/kaiwa/internal/errors"
	"github.com/kaiwa-ai/kaiwa/internal/pathutil"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
)

type Config struct {
	API        APIConfig        `koanf:"api"`
	Agent      AgentConfig      `koanf:"agent"`
	Tools      ToolsConfig      `koanf:"tools"`
	Governance GovernanceConfig `koanf:"governance"`
	Session    SessionConfig    `koanf:"session"`
	Log        LogConfig        `koanf:"log"`
}

// APIConfig is the Session Configuration: immutable after startup and
// threaded into the API client at construction time.
type APIConfig struct {
	Key         string  `koanf:"key"`
	BaseURL     string  `koanf:"base_url"`
	Model       string  `koanf:"model"`
	Temperature float32 `koanf:"temperature"`
	TopP        float32 `koanf:"top_p"`
}

type AgentConfig struct {
	MaxRounds    int    `koanf:"max_rounds"`
	MaxRetries   int    `koanf:"max_retries"`
	RetryBackoff string `koanf:"retry_backoff"`
}

type ToolsConfig struct {
	ShellTimeout   string `koanf:"shell_timeout"`
	PythonTimeout  string `koanf:"python_timeout"`
	PythonBin      string `koanf:"python_bin"`
	FetchTimeout   string `koanf:"fetch_timeout"`
	FetchUserAgent string `koanf:"fetch_user_agent"`
	FetchMaxBytes  int    `koanf:"fetch_max_bytes"`
}

// GovernanceConfig overrides the per-tool danger classification.
// Explicit entries win over a tool's declared risk.
type GovernanceConfig struct {
	RequireApproval []string `koanf:"require_approval"`
	AutoAllow       []string `koanf:"auto_allow"`
}

type SessionConfig struct {
	LockPath string `koanf:"lock_path"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

const (
	DefaultModel          = "gpt-4o-mini"
	DefaultTemperature    = 0.6
	DefaultTopP           = 0.9
	DefaultMaxRounds      = 16
	DefaultMaxRetries     = 2
	DefaultRetryBackoff   = "1s"
	DefaultShellTimeout   = "60s"
	DefaultPythonTimeout  = "30s"
	DefaultPythonBin      = "python3"
	DefaultFetchTimeout   = "10s"
	DefaultFetchUserAgent = "kaiwa/1.0"
	DefaultFetchMaxBytes  = 200_000
	DefaultLogLevel       = "warn"
	DefaultLockPath       = "~/.kaiwa/session.lock"

	EnvAPIKey  = "OPENAI_API_KEY"
	EnvBaseURL = "OPENAI_BASE_URL"
)

// flagKeys maps CLI flag names to config paths for posflag loading.
var flagKeys = map[string]string{
	"api-key":     "api.key",
	"base-url":    "api.base_url",
	"model":       "api.model",
	"temperature": "api.temperature",
	"top-p":       "api.top_p",
	"log-level":   "log.level",
	"max-rounds":  "agent.max_rounds",
}

// Load resolves configuration with precedence:
// defaults < ~/.kaiwa/config.yaml < KAIWA_* env < explicit flags,
// with OPENAI_API_KEY / OPENAI_BASE_URL as credential fallbacks.
func Load(cmd *cobra.Command) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"api.model":                   DefaultModel,
		"api.temperature":             DefaultTemperature,
		"api.top_p":                   DefaultTopP,
		"agent.max_rounds":            DefaultMaxRounds,
		"agent.max_retries":           DefaultMaxRetries,
		"agent.retry_backoff":         DefaultRetryBackoff,
		"tools.shell_timeout":         DefaultShellTimeout,
		"tools.python_timeout":        DefaultPythonTimeout,
		"tools.python_bin":            DefaultPythonBin,
		"tools.fetch_timeout":         DefaultFetchTimeout,
		"tools.fetch_user_agent":      DefaultFetchUserAgent,
		"tools.fetch_max_bytes":       DefaultFetchMaxBytes,
		"governance.require_approval": []string{},
		"governance.auto_allow":       []string{},
		"session.lock_path":           DefaultLockPath,
		"log.level":                   DefaultLogLevel,
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	configPath := ""
	if cmd != nil {
		if flag := cmd.Flags().Lookup("config"); flag != nil {
			configPath = strings.TrimSpace(flag.Value.String())
		}
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", configPath, errors.ErrConfig)
		}
	} else if home, err := os.UserHomeDir(); err == nil {
		globalPath := filepath.Join(home, ".kaiwa", "config.yaml")
		if _, statErr := os.Stat(globalPath); statErr == nil {
			if err := k.Load(file.Provider(globalPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load config file %s: %w", globalPath, errors.ErrConfig)
			}
		}
	}

	k.Load(env.Provider("KAIWA_", ".", func(s string) string {
		return envToKey(strings.TrimPrefix(s, "KAIWA_"))
	}), nil)

	if cmd != nil {
		k.Load(posflag.ProviderWithValue(cmd.Flags(), ".", k, func(key, value string) (string, interface{}) {
			mapped, ok := flagKeys[key]
			if !ok {
				return "", nil
			}
			return mapped, value
		}), nil)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", errors.ErrConfig)
	}

	if cfg.API.Key == "" {
		cfg.API.Key = os.Getenv(EnvAPIKey)
	}
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = os.Getenv(EnvBaseURL)
	}
	cfg.API.BaseURL = strings.TrimSuffix(cfg.API.BaseURL, "/")

	lockPath, err := pathutil.Expand(cfg.Session.LockPath)
	if err != nil {
		return nil, fmt.Errorf("session.lock_path: %v: %w", err, errors.ErrConfig)
	}
	cfg.Session.LockPath = lockPath

	return &cfg, nil
}

// Validate rejects configurations the process cannot start with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.Key) == "" {
		return fmt.Errorf("API key required via --api-key or $%s: %w", EnvAPIKey, errors.ErrConfig)
	}
	if strings.TrimSpace(c.API.Model) == "" {
		return fmt.Errorf("model name must not be empty: %w", errors.ErrConfig)
	}
	if c.Agent.MaxRounds <= 0 {
		return fmt.Errorf("agent.max_rounds must be positive: %w", errors.ErrConfig)
	}
	return nil
}

// envToKey maps KAIWA_API_BASE_URL style names onto api.base_url style
// config paths: the first underscore separates the section.
func envToKey(s string) string {
	s = strings.ToLower(s)
	if idx := strings.Index(s, "_"); idx > 0 {
		return s[:idx] + "." + s[idx+1:]
	}
	return s
}
