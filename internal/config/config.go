package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Analysis Analysis `yaml:"analysis"`
	Output   Output   `yaml:"output"`
	Server   Server   `yaml:"server"`
	Logging  Logging  `yaml:"logging"`
}

// Analysis configures the provider used by the analysis engine.
type Analysis struct {
	Provider       string `yaml:"provider"`
	Model          string `yaml:"model"`
	BaseURL        string `yaml:"base_url"`
	MaxTokens      int    `yaml:"max_tokens"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	APIKeyEnv      string `yaml:"api_key_env"`
	OpenAIModel    string `yaml:"openai_model"`
	OllamaURL      string `yaml:"ollama_url"`
	GeminiModel    string `yaml:"gemini_model"`
}

type Output struct {
	DataDir string `yaml:"data_dir"`
}

type Server struct {
	Port int `yaml:"port"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// ConfigDir returns the XDG config directory for changeos.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "changeos")
}

// DataDir returns the XDG data directory for changeos.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "changeos")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/changeos/config.yaml > ./config.yaml
// An empty path with a nil error means no file exists and defaults apply.
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", nil
}

// Load reads and parses a config YAML file. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return parse(nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Analysis: Analysis{
			Provider:       "anthropic",
			Model:          "claude-sonnet-4-20250514",
			BaseURL:        "https://api.anthropic.com",
			MaxTokens:      4096,
			TimeoutSeconds: 180,
			APIKeyEnv:      "ANTHROPIC_API_KEY",
			OpenAIModel:    "gpt-4o-mini",
			OllamaURL:      "http://localhost:11434",
			GeminiModel:    "gemini-2.5-flash",
		},
		Server:  Server{Port: 8000},
		Logging: Logging{Level: "INFO"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

// Timeout returns the provider request timeout.
func (a Analysis) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return 180 * time.Second
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
