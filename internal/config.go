package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultServerURL is where the backend listens out of the box.
	DefaultServerURL = "http://localhost:8001"

	// DefaultTimeoutSeconds applies to the non-streaming endpoints.
	DefaultTimeoutSeconds = 15

	configFileName = "config.yaml"
	storeFileName  = "metachat.db"
)

// Config holds the client settings. Flags override file values, file
// values override defaults.
type Config struct {
	ServerURL      string `yaml:"server_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	DataDir        string `yaml:"data_dir"`
}

// DefaultDataDir returns the per-user data directory for metachat.
func DefaultDataDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user config directory: %w", err)
	}
	return filepath.Join(base, "metachat"), nil
}

// LoadConfig reads the config file under dataDir, returning defaults when
// the file does not exist. A present-but-broken file is an error; silently
// ignoring it would mask typos in server_url.
func LoadConfig(dataDir string) (*Config, error) {
	cfg := &Config{
		ServerURL:      DefaultServerURL,
		TimeoutSeconds: DefaultTimeoutSeconds,
		DataDir:        dataDir,
	}

	path := filepath.Join(dataDir, configFileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.ServerURL == "" {
		cfg.ServerURL = DefaultServerURL
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}
	return cfg, nil
}

// Save writes the config file under its data dir.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.DataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	path := filepath.Join(c.DataDir, configFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// Timeout returns the request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// StorePath returns the path of the local SQLite store.
func (c *Config) StorePath() string {
	return filepath.Join(c.DataDir, storeFileName)
}

// ConfigPath returns the path of the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.DataDir, configFileName)
}
