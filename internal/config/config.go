package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	// Replay reconstruction configuration
	Replay ReplayConfig `toml:"replay"`

	// Results database configuration
	Storage StorageConfig `toml:"storage"`

	// Replay directory watching configuration
	Watch WatchConfig `toml:"watch"`

	// HTTP server configuration
	Server ServerConfig `toml:"server"`

	// Application configuration
	App AppConfig `toml:"app"`
}

// ReplayConfig contains reconstruction settings.
type ReplayConfig struct {
	Dir      string `toml:"dir" env:"REPLAY_DIR"` // Working directory holding replay pairs
	Validate bool   `toml:"validate"`             // Validate the board after every event
}

// StorageConfig contains results database settings.
type StorageConfig struct {
	Path        string `toml:"path" env:"DB_PATH"` // Path to the results database
	BusyTimeout string `toml:"busy_timeout"`       // SQLite busy timeout (e.g., "5s")
	AutoMigrate bool   `toml:"auto_migrate"`       // Run migrations on open
}

// WatchConfig contains replay directory watching settings.
type WatchConfig struct {
	GameDir      string `toml:"game_dir" env:"GAME_DIR"` // Game replay directory (empty = platform default)
	PollInterval string `toml:"poll_interval"`           // Backup scan interval (e.g., "5s")
	Reconstruct  bool   `toml:"reconstruct"`             // Reconstruct replays as they are copied
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port       int      `toml:"port" env:"PORT"`               // Listen port
	StreamRate float64  `toml:"stream_rate" env:"STREAM_RATE"` // Streamed events per second
	CORSOrigin []string `toml:"cors_origins"`                  // Allowed CORS origins
}

// AppConfig contains general application settings.
type AppConfig struct {
	DebugMode bool `toml:"debug_mode" env:"DEBUG"` // Enable debug logging
}

// envPrefix is prepended to every environment override.
const envPrefix = "BBREPLAY_"

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	base := "."
	if home, err := os.UserHomeDir(); err == nil {
		base = filepath.Join(home, ".bbreplay")
	}

	return &Config{
		Replay: ReplayConfig{
			Dir:      filepath.Join(base, "replays"),
			Validate: false,
		},
		Storage: StorageConfig{
			Path:        filepath.Join(base, "results.db"),
			BusyTimeout: "5s",
			AutoMigrate: true,
		},
		Watch: WatchConfig{
			GameDir:      "",
			PollInterval: "5s",
			Reconstruct:  true,
		},
		Server: ServerConfig{
			Port:       8080,
			StreamRate: 10,
			CORSOrigin: []string{"http://localhost:*"},
		},
		App: AppConfig{
			DebugMode: false,
		},
	}
}

// configPath returns the path to the configuration file.
func configPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".bbreplay")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.toml"), nil
}

// Load loads the configuration from the default path.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile loads the configuration from path, falling back to defaults when
// the file doesn't exist, then applies BBREPLAY_* environment overrides.
func LoadFile(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("read config file: %w", err)
	default:
		// Keys missing from the file keep their defaults.
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := env.ParseWithOptions(config, env.Options{Prefix: envPrefix}); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	return config, nil
}

// Save saves the configuration to the default path.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the configuration to path.
func (c *Config) SaveFile(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if _, err := time.ParseDuration(c.Storage.BusyTimeout); err != nil {
		return fmt.Errorf("invalid busy timeout %q: %w", c.Storage.BusyTimeout, err)
	}

	if _, err := time.ParseDuration(c.Watch.PollInterval); err != nil {
		return fmt.Errorf("invalid poll interval %q: %w", c.Watch.PollInterval, err)
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	if c.Server.StreamRate <= 0 {
		return fmt.Errorf("stream rate must be positive: %v", c.Server.StreamRate)
	}

	if c.Storage.Path == "" {
		return fmt.Errorf("storage path cannot be empty")
	}

	return nil
}

// GetBusyTimeout returns the database busy timeout as a duration.
func (c *Config) GetBusyTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Storage.BusyTimeout)
}

// GetPollInterval returns the watch poll interval as a duration.
func (c *Config) GetPollInterval() (time.Duration, error) {
	return time.ParseDuration(c.Watch.PollInterval)
}
