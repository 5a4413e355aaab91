package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var (
	ErrConfigVersionMissing  = errors.New("config file is missing version field")
	ErrConfigVersionMismatch = errors.New("config file version mismatch")
	ErrUnknownStoreClient    = errors.New("unknown store client")
)

// CurrentVersion of the config file.
const CurrentVersion = 1

// Store client versions. Two generations of the realtime-store client are
// deployed; the adapter implementation is selected here, never probed at
// call time.
const (
	StoreClientRueidis = "rueidis"
	StoreClientGoRedis = "goredis"
)

// Config represents the entire application configuration.
type Config struct {
	// Version of the config file.
	Version    int        `koanf:"version"`
	Debug      Debug      `koanf:"debug"`
	Redis      Redis      `koanf:"redis"`
	Store      Store      `koanf:"store"`
	Cache      Cache      `koanf:"cache"`
	Moderation Moderation `koanf:"moderation"`
}

// Debug contains debug-related configuration.
type Debug struct {
	// Log level (debug, info, warn, error).
	LogLevel string `koanf:"log_level"`
}

// Redis contains connection settings for the realtime store backend.
type Redis struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
}

// Store selects the realtime-store client implementation.
type Store struct {
	// Client is "rueidis" or "goredis".
	Client string `koanf:"client"`
}

// Cache configures the local persistent cache.
type Cache struct {
	// Path of the SQLite cache file. Empty selects the in-memory cache.
	Path string `koanf:"path"`
}

// Moderation contains the escalation policy knobs.
type Moderation struct {
	// Warnings before a ban is issued on the warning path.
	WarnLimit int `koanf:"warn_limit"`
	// Ban count at which all further bans become permanent.
	PermBanThreshold int `koanf:"perm_ban_threshold"`
	// Default temporary ban duration in milliseconds.
	BanDurationMs int64 `koanf:"ban_duration_ms"`
	// Synchronizer poll interval in seconds.
	PollIntervalSeconds int `koanf:"poll_interval_seconds"`
}

// BanDuration returns the default temporary ban duration.
func (m *Moderation) BanDuration() time.Duration {
	return time.Duration(m.BanDurationMs) * time.Millisecond
}

// PollInterval returns the synchronizer poll interval.
func (m *Moderation) PollInterval() time.Duration {
	return time.Duration(m.PollIntervalSeconds) * time.Second
}

// DefaultConfig returns the built-in configuration: two warnings, permanence
// at the third ban, seven-day temporary bans, thirty-second polling.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentVersion,
		Debug: Debug{
			LogLevel: "info",
		},
		Redis: Redis{
			Host: "127.0.0.1",
			Port: 6379,
		},
		Store: Store{
			Client: StoreClientRueidis,
		},
		Cache: Cache{
			Path: "guardian_cache.db",
		},
		Moderation: Moderation{
			WarnLimit:           2,
			PermBanThreshold:    3,
			BanDurationMs:       (7 * 24 * time.Hour).Milliseconds(),
			PollIntervalSeconds: 30,
		},
	}
}

// LoadConfig loads guardian.toml from the standard search paths, merged over
// the defaults. A missing file is not an error; the defaults apply as-is.
// Returns the config along with the used config path, if any.
func LoadConfig() (*Config, string, error) {
	config := DefaultConfig()

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get home directory: %w", err)
	}

	configPaths := []string{
		".eljasus",
		homeDir + "/.eljasus/config",
		"/etc/eljasus/config",
		"config",
		".",
	}

	k := koanf.New(".")

	var usedConfigPath string

	for _, path := range configPaths {
		configPath := fmt.Sprintf("%s/guardian.toml", path)
		if err := k.Load(file.Provider(configPath), toml.Parser()); err == nil {
			usedConfigPath = configPath
			break
		}
	}

	if usedConfigPath == "" {
		return config, "", nil
	}

	// The version must come from the file itself, not the merged defaults.
	if err := checkConfigVersion(usedConfigPath, k.Int("version")); err != nil {
		return nil, "", err
	}

	if err := k.Unmarshal("", config); err != nil {
		return nil, "", fmt.Errorf("error unmarshaling config: %w", err)
	}

	switch config.Store.Client {
	case StoreClientRueidis, StoreClientGoRedis:
	default:
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownStoreClient, config.Store.Client)
	}

	return config, usedConfigPath, nil
}

// checkConfigVersion checks if the config file version is correct.
func checkConfigVersion(path string, version int) error {
	if version == 0 {
		return fmt.Errorf("%w: %s", ErrConfigVersionMissing, path)
	}

	if version != CurrentVersion {
		return fmt.Errorf("%w: %s (got: %d, expected: %d)",
			ErrConfigVersionMismatch, path, version, CurrentVersion)
	}

	return nil
}
