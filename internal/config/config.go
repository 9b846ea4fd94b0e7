package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
)

// EnvEncryptionKey overrides Store.EncryptionKey.
const EnvEncryptionKey = "FLOWLINE_ENCRYPTION_KEY"

// Config is the CLI/server configuration. Flags override file values.
type Config struct {
	LogLevel string `yaml:"log_level"`

	Server ServerConfig `yaml:"server"`
	Store  StoreConfig  `yaml:"store"`
	Engine EngineConfig `yaml:"engine"`

	// WorkflowsDir holds definition files (.yaml, .yml, .json) loaded at start-up.
	WorkflowsDir string `yaml:"workflows_dir"`

	// HandlersFile lists external commands registered as handlers.
	HandlersFile string `yaml:"handlers_file"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	Metrics         bool          `yaml:"metrics"`
	Samples         bool          `yaml:"samples"`
}

type StoreConfig struct {
	Driver          string        `yaml:"driver"`
	RedisAddr       string        `yaml:"redis_addr"`
	RedisPassword   string        `yaml:"redis_password"`
	RedisDB         int           `yaml:"redis_db"`
	TTL             time.Duration `yaml:"ttl"`
	SQLitePath      string        `yaml:"sqlite_path"`
	DistributedLock bool          `yaml:"distributed_lock"`

	// LockTTL bounds how long a run's lock is held. Zero keeps the manager default.
	LockTTL time.Duration `yaml:"lock_ttl"`

	// EncryptionKey (base64, 32 bytes) seals run records at rest.
	// FLOWLINE_ENCRYPTION_KEY overrides it.
	EncryptionKey string   `yaml:"encryption_key"`
	FallbackKeys  []string `yaml:"fallback_keys"`

	// MaskFields are regular expressions; matching data keys are masked before storage.
	MaskFields []string `yaml:"mask_fields"`
}

type EngineConfig struct {
	MaxSteps int  `yaml:"max_steps"`
	Strict   bool `yaml:"strict"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		LogLevel: "info",
		Server: ServerConfig{
			Port:            8000,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
			Metrics:         true,
			Samples:         true,
		},
		Store: StoreConfig{
			Driver:     StoreMemory,
			RedisAddr:  "localhost:6379",
			SQLitePath: "flowline.db",
		},
		Engine: EngineConfig{
			MaxSteps: 10000,
		},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	if key := os.Getenv(EnvEncryptionKey); key != "" {
		cfg.Store.EncryptionKey = key
	}
	return cfg, cfg.Validate()
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	var errs []error
	switch c.Store.Driver {
	case StoreMemory, StoreRedis, StoreSQLite:
	default:
		errs = append(errs, fmt.Errorf("unknown store driver %q (want memory, redis or sqlite)", c.Store.Driver))
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port %d", c.Server.Port))
	}
	if c.Store.LockTTL < 0 {
		errs = append(errs, fmt.Errorf("lock_ttl must not be negative"))
	}
	if c.Engine.MaxSteps < 0 {
		errs = append(errs, fmt.Errorf("max_steps must not be negative"))
	}
	if c.Store.Driver == StoreSQLite && c.Store.SQLitePath == "" {
		errs = append(errs, fmt.Errorf("sqlite store requires sqlite_path"))
	}
	for _, expr := range c.Store.MaskFields {
		if _, err := regexp.Compile(expr); err != nil {
			errs = append(errs, fmt.Errorf("invalid mask_fields pattern %q: %w", expr, err))
		}
	}
	return errors.Join(errs...)
}
