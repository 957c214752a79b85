package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sri-shubham/Everclimb/internal/difficulty"
	"github.com/sri-shubham/Everclimb/internal/hex"
)

// Config holds all service configuration
type Config struct {
	Generator  GeneratorConfig  `yaml:"generator"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
	Server     ServerConfig     `yaml:"server"`
	JWT        JWTConfig        `yaml:"jwt"`
	Redis      RedisConfig      `yaml:"redis"`
	Storage    StorageConfig    `yaml:"storage"`
	Log        LogConfig        `yaml:"log"`
}

// GeneratorConfig holds chunk generation defaults
type GeneratorConfig struct {
	HexSize        float64 `yaml:"hex_size"`
	ViewportWidth  float64 `yaml:"viewport_width"`
	ViewportHeight float64 `yaml:"viewport_height"`
	Seed           uint32  `yaml:"seed"`
	StartLevel     int     `yaml:"start_level"`
	Prefetch       bool    `yaml:"prefetch"`
	MaxCells       int     `yaml:"max_cells"` // cap on cols*rows for client-supplied sizes
}

// Viewport returns the configured viewport.
func (g GeneratorConfig) Viewport() hex.Viewport {
	return hex.Viewport{Width: g.ViewportWidth, Height: g.ViewportHeight}
}

// DifficultyConfig points at an optional curve override file
type DifficultyConfig struct {
	CurvePath string `yaml:"curve_path"`
}

// Curve loads the override file, or returns the default curve when none is set.
func (d DifficultyConfig) Curve() (difficulty.Curve, error) {
	if d.CurvePath == "" {
		return difficulty.DefaultCurve(), nil
	}
	return difficulty.LoadCurve(d.CurvePath)
}

// ServerConfig holds server-specific settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// JWTConfig holds JWT authentication settings
type JWTConfig struct {
	Issuer        string `yaml:"issuer"`
	PublicKeyPath string `yaml:"public_key_path"`
	Required      bool   `yaml:"required"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Address    string `yaml:"address"`
	Password   string `yaml:"password"`
	DB         int    `yaml:"db"`
	KeyPrefix  string `yaml:"key_prefix"`
	TTLSeconds int    `yaml:"ttl_seconds"`
}

// TTL returns the cache expiry.
func (r RedisConfig) TTL() time.Duration {
	return time.Duration(r.TTLSeconds) * time.Second
}

// StorageConfig holds on-disk locations
type StorageConfig struct {
	SnapshotDir string `yaml:"snapshot_dir"`
	IndexPath   string `yaml:"index_path"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `yaml:"level"`
}

// SlogLevel parses the configured level, defaulting to info.
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Set defaults if not provided
func (cfg *Config) applyDefaults() {
	if cfg.Generator.HexSize == 0 {
		cfg.Generator.HexSize = 24
	}
	if cfg.Generator.ViewportWidth == 0 {
		cfg.Generator.ViewportWidth = hex.DefaultViewport.Width
	}
	if cfg.Generator.ViewportHeight == 0 {
		cfg.Generator.ViewportHeight = hex.DefaultViewport.Height
	}
	if cfg.Generator.MaxCells == 0 {
		cfg.Generator.MaxCells = 20000
	}
	if cfg.Generator.StartLevel == 0 {
		cfg.Generator.StartLevel = 1
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Redis.Address == "" {
		cfg.Redis.Address = "localhost:6379"
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = "everclimb:chunk:"
	}
	if cfg.Redis.TTLSeconds == 0 {
		cfg.Redis.TTLSeconds = 3600
	}
	if cfg.Storage.SnapshotDir == "" {
		cfg.Storage.SnapshotDir = "./data/snapshots"
	}
	if cfg.Storage.IndexPath == "" {
		cfg.Storage.IndexPath = "./data/index.sqlite"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// Validate reports settings that cannot work.
func (cfg *Config) Validate() error {
	if cfg.Generator.HexSize < 0 {
		return fmt.Errorf("generator.hex_size must not be negative")
	}
	if cfg.Generator.MaxCells < 1 {
		return fmt.Errorf("generator.max_cells must be positive")
	}
	if cfg.Generator.StartLevel < 1 {
		return fmt.Errorf("generator.start_level must be at least 1")
	}
	if cfg.JWT.Required && cfg.JWT.PublicKeyPath == "" {
		return fmt.Errorf("jwt.public_key_path is required when jwt.required is set")
	}
	if cfg.Redis.TTLSeconds < 0 {
		return fmt.Errorf("redis.ttl_seconds must not be negative")
	}
	return nil
}
