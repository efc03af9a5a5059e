package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/anchor/internal/domain"
)

// Config holds the anchor service configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Storage  StorageConfig  `yaml:"storage"`
	Guidance GuidanceConfig `yaml:"guidance"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings. No keys disables auth.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // valkey, redis (default: valkey)
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
}

// GuidanceConfig tunes the guidance engine and its session tracker.
type GuidanceConfig struct {
	SessionIdleTTLSec       int     `yaml:"session_idle_ttl_sec"`
	SessionSweepIntervalSec int     `yaml:"session_sweep_interval_sec"`
	MaxSessions             int     `yaml:"max_sessions"`
	GateRadiusM             float64 `yaml:"gate_radius_m"`
	GateConeDeg             float64 `yaml:"gate_cone_deg"`
	AlignmentToleranceDeg   float64 `yaml:"alignment_tolerance_deg"`
}

// Domain converts the YAML section into engine settings.
func (g GuidanceConfig) Domain() domain.GuidanceConfig {
	return domain.GuidanceConfig{
		GateRadiusMeters:      g.GateRadiusM,
		GateConeDegrees:       g.GateConeDeg,
		AlignmentToleranceDeg: g.AlignmentToleranceDeg,
		SessionIdleTTL:        time.Duration(g.SessionIdleTTLSec) * time.Second,
		SessionSweepInterval:  time.Duration(g.SessionSweepIntervalSec) * time.Second,
		MaxSessions:           g.MaxSessions,
	}
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "valkey"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = domain.DefaultKeyPrefix
	}

	def := domain.DefaultGuidanceConfig()
	if c.Guidance.SessionIdleTTLSec <= 0 {
		c.Guidance.SessionIdleTTLSec = int(def.SessionIdleTTL / time.Second)
	}
	if c.Guidance.SessionSweepIntervalSec <= 0 {
		c.Guidance.SessionSweepIntervalSec = int(def.SessionSweepInterval / time.Second)
	}
	if c.Guidance.MaxSessions <= 0 {
		c.Guidance.MaxSessions = def.MaxSessions
	}
	if c.Guidance.GateRadiusM <= 0 {
		c.Guidance.GateRadiusM = def.GateRadiusMeters
	}
	if c.Guidance.GateConeDeg <= 0 {
		c.Guidance.GateConeDeg = def.GateConeDegrees
	}
	if c.Guidance.AlignmentToleranceDeg <= 0 {
		c.Guidance.AlignmentToleranceDeg = def.AlignmentToleranceDeg
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case "valkey", "redis":
	default:
		return fmt.Errorf("database.driver must be \"valkey\" or \"redis\", got %q", c.Database.Driver)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if c.Guidance.GateConeDeg > 360 {
		return fmt.Errorf("guidance.gate_cone_deg must be at most 360, got %v", c.Guidance.GateConeDeg)
	}
	if c.Guidance.AlignmentToleranceDeg >= 180 {
		return fmt.Errorf("guidance.alignment_tolerance_deg must be below 180, got %v", c.Guidance.AlignmentToleranceDeg)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
