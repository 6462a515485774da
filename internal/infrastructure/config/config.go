package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Port and secret constraints for the webhook server.
// Ports below 1024 require elevated privileges and are rejected outright.
const (
	MinPort            = 1024
	MaxPort            = 65535
	MinJWTSecretLength = 32
)

// DefaultIcon is assigned to switch definitions that omit an icon.
const DefaultIcon = "mdi:light-switch"

// switchIDPattern defines the valid format for switch identifiers:
// letters, digits, and underscores only.
var switchIDPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Config is the root configuration structure for switchhook.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Security SecurityConfig `yaml:"security"`
	Switches []SwitchConfig `yaml:"switches"`
	Database DatabaseConfig `yaml:"database"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig contains HTTP webhook server settings.
type ServerConfig struct {
	Host     string        `yaml:"host"`
	Port     int           `yaml:"port"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
}

// TimeoutConfig contains HTTP timeout settings in seconds.
type TimeoutConfig struct {
	Read     int `yaml:"read"`
	Write    int `yaml:"write"`
	Idle     int `yaml:"idle"`
	Shutdown int `yaml:"shutdown"`
}

// SecurityConfig contains webhook authentication settings.
type SecurityConfig struct {
	JWT JWTConfig `yaml:"jwt"`
}

// JWTConfig contains the shared secret used to verify bearer tokens.
// Tokens are issued externally; switchhook only verifies them.
type JWTConfig struct {
	Secret string `yaml:"secret"`
}

// SwitchConfig defines a single virtual switch exposed via the webhook API.
type SwitchConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Icon string `yaml:"icon"`
}

// DatabaseConfig contains SQLite database settings for last-state persistence.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// MQTTConfig contains MQTT broker connection settings.
// MQTT is optional; when disabled, state changes are not mirrored to a broker.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings in seconds.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: SWITCHHOOK_SECTION_KEY
// For example: SWITCHHOOK_SERVER_PORT, SWITCHHOOK_JWT_SECRET
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	applySwitchDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8099,
			Timeouts: TimeoutConfig{
				Read:     30,
				Write:    30,
				Idle:     60,
				Shutdown: 5,
			},
		},
		Database: DatabaseConfig{
			Path:        "./data/switchhook.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "switchhook",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: SWITCHHOOK_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Server
	if v := os.Getenv("SWITCHHOOK_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("SWITCHHOOK_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}

	// Database
	if v := os.Getenv("SWITCHHOOK_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// MQTT
	if v := os.Getenv("SWITCHHOOK_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("SWITCHHOOK_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("SWITCHHOOK_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// Security - JWT secret (IMPORTANT: always set in production)
	if v := os.Getenv("SWITCHHOOK_JWT_SECRET"); v != "" {
		cfg.Security.JWT.Secret = v
	}
}

// applySwitchDefaults fills in defaults for switch definitions.
func applySwitchDefaults(cfg *Config) {
	for i := range cfg.Switches {
		if cfg.Switches[i].Icon == "" {
			cfg.Switches[i].Icon = DefaultIcon
		}
	}
}

// Validate checks the configuration for errors and security issues.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Server validation - privileged ports are rejected
	if c.Server.Port < MinPort || c.Server.Port > MaxPort {
		errs = append(errs, fmt.Sprintf("server.port must be between %d and %d", MinPort, MaxPort))
	}

	// Security validation - the shared secret gates every webhook call.
	// A short secret makes HS256 tokens brute-forceable offline.
	if c.Security.JWT.Secret == "" {
		errs = append(errs, "security.jwt.secret is required (set SWITCHHOOK_JWT_SECRET environment variable)")
	} else if len(c.Security.JWT.Secret) < MinJWTSecretLength {
		errs = append(errs, fmt.Sprintf("security.jwt.secret must be at least %d characters", MinJWTSecretLength))
	}

	// Switch definitions
	if len(c.Switches) == 0 {
		errs = append(errs, "at least one switch must be configured")
	}
	seen := make(map[string]bool, len(c.Switches))
	for _, sw := range c.Switches {
		switch {
		case sw.ID == "":
			errs = append(errs, "switch id is required")
		case !switchIDPattern.MatchString(sw.ID):
			errs = append(errs, fmt.Sprintf("switch id %q must contain only letters, digits, and underscores", sw.ID))
		case seen[sw.ID]:
			errs = append(errs, fmt.Sprintf("duplicate switch id %q", sw.ID))
		}
		seen[sw.ID] = true
		if sw.Name == "" {
			errs = append(errs, fmt.Sprintf("switch %q: name is required", sw.ID))
		}
	}

	// Database validation
	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	// MQTT validation
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetReadTimeout returns the server read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.Server.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the server write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.Server.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the server idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.Server.Timeouts.Idle) * time.Second
}

// GetShutdownTimeout returns the graceful shutdown timeout as a Duration.
func (c *Config) GetShutdownTimeout() time.Duration {
	return time.Duration(c.Server.Timeouts.Shutdown) * time.Second
}
