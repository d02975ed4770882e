package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/brettbedarf/imgnav/internal/util"
	"gopkg.in/yaml.v3"
)

// Bytes per MB
const MB = 1024 * 1024

// CLI verbosity values accepted by ConfigOverride.LogLvl
const (
	ErrorVerbose = iota + 1
	WarnVerbose
	InfoVerbose
	DebugVerbose
	TraceVerbose
)

// Default configuration constants. See [Config] for field descriptions.
const (
	DefaultLogLvl = util.InfoLevel

	// DefaultListenAddr keeps the shell bridge on loopback only
	DefaultListenAddr = "127.0.0.1:7878"

	// DefaultResourcePrefix is where the shell's custom scheme is forwarded
	DefaultResourcePrefix = "/reqimg/"

	// DefaultMaxResourceBytes caps a single image response
	DefaultMaxResourceBytes = 64 * MB

	// DefaultShutdownTimeout is the graceful shutdown window in seconds
	DefaultShutdownTimeout = 5.0

	// DefaultEventBuffer is the per-subscriber boot event buffer
	DefaultEventBuffer = 1
)

// Config contains runtime configuration values for the navigation backend.
type Config struct {
	LogLvl           util.LogLevel `validate:"gte=0,lte=4"`                      // Internal log level (Default Info)
	ListenAddr       string        `validate:"required,hostname_port"`           // Address of the local shell bridge
	ResourcePrefix   string        `validate:"required,startswith=/,endswith=/"` // URL prefix of the resource-fetch protocol
	VolumeCandidates []string      `validate:"dive,required"`                    // Volume roots to probe; empty uses the platform default
	MaxResourceBytes int64         `validate:"gt=0"`                             // Larger images are reported as not found (Default 64MB)
	ShutdownTimeout  time.Duration `validate:"gt=0"`                             // Graceful shutdown window (Default 5s)
	EventBuffer      int           `validate:"gte=1,lte=64"`                     // Boot events buffered per subscriber (Default 1)
}

// ConfigOverride uses pointer fields to distinguish between unset and zero values
// when loading partial configuration. See [Config] for field descriptions.
type ConfigOverride struct {
	// LogLvl is CLI style verbosity between 1 (error) and 5 (trace)
	LogLvl           *int      `yaml:"verbose,omitempty" json:"verbose,omitempty" mapstructure:"verbose"`
	ListenAddr       *string   `yaml:"listen_addr,omitempty" json:"listen_addr,omitempty" mapstructure:"listen_addr"`
	ResourcePrefix   *string   `yaml:"resource_prefix,omitempty" json:"resource_prefix,omitempty" mapstructure:"resource_prefix"`
	VolumeCandidates *[]string `yaml:"volume_candidates,omitempty" json:"volume_candidates,omitempty" mapstructure:"volume_candidates"`
	MaxResourceBytes *int64    `yaml:"max_resource_bytes,omitempty" json:"max_resource_bytes,omitempty" mapstructure:"max_resource_bytes"`
	// ShutdownTimeout in seconds
	ShutdownTimeout *float64 `yaml:"shutdown_timeout,omitempty" json:"shutdown_timeout,omitempty" mapstructure:"shutdown_timeout"`
	EventBuffer     *int     `yaml:"event_buffer,omitempty" json:"event_buffer,omitempty" mapstructure:"event_buffer"`
}

// NewDefaultConfig creates a new Config with all default values.
func NewDefaultConfig() *Config {
	return &Config{
		LogLvl:           DefaultLogLvl,
		ListenAddr:       DefaultListenAddr,
		ResourcePrefix:   DefaultResourcePrefix,
		MaxResourceBytes: DefaultMaxResourceBytes,
		ShutdownTimeout:  time.Duration(DefaultShutdownTimeout * float64(time.Second)),
		EventBuffer:      DefaultEventBuffer,
	}
}

// NewConfig returns the defaults with override applied. A nil override
// yields the defaults.
func NewConfig(override *ConfigOverride) *Config {
	cfg := NewDefaultConfig()
	if override != nil {
		cfg.Merge(override)
	}
	return cfg
}

// Merge applies non-nil values from override onto this Config.
// This allows partial configuration updates while preserving existing values.
func (c *Config) Merge(override *ConfigOverride) {
	if override == nil {
		return
	}
	if override.LogLvl != nil {
		c.LogLvl = util.VerbosityToLevel(*override.LogLvl)
	}
	if override.ListenAddr != nil {
		c.ListenAddr = *override.ListenAddr
	}
	if override.ResourcePrefix != nil {
		c.ResourcePrefix = *override.ResourcePrefix
	}
	if override.VolumeCandidates != nil {
		c.VolumeCandidates = append([]string(nil), (*override.VolumeCandidates)...)
	}
	if override.MaxResourceBytes != nil {
		c.MaxResourceBytes = *override.MaxResourceBytes
	}
	if override.ShutdownTimeout != nil {
		c.ShutdownTimeout = time.Duration(*override.ShutdownTimeout * float64(time.Second))
	}
	if override.EventBuffer != nil {
		c.EventBuffer = *override.EventBuffer
	}
}

// LoadConfigOverrideFile loads configuration overrides from a file without merging.
// Supports both YAML (.yaml, .yml) and JSON (.json) formats.
func LoadConfigOverrideFile(path string) (*ConfigOverride, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var override ConfigOverride

	// Determine format by file extension
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown config file extension: %s", path)
	}

	return &override, nil
}

// NewConfigFromFile creates a new Config by merging file overrides with defaults.
func NewConfigFromFile(path string) (*Config, error) {
	override, err := LoadConfigOverrideFile(path)
	if err != nil {
		return nil, err
	}
	return NewConfig(override), nil
}

// Load builds the effective configuration: defaults, then the optional file
// at path, then IMGNAV_* environment variables, then cli. The result is
// validated before it is returned.
func Load(path string, cli *ConfigOverride) (*Config, error) {
	cfg := NewDefaultConfig()
	if path != "" {
		fileOverride, err := LoadConfigOverrideFile(path)
		if err != nil {
			return nil, err
		}
		cfg.Merge(fileOverride)
	}

	envOverride, err := LoadEnvOverride()
	if err != nil {
		return nil, err
	}
	cfg.Merge(envOverride)
	cfg.Merge(cli)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}
