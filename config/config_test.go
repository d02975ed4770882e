package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/brettbedarf/imgnav/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// TestNewConfig_WithNilOverride tests that NewConfig creates a config with all default values
// when no override is provided.
func TestNewConfig_WithNilOverride(t *testing.T) {
	t.Parallel()

	cfg := NewConfig(nil)

	require.NotNil(t, cfg)
	assert.Equal(t, createDefaultCfg(), cfg, "must use default values when no config provided")
}

func TestNewConfig_WithAllOverride(t *testing.T) {
	t.Parallel()

	override := createOverride()
	cfg := NewConfig(override)

	expCfg := &Config{
		LogLvl:           util.TraceLevel,
		ListenAddr:       *override.ListenAddr,
		ResourcePrefix:   *override.ResourcePrefix,
		VolumeCandidates: *override.VolumeCandidates,
		MaxResourceBytes: *override.MaxResourceBytes,
		ShutdownTimeout:  time.Duration(*override.ShutdownTimeout * float64(time.Second)),
		EventBuffer:      *override.EventBuffer,
	}
	require.NotNil(t, cfg)
	assert.Equal(t, expCfg, cfg, "must override all provided fields")
}

func TestConfig_Merge_LogLvlConversion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		verboseValue  int
		expectedLevel util.LogLevel
	}{
		{"verbose_1_error", 1, util.ErrorLevel},
		{"verbose_2_warn", 2, util.WarnLevel},
		{"verbose_3_info", 3, util.InfoLevel},
		{"verbose_4_debug", 4, util.DebugLevel},
		{"verbose_5_trace", 5, util.TraceLevel},
		{"verbose_0_clamped_to_1", 0, util.ErrorLevel},
		{"verbose_100_clamped_to_5", 100, util.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig(&ConfigOverride{LogLvl: &tt.verboseValue})

			assert.Equal(t, tt.expectedLevel, cfg.LogLvl,
				"CLI verbose %d should map to util.LogLevel %v", tt.verboseValue, tt.expectedLevel)
		})
	}
}

func TestConfig_Merge_PartialOverride(t *testing.T) {
	t.Parallel()

	cfg := NewConfig(&ConfigOverride{
		ListenAddr: util.Pointer("localhost:9000"),
	})

	expCfg := createDefaultCfg()
	expCfg.ListenAddr = "localhost:9000"
	assert.Equal(t, expCfg, cfg, "must override all provided fields and leave rest default")
}

func TestConfig_Merge_CopiesCandidates(t *testing.T) {
	t.Parallel()

	candidates := []string{"/a", "/b"}
	cfg := NewConfig(&ConfigOverride{VolumeCandidates: &candidates})
	candidates[0] = "/mutated"

	assert.Equal(t, []string{"/a", "/b"}, cfg.VolumeCandidates)
}

func TestLoadConfigOverrideFile_Valid(t *testing.T) {
	t.Parallel()

	type tc struct {
		ext     string
		marshal func(v any) ([]byte, error)
	}
	cases := []tc{
		{".yaml", yaml.Marshal},
		{".yml", yaml.Marshal},
		{".json", json.Marshal},
	}

	for _, c := range cases {
		t.Run("valid"+c.ext, func(t *testing.T) {
			t.Parallel()
			override := createOverride()
			data, err := c.marshal(override)
			require.NoError(t, err)
			path := filepath.Join(t.TempDir(), "override"+c.ext)
			require.NoError(t, os.WriteFile(path, data, 0o600))

			loaded, err := LoadConfigOverrideFile(path)

			require.NoError(t, err)
			require.NotNil(t, loaded)
			assert.Equal(t, *override, *loaded)
		})
	}
}

func TestLoadConfigOverrideFile_NonExistentFile(t *testing.T) {
	t.Parallel()

	_, err := LoadConfigOverrideFile(filepath.Join(t.TempDir(), "does_not_exist.yaml"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err), "expected not exist error, got %v", err)
}

func TestLoadConfigOverrideFile_UnsupportedExtension(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "override.txt")
	require.NoError(t, os.WriteFile(path, []byte("listen_addr: x"), 0o600))

	_, err := LoadConfigOverrideFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown config file extension")
}

func TestNewConfigFromFile_FileError(t *testing.T) {
	t.Parallel()

	_, err := NewConfigFromFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"empty addr", func(c *Config) { c.ListenAddr = "" }, "ListenAddr"},
		{"addr without port", func(c *Config) { c.ListenAddr = "localhost" }, "ListenAddr"},
		{"prefix without slash", func(c *Config) { c.ResourcePrefix = "reqimg/" }, "ResourcePrefix"},
		{"prefix without trailing slash", func(c *Config) { c.ResourcePrefix = "/reqimg" }, "ResourcePrefix"},
		{"empty candidate", func(c *Config) { c.VolumeCandidates = []string{"/", ""} }, "VolumeCandidates"},
		{"zero max bytes", func(c *Config) { c.MaxResourceBytes = 0 }, "MaxResourceBytes"},
		{"zero max bytes in human units", func(c *Config) { c.MaxResourceBytes = 0 }, "(value: 0 B)"},
		{"negative max bytes", func(c *Config) { c.MaxResourceBytes = -2 }, "(value: -2)"},
		{"zero shutdown", func(c *Config) { c.ShutdownTimeout = 0 }, "ShutdownTimeout"},
		{"zero event buffer", func(c *Config) { c.EventBuffer = 0 }, "EventBuffer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := NewDefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestHumanSize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "64 MiB", HumanSize(DefaultMaxResourceBytes))
	assert.Equal(t, "1.0 KiB", HumanSize(1024))
	assert.Equal(t, "0 B", HumanSize(0))
	assert.Equal(t, "-1 B", HumanSize(-1))
}

func TestValidate_Nil(t *testing.T) {
	t.Parallel()
	assert.Error(t, Validate(nil))
}

// Env tests mutate the process environment so they cannot run in parallel.

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("IMGNAV_LISTEN_ADDR", "127.0.0.1:9999")
	t.Setenv("IMGNAV_VERBOSE", "4")
	t.Setenv("IMGNAV_VOLUME_CANDIDATES", "/mnt/a,/mnt/b")

	override, err := LoadEnvOverride()
	require.NoError(t, err)

	require.NotNil(t, override.ListenAddr)
	assert.Equal(t, "127.0.0.1:9999", *override.ListenAddr)
	require.NotNil(t, override.LogLvl)
	assert.Equal(t, DebugVerbose, *override.LogLvl)
	require.NotNil(t, override.VolumeCandidates)
	assert.Equal(t, []string{"/mnt/a", "/mnt/b"}, *override.VolumeCandidates)
	assert.Nil(t, override.ResourcePrefix, "unset variables must stay nil")
	assert.Nil(t, override.EventBuffer)
}

func TestLoad_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen_addr: 127.0.0.1:1111\nresource_prefix: /img/\nevent_buffer: 2\n"), 0o600))
	t.Setenv("IMGNAV_LISTEN_ADDR", "127.0.0.1:2222")

	cfg, err := Load(path, &ConfigOverride{EventBuffer: util.Pointer(3)})
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:2222", cfg.ListenAddr, "env overrides file")
	assert.Equal(t, "/img/", cfg.ResourcePrefix, "file overrides defaults")
	assert.Equal(t, 3, cfg.EventBuffer, "cli overrides everything")
}

func TestLoad_InvalidResult(t *testing.T) {
	t.Setenv("IMGNAV_RESOURCE_PREFIX", "nope")

	_, err := Load("", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func createDefaultCfg() *Config {
	return &Config{
		LogLvl:           DefaultLogLvl,
		ListenAddr:       DefaultListenAddr,
		ResourcePrefix:   DefaultResourcePrefix,
		MaxResourceBytes: DefaultMaxResourceBytes,
		ShutdownTimeout:  5 * time.Second,
		EventBuffer:      DefaultEventBuffer,
	}
}

// createOverride makes a ConfigOverride with all non-default values
func createOverride() *ConfigOverride {
	return &ConfigOverride{
		LogLvl:           util.Pointer(TraceVerbose),
		ListenAddr:       util.Pointer("127.0.0.1:9090"),
		ResourcePrefix:   util.Pointer("/img/"),
		VolumeCandidates: &[]string{"/", "/mnt/data"},
		MaxResourceBytes: util.Pointer(int64(DefaultMaxResourceBytes + 1)),
		ShutdownTimeout:  util.Pointer(DefaultShutdownTimeout + 1),
		EventBuffer:      util.Pointer(DefaultEventBuffer + 1),
	}
}
