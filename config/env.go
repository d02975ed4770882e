package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, i.e. IMGNAV_LISTEN_ADDR
const EnvPrefix = "IMGNAV"

// envKeys must match the mapstructure tags of ConfigOverride
var envKeys = []string{
	"verbose",
	"listen_addr",
	"resource_prefix",
	"volume_candidates",
	"max_resource_bytes",
	"shutdown_timeout",
	"event_buffer",
}

// LoadEnvOverride reads IMGNAV_* environment variables into a ConfigOverride.
// Unset variables leave the matching field nil. VOLUME_CANDIDATES is a comma
// separated list.
func LoadEnvOverride() (*ConfigOverride, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env key %s: %w", key, err)
		}
	}

	var override ConfigOverride
	if err := v.Unmarshal(&override); err != nil {
		return nil, fmt.Errorf("failed to unmarshal env config: %w", err)
	}
	return &override, nil
}
