// Package config loads runtime configuration for the server from
// environment variables (and, if present, a config file), using
// github.com/spf13/viper the way its own documentation recommends:
// defaults first, then file, then environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// envPrefix namespaces every environment variable this service reads,
// e.g. CLIFFSIM_DEBUG, CLIFFSIM_PORT.
const envPrefix = "CLIFFSIM"

// Config wraps a *viper.Viper so callers get its full Get*/Unmarshal
// surface (GetBool, GetString, GetInt, ...) without this package having
// to re-expose each accessor individually.
type Config struct {
	*viper.Viper
}

// Options controls where Load looks for configuration beyond the
// environment.
type Options struct {
	// ConfigFile, if non-empty, is read in addition to defaults and
	// environment variables. A missing file is not an error; a
	// malformed one is.
	ConfigFile string
}

// Load builds a Config with defaults applied, an optional config file
// merged in, and environment variables (CLIFFSIM_*) taking precedence
// over both.
func Load(options Options) (*Config, error) {
	v := viper.New()

	v.SetDefault("debug", false)
	v.SetDefault("port", 8080)
	v.SetDefault("local_only", false)
	v.SetDefault("cors_allow_origin", "")
	v.SetDefault("default_backend", "stab")
	v.SetDefault("default_shots", 1024)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if options.ConfigFile != "" {
		v.SetConfigFile(options.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config: reading %s: %w", options.ConfigFile, err)
			}
		}
	}

	return &Config{Viper: v}, nil
}

// New returns a Config with only defaults and environment variables
// applied — the common case for a service with no config file.
func New() *Config {
	c, _ := Load(Options{})
	return c
}
