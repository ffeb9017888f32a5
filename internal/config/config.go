// Package config resolves server settings from defaults, an optional YAML
// config file, environment variables, and bound command-line flags.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything the dashboard server needs at startup.
type Config struct {
	Addr           string
	MaxUploadBytes int64
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	LogLevel       string
}

// SetDefaults registers defaults on the shared viper instance. Call before
// binding flags so flag values win over defaults.
func SetDefaults() {
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.read_timeout", 15*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)
	viper.SetDefault("server.idle_timeout", 60*time.Second)
	viper.SetDefault("upload.max_bytes", int64(16<<20))
	viper.SetDefault("logging.level", "info")
}

// Load reads the optional config file and environment, then materializes the
// Config. An absent config file is fine; a malformed one is not.
func Load(cfgFile string) (*Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("DASHBOARD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		Addr:           viper.GetString("server.addr"),
		MaxUploadBytes: viper.GetInt64("upload.max_bytes"),
		ReadTimeout:    viper.GetDuration("server.read_timeout"),
		WriteTimeout:   viper.GetDuration("server.write_timeout"),
		IdleTimeout:    viper.GetDuration("server.idle_timeout"),
		LogLevel:       viper.GetString("logging.level"),
	}
	if cfg.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("upload.max_bytes must be positive, got %d", cfg.MaxUploadBytes)
	}
	return cfg, nil
}
