// Package config loads apex.yaml project configuration through Viper,
// with APEX_-prefixed environment overrides.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	// DefaultPort is the default development server port.
	DefaultPort = 3000

	// DefaultHost is the default development server host.
	DefaultHost = "localhost"
)

// Config is the apex.yaml schema.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Templates TemplatesConfig `mapstructure:"templates"`
	Dev       DevConfig       `mapstructure:"dev"`
}

// ServerConfig holds boundary-server settings.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// TemplatesConfig holds template compilation settings.
type TemplatesConfig struct {
	// Dirs are the directories scanned for template files.
	Dirs []string `mapstructure:"dirs"`

	// Ext is the template file extension.
	Ext string `mapstructure:"ext"`
}

// DevConfig holds development-mode settings.
type DevConfig struct {
	Watch  bool `mapstructure:"watch"`
	Reload bool `mapstructure:"reload"`
}

// Addr returns the server listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Load reads apex.yaml from dir (falling back to defaults when the
// file is absent) and applies environment overrides.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("apex")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix("APEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.host", DefaultHost)
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("templates.dirs", []string{"templates"})
	v.SetDefault("templates.ext", ".apx")
	v.SetDefault("dev.watch", true)
	v.SetDefault("dev.reload", true)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: reading apex.yaml: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return nil, fmt.Errorf("config: invalid port %d", cfg.Server.Port)
	}
	return &cfg, nil
}
