package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config holds the HTTP service settings. Provider credentials are never part of it:
// every request carries its own API key, endpoint and model.
type Config struct {
	ServerAddr     string        `mapstructure:"server_addr"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
	LogLevel       string        `mapstructure:"log_level"`
	CORSOrigin     string        `mapstructure:"cors_origin"`
}

// Default returns the settings used when neither file nor environment sets a key.
func Default() Config {
	return Config{
		ServerAddr:     ":3000",
		RequestTimeout: 120 * time.Second,
		MaxBodyBytes:   1 << 20,
		LogLevel:       "info",
		CORSOrigin:     "*",
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("server_addr", d.ServerAddr)
	v.SetDefault("request_timeout", d.RequestTimeout)
	v.SetDefault("max_body_bytes", d.MaxBodyBytes)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("cors_origin", d.CORSOrigin)
}

// Load reads config.json from path (or the default search paths when path is empty),
// then applies REDBOOK_* environment overrides.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("REDBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("json")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.redbook")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		log.Debug().Msg("config file not found, using defaults and environment")
	} else {
		log.Info().Str("file", v.ConfigFileUsed()).Msg("using config file")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var problems []string
	if c.ServerAddr == "" {
		problems = append(problems, "server_addr is empty")
	}
	if c.RequestTimeout <= 0 {
		problems = append(problems, "request_timeout must be positive")
	}
	if c.MaxBodyBytes <= 0 {
		problems = append(problems, "max_body_bytes must be positive")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}
