package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for every environment variable read by Load,
// e.g. TASKFLOW_DATABASE_URL for database.url.
const EnvPrefix = "TASKFLOW"

// defaults lists every configuration key together with its default value.
// Keys without a sensible default are registered with a nil value so that
// viper still binds their environment variables.
var defaults = map[string]any{
	"server.port":                           8080,
	"server.log_level":                      "info",
	"server.shutdown_timeout_seconds":       30,
	"database.url":                          nil,
	"database.max_open_conns":               25,
	"database.max_idle_conns":               5,
	"auth.jwt_secret":                       nil,
	"auth.token_lifetime_minutes":           60,
	"auth.bcrypt_cost":                      10,
	"mail.host":                             "",
	"mail.port":                             587,
	"mail.username":                         "",
	"mail.password":                         "",
	"mail.from_address":                     "noreply@taskflow.local",
	"mail.from_name":                        "Taskflow",
	"mail.tls_policy":                       "opportunistic",
	"jobs.worker_count":                     2,
	"jobs.queue_size":                       100,
	"jobs.stuck_job_age_minutes":            30,
	"jobs.stuck_job_check_interval_minutes": 5,
	"jobs.pending_job_grace_seconds":        60,
}

// Load configuration from environment variables and optionally a config file.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom behaves like Load but searches dir for a config.yaml file.
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range defaults {
		if value != nil {
			v.SetDefault(key, value)
		}
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable for %s: %w", key, err)
		}
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
