package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Mail     MailConfig     `mapstructure:"mail" validate:"required"`
	Jobs     JobsConfig     `mapstructure:"jobs" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gte=1,lte=300"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL          string `mapstructure:"url" validate:"required,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"gte=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"gte=1,lte=44640"`
	BCryptCost           int    `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
}

// MailConfig contains the outbound mail settings used for task notifications.
// An empty Host disables SMTP delivery; notifications are then only logged.
type MailConfig struct {
	Host        string `mapstructure:"host" validate:"omitempty,hostname_rfc1123|ip"`
	Port        int    `mapstructure:"port" validate:"gt=0,lt=65536"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	FromAddress string `mapstructure:"from_address" validate:"required,email"`
	FromName    string `mapstructure:"from_name"`
	TLSPolicy   string `mapstructure:"tls_policy" validate:"oneof=mandatory opportunistic none"`
}

// JobsConfig contains the background job runner settings.
type JobsConfig struct {
	WorkerCount                  int `mapstructure:"worker_count" validate:"gte=1,lte=64"`
	QueueSize                    int `mapstructure:"queue_size" validate:"gte=1"`
	StuckJobAgeMinutes           int `mapstructure:"stuck_job_age_minutes" validate:"gte=1"`
	StuckJobCheckIntervalMinutes int `mapstructure:"stuck_job_check_interval_minutes" validate:"gte=1"`
	PendingJobGraceSeconds       int `mapstructure:"pending_job_grace_seconds" validate:"gte=1"`
}
