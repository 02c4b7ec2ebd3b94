package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"      validate:"required"`
	Database    DatabaseConfig    `mapstructure:"database"    validate:"required"`
	Auth        AuthConfig        `mapstructure:"auth"        validate:"required"`
	Queue       QueueConfig       `mapstructure:"queue"       validate:"required"`
	Mail        MailConfig        `mapstructure:"mail"        validate:"required"`
	Attachments AttachmentsConfig `mapstructure:"attachments"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret"                     validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes"         validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
}

// QueueConfig controls the notification queue and its consumer.
type QueueConfig struct {
	// BufferSize is the capacity of the in-memory record channel.
	BufferSize int `mapstructure:"buffer_size" validate:"required,gt=0"`

	// BatchSize is the maximum number of records handed to the
	// dispatcher in one batch.
	BatchSize int `mapstructure:"batch_size" validate:"required,gt=0"`

	// FlushIntervalMillis bounds how long a partially filled batch
	// waits before being dispatched.
	FlushIntervalMillis int `mapstructure:"flush_interval_millis" validate:"required,gt=0"`
}

// MailConfig contains outbound email settings.
type MailConfig struct {
	SMTPAddr    string `mapstructure:"smtp_addr"    validate:"required"`
	SMTPUser    string `mapstructure:"smtp_user"`
	SMTPPass    string `mapstructure:"smtp_pass"`
	FromAddress string `mapstructure:"from_address" validate:"required,email"`

	// AppBaseURL is the public URL of the front end, used to build
	// deep links into notification emails.
	AppBaseURL string `mapstructure:"app_base_url" validate:"required,url"`
}

// AttachmentsConfig contains object storage settings for attachment uploads.
type AttachmentsConfig struct {
	Bucket string `mapstructure:"bucket"`
	Region string `mapstructure:"region"`
}
