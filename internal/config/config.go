package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"     validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Auth       AuthConfig       `mapstructure:"auth"       validate:"required"`
	LLM        LLMConfig        `mapstructure:"llm"        validate:"required"`
	Events     EventsConfig     `mapstructure:"events"     validate:"required"`
	Comparison ComparisonConfig `mapstructure:"comparison"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port"                     validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level"                validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gte=1,lte=300"`
}

// ShutdownTimeout is the grace period for in-flight requests on shutdown.
func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// DatabaseConfig contains all database-related configuration settings.
// An empty URL selects the in-memory result store.
type DatabaseConfig struct {
	URL           string `mapstructure:"url"            validate:"omitempty,url"`
	RunMigrations bool   `mapstructure:"run_migrations"`
}

// Enabled reports whether a Postgres database is configured.
func (c DatabaseConfig) Enabled() bool {
	return c.URL != ""
}

// AuthConfig contains the settings for optional bearer tokens. Without a
// secret, requests are anonymous and owners are passed explicitly.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"omitempty,min=32"`
	Issuer               string `mapstructure:"issuer"                 validate:"required"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"gte=1,lte=525600"`
}

// Enabled reports whether bearer tokens are verified.
func (c AuthConfig) Enabled() bool {
	return c.JWTSecret != ""
}

// TokenLifetime is how long minted tokens stay valid.
func (c AuthConfig) TokenLifetime() time.Duration {
	return time.Duration(c.TokenLifetimeMinutes) * time.Minute
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	GeminiAPIKey      string  `mapstructure:"gemini_api_key"`
	ModelName         string  `mapstructure:"model_name"          validate:"required"`
	MaxRetries        int     `mapstructure:"max_retries"         validate:"gte=0,lte=10"`
	RetryDelaySeconds int     `mapstructure:"retry_delay_seconds" validate:"gte=0,lte=60"`
	Temperature       float64 `mapstructure:"temperature"         validate:"gte=0,lte=2"`
}

// Enabled reports whether feedback generation can call the model.
func (c LLMConfig) Enabled() bool {
	return c.GeminiAPIKey != ""
}

// RetryDelay is the base delay between generation retries.
func (c LLMConfig) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelaySeconds) * time.Second
}

// EventsConfig contains the settings for result lifecycle events.
type EventsConfig struct {
	KafkaBrokers []string `mapstructure:"kafka_brokers" validate:"dive,hostname_port"`
	Topic        string   `mapstructure:"topic"         validate:"required"`
}

// KafkaEnabled reports whether events are forwarded to Kafka.
func (c EventsConfig) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// ComparisonConfig contains the comparison engine settings.
type ComparisonConfig struct {
	ElementalScoring bool `mapstructure:"elemental_scoring"`
}
