package domain

// Config holds the complete portal configuration.
type Config struct {
	// Server settings
	Server ServerConfig `koanf:"server" json:"server" validate:"required"`

	// Component configurations
	Database RepositoryConfig `koanf:"database" json:"database" validate:"required"`
	EventBus EventBusConfig   `koanf:"bus" json:"eventBus" validate:"required"`

	// Observability
	Logging LoggingConfig `koanf:"log" json:"logging"`
	Tracing TracingConfig `koanf:"tracing" json:"tracing"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string `koanf:"host" json:"host"`
	Port         int    `koanf:"port" json:"port" validate:"gt=0,lte=65535"`
	ReadTimeout  int    `koanf:"read_timeout" json:"readTimeout" validate:"gte=0"`   // seconds
	WriteTimeout int    `koanf:"write_timeout" json:"writeTimeout" validate:"gte=0"` // seconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level" json:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `koanf:"format" json:"format" validate:"omitempty,oneof=json text"`
}

// TracingConfig holds OpenTelemetry settings.
type TracingConfig struct {
	Enabled     bool   `koanf:"enabled" json:"enabled"`
	ServiceName string `koanf:"service_name" json:"serviceName"`
}

// DefaultConfig returns a configuration that runs on a local SQLite file
// with the in-process event bus.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  30,
			WriteTimeout: 30,
		},
		Database: RepositoryConfig{
			Driver:     "sqlite",
			SQLitePath: "./food_wastage.db",
		},
		EventBus: EventBusConfig{
			Type:              "channel",
			ChannelBufferSize: 1000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Tracing: TracingConfig{
			Enabled:     false,
			ServiceName: "food-wastage-portal",
		},
	}
}
