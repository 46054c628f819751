package config

import "time"

// Config is the top-level configuration structure.
type Config struct {
	// Version is the config format version. Currently only "1" is supported.
	Version string `yaml:"version"`

	// Gateway holds the HTTP gateway settings.
	Gateway GatewayConfig `yaml:"gateway"`

	// Data holds the durable store settings.
	Data DataConfig `yaml:"data"`

	// LogLevel is one of debug, info, warn, error. Defaults to info.
	LogLevel string `yaml:"log_level"`

	// BotName lets chat users address the daemon by name, as in
	// "remindd: remind me in 5m to stretch". Optional.
	BotName string `yaml:"bot_name,omitempty"`

	// Users is the directory the bot resolves reminder targets against.
	Users []UserEntry `yaml:"users,omitempty"`

	// Maintenance holds the periodic housekeeping schedules.
	Maintenance MaintenanceConfig `yaml:"maintenance"`

	// Telemetry holds the optional trace exporter settings.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// GatewayConfig configures the HTTP gateway.
type GatewayConfig struct {
	// Bind is the listen address. Defaults to "127.0.0.1:8420".
	Bind string `yaml:"bind"`

	// BearerToken protects the /api routes when set. Without it the API
	// is open, which is the single-user localhost default.
	BearerToken string `yaml:"bearer_token,omitempty"`

	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DataConfig configures where reminders are persisted.
type DataConfig struct {
	// Path is the SQLite database file. Defaults to remindd.db in the
	// data directory.
	Path string `yaml:"path"`

	// Ephemeral switches to the in-memory store: nothing survives a
	// restart. Meant for tests and demos.
	Ephemeral bool `yaml:"ephemeral,omitempty"`
}

// UserEntry is one directory user.
type UserEntry struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	MentionName string `yaml:"mention_name,omitempty"`
	Room        string `yaml:"room,omitempty"`
	Channel     string `yaml:"channel,omitempty"`
}

// MaintenanceConfig holds cron expressions for the housekeeping jobs.
// Empty values use each job's default schedule.
type MaintenanceConfig struct {
	// Disabled turns the maintenance scheduler off entirely.
	Disabled bool `yaml:"disabled,omitempty"`

	// Reconcile is the schedule of the store/registry drift check.
	Reconcile string `yaml:"reconcile,omitempty"`

	// Checkpoint is the schedule of the SQLite checkpoint + vacuum pass.
	Checkpoint string `yaml:"checkpoint,omitempty"`
}

// TelemetryConfig configures the OTLP trace exporter. Tracing is off unless
// an endpoint is set.
type TelemetryConfig struct {
	// Endpoint is the OTLP/HTTP collector host:port.
	Endpoint string `yaml:"endpoint,omitempty"`

	// Insecure disables TLS towards the collector.
	Insecure bool `yaml:"insecure,omitempty"`
}

func (c *Config) defaults() {
	if c.Gateway.Bind == "" {
		c.Gateway.Bind = "127.0.0.1:8420"
	}
	if c.Gateway.ReadTimeout == 0 {
		c.Gateway.ReadTimeout = 10 * time.Second
	}
	if c.Gateway.WriteTimeout == 0 {
		c.Gateway.WriteTimeout = 30 * time.Second
	}
	if c.Gateway.ShutdownTimeout == 0 {
		c.Gateway.ShutdownTimeout = 10 * time.Second
	}
	if c.Data.Path == "" {
		c.Data.Path = "remindd.db"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}
