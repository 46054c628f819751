package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
)

// Validate checks the structural validity of a Config. All problems are
// reported at once via errors.Join.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Version == "" {
		errs = append(errs, errors.New("config: version field is required"))
	} else if cfg.Version != "1" {
		errs = append(errs, fmt.Errorf("config: unsupported version %q (supported: \"1\")", cfg.Version))
	}

	if _, err := net.ResolveTCPAddr("tcp", cfg.Gateway.Bind); err != nil {
		errs = append(errs, fmt.Errorf("config: invalid gateway bind address %q", cfg.Gateway.Bind))
	}

	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		errs = append(errs, err)
	}

	if !cfg.Data.Ephemeral && cfg.Data.Path == "" {
		errs = append(errs, errors.New("config: data.path is required unless data.ephemeral is set"))
	}

	for i, u := range cfg.Users {
		if u.Name == "" {
			errs = append(errs, fmt.Errorf("config: users[%d]: name is required", i))
		}
		if u.Room == "" {
			errs = append(errs, fmt.Errorf("config: users[%d] (%s): room is required", i, u.Name))
		}
	}

	return errors.Join(errs...)
}

// ParseLevel converts a config log level string to a slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("config: unknown log_level %q (debug, info, warn, error)", level)
	}
}
