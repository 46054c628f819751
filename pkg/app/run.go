// Package app provides the main entry point of the remindd daemon.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/flemzord/remindd/internal/bot"
	"github.com/flemzord/remindd/internal/channel"
	"github.com/flemzord/remindd/internal/config"
	"github.com/flemzord/remindd/internal/directory"
	"github.com/flemzord/remindd/internal/gateway"
	"github.com/flemzord/remindd/internal/maintenance"
	"github.com/flemzord/remindd/internal/reminder"
	"github.com/flemzord/remindd/internal/store/mem"
	"github.com/flemzord/remindd/internal/store/sqlite"
	"github.com/flemzord/remindd/internal/telemetry"
	"github.com/flemzord/remindd/modules/channel/ws"
)

// RunParams configures the main application loop.
type RunParams struct {
	// ConfigPath is an explicit path to the YAML configuration file.
	// If empty, ResolveConfigPath is called automatically.
	ConfigPath string

	// Version, Commit, and Date are injected at build time via ldflags.
	Version string
	Commit  string
	Date    string
}

// Run loads configuration, wires the store, registry, channels, bot, and
// gateway together, and blocks until a shutdown signal is received.
func Run(params RunParams) error {
	cfgPath := params.ConfigPath
	if cfgPath == "" {
		resolved, err := ResolveConfigPath()
		if err != nil {
			return err
		}
		cfgPath = resolved
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	logger.Info("remindd starting", "version", params.Version, "config", cfgPath)

	ctx := context.Background()

	stopTracing, err := telemetry.Setup(ctx, cfg.Telemetry, params.Version, logger)
	if err != nil {
		return err
	}

	// Durable store. The in-memory variant is opt-in and loses everything
	// on restart.
	var store reminder.Store
	var db *sql.DB
	if cfg.Data.Ephemeral {
		logger.Warn("ephemeral store selected, reminders will not survive a restart")
		store = mem.New()
	} else {
		sqlStore, sqlDB, err := sqlite.Open(cfg.Data.Path, logger)
		if err != nil {
			return err
		}
		store = sqlStore
		db = sqlDB
	}

	// Channels and the notification sink.
	dispatcher := channel.NewDispatcher()
	wsChannel := ws.New(logger)
	if err := dispatcher.Register(wsChannel); err != nil {
		return err
	}

	registry := reminder.NewRegistry(store, channel.NewNotifySink(dispatcher), logger)

	// Re-arm persisted reminders before anything can create new ones.
	if err := registry.Restore(ctx); err != nil {
		return err
	}

	users := make([]directory.User, len(cfg.Users))
	for i, u := range cfg.Users {
		users[i] = directory.User{
			ID:          u.ID,
			Name:        u.Name,
			MentionName: u.MentionName,
			Room:        u.Room,
			Channel:     u.Channel,
		}
	}
	dir := directory.New(users, ws.ChannelName)

	b := bot.New(registry, dir, dispatcher, logger)
	b.SetName(cfg.BotName)
	wsChannel.SetInbox(b.Handle)

	gw := gateway.New(cfg.Gateway, registry, dir, wsChannel, logger)
	if err := gw.Start(); err != nil {
		return err
	}

	sched, err := startMaintenance(cfg, store, registry, db, logger)
	if err != nil {
		stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		_ = gw.Stop(stopCtx)
		cancel()
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	sig := <-sigCh
	logger.Info("shutdown signal received", "signal", sig.String())

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := gw.Stop(stopCtx); err != nil {
		logger.Error("gateway stop failed", "error", err)
	}
	if sched != nil {
		if err := sched.Stop(stopCtx); err != nil {
			logger.Error("maintenance stop failed", "error", err)
		}
	}
	registry.Close()
	if err := wsChannel.Close(stopCtx); err != nil {
		logger.Error("websocket channel close failed", "error", err)
	}
	if db != nil {
		if err := db.Close(); err != nil {
			logger.Error("store close failed", "error", err)
		}
	}
	if err := stopTracing(stopCtx); err != nil {
		logger.Error("telemetry shutdown failed", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}

// startMaintenance wires the housekeeping jobs unless disabled. The
// checkpoint job only makes sense with a SQLite-backed store.
func startMaintenance(cfg *config.Config, store reminder.Store, registry *reminder.Registry, db *sql.DB, logger *slog.Logger) (*maintenance.Scheduler, error) {
	if cfg.Maintenance.Disabled {
		logger.Info("maintenance scheduler disabled")
		return nil, nil
	}

	sched := maintenance.NewScheduler(logger)
	if err := sched.Add(&maintenance.ReconcileJob{
		Store:        store,
		Registry:     registry,
		Logger:       logger,
		ScheduleExpr: cfg.Maintenance.Reconcile,
	}); err != nil {
		return nil, err
	}
	if db != nil {
		if err := sched.Add(&maintenance.CheckpointJob{
			DB:           db,
			Logger:       logger,
			ScheduleExpr: cfg.Maintenance.Checkpoint,
		}); err != nil {
			return nil, err
		}
	}
	if err := sched.Start(); err != nil {
		return nil, err
	}
	return sched, nil
}

// ResolveConfigPath searches for a config file in standard locations.
// Search order: $XDG_CONFIG_HOME/remindd/remindd.yaml →
// ~/.config/remindd/remindd.yaml → ./remindd.yaml
func ResolveConfigPath() (string, error) {
	var candidates []string

	if xdg, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok {
		candidates = append(candidates, filepath.Join(xdg, "remindd", "remindd.yaml"))
	} else if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "remindd", "remindd.yaml"))
	}

	candidates = append(candidates, "remindd.yaml")

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("no configuration file found (searched: %v)", candidates)
}

// DefaultConfigPath returns where init should write a fresh config file.
func DefaultConfigPath() string {
	if xdg, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok {
		return filepath.Join(xdg, "remindd", "remindd.yaml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "remindd", "remindd.yaml")
}
