// Package gateway exposes the daemon's HTTP surface: health, prometheus
// metrics, the reminders REST API, and the websocket channel mount.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/flemzord/remindd/internal/config"
	"github.com/flemzord/remindd/internal/reminder"
)

// UserResolver supplies candidate recipients for a name query, mirroring
// the bot's collaborator contract.
type UserResolver interface {
	Resolve(name string) []reminder.Recipient
}

// Gateway is the HTTP server.
type Gateway struct {
	config    config.GatewayConfig
	logger    *slog.Logger
	registry  *reminder.Registry
	users     UserResolver
	ws        http.Handler
	server    *http.Server
	startedAt time.Time
}

// New creates a gateway. ws is mounted at /ws when non-nil.
func New(cfg config.GatewayConfig, registry *reminder.Registry, users UserResolver, ws http.Handler, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		config:   cfg,
		logger:   logger,
		registry: registry,
		users:    users,
		ws:       ws,
	}
}

// Start begins serving in a background goroutine.
func (g *Gateway) Start() error {
	g.startedAt = time.Now()

	g.server = &http.Server{
		Addr:         g.config.Bind,
		Handler:      g.buildRouter(),
		ReadTimeout:  g.config.ReadTimeout,
		WriteTimeout: g.config.WriteTimeout,
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(context.Background(), "tcp", g.config.Bind)
	if err != nil {
		return fmt.Errorf("gateway: listen on %s: %w", g.config.Bind, err)
	}

	go func() {
		g.logger.Info("gateway listening", "addr", g.config.Bind)
		if err := g.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			g.logger.Error("gateway serve error", "error", err)
		}
	}()

	return nil
}

// Stop gracefully shuts the server down within the configured timeout.
func (g *Gateway) Stop(ctx context.Context) error {
	if g.server == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, g.config.ShutdownTimeout)
	defer cancel()

	g.logger.Info("gateway shutting down")
	return g.server.Shutdown(shutdownCtx)
}
