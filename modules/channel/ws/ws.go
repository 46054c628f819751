// Package ws implements the WebSocket channel: clients connect to the
// gateway's /ws endpoint, send reminder commands as JSON frames, and receive
// replies and fired reminders on the same connection.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/flemzord/remindd/internal/channel"
	"github.com/flemzord/remindd/pkg/message"
)

// ChannelName is the id this channel registers under.
const ChannelName = "channel.websocket"

// inboundFrame is one JSON frame received from a client.
type inboundFrame struct {
	Sender  message.Sender `json:"sender"`
	Chat    string         `json:"chat"`
	ReplyTo string         `json:"reply_to,omitempty"`
	Text    string         `json:"text"`
}

// outboundFrame is one JSON frame pushed to clients.
type outboundFrame struct {
	Type string          `json:"type"`
	Chat message.Chat    `json:"chat"`
	Text string          `json:"text"`
	Raw  json.RawMessage `json:"raw,omitempty"`
}

// Channel fans outbound messages out to every connected client and feeds
// inbound frames to the bot. It doubles as the http.Handler for the /ws
// mount.
type Channel struct {
	logger *slog.Logger

	mu     sync.Mutex
	inbox  func(msg message.InboundMessage) error
	conns  map[*websocket.Conn]struct{}
	closed bool
}

// Compile-time interface checks.
var (
	_ channel.Channel = (*Channel)(nil)
	_ http.Handler    = (*Channel)(nil)
)

// New creates the websocket channel.
func New(logger *slog.Logger) *Channel {
	if logger == nil {
		logger = slog.Default()
	}
	return &Channel{
		logger: logger,
		conns:  make(map[*websocket.Conn]struct{}),
	}
}

// Name implements channel.Channel.
func (c *Channel) Name() string { return ChannelName }

// SetInbox implements channel.Channel.
func (c *Channel) SetInbox(fn func(msg message.InboundMessage) error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inbox = fn
}

// Send implements channel.Channel. The frame is written to every connected
// client; clients are expected to filter on the chat id. Delivery fails only
// when no client received the frame.
func (c *Channel) Send(ctx context.Context, msg message.OutboundMessage) error {
	data, err := json.Marshal(outboundFrame{
		Type: "message",
		Chat: msg.Chat,
		Text: msg.Text,
		Raw:  msg.Raw,
	})
	if err != nil {
		return fmt.Errorf("ws: marshal frame: %w", err)
	}

	c.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(c.conns))
	for conn := range c.conns {
		conns = append(conns, conn)
	}
	c.mu.Unlock()

	if len(conns) == 0 {
		return errors.New("ws: no connected clients")
	}

	var errs []error
	delivered := 0
	for _, conn := range conns {
		if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
			errs = append(errs, err)
			continue
		}
		delivered++
	}
	if delivered == 0 {
		return fmt.Errorf("ws: no client received the frame: %w", errors.Join(errs...))
	}
	return nil
}

// ServeHTTP upgrades the request and runs the connection's read loop.
func (c *Channel) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		c.logger.Warn("ws: accept failed", "error", err)
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}
	c.conns[conn] = struct{}{}
	total := len(c.conns)
	c.mu.Unlock()

	c.logger.Info("ws: client connected", "clients", total)
	// Blocks until the client disconnects; the request context is only
	// valid while ServeHTTP runs.
	c.readLoop(r.Context(), conn)
}

// readLoop decodes frames from one client until the connection dies.
func (c *Channel) readLoop(ctx context.Context, conn *websocket.Conn) {
	defer func() {
		c.mu.Lock()
		delete(c.conns, conn)
		c.mu.Unlock()
		_ = conn.Close(websocket.StatusInternalError, "unexpected close")
		c.logger.Info("ws: client disconnected")
	}()

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}

		var frame inboundFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			c.logger.Warn("ws: dropping malformed frame", "error", err)
			continue
		}

		c.mu.Lock()
		inbox := c.inbox
		c.mu.Unlock()
		if inbox == nil {
			c.logger.Warn("ws: dropping frame, inbox not wired")
			continue
		}

		msg := message.InboundMessage{
			Timestamp: time.Now(),
			Channel:   ChannelName,
			Sender:    frame.Sender,
			Chat:      message.Chat{ID: frame.Chat},
			ReplyTo:   frame.ReplyTo,
			Text:      frame.Text,
			// The raw frame travels with the reminder and comes back
			// at fire time.
			Raw: json.RawMessage(data),
		}
		if err := inbox(msg); err != nil {
			c.logger.Error("ws: inbox rejected message", "error", err)
		}
	}
}

// Close disconnects every client and rejects new connections.
func (c *Channel) Close(_ context.Context) error {
	c.mu.Lock()
	c.closed = true
	conns := make([]*websocket.Conn, 0, len(c.conns))
	for conn := range c.conns {
		conns = append(conns, conn)
	}
	c.conns = make(map[*websocket.Conn]struct{})
	c.mu.Unlock()

	for _, conn := range conns {
		_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
	}
	return nil
}
