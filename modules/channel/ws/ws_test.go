package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/flemzord/remindd/pkg/message"
)

func dialTestChannel(t *testing.T, c *Channel) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(c)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close(websocket.StatusNormalClosure, "test done") })
	return conn
}

func TestChannel_InboundFrameReachesInbox(t *testing.T) {
	t.Parallel()

	c := New(slog.Default())
	received := make(chan message.InboundMessage, 1)
	c.SetInbox(func(msg message.InboundMessage) error {
		received <- msg
		return nil
	})

	conn := dialTestChannel(t, c)

	frame := inboundFrame{
		Sender: message.Sender{ID: "1", Name: "Alice", MentionName: "alice"},
		Chat:   "room-1",
		Text:   "remind me in 5m to stretch",
	}
	data, err := json.Marshal(frame)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	select {
	case msg := <-received:
		if msg.Channel != ChannelName {
			t.Errorf("channel = %q", msg.Channel)
		}
		if msg.Sender.MentionName != "alice" || msg.Chat.ID != "room-1" {
			t.Errorf("msg = %+v", msg)
		}
		if msg.Text != "remind me in 5m to stretch" {
			t.Errorf("text = %q", msg.Text)
		}
		if len(msg.Raw) == 0 {
			t.Error("raw frame should travel as origin metadata")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("inbox never received the frame")
	}
}

func TestChannel_SendReachesClient(t *testing.T) {
	t.Parallel()

	c := New(slog.Default())
	c.SetInbox(func(message.InboundMessage) error { return nil })
	conn := dialTestChannel(t, c)

	// The read loop registers the connection before the dial returns, but
	// give the handler a moment on slow machines.
	deadline := time.Now().Add(5 * time.Second)
	for {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		err := c.Send(ctx, message.OutboundMessage{
			Chat: message.Chat{ID: "room-1"},
			Text: "Hey @alice remember: stretch",
		})
		cancel()
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("send never succeeded: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("client read failed: %v", err)
	}

	var frame outboundFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if frame.Type != "message" || frame.Chat.ID != "room-1" {
		t.Errorf("frame = %+v", frame)
	}
	if frame.Text != "Hey @alice remember: stretch" {
		t.Errorf("text = %q", frame.Text)
	}
}

func TestChannel_SendWithoutClients(t *testing.T) {
	t.Parallel()

	c := New(slog.Default())
	err := c.Send(context.Background(), message.OutboundMessage{Text: "x"})
	if err == nil {
		t.Fatal("send without clients should fail")
	}
}

func TestChannel_MalformedFrameIsDropped(t *testing.T) {
	t.Parallel()

	c := New(slog.Default())
	received := make(chan message.InboundMessage, 1)
	c.SetInbox(func(msg message.InboundMessage) error {
		received <- msg
		return nil
	})

	conn := dialTestChannel(t, c)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := conn.Write(ctx, websocket.MessageText, []byte("not json")); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	// A valid frame after the garbage still gets through: the loop survives.
	data, _ := json.Marshal(inboundFrame{Chat: "r", Text: "hello", Sender: message.Sender{ID: "1"}})
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	select {
	case msg := <-received:
		if msg.Text != "hello" {
			t.Errorf("text = %q", msg.Text)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("valid frame after malformed one never arrived")
	}
}
