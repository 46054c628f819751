package bot

import (
	"log/slog"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/flemzord/remindd/internal/channel"
	"github.com/flemzord/remindd/internal/directory"
	"github.com/flemzord/remindd/internal/reminder"
	"github.com/flemzord/remindd/internal/store/mem"
	"github.com/flemzord/remindd/pkg/message"
)

// fixture wires a bot against an in-memory store and a mock channel.
type fixture struct {
	bot      *Bot
	registry *reminder.Registry
	mock     *channel.MockChannel
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	d := channel.NewDispatcher()
	mock := channel.NewMockChannel("channel.mock")
	if err := d.Register(mock); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	registry := reminder.NewRegistry(mem.New(), channel.NewNotifySink(d), slog.Default())
	t.Cleanup(registry.Close)

	users := directory.New([]directory.User{
		{ID: "1", Name: "Alice Smith", MentionName: "alice", Room: "room-1"},
		{ID: "2", Name: "Alan Turing", MentionName: "alan", Room: "room-2"},
		{ID: "3", Name: "Bob", MentionName: "bob", Room: "room-3"},
	}, "channel.mock")

	bot := New(registry, users, d, slog.Default())
	mock.SetInbox(bot.Handle)

	return &fixture{bot: bot, registry: registry, mock: mock}
}

func inbound(text string) message.InboundMessage {
	return message.InboundMessage{
		Timestamp: time.Now(),
		Sender:    message.Sender{ID: "9", Name: "Carol", MentionName: "carol"},
		Chat:      message.Chat{ID: "room-9"},
		Text:      text,
	}
}

func lastReply(t *testing.T, mock *channel.MockChannel) message.OutboundMessage {
	t.Helper()
	sent := mock.SentMessages()
	if len(sent) == 0 {
		t.Fatal("no reply sent")
	}
	return sent[len(sent)-1]
}

func TestBot_RemindMe(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	if err := f.mock.SimulateMessage(inbound("remind me in 2h to buy milk")); err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	reply := lastReply(t, f.mock)
	if !strings.HasPrefix(reply.Text, "Got it! I will remind Carol at ") {
		t.Errorf("reply = %q", reply.Text)
	}
	if reply.Chat.ID != "room-9" {
		t.Errorf("reply chat = %q, want room-9", reply.Chat.ID)
	}

	jobs := f.registry.List(nil)
	if len(jobs) != 1 {
		t.Fatalf("pending = %d, want 1", len(jobs))
	}
	job := jobs[0]
	if job.Text != "buy milk" {
		t.Errorf("job text = %q", job.Text)
	}
	// The sender snapshot addresses the reminder back at the requester.
	if job.Recipient.MentionName != "carol" || job.Recipient.Room != "room-9" {
		t.Errorf("recipient = %+v", job.Recipient)
	}
	want := time.Now().Add(2 * time.Hour)
	if diff := job.FireAt.Sub(want); diff < -time.Minute || diff > time.Minute {
		t.Errorf("fire_at = %v, want ~%v", job.FireAt, want)
	}
}

func TestBot_RemindNamedUser(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	if err := f.mock.SimulateMessage(inbound("remind bob in 1d to submit the report")); err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	jobs := f.registry.List(nil)
	if len(jobs) != 1 {
		t.Fatalf("pending = %d, want 1", len(jobs))
	}
	if jobs[0].Recipient.MentionName != "bob" || jobs[0].Recipient.Room != "room-3" {
		t.Errorf("recipient = %+v", jobs[0].Recipient)
	}
}

func TestBot_AmbiguousRecipient(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	if err := f.mock.SimulateMessage(inbound("remind al in 5m to wake up")); err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	reply := lastReply(t, f.mock)
	if !strings.HasPrefix(reply.Text, "Be more specific, I know 2 people named like that:") {
		t.Errorf("reply = %q", reply.Text)
	}
	if !strings.Contains(reply.Text, "Alice Smith") || !strings.Contains(reply.Text, "Alan Turing") {
		t.Errorf("reply should list both candidates: %q", reply.Text)
	}
	// The core is never reached on ambiguity.
	if f.registry.Len() != 0 {
		t.Errorf("pending = %d, want 0", f.registry.Len())
	}
}

func TestBot_UnknownRecipient(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	if err := f.mock.SimulateMessage(inbound("remind zed in 5m to exist")); err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	reply := lastReply(t, f.mock)
	if reply.Text != "zed? Never heard of 'em" {
		t.Errorf("reply = %q", reply.Text)
	}
	if f.registry.Len() != 0 {
		t.Errorf("pending = %d, want 0", f.registry.Len())
	}
}

func TestBot_ForgetReminder(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	if err := f.mock.SimulateMessage(inbound("remind me in 1h to x")); err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	jobs := f.registry.List(nil)
	if len(jobs) != 1 {
		t.Fatalf("pending = %d, want 1", len(jobs))
	}
	id := jobs[0].ID

	if err := f.mock.SimulateMessage(inbound("forget reminder " + strconv.FormatInt(id, 10))); err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	reply := lastReply(t, f.mock)
	if !strings.Contains(reply.Text, "sleep with the fishes") {
		t.Errorf("reply = %q", reply.Text)
	}
	if f.registry.Len() != 0 {
		t.Errorf("pending = %d, want 0", f.registry.Len())
	}

	// Forgetting again finds nothing.
	if err := f.mock.SimulateMessage(inbound("forget reminder " + strconv.FormatInt(id, 10))); err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	reply = lastReply(t, f.mock)
	if reply.Text != "i can't forget it, maybe i need a headshrinker" {
		t.Errorf("reply = %q", reply.Text)
	}
}

func TestBot_ListScopedToRoom(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	if err := f.mock.SimulateMessage(inbound("remind me in 1h to visible")); err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	// A reminder for bob lives in room-3, not the requester's room.
	if err := f.mock.SimulateMessage(inbound("remind bob in 1h to hidden")); err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	if err := f.mock.SimulateMessage(inbound("what are your reminders")); err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	reply := lastReply(t, f.mock)
	if !strings.Contains(reply.Text, "visible") {
		t.Errorf("list should contain the room's reminder: %q", reply.Text)
	}
	if strings.Contains(reply.Text, "hidden") {
		t.Errorf("list should not leak other rooms: %q", reply.Text)
	}
}

func TestBot_ListEmpty(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	if err := f.mock.SimulateMessage(inbound("what are your reminders")); err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if reply := lastReply(t, f.mock); reply.Text != "Nothing to remind, isn't it?" {
		t.Errorf("reply = %q", reply.Text)
	}
}

func TestBot_AddressedByName(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.bot.SetName("remindd")

	if err := f.mock.SimulateMessage(inbound("remindd: remind me in 1h to stretch")); err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if f.registry.Len() != 1 {
		t.Fatalf("pending = %d, want 1", f.registry.Len())
	}

	// Unprefixed commands still work with a name set.
	if err := f.mock.SimulateMessage(inbound("remind me in 1h to hydrate")); err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if f.registry.Len() != 2 {
		t.Fatalf("pending = %d, want 2", f.registry.Len())
	}
}

func TestBot_IgnoresChatter(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	if err := f.mock.SimulateMessage(inbound("good morning everyone")); err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if len(f.mock.SentMessages()) != 0 {
		t.Error("chatter should not trigger a reply")
	}
	if f.registry.Len() != 0 {
		t.Error("chatter should not create jobs")
	}
}
