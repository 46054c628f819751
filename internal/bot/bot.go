// Package bot implements the chat command surface of remindd: it parses
// "remind <user> in <n><unit> to <text>" style commands from inbound channel
// messages, resolves recipients through the user directory, and drives the
// reminder registry.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/flemzord/remindd/internal/channel"
	"github.com/flemzord/remindd/internal/reminder"
	"github.com/flemzord/remindd/pkg/message"
)

// UserResolver supplies candidate recipients for a name query. Zero
// candidates means the name is unknown; more than one means the query was
// ambiguous. The bot only creates a reminder when exactly one matches.
type UserResolver interface {
	Resolve(name string) []reminder.Recipient
}

// Bot turns inbound chat messages into registry operations and replies
// through the dispatcher.
type Bot struct {
	registry   *reminder.Registry
	users      UserResolver
	dispatcher *channel.Dispatcher
	logger     *slog.Logger

	// name, when set, lets users address the bot ("remindd: remind me...").
	name string

	// now is swappable for tests.
	now func() time.Time
}

// New creates a bot. Wire it to channels via their SetInbox(bot.Handle).
func New(registry *reminder.Registry, users UserResolver, dispatcher *channel.Dispatcher, logger *slog.Logger) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		registry:   registry,
		users:      users,
		dispatcher: dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// SetName sets the name users can prefix commands with. Both "remind me ..."
// and "<name>: remind me ..." are then accepted.
func (b *Bot) SetName(name string) {
	b.name = strings.TrimSpace(name)
}

// Handle processes one inbound message. Messages that are not reminder
// commands are ignored.
func (b *Bot) Handle(msg message.InboundMessage) error {
	text := stripAddress(msg.TrimmedText(), b.name)

	if id, ok := parseForget(text); ok {
		return b.handleForget(msg, id)
	}
	if isListCommand(text) {
		return b.handleList(msg)
	}
	if cmd, ok := parseRemind(text); ok {
		return b.handleRemind(msg, cmd)
	}

	b.logger.Debug("bot: ignoring message", "channel", msg.Channel, "text", text)
	return nil
}

func (b *Bot) handleRemind(msg message.InboundMessage, cmd remindCommand) error {
	var rec reminder.Recipient
	if strings.EqualFold(cmd.target, "me") {
		rec = b.senderSnapshot(msg)
	} else {
		candidates := b.users.Resolve(cmd.target)
		switch len(candidates) {
		case 0:
			return b.reply(msg, fmt.Sprintf("%s? Never heard of 'em", cmd.target))
		case 1:
			rec = candidates[0]
		default:
			names := make([]string, len(candidates))
			for i, c := range candidates {
				names[i] = c.Name
			}
			return b.reply(msg, fmt.Sprintf("Be more specific, I know %d people named like that: %s",
				len(candidates), strings.Join(names, ", ")))
		}
	}

	fireAt := b.now().Add(cmd.duration)
	id, err := b.registry.Create(context.Background(), fireAt, rec, cmd.text, msg.Raw)
	if err != nil {
		b.logger.Error("bot: create reminder failed", "error", err)
		return b.reply(msg, "Something went wrong, I couldn't save that reminder")
	}

	b.logger.Info("bot: reminder scheduled", "id", id, "recipient", rec.Mention(), "fire_at", fireAt)
	return b.reply(msg, fmt.Sprintf("Got it! I will remind %s at %s", rec.Name, fireAt.Format(time.RFC1123)))
}

func (b *Bot) handleForget(msg message.InboundMessage, id int64) error {
	if b.registry.Cancel(context.Background(), id) {
		return b.reply(msg, fmt.Sprintf("Reminder %d sleep with the fishes...", id))
	}
	return b.reply(msg, "i can't forget it, maybe i need a headshrinker")
}

func (b *Bot) handleList(msg message.InboundMessage) error {
	// Only the reminders visible from the requester's room.
	target := msg.ReplyTarget().ID
	jobs := b.registry.List(func(j *reminder.Job) bool {
		rt := j.Recipient.ReplyTarget()
		return rt == target || rt == msg.Chat.ID
	})

	if len(jobs) == 0 {
		return b.reply(msg, "Nothing to remind, isn't it?")
	}

	var sb strings.Builder
	for _, j := range jobs {
		fmt.Fprintf(&sb, "%d: @%s to %q at %s\n", j.ID, j.Recipient.Mention(), j.Text, j.FireAt.Format(time.RFC1123))
	}
	return b.reply(msg, strings.TrimRight(sb.String(), "\n"))
}

// senderSnapshot builds a recipient snapshot for "remind me" from the
// inbound message itself.
func (b *Bot) senderSnapshot(msg message.InboundMessage) reminder.Recipient {
	return reminder.Recipient{
		ID:          msg.Sender.ID,
		Name:        msg.Sender.Name,
		MentionName: msg.Sender.MentionName,
		Room:        msg.Chat.ID,
		ReplyTo:     msg.ReplyTo,
		Channel:     msg.Channel,
	}
}

func (b *Bot) reply(msg message.InboundMessage, text string) error {
	out := message.NewTextMessage(msg.ReplyTarget(), text)
	out.Channel = msg.Channel
	if err := b.dispatcher.Send(context.Background(), out); err != nil {
		return fmt.Errorf("bot: reply: %w", err)
	}
	return nil
}
