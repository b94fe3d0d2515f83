// Package notify tells people that a report was published. Every channel is
// best-effort: failures are logged and reported as false, never raised.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"news-reporter/internal/retry"
)

// Channel names a delivery route.
type Channel string

const (
	ChannelConsole Channel = "console"
	ChannelEmail   Channel = "email"
	ChannelChat    Channel = "chat"
)

// ErrNotConfigured is returned by a notifier whose required settings are missing.
var ErrNotConfigured = errors.New("notifier not configured")

// ParseChannel resolves a channel name. "slack" is accepted for chat.
func ParseChannel(s string) (Channel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "console":
		return ChannelConsole, nil
	case "email", "mail":
		return ChannelEmail, nil
	case "chat", "slack":
		return ChannelChat, nil
	default:
		return "", fmt.Errorf("unknown notification channel %q", s)
	}
}

// Message is what every channel delivers.
type Message struct {
	Topic string
	URL   string
}

// Text is the one-line human form of the message.
func (m Message) Text() string {
	return fmt.Sprintf("New news report on '%s' available at %s", m.Topic, m.URL)
}

// Notifier delivers a message over one channel.
type Notifier interface {
	Channel() Channel
	Send(ctx context.Context, msg Message) error
}

// Dispatcher routes notifications to registered notifiers.
type Dispatcher struct {
	notifiers map[Channel]Notifier
	retry     *retry.Policy
}

// NewDispatcher registers the given notifiers. Outbound sends for every
// channel except console go through r.
func NewDispatcher(r *retry.Policy, ns ...Notifier) *Dispatcher {
	d := &Dispatcher{notifiers: make(map[Channel]Notifier), retry: r}
	for _, n := range ns {
		d.Register(n)
	}
	return d
}

// Register adds or replaces the notifier for its channel.
func (d *Dispatcher) Register(n Notifier) {
	d.notifiers[n.Channel()] = n
}

// Notify reports whether the message was delivered on channel.
func (d *Dispatcher) Notify(ctx context.Context, documentURL, topic, channel string) bool {
	ch, err := ParseChannel(channel)
	if err != nil {
		slog.Warn("notify: unsupported channel", "channel", channel)
		return false
	}
	n, ok := d.notifiers[ch]
	if !ok {
		slog.Warn("notify: channel not registered", "channel", ch)
		return false
	}
	msg := Message{Topic: topic, URL: documentURL}
	send := func(ctx context.Context) error { return n.Send(ctx, msg) }
	if ch == ChannelConsole {
		err = send(ctx)
	} else {
		err = d.retry.Do(ctx, "notify:"+string(ch), send)
	}
	switch {
	case errors.Is(err, ErrNotConfigured):
		slog.Warn("notify: channel not configured, notification skipped", "channel", ch, "err", err)
		return false
	case err != nil:
		slog.Error("notify: delivery failed", "channel", ch, "err", err)
		return false
	}
	slog.Info("notify: notification sent", "channel", ch, "topic", topic)
	return true
}
