package fwdlog

import (
	"os"
	"sync"
	"time"

	"github.com/kz/discordrus"
	"github.com/sirupsen/logrus"
)

// DiscordWebhookEnv is the environment variable holding the discord webhook URL.
const DiscordWebhookEnv = "DISCORD_WEBHOOK_URL"

// DiscordHook forwards error entries to a discord webhook. Entries repeating a message are
// suppressed within the limit, whichever session logged them.
type DiscordHook struct {
	parent logrus.Hook
	limit  time.Duration

	mx   sync.Mutex
	last map[string]time.Time
}

// DiscordOption configures a DiscordHook.
type DiscordOption func(*DiscordHook)

// WithLimit enables rate limiting of repeated entries. Zero disables it.
func WithLimit(limit time.Duration) DiscordOption {
	return func(h *DiscordHook) {
		h.limit = limit
	}
}

// NewDiscordHook returns a new DiscordHook.
func NewDiscordHook(tag, webhookURL string, opts ...DiscordOption) *DiscordHook {
	h := &DiscordHook{
		parent: discordrus.NewHook(webhookURL, logrus.ErrorLevel, &discordrus.Opts{
			Username:        tag,
			TimestampFormat: time.RFC3339,
			TimestampLocale: time.UTC,
		}),
		last: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Levels implements logrus.Hook.
func (h *DiscordHook) Levels() []logrus.Level {
	return h.parent.Levels()
}

// Fire implements logrus.Hook.
func (h *DiscordHook) Fire(entry *logrus.Entry) error {
	if !h.shouldFire(entry) {
		return nil
	}
	return h.parent.Fire(entry)
}

func (h *DiscordHook) shouldFire(entry *logrus.Entry) bool {
	if h.limit <= 0 {
		return true
	}

	h.mx.Lock()
	defer h.mx.Unlock()

	if t, ok := h.last[entry.Message]; ok && entry.Time.Sub(t) < h.limit {
		return false
	}
	for msg, t := range h.last {
		if entry.Time.Sub(t) >= h.limit {
			delete(h.last, msg)
		}
	}
	h.last[entry.Message] = entry.Time
	return true
}

// DiscordWebhookFromEnv returns the webhook URL configured in the environment, if any.
func DiscordWebhookFromEnv() string {
	return os.Getenv(DiscordWebhookEnv)
}
