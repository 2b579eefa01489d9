package server

import (
	"context"
	"log"

	"github.com/slack-go/slack"
)

// Notifier posts refresh completion notices to the configured channel.
// An empty channel disables notices without disabling refreshes.
type Notifier struct {
	client  SlackClient
	channel string
}

// NewNotifier creates a notifier posting to the given channel
func NewNotifier(client SlackClient, channel string) *Notifier {
	return &Notifier{client: client, channel: channel}
}

// Notify posts the text to the channel, best-effort
func (n *Notifier) Notify(ctx context.Context, text string) {
	if n.channel == "" || n.client == nil {
		return
	}
	if _, _, err := n.client.PostMessageContext(ctx, n.channel, slack.MsgOptionText(text, false)); err != nil {
		log.Printf("[WARN] failed to post refresh notice: %v", err)
	}
}
