package Slack

import (
	"fmt"
	"os"

	"Aegis/Models"

	"github.com/slack-go/slack"
)

// Notifier posts a summary message to a Slack channel whenever an
// inspection task is created. It is optional: without SLACK_TOKEN and
// SLACK_CHANNEL in the environment NewFromEnv returns nil, and a nil
// Notifier ignores every call.
type Notifier struct {
	client  *slack.Client
	channel string
}

func NewFromEnv() *Notifier {
	token := os.Getenv("SLACK_TOKEN")
	channel := os.Getenv("SLACK_CHANNEL")
	if token == "" || channel == "" {
		return nil
	}
	return &Notifier{
		client:  slack.New(token),
		channel: channel,
	}
}

// TaskCreated posts one message for a committed task. Errors are
// returned for the caller to log; they never affect the request.
func (n *Notifier) TaskCreated(task Models.Task, part Models.Part) error {
	if n == nil {
		return nil
	}
	text := fmt.Sprintf("New inspection task #%d: %s (%s) at %s",
		task.ID, part.Name, part.SapCode, task.Location)
	if task.Comments != "" {
		text += " - " + task.Comments
	}
	_, _, err := n.client.PostMessage(n.channel, slack.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("slack post failed: %w", err)
	}
	return nil
}
