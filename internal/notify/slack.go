package notify

import (
	"fmt"
	"sort"

	"github.com/slack-go/slack"
)

// SlackNotifier posts alerts to a Slack channel.
type SlackNotifier struct {
	client  *slack.Client
	channel string
}

func NewSlackNotifier(token, channel string) *SlackNotifier {
	return &SlackNotifier{client: slack.New(token), channel: channel}
}

func (n *SlackNotifier) Alert(title string, fields map[string]string) error {
	attachment := slack.Attachment{
		Title: title,
		Color: "danger",
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		attachment.Fields = append(attachment.Fields, slack.AttachmentField{
			Title: k,
			Value: fields[k],
			Short: true,
		})
	}

	_, _, err := n.client.PostMessage(n.channel, slack.MsgOptionAttachments(attachment))
	if err != nil {
		return fmt.Errorf("failed to post alert to %s: %w", n.channel, err)
	}
	return nil
}
