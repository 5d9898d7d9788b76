package config

import (
	"log/slog"

	"github.com/cropai/cropai/pkg/service/slack"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Slack holds configuration for negative-feedback notifications
type Slack struct {
	botToken  string
	channelID string
	apiURL    string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token (for feedback notifications)",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("CROPAI_SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-channel-id",
			Usage:       "Slack channel ID receiving negative feedback",
			Category:    "Slack",
			Destination: &x.channelID,
			Sources:     cli.EnvVars("CROPAI_SLACK_CHANNEL_ID"),
		},
		&cli.StringFlag{
			Name:        "slack-api-url",
			Usage:       "Override the Slack API base URL",
			Category:    "Slack",
			Destination: &x.apiURL,
			Sources:     cli.EnvVars("CROPAI_SLACK_API_URL"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
		slog.String("channel-id", x.channelID),
	)
}

// IsConfigured checks if Slack notifications can be sent
func (x *Slack) IsConfigured() bool {
	return x.botToken != "" && x.channelID != ""
}

// ChannelID returns the notification channel
func (x *Slack) ChannelID() string {
	return x.channelID
}

// Configure creates the Slack service. Returns nil when notifications are not configured.
func (x *Slack) Configure() (slack.Service, error) {
	if x.botToken == "" && x.channelID == "" {
		return nil, nil
	}
	if !x.IsConfigured() {
		return nil, goerr.Wrap(ErrInvalidConfig, "both --slack-bot-token and --slack-channel-id are required")
	}

	var opts []slack.Option
	if x.apiURL != "" {
		opts = append(opts, slack.WithAPIURL(x.apiURL))
	}

	svc, err := slack.New(x.botToken, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create slack service")
	}
	return svc, nil
}
