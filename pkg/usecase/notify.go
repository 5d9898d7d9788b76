package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/cropai/cropai/pkg/domain/model"
	"github.com/cropai/cropai/pkg/service/slack"
	"github.com/cropai/cropai/pkg/utils/async"
	"github.com/m-mizutani/goerr/v2"
	goslack "github.com/slack-go/slack"
)

// notifyNegativeFeedback posts to Slack in the background. Failures are logged
// and never affect the feedback request.
func (uc *DiagnosisUseCase) notifyNegativeFeedback(ctx context.Context, record *model.DiagnosisRecord) {
	if uc.slackService == nil || uc.slackChannelID == "" {
		return
	}

	blocks := buildFeedbackBlocks(record)
	fallbackText := fmt.Sprintf("Diagnosis marked as wrong: %s", record.Diagnosis.Issue)

	svc := uc.slackService
	channelID := uc.slackChannelID
	async.Dispatch(ctx, "notify_negative_feedback", func(ctx context.Context) error {
		if _, err := svc.PostMessage(ctx, channelID, blocks, fallbackText); err != nil {
			return goerr.Wrap(err, "failed to post negative feedback to Slack",
				goerr.V(DiagnosisIDKey, record.ID), goerr.V("channel_id", channelID))
		}
		return nil
	})
}

// buildFeedbackBlocks constructs Block Kit blocks for a negative feedback notification
func buildFeedbackBlocks(record *model.DiagnosisRecord) []goslack.Block {
	blocks := []goslack.Block{
		goslack.NewHeaderBlock(
			goslack.NewTextBlockObject(goslack.PlainTextType, ":warning: Diagnosis marked as wrong", true, false),
		),
		slack.SectionText(fmt.Sprintf("*%s*", record.Diagnosis.Issue)),
	}

	if record.FeedbackComment != "" {
		blocks = append(blocks, slack.SectionText("> "+record.FeedbackComment))
	}

	contextParts := []string{
		fmt.Sprintf("Owner: %s", record.OwnerID),
		fmt.Sprintf("ID: `%s`", record.ID),
	}
	if record.FieldID != "" {
		contextParts = append(contextParts, fmt.Sprintf("Field: %s", record.FieldID))
	}
	contextParts = append(contextParts, fmt.Sprintf("Model: %s", record.ModelVersion))

	blocks = append(blocks, goslack.NewContextBlock("",
		goslack.NewTextBlockObject(goslack.MarkdownType, strings.Join(contextParts, "  |  "), false, false),
	))

	return blocks
}
