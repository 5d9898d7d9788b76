package types_test

import (
	"testing"

	"github.com/cropai/cropai/pkg/domain/types"
)

func TestFeedback_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		feedback types.Feedback
		want     bool
	}{
		{
			name:     "valid positive",
			feedback: types.FeedbackPositive,
			want:     true,
		},
		{
			name:     "valid negative",
			feedback: types.FeedbackNegative,
			want:     true,
		},
		{
			name:     "invalid feedback",
			feedback: types.Feedback("neutral"),
			want:     false,
		},
		{
			name:     "empty feedback",
			feedback: types.Feedback(""),
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.feedback.IsValid(); got != tt.want {
				t.Errorf("Feedback.IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseFeedback(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    types.Feedback
		wantErr bool
	}{
		{
			name:  "positive",
			input: "positive",
			want:  types.FeedbackPositive,
		},
		{
			name:  "negative",
			input: "negative",
			want:  types.FeedbackNegative,
		},
		{
			name:    "invalid",
			input:   "meh",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := types.ParseFeedback(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseFeedback() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ParseFeedback() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFeedbackFromBool(t *testing.T) {
	if got := types.FeedbackFromBool(true); got != types.FeedbackPositive {
		t.Errorf("FeedbackFromBool(true) = %v, want %v", got, types.FeedbackPositive)
	}
	if got := types.FeedbackFromBool(false); got != types.FeedbackNegative {
		t.Errorf("FeedbackFromBool(false) = %v, want %v", got, types.FeedbackNegative)
	}
}

func TestAllFeedbacks(t *testing.T) {
	feedbacks := types.AllFeedbacks()
	if len(feedbacks) != 2 {
		t.Errorf("AllFeedbacks() returned %d values, want 2", len(feedbacks))
	}
	for _, f := range feedbacks {
		if !f.IsValid() {
			t.Errorf("AllFeedbacks() returned invalid value: %v", f)
		}
	}
}
