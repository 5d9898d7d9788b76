package types

import "fmt"

// Feedback is the user's verdict on a saved diagnosis
type Feedback string

const (
	FeedbackPositive Feedback = "positive"
	FeedbackNegative Feedback = "negative"
)

// AllFeedbacks returns all valid feedback values
func AllFeedbacks() []Feedback {
	return []Feedback{
		FeedbackPositive,
		FeedbackNegative,
	}
}

// FeedbackFromBool maps the thumbs-up/down flag sent by the feedback UI
func FeedbackFromBool(isPositive bool) Feedback {
	if isPositive {
		return FeedbackPositive
	}
	return FeedbackNegative
}

// IsValid checks if the feedback is valid
func (f Feedback) IsValid() bool {
	switch f {
	case FeedbackPositive, FeedbackNegative:
		return true
	default:
		return false
	}
}

// String returns the string representation of the feedback
func (f Feedback) String() string {
	return string(f)
}

// ParseFeedback parses a string into a Feedback
func ParseFeedback(s string) (Feedback, error) {
	f := Feedback(s)
	if !f.IsValid() {
		return "", fmt.Errorf("invalid feedback: %s", s)
	}
	return f, nil
}
