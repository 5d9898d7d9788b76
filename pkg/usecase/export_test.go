package usecase

import (
	"time"

	"github.com/cropai/cropai/pkg/service/vectorizer"
)

// BuildFeedbackBlocks is exported for testing
var BuildFeedbackBlocks = buildFeedbackBlocks

// SetNow replaces the clock used for timestamps
func SetNow(uc *DiagnosisUseCase, now func() time.Time) {
	uc.now = now
}

// VectorizerState returns the current vectorizer state
func VectorizerState(uc *DiagnosisUseCase) *vectorizer.State {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.state
}
