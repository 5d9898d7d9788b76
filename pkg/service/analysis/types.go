package analysis

import (
	"context"

	"github.com/cropai/cropai/pkg/domain/model"
)

// Service analyses reported crop conditions and returns suspected issues
type Service interface {
	// Analyze returns the suspected issues for the crop. imageRef may be empty.
	Analyze(ctx context.Context, conditions model.CropConditions, imageRef string) (*model.Analysis, error)
}

// llmResponse is the structured output from the LLM
type llmResponse struct {
	Diagnosis  []llmIssue `json:"diagnosis"`
	Summary    string     `json:"summary"`
	Confidence float64    `json:"confidence"`
}

type llmIssue struct {
	Issue              string   `json:"issue"`
	Confidence         float64  `json:"confidence"`
	Description        string   `json:"description"`
	Causes             []string `json:"causes"`
	Recommendations    []string `json:"recommendations"`
	PreventiveMeasures []string `json:"preventiveMeasures"`
}

func (r *llmResponse) toModel() *model.Analysis {
	issues := make([]model.AnalysisIssue, 0, len(r.Diagnosis))
	for _, d := range r.Diagnosis {
		issues = append(issues, model.AnalysisIssue{
			Issue:              d.Issue,
			Confidence:         d.Confidence,
			Description:        d.Description,
			Causes:             d.Causes,
			Recommendations:    d.Recommendations,
			PreventiveMeasures: d.PreventiveMeasures,
		})
	}

	return &model.Analysis{
		Issues:     issues,
		Summary:    r.Summary,
		Confidence: r.Confidence,
	}
}
