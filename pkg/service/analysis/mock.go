package analysis

import (
	"context"
	"fmt"

	"github.com/cropai/cropai/pkg/domain/model"
)

type mock struct{}

// NewMock returns a service with a fixed answer, used when no LLM is configured
func NewMock() Service {
	return &mock{}
}

func (m *mock) Analyze(ctx context.Context, conditions model.CropConditions, imageRef string) (*model.Analysis, error) {
	return &model.Analysis{
		Issues: []model.AnalysisIssue{
			{
				Issue:       "Early Blight",
				Confidence:  0.85,
				Description: "Circular brown lesions with concentric rings on leaves, often with a yellow halo.",
				Causes: []string{
					"Fungal infection (Alternaria solani)",
					"Warm, humid conditions",
					"Poor air circulation",
				},
				Recommendations: []string{
					"Apply fungicide containing chlorothalonil or copper-based products",
					"Remove and destroy heavily infected leaves",
					"Ensure proper plant spacing for better air circulation",
				},
				PreventiveMeasures: []string{
					"Rotate crops away from tomatoes and other nightshades for 2-3 years",
					"Water at the base of plants to keep foliage dry",
					"Use disease-resistant varieties in future plantings",
				},
			},
			{
				Issue:       "Nitrogen Deficiency",
				Confidence:  0.75,
				Description: "Older leaves turning yellow while veins remain green (interveinal chlorosis).",
				Causes: []string{
					"Insufficient nitrogen in soil",
					"Poor soil health",
					"Excessive rainfall leaching nutrients",
				},
				Recommendations: []string{
					"Apply a balanced fertilizer (e.g., 10-10-10) at recommended rates",
					"Side-dress with compost or well-rotted manure",
					"Consider using a foliar nitrogen spray for quick absorption",
				},
				PreventiveMeasures: []string{
					"Conduct soil tests before planting season",
					"Use organic matter to improve soil health",
					"Practice crop rotation with nitrogen-fixing plants",
				},
			},
		},
		Summary: fmt.Sprintf("Based on the image and provided information, your %s crop shows signs of Early Blight and possible Nitrogen Deficiency. The conditions in %s may be contributing to these issues.",
			conditions.CropType, conditions.Location),
		Confidence: 0.8,
		IsMock:     true,
	}, nil
}
