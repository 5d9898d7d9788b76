package usecase

import (
	"context"

	"github.com/cropai/cropai/pkg/domain/model"
	"github.com/cropai/cropai/pkg/service/analysis"
	"github.com/m-mizutani/goerr/v2"
)

// DiagnoseUseCase analyses crop conditions, saves the most likely issue and
// looks up similar past cases.
type DiagnoseUseCase struct {
	diagnosis *DiagnosisUseCase
	analysis  analysis.Service
}

func NewDiagnoseUseCase(diagnosis *DiagnosisUseCase, svc analysis.Service) *DiagnoseUseCase {
	return &DiagnoseUseCase{
		diagnosis: diagnosis,
		analysis:  svc,
	}
}

// DiagnoseInput is a diagnosis request from a grower
type DiagnoseInput struct {
	OwnerID    string
	FieldID    string
	ImageRef   string
	Conditions model.CropConditions
}

// DiagnoseResult holds the analysis, the saved primary issue and similar cases.
// Saved is nil when the analysis found no issue.
type DiagnoseResult struct {
	Analysis *model.Analysis
	Saved    *SavedDiagnosis
	Similar  []*SimilarDiagnosis
}

func (uc *DiagnoseUseCase) Diagnose(ctx context.Context, input DiagnoseInput) (*DiagnoseResult, error) {
	if input.OwnerID == "" {
		return nil, goerr.Wrap(ErrInvalidInput, "owner ID is required")
	}
	if input.Conditions.CropType == "" {
		return nil, goerr.Wrap(ErrInvalidInput, "crop type is required", goerr.V(OwnerIDKey, input.OwnerID))
	}

	result, err := uc.analysis.Analyze(ctx, input.Conditions, input.ImageRef)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to analyze crop", goerr.V(OwnerIDKey, input.OwnerID))
	}

	primary := result.Primary()
	if primary == nil {
		return &DiagnoseResult{Analysis: result, Similar: []*SimilarDiagnosis{}}, nil
	}

	saved, err := uc.diagnosis.Save(ctx, SaveDiagnosisInput{
		OwnerID:   input.OwnerID,
		FieldID:   input.FieldID,
		ImageRef:  input.ImageRef,
		Diagnosis: primary.Payload(),
		Notes:     input.Conditions.Notes,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to save diagnosis", goerr.V(OwnerIDKey, input.OwnerID))
	}

	// One extra slot because the record just saved matches itself best
	similar, err := uc.diagnosis.FindSimilar(ctx, saved.Record.SearchText(), input.OwnerID, DiagnoseSimilarLimit+1)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to find similar diagnoses", goerr.V(DiagnosisIDKey, saved.Record.ID))
	}

	others := make([]*SimilarDiagnosis, 0, DiagnoseSimilarLimit)
	for _, s := range similar {
		if s.Record.ID == saved.Record.ID {
			continue
		}
		if len(others) == DiagnoseSimilarLimit {
			break
		}
		others = append(others, s)
	}

	return &DiagnoseResult{
		Analysis: result,
		Saved:    saved,
		Similar:  others,
	}, nil
}
