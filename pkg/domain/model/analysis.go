package model

// CropConditions is what the grower reports alongside a diagnosis request
type CropConditions struct {
	CropType    string
	GrowthStage string
	SoilType    string
	Location    string
	Notes       string
}

// AnalysisIssue is one suspected problem returned by crop analysis
type AnalysisIssue struct {
	Issue              string
	Confidence         float64
	Description        string
	Causes             []string
	Recommendations    []string
	PreventiveMeasures []string
}

// Analysis is the result of analysing crop conditions
type Analysis struct {
	Issues     []AnalysisIssue
	Summary    string
	Confidence float64
	IsMock     bool // true when produced without an LLM
}

// Primary returns the issue with the highest confidence, or nil if there is none.
// The first issue wins ties.
func (a *Analysis) Primary() *AnalysisIssue {
	if a == nil || len(a.Issues) == 0 {
		return nil
	}
	best := &a.Issues[0]
	for i := 1; i < len(a.Issues); i++ {
		if a.Issues[i].Confidence > best.Confidence {
			best = &a.Issues[i]
		}
	}
	return best
}

// Payload converts the issue into the stored diagnosis payload
func (i *AnalysisIssue) Payload() DiagnosisPayload {
	recs := make([]string, len(i.Recommendations))
	copy(recs, i.Recommendations)
	return DiagnosisPayload{
		Issue:           i.Issue,
		Recommendations: recs,
	}
}
