package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/cropai/cropai/pkg/domain/model"
	"github.com/cropai/cropai/pkg/domain/model/auth"
	"github.com/cropai/cropai/pkg/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
)

type diagnosisPayload struct {
	Issue           string   `json:"issue"`
	Recommendations []string `json:"recommendations"`
}

type diagnosisResponse struct {
	ID              string           `json:"id"`
	OwnerID         string           `json:"ownerId"`
	FieldID         string           `json:"fieldId,omitempty"`
	ImageRef        string           `json:"imageRef,omitempty"`
	ModelVersion    string           `json:"modelVersion"`
	Diagnosis       diagnosisPayload `json:"diagnosis"`
	Notes           string           `json:"notes,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	Feedback        string           `json:"feedback,omitempty"`
	FeedbackComment string           `json:"feedbackComment,omitempty"`
	FeedbackAt      *time.Time       `json:"feedbackAt,omitempty"`
}

type embeddingResponse struct {
	Kind         string    `json:"kind"`
	Values       []float64 `json:"values"`
	VocabularyID string    `json:"vocabularyId,omitempty"`
}

type savedDiagnosisResponse struct {
	diagnosisResponse
	Embedding embeddingResponse `json:"embedding"`
}

type similarDiagnosisResponse struct {
	diagnosisResponse
	Similarity float64 `json:"similarity"`
}

func toDiagnosisResponse(r *model.DiagnosisRecord) diagnosisResponse {
	recs := r.Diagnosis.Recommendations
	if recs == nil {
		recs = []string{}
	}
	return diagnosisResponse{
		ID:              r.ID.String(),
		OwnerID:         r.OwnerID,
		FieldID:         r.FieldID,
		ImageRef:        r.ImageRef,
		ModelVersion:    r.ModelVersion,
		Diagnosis:       diagnosisPayload{Issue: r.Diagnosis.Issue, Recommendations: recs},
		Notes:           r.Notes,
		CreatedAt:       r.CreatedAt,
		Feedback:        r.Feedback.String(),
		FeedbackComment: r.FeedbackComment,
		FeedbackAt:      r.FeedbackAt,
	}
}

func toSavedResponse(saved *usecase.SavedDiagnosis) savedDiagnosisResponse {
	values := saved.Embedding.Values
	if values == nil {
		values = []float64{}
	}
	return savedDiagnosisResponse{
		diagnosisResponse: toDiagnosisResponse(saved.Record),
		Embedding: embeddingResponse{
			Kind:         string(saved.Embedding.Kind),
			Values:       values,
			VocabularyID: saved.Embedding.VocabularyID,
		},
	}
}

func toSimilarResponses(similar []*usecase.SimilarDiagnosis) []similarDiagnosisResponse {
	resp := make([]similarDiagnosisResponse, len(similar))
	for i, s := range similar {
		resp[i] = similarDiagnosisResponse{
			diagnosisResponse: toDiagnosisResponse(s.Record),
			Similarity:        s.Similarity,
		}
	}
	return resp
}

// ownerFor returns the authenticated user ID when present, otherwise the
// owner supplied by the client.
func ownerFor(r *http.Request, requested string) string {
	if user := auth.UserFromContext(r.Context()); user != nil {
		return user.ID
	}
	return requested
}

// canAccess reports whether the caller may read or modify the record. Anonymous
// callers are only possible when authentication is disabled.
func canAccess(r *http.Request, record *model.DiagnosisRecord) bool {
	user := auth.UserFromContext(r.Context())
	return user == nil || user.ID == record.OwnerID
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return goerr.Wrap(usecase.ErrInvalidInput, "invalid request body", goerr.V("cause", err.Error()))
	}
	return nil
}

type saveDiagnosisRequest struct {
	OwnerID      string           `json:"ownerId"`
	FieldID      string           `json:"fieldId"`
	ImageRef     string           `json:"imageRef"`
	ModelVersion string           `json:"modelVersion"`
	Diagnosis    diagnosisPayload `json:"diagnosis"`
	Notes        string           `json:"notes"`
}

func saveDiagnosisHandler(uc *usecase.DiagnosisUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req saveDiagnosisRequest
		if err := decodeJSON(r, &req); err != nil {
			handleError(w, r, err)
			return
		}

		saved, err := uc.Save(r.Context(), usecase.SaveDiagnosisInput{
			OwnerID:      ownerFor(r, req.OwnerID),
			FieldID:      req.FieldID,
			ImageRef:     req.ImageRef,
			ModelVersion: req.ModelVersion,
			Diagnosis: model.DiagnosisPayload{
				Issue:           req.Diagnosis.Issue,
				Recommendations: req.Diagnosis.Recommendations,
			},
			Notes: req.Notes,
		})
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusCreated, toSavedResponse(saved))
	}
}

func getDiagnosisHandler(uc *usecase.DiagnosisUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := model.DiagnosisID(chi.URLParam(r, "id"))

		record, err := uc.Get(r.Context(), id)
		if err != nil {
			handleError(w, r, err)
			return
		}
		if !canAccess(r, record) {
			handleError(w, r, goerr.Wrap(usecase.ErrDiagnosisNotFound, "diagnosis belongs to another user",
				goerr.V(usecase.DiagnosisIDKey, id)))
			return
		}

		writeJSON(w, r, http.StatusOK, toDiagnosisResponse(record))
	}
}

func listDiagnosesHandler(uc *usecase.DiagnosisUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		limit := 0
		if raw := query.Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				handleError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "limit must be an integer", goerr.V("limit", raw)))
				return
			}
			limit = n
		}

		var records []*model.DiagnosisRecord
		var err error
		if fieldID := query.Get("field"); fieldID != "" {
			records, err = uc.ListByField(r.Context(), fieldID, limit)
			if err == nil && auth.UserFromContext(r.Context()) != nil {
				records = filterAccessible(r, records)
			}
		} else {
			records, err = uc.ListByOwner(r.Context(), ownerFor(r, query.Get("owner")), limit)
		}
		if err != nil {
			handleError(w, r, err)
			return
		}

		resp := make([]diagnosisResponse, len(records))
		for i, record := range records {
			resp[i] = toDiagnosisResponse(record)
		}
		writeJSON(w, r, http.StatusOK, map[string]any{"diagnoses": resp})
	}
}

func filterAccessible(r *http.Request, records []*model.DiagnosisRecord) []*model.DiagnosisRecord {
	filtered := make([]*model.DiagnosisRecord, 0, len(records))
	for _, record := range records {
		if canAccess(r, record) {
			filtered = append(filtered, record)
		}
	}
	return filtered
}

type findSimilarRequest struct {
	QueryText string `json:"queryText"`
	OwnerID   string `json:"ownerId"`
	Limit     int    `json:"limit"`
}

func findSimilarHandler(uc *usecase.DiagnosisUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req findSimilarRequest
		if err := decodeJSON(r, &req); err != nil {
			handleError(w, r, err)
			return
		}

		similar, err := uc.FindSimilar(r.Context(), req.QueryText, ownerFor(r, req.OwnerID), req.Limit)
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, map[string]any{"similar": toSimilarResponses(similar)})
	}
}

type feedbackRequest struct {
	IsPositive *bool  `json:"isPositive"`
	Comment    string `json:"comment"`
}

func feedbackHandler(uc *usecase.DiagnosisUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := model.DiagnosisID(chi.URLParam(r, "id"))

		var req feedbackRequest
		if err := decodeJSON(r, &req); err != nil {
			handleError(w, r, err)
			return
		}
		if req.IsPositive == nil {
			handleError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "isPositive is required"))
			return
		}

		if user := auth.UserFromContext(r.Context()); user != nil {
			record, err := uc.Get(r.Context(), id)
			if err != nil {
				handleError(w, r, err)
				return
			}
			if !canAccess(r, record) {
				handleError(w, r, goerr.Wrap(usecase.ErrDiagnosisNotFound, "diagnosis belongs to another user",
					goerr.V(usecase.DiagnosisIDKey, id)))
				return
			}
		}

		record, err := uc.RecordFeedback(r.Context(), id, *req.IsPositive, req.Comment)
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, toDiagnosisResponse(record))
	}
}

type diagnoseRequest struct {
	OwnerID     string `json:"ownerId"`
	FieldID     string `json:"fieldId"`
	ImageRef    string `json:"imageRef"`
	CropType    string `json:"cropType"`
	GrowthStage string `json:"growthStage"`
	SoilType    string `json:"soilType"`
	Location    string `json:"location"`
	Notes       string `json:"notes"`
}

type analysisIssueResponse struct {
	Issue              string   `json:"issue"`
	Confidence         float64  `json:"confidence"`
	Description        string   `json:"description"`
	Causes             []string `json:"causes"`
	Recommendations    []string `json:"recommendations"`
	PreventiveMeasures []string `json:"preventiveMeasures"`
}

type diagnoseResponse struct {
	Issues     []analysisIssueResponse    `json:"issues"`
	Summary    string                     `json:"summary"`
	Confidence float64                    `json:"confidence"`
	IsMock     bool                       `json:"isMock"`
	Saved      *savedDiagnosisResponse    `json:"saved,omitempty"`
	Similar    []similarDiagnosisResponse `json:"similar"`
}

func diagnoseHandler(uc *usecase.DiagnoseUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req diagnoseRequest
		if err := decodeJSON(r, &req); err != nil {
			handleError(w, r, err)
			return
		}

		result, err := uc.Diagnose(r.Context(), usecase.DiagnoseInput{
			OwnerID:  ownerFor(r, req.OwnerID),
			FieldID:  req.FieldID,
			ImageRef: req.ImageRef,
			Conditions: model.CropConditions{
				CropType:    req.CropType,
				GrowthStage: req.GrowthStage,
				SoilType:    req.SoilType,
				Location:    req.Location,
				Notes:       req.Notes,
			},
		})
		if err != nil {
			handleError(w, r, err)
			return
		}

		resp := diagnoseResponse{
			Issues:     make([]analysisIssueResponse, len(result.Analysis.Issues)),
			Summary:    result.Analysis.Summary,
			Confidence: result.Analysis.Confidence,
			IsMock:     result.Analysis.IsMock,
			Similar:    toSimilarResponses(result.Similar),
		}
		for i, issue := range result.Analysis.Issues {
			resp.Issues[i] = analysisIssueResponse{
				Issue:              issue.Issue,
				Confidence:         issue.Confidence,
				Description:        issue.Description,
				Causes:             issue.Causes,
				Recommendations:    issue.Recommendations,
				PreventiveMeasures: issue.PreventiveMeasures,
			}
		}
		if result.Saved != nil {
			saved := toSavedResponse(result.Saved)
			resp.Saved = &saved
		}

		writeJSON(w, r, http.StatusOK, resp)
	}
}
