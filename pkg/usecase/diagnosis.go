package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cropai/cropai/pkg/domain/interfaces"
	"github.com/cropai/cropai/pkg/domain/model"
	"github.com/cropai/cropai/pkg/domain/types"
	"github.com/cropai/cropai/pkg/service/slack"
	"github.com/cropai/cropai/pkg/service/vectorizer"
	"github.com/cropai/cropai/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"
)

// DiagnosisConfig configures DiagnosisUseCase
type DiagnosisConfig struct {
	FitPolicy      types.FitPolicy
	SearchScope    types.SearchScope
	SimilarLimit   int
	SlackService   slack.Service
	SlackChannelID string
}

// DiagnosisUseCase is the only component that reads and writes diagnosis
// records. It owns the vectorizer state.
type DiagnosisUseCase struct {
	repo           interfaces.Repository
	fitPolicy      types.FitPolicy
	searchScope    types.SearchScope
	similarLimit   int
	slackService   slack.Service
	slackChannelID string
	now            func() time.Time

	// mu serializes state transitions together with the writes they describe
	mu    sync.Mutex
	state *vectorizer.State
}

func NewDiagnosisUseCase(repo interfaces.Repository, cfg DiagnosisConfig) *DiagnosisUseCase {
	if !cfg.FitPolicy.IsValid() {
		cfg.FitPolicy = types.DefaultFitPolicy
	}
	if !cfg.SearchScope.IsValid() {
		cfg.SearchScope = types.SearchScopeOwner
	}
	if cfg.SimilarLimit <= 0 {
		cfg.SimilarLimit = DefaultSimilarLimit
	}

	return &DiagnosisUseCase{
		repo:           repo,
		fitPolicy:      cfg.FitPolicy,
		searchScope:    cfg.SearchScope,
		similarLimit:   cfg.SimilarLimit,
		slackService:   cfg.SlackService,
		slackChannelID: cfg.SlackChannelID,
		now:            func() time.Time { return time.Now().UTC() },
		state:          vectorizer.NewState(),
	}
}

// SaveDiagnosisInput is a diagnosis submitted for storage
type SaveDiagnosisInput struct {
	OwnerID      string
	FieldID      string
	ImageRef     string
	ModelVersion string
	Diagnosis    model.DiagnosisPayload
	Notes        string
}

// SavedDiagnosis is the stored record with the embedding it was indexed under
type SavedDiagnosis struct {
	Record    *model.DiagnosisRecord
	Embedding model.Embedding
}

// SimilarDiagnosis is a past record ranked against a query
type SimilarDiagnosis struct {
	Record     *model.DiagnosisRecord
	Similarity float64
}

func storageFailure(err error, msg string, opts ...goerr.Option) error {
	return goerr.Wrap(errors.Join(ErrStorageFailure, err), msg, opts...)
}

// Save stores a new record and its vector entry. Under the merge policy the
// document is folded into the running vocabulary before it is embedded. Under
// the replace policy it is embedded with the current vocabulary, which is then
// refitted on this document alone.
func (uc *DiagnosisUseCase) Save(ctx context.Context, input SaveDiagnosisInput) (*SavedDiagnosis, error) {
	if input.OwnerID == "" {
		return nil, goerr.Wrap(ErrInvalidInput, "owner ID is required")
	}
	if input.Diagnosis.Issue == "" {
		return nil, goerr.Wrap(ErrInvalidInput, "diagnosis issue is required", goerr.V(OwnerIDKey, input.OwnerID))
	}

	modelVersion := input.ModelVersion
	if modelVersion == "" {
		modelVersion = model.DefaultModelVersion
	}

	record := &model.DiagnosisRecord{
		ID:           model.NewDiagnosisID(),
		OwnerID:      input.OwnerID,
		FieldID:      input.FieldID,
		ImageRef:     input.ImageRef,
		ModelVersion: modelVersion,
		Diagnosis:    input.Diagnosis,
		Notes:        input.Notes,
		CreatedAt:    uc.now(),
	}
	text := record.SearchText()
	doc := []vectorizer.Document{{ID: record.ID.String(), Text: text}}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	// A restarted process has lost its vocabulary. Rebuild it from the stored
	// records so the running union keeps covering them.
	if uc.fitPolicy == types.FitPolicyMerge && !uc.state.IsFitted() {
		if _, err := uc.reindexLocked(ctx); err != nil {
			return nil, err
		}
	}

	var (
		next      *vectorizer.State
		embedding model.Embedding
	)
	switch uc.fitPolicy {
	case types.FitPolicyReplace:
		embedding = uc.state.Embed(text)
		// An unfitted state stays unfitted so the next search fits on every
		// stored record.
		next = uc.state
		if uc.state.IsFitted() {
			next = vectorizer.Fit(doc)
		}
	default:
		next = uc.state.Merge(doc)
		embedding = next.Embed(text)
	}

	vector := &model.VectorEntry{
		ID:         record.ID,
		OwnerID:    record.OwnerID,
		Embedding:  embedding,
		SourceText: text,
		CreatedAt:  record.CreatedAt,
	}

	created, err := uc.repo.Diagnosis().Create(ctx, record, vector)
	if err != nil {
		return nil, storageFailure(err, "failed to store diagnosis", goerr.V(DiagnosisIDKey, record.ID))
	}
	uc.state = next

	logging.From(ctx).Info("diagnosis saved",
		"id", created.ID,
		"owner_id", created.OwnerID,
		"embedding_kind", embedding.Kind,
		"dimension", embedding.Dimension(),
	)

	return &SavedDiagnosis{Record: created, Embedding: embedding.Copy()}, nil
}

// Get returns the record or ErrDiagnosisNotFound
func (uc *DiagnosisUseCase) Get(ctx context.Context, id model.DiagnosisID) (*model.DiagnosisRecord, error) {
	record, err := uc.repo.Diagnosis().Get(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, goerr.Wrap(ErrDiagnosisNotFound, "diagnosis not found", goerr.V(DiagnosisIDKey, id))
		}
		return nil, storageFailure(err, "failed to get diagnosis", goerr.V(DiagnosisIDKey, id))
	}
	return record, nil
}

// ListByOwner returns the owner's records, newest first
func (uc *DiagnosisUseCase) ListByOwner(ctx context.Context, ownerID string, limit int) ([]*model.DiagnosisRecord, error) {
	if ownerID == "" {
		return nil, goerr.Wrap(ErrInvalidInput, "owner ID is required")
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}

	records, err := uc.repo.Diagnosis().ListByOwner(ctx, ownerID, limit)
	if err != nil {
		return nil, storageFailure(err, "failed to list diagnoses by owner", goerr.V(OwnerIDKey, ownerID))
	}
	return records, nil
}

// ListByField returns the field's records, newest first
func (uc *DiagnosisUseCase) ListByField(ctx context.Context, fieldID string, limit int) ([]*model.DiagnosisRecord, error) {
	if fieldID == "" {
		return nil, goerr.Wrap(ErrInvalidInput, "field ID is required")
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}

	records, err := uc.repo.Diagnosis().ListByField(ctx, fieldID, limit)
	if err != nil {
		return nil, storageFailure(err, "failed to list diagnoses by field", goerr.V("field_id", fieldID))
	}
	return records, nil
}

// FindSimilar ranks stored records against queryText. With owner scope and a
// non-empty ownerID only that owner's records are considered.
func (uc *DiagnosisUseCase) FindSimilar(ctx context.Context, queryText, ownerID string, limit int) ([]*SimilarDiagnosis, error) {
	if limit <= 0 {
		limit = uc.similarLimit
	}

	state, err := uc.fittedState(ctx)
	if err != nil {
		return nil, err
	}

	var vectors []*model.VectorEntry
	if uc.searchScope == types.SearchScopeOwner && ownerID != "" {
		vectors, err = uc.repo.Diagnosis().ListVectorsByOwner(ctx, ownerID)
	} else {
		vectors, err = uc.repo.Diagnosis().ListVectors(ctx)
	}
	if err != nil {
		return nil, storageFailure(err, "failed to list diagnosis vectors", goerr.V(OwnerIDKey, ownerID))
	}
	if len(vectors) == 0 {
		return []*SimilarDiagnosis{}, nil
	}

	matches := vectorizer.Rank(state.Embed(queryText), vectors, limit)
	return uc.resolve(ctx, matches)
}

// fittedState returns the current state. A state that was never fitted is
// fitted on every stored record first, and stored vectors are rewritten under
// that vocabulary so they stay comparable with queries.
func (uc *DiagnosisUseCase) fittedState(ctx context.Context) (*vectorizer.State, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.state.IsFitted() {
		return uc.state, nil
	}

	if _, err := uc.reindexLocked(ctx); err != nil {
		return nil, err
	}
	return uc.state, nil
}

// resolve loads the records for ranked matches in parallel, keeping rank order
// and dropping IDs whose record no longer exists.
func (uc *DiagnosisUseCase) resolve(ctx context.Context, matches []vectorizer.Match) ([]*SimilarDiagnosis, error) {
	resolved := make([]*SimilarDiagnosis, len(matches))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, match := range matches {
		eg.Go(func() error {
			record, err := uc.repo.Diagnosis().Get(egCtx, match.ID)
			if err != nil {
				if errors.Is(err, model.ErrNotFound) {
					logging.From(ctx).Warn("ranked diagnosis has no record", "id", match.ID)
					return nil
				}
				return storageFailure(err, "failed to resolve similar diagnosis", goerr.V(DiagnosisIDKey, match.ID))
			}
			resolved[i] = &SimilarDiagnosis{Record: record, Similarity: match.Similarity}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	results := make([]*SimilarDiagnosis, 0, len(resolved))
	for _, r := range resolved {
		if r != nil {
			results = append(results, r)
		}
	}
	return results, nil
}

// RecordFeedback stores the owner's rating. Negative feedback is announced on
// Slack when configured.
func (uc *DiagnosisUseCase) RecordFeedback(ctx context.Context, id model.DiagnosisID, isPositive bool, comment string) (*model.DiagnosisRecord, error) {
	record, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	at := uc.now()
	record.Feedback = types.FeedbackFromBool(isPositive)
	record.FeedbackComment = comment
	record.FeedbackAt = &at

	updated, err := uc.repo.Diagnosis().Update(ctx, record)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, goerr.Wrap(ErrDiagnosisNotFound, "diagnosis not found", goerr.V(DiagnosisIDKey, id))
		}
		return nil, storageFailure(err, "failed to store feedback", goerr.V(DiagnosisIDKey, id))
	}

	if !isPositive {
		uc.notifyNegativeFeedback(ctx, updated)
	}

	return updated, nil
}

// ReindexResult summarises a Reindex run
type ReindexResult struct {
	Documents      int
	VocabularySize int
	VocabularyID   string
}

// Reindex fits a fresh vocabulary on every stored record and rewrites every
// vector entry under it.
func (uc *DiagnosisUseCase) Reindex(ctx context.Context) (*ReindexResult, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	return uc.reindexLocked(ctx)
}

func (uc *DiagnosisUseCase) reindexLocked(ctx context.Context) (*ReindexResult, error) {
	records, err := uc.repo.Diagnosis().List(ctx)
	if err != nil {
		return nil, storageFailure(err, "failed to list diagnoses")
	}
	if len(records) == 0 {
		return &ReindexResult{}, nil
	}

	corpus := make([]vectorizer.Document, len(records))
	for i, record := range records {
		corpus[i] = vectorizer.Document{ID: record.ID.String(), Text: record.SearchText()}
	}
	state := vectorizer.Fit(corpus)

	vectors := make([]*model.VectorEntry, len(records))
	for i, record := range records {
		vectors[i] = &model.VectorEntry{
			ID:         record.ID,
			OwnerID:    record.OwnerID,
			Embedding:  state.Embed(corpus[i].Text),
			SourceText: corpus[i].Text,
			CreatedAt:  record.CreatedAt,
		}
	}

	if err := uc.repo.Diagnosis().PutVectors(ctx, vectors); err != nil {
		return nil, storageFailure(err, "failed to rewrite diagnosis vectors")
	}
	uc.state = state

	logging.From(ctx).Info("diagnosis vectors reindexed",
		"documents", len(records),
		"vocabulary_size", state.Size(),
		"vocabulary_id", state.VocabularyID(),
	)

	return &ReindexResult{
		Documents:      len(records),
		VocabularySize: state.Size(),
		VocabularyID:   state.VocabularyID(),
	}, nil
}
