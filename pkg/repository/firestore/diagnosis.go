package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/cropai/cropai/pkg/domain/model"
	"github.com/cropai/cropai/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	DiagnosisCollection = "diagnoses"
	VectorCollection    = "diagnosis_vectors"
)

// CollectionName returns name with the optional prefix applied
func CollectionName(prefix, name string) string {
	if prefix != "" {
		return prefix + "_" + name
	}
	return name
}

type diagnosisDocument struct {
	ID              string
	OwnerID         string
	FieldID         string
	ImageRef        string
	ModelVersion    string
	Issue           string
	Recommendations []string
	Notes           string
	CreatedAt       time.Time
	Feedback        string
	FeedbackComment string
	FeedbackAt      *time.Time
}

type embeddingDocument struct {
	Kind         string
	Values       []float64
	VocabularyID string
}

type vectorDocument struct {
	ID         string
	OwnerID    string
	Embedding  embeddingDocument
	SourceText string
	CreatedAt  time.Time
}

type diagnosisRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newDiagnosisRepository(client *firestore.Client) *diagnosisRepository {
	return &diagnosisRepository{
		client: client,
	}
}

func (r *diagnosisRepository) diagnoses() *firestore.CollectionRef {
	return r.client.Collection(CollectionName(r.collectionPrefix, DiagnosisCollection))
}

func (r *diagnosisRepository) vectors() *firestore.CollectionRef {
	return r.client.Collection(CollectionName(r.collectionPrefix, VectorCollection))
}

func diagnosisToDocument(record *model.DiagnosisRecord) *diagnosisDocument {
	return &diagnosisDocument{
		ID:              string(record.ID),
		OwnerID:         record.OwnerID,
		FieldID:         record.FieldID,
		ImageRef:        record.ImageRef,
		ModelVersion:    record.ModelVersion,
		Issue:           record.Diagnosis.Issue,
		Recommendations: append([]string{}, record.Diagnosis.Recommendations...),
		Notes:           record.Notes,
		CreatedAt:       record.CreatedAt,
		Feedback:        string(record.Feedback),
		FeedbackComment: record.FeedbackComment,
		FeedbackAt:      record.FeedbackAt,
	}
}

func diagnosisToModel(doc *diagnosisDocument) *model.DiagnosisRecord {
	return &model.DiagnosisRecord{
		ID:           model.DiagnosisID(doc.ID),
		OwnerID:      doc.OwnerID,
		FieldID:      doc.FieldID,
		ImageRef:     doc.ImageRef,
		ModelVersion: doc.ModelVersion,
		Diagnosis: model.DiagnosisPayload{
			Issue:           doc.Issue,
			Recommendations: doc.Recommendations,
		},
		Notes:           doc.Notes,
		CreatedAt:       doc.CreatedAt,
		Feedback:        types.Feedback(doc.Feedback),
		FeedbackComment: doc.FeedbackComment,
		FeedbackAt:      doc.FeedbackAt,
	}
}

func embeddingToDocument(e model.Embedding) embeddingDocument {
	return embeddingDocument{
		Kind:         string(e.Kind),
		Values:       append([]float64{}, e.Values...),
		VocabularyID: e.VocabularyID,
	}
}

func vectorToDocument(v *model.VectorEntry) *vectorDocument {
	return &vectorDocument{
		ID:         string(v.ID),
		OwnerID:    v.OwnerID,
		Embedding:  embeddingToDocument(v.Embedding),
		SourceText: v.SourceText,
		CreatedAt:  v.CreatedAt,
	}
}

func vectorToModel(doc *vectorDocument) *model.VectorEntry {
	return &model.VectorEntry{
		ID:      model.DiagnosisID(doc.ID),
		OwnerID: doc.OwnerID,
		Embedding: model.Embedding{
			Kind:         model.EmbeddingKind(doc.Embedding.Kind),
			Values:       doc.Embedding.Values,
			VocabularyID: doc.Embedding.VocabularyID,
		},
		SourceText: doc.SourceText,
		CreatedAt:  doc.CreatedAt,
	}
}

func (r *diagnosisRepository) Create(ctx context.Context, record *model.DiagnosisRecord, vector *model.VectorEntry) (*model.DiagnosisRecord, error) {
	if record == nil || vector == nil {
		return nil, goerr.New("record and vector are required")
	}
	if record.ID == "" || record.ID != vector.ID {
		return nil, goerr.New("record and vector must share a non-empty ID",
			goerr.V("record_id", record.ID), goerr.V("vector_id", vector.ID))
	}

	doc := diagnosisToDocument(record)
	vecDoc := vectorToDocument(vector)

	recordRef := r.diagnoses().Doc(doc.ID)
	vectorRef := r.vectors().Doc(vecDoc.ID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := tx.Create(recordRef, doc); err != nil {
			return err
		}
		return tx.Create(vectorRef, vecDoc)
	})
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil, goerr.Wrap(ErrAlreadyExists, "diagnosis already exists", goerr.V("id", record.ID))
		}
		return nil, goerr.Wrap(err, "failed to create diagnosis", goerr.V("id", record.ID))
	}

	return diagnosisToModel(doc), nil
}

func (r *diagnosisRepository) Get(ctx context.Context, id model.DiagnosisID) (*model.DiagnosisRecord, error) {
	snap, err := r.diagnoses().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "diagnosis not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get diagnosis", goerr.V("id", id))
	}

	var doc diagnosisDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal diagnosis", goerr.V("id", id))
	}

	return diagnosisToModel(&doc), nil
}

func (r *diagnosisRepository) Update(ctx context.Context, record *model.DiagnosisRecord) (*model.DiagnosisRecord, error) {
	docRef := r.diagnoses().Doc(string(record.ID))
	doc := diagnosisToDocument(record)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(docRef); err != nil {
			return err
		}
		return tx.Set(docRef, doc)
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "diagnosis not found", goerr.V("id", record.ID))
		}
		return nil, goerr.Wrap(err, "failed to update diagnosis", goerr.V("id", record.ID))
	}

	return diagnosisToModel(doc), nil
}

func (r *diagnosisRepository) List(ctx context.Context) ([]*model.DiagnosisRecord, error) {
	return r.queryDiagnoses(ctx, r.diagnoses().OrderBy("CreatedAt", firestore.Asc))
}

func (r *diagnosisRepository) ListByOwner(ctx context.Context, ownerID string, limit int) ([]*model.DiagnosisRecord, error) {
	q := r.diagnoses().Where("OwnerID", "==", ownerID).OrderBy("CreatedAt", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}
	return r.queryDiagnoses(ctx, q)
}

func (r *diagnosisRepository) ListByField(ctx context.Context, fieldID string, limit int) ([]*model.DiagnosisRecord, error) {
	q := r.diagnoses().Where("FieldID", "==", fieldID).OrderBy("CreatedAt", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}
	return r.queryDiagnoses(ctx, q)
}

func (r *diagnosisRepository) queryDiagnoses(ctx context.Context, q firestore.Query) ([]*model.DiagnosisRecord, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var records []*model.DiagnosisRecord
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate diagnoses")
		}

		var doc diagnosisDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal diagnosis", goerr.V("id", snap.Ref.ID))
		}
		records = append(records, diagnosisToModel(&doc))
	}

	return records, nil
}

func (r *diagnosisRepository) ListVectors(ctx context.Context) ([]*model.VectorEntry, error) {
	return r.queryVectors(ctx, r.vectors().OrderBy("CreatedAt", firestore.Asc))
}

func (r *diagnosisRepository) ListVectorsByOwner(ctx context.Context, ownerID string) ([]*model.VectorEntry, error) {
	return r.queryVectors(ctx, r.vectors().Where("OwnerID", "==", ownerID).OrderBy("CreatedAt", firestore.Asc))
}

func (r *diagnosisRepository) queryVectors(ctx context.Context, q firestore.Query) ([]*model.VectorEntry, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var vectors []*model.VectorEntry
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate diagnosis vectors")
		}

		var doc vectorDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal diagnosis vector", goerr.V("id", snap.Ref.ID))
		}
		vectors = append(vectors, vectorToModel(&doc))
	}

	return vectors, nil
}

// PutVectors overwrites embeddings with a BulkWriter. Update fails for missing
// documents, so unknown IDs surface as ErrNotFound.
func (r *diagnosisRepository) PutVectors(ctx context.Context, vectors []*model.VectorEntry) error {
	if len(vectors) == 0 {
		return nil
	}

	bulkWriter := r.client.BulkWriter(ctx)

	jobs := make([]*firestore.BulkWriterJob, 0, len(vectors))
	for _, v := range vectors {
		docRef := r.vectors().Doc(string(v.ID))
		job, err := bulkWriter.Update(docRef, []firestore.Update{
			{Path: "Embedding", Value: embeddingToDocument(v.Embedding)},
			{Path: "SourceText", Value: v.SourceText},
		})
		if err != nil {
			bulkWriter.End()
			return goerr.Wrap(err, "failed to add Update operation to bulk writer", goerr.V("id", v.ID))
		}
		jobs = append(jobs, job)
	}

	bulkWriter.End()

	for i, job := range jobs {
		if _, err := job.Results(); err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(ErrNotFound, "vector entry not found", goerr.V("id", vectors[i].ID))
			}
			return goerr.Wrap(err, "failed to update vector entry", goerr.V("id", vectors[i].ID))
		}
	}

	return nil
}
