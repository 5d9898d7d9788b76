package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/cropai/cropai/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type diagnosisRepository struct {
	mu      sync.RWMutex
	order   []model.DiagnosisID
	records map[model.DiagnosisID]*model.DiagnosisRecord
	vectors map[model.DiagnosisID]*model.VectorEntry
}

func newDiagnosisRepository() *diagnosisRepository {
	return &diagnosisRepository{
		records: make(map[model.DiagnosisID]*model.DiagnosisRecord),
		vectors: make(map[model.DiagnosisID]*model.VectorEntry),
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

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[record.ID]; exists {
		return nil, goerr.Wrap(ErrAlreadyExists, "diagnosis already exists", goerr.V("id", record.ID))
	}

	r.records[record.ID] = record.Copy()
	r.vectors[vector.ID] = vector.Copy()
	r.order = append(r.order, record.ID)

	return record.Copy(), nil
}

func (r *diagnosisRepository) Get(ctx context.Context, id model.DiagnosisID) (*model.DiagnosisRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, exists := r.records[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "diagnosis not found", goerr.V("id", id))
	}

	return record.Copy(), nil
}

func (r *diagnosisRepository) Update(ctx context.Context, record *model.DiagnosisRecord) (*model.DiagnosisRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[record.ID]; !exists {
		return nil, goerr.Wrap(ErrNotFound, "diagnosis not found", goerr.V("id", record.ID))
	}

	r.records[record.ID] = record.Copy()
	return record.Copy(), nil
}

func (r *diagnosisRepository) List(ctx context.Context) ([]*model.DiagnosisRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]*model.DiagnosisRecord, 0, len(r.order))
	for _, id := range r.order {
		records = append(records, r.records[id].Copy())
	}
	return records, nil
}

func (r *diagnosisRepository) ListByOwner(ctx context.Context, ownerID string, limit int) ([]*model.DiagnosisRecord, error) {
	return r.listNewest(func(record *model.DiagnosisRecord) bool {
		return record.OwnerID == ownerID
	}, limit), nil
}

func (r *diagnosisRepository) ListByField(ctx context.Context, fieldID string, limit int) ([]*model.DiagnosisRecord, error) {
	return r.listNewest(func(record *model.DiagnosisRecord) bool {
		return record.FieldID == fieldID
	}, limit), nil
}

// listNewest returns matching records by CreatedAt descending. Records created
// at the same instant are ordered newest insertion first.
func (r *diagnosisRepository) listNewest(match func(*model.DiagnosisRecord) bool, limit int) []*model.DiagnosisRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var records []*model.DiagnosisRecord
	for i := len(r.order) - 1; i >= 0; i-- {
		record := r.records[r.order[i]]
		if match(record) {
			records = append(records, record.Copy())
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records
}

func (r *diagnosisRepository) ListVectors(ctx context.Context) ([]*model.VectorEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	vectors := make([]*model.VectorEntry, 0, len(r.order))
	for _, id := range r.order {
		vectors = append(vectors, r.vectors[id].Copy())
	}
	return vectors, nil
}

func (r *diagnosisRepository) ListVectorsByOwner(ctx context.Context, ownerID string) ([]*model.VectorEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var vectors []*model.VectorEntry
	for _, id := range r.order {
		if v := r.vectors[id]; v.OwnerID == ownerID {
			vectors = append(vectors, v.Copy())
		}
	}
	return vectors, nil
}

func (r *diagnosisRepository) PutVectors(ctx context.Context, vectors []*model.VectorEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, v := range vectors {
		if _, exists := r.vectors[v.ID]; !exists {
			return goerr.Wrap(ErrNotFound, "vector entry not found", goerr.V("id", v.ID))
		}
	}

	for _, v := range vectors {
		r.vectors[v.ID] = v.Copy()
	}
	return nil
}
