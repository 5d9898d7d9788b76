package interfaces

import (
	"context"

	"github.com/cropai/cropai/pkg/domain/model"
)

// DiagnosisRepository stores diagnosis records and their vector entries. A
// record and its vector share one ID.
type DiagnosisRepository interface {
	// Create stores a record and its vector entry together. Either both are
	// written or neither is.
	Create(ctx context.Context, record *model.DiagnosisRecord, vector *model.VectorEntry) (*model.DiagnosisRecord, error)

	// Get retrieves a record by ID
	Get(ctx context.Context, id model.DiagnosisID) (*model.DiagnosisRecord, error)

	// Update replaces an existing record
	Update(ctx context.Context, record *model.DiagnosisRecord) (*model.DiagnosisRecord, error)

	// List returns every record in insertion order
	List(ctx context.Context) ([]*model.DiagnosisRecord, error)

	// ListByOwner returns up to limit records of the owner, newest first
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]*model.DiagnosisRecord, error)

	// ListByField returns up to limit records of the field, newest first
	ListByField(ctx context.Context, fieldID string, limit int) ([]*model.DiagnosisRecord, error)

	// ListVectors returns every vector entry in insertion order
	ListVectors(ctx context.Context) ([]*model.VectorEntry, error)

	// ListVectorsByOwner returns the vector entries of the owner in insertion order
	ListVectorsByOwner(ctx context.Context, ownerID string) ([]*model.VectorEntry, error)

	// PutVectors overwrites the embeddings of existing vector entries
	PutVectors(ctx context.Context, vectors []*model.VectorEntry) error
}
