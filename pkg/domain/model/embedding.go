package model

import "time"

// EmbeddingKind tells how an Embedding was produced
type EmbeddingKind string

const (
	// EmbeddingKindHashed is the one-dimensional cold-start placeholder
	EmbeddingKindHashed EmbeddingKind = "hashed"
	// EmbeddingKindTfIdf is a TF-IDF vector over a fitted vocabulary
	EmbeddingKindTfIdf EmbeddingKind = "tfidf"
)

// Embedding is either Hashed(scalar) or TfIdf(vector, vocabulary). Values of
// different kinds, or TF-IDF values from different vocabularies, are never
// compared with each other.
type Embedding struct {
	Kind   EmbeddingKind
	Values []float64

	// VocabularyID identifies the vocabulary lineage of a TF-IDF vector. Vectors
	// sharing a lineage are positionally compatible; a shorter one predates
	// later vocabulary growth.
	VocabularyID string
}

// Dimension returns the number of components
func (e Embedding) Dimension() int {
	return len(e.Values)
}

// Copy returns a deep copy of the embedding
func (e Embedding) Copy() Embedding {
	copied := e
	if e.Values != nil {
		copied.Values = make([]float64, len(e.Values))
		copy(copied.Values, e.Values)
	}
	return copied
}

// VectorEntry is the embedding stored alongside a DiagnosisRecord under the same ID
type VectorEntry struct {
	ID         DiagnosisID
	OwnerID    string
	Embedding  Embedding
	SourceText string
	CreatedAt  time.Time
}

// Copy returns a deep copy of the entry
func (v *VectorEntry) Copy() *VectorEntry {
	copied := *v
	copied.Embedding = v.Embedding.Copy()
	return &copied
}
