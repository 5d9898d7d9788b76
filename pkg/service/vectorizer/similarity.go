package vectorizer

import (
	"math"
	"sort"

	"github.com/cropai/cropai/pkg/domain/model"
)

// DefaultLimit is the number of matches returned when no limit is given
const DefaultLimit = 5

const epsilon = 1e-10

// CosineSimilarity returns dot(a,b) / (|a||b| + 1e-10). Vectors of unequal
// length are not comparable and score exactly 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	return dot / (math.Sqrt(normA)*math.Sqrt(normB) + epsilon)
}

// Similarity compares two embeddings. Different kinds score 0, as do TF-IDF
// vectors from different vocabulary lineages. Within one lineage the shorter
// vector is zero-padded, since the vocabulary only ever grows by appending.
func Similarity(a, b model.Embedding) float64 {
	if a.Kind != b.Kind {
		return 0
	}

	switch a.Kind {
	case model.EmbeddingKindHashed:
		return CosineSimilarity(a.Values, b.Values)

	case model.EmbeddingKindTfIdf:
		if a.VocabularyID != b.VocabularyID {
			return 0
		}
		if len(a.Values) == len(b.Values) {
			return CosineSimilarity(a.Values, b.Values)
		}
		n := max(len(a.Values), len(b.Values))
		return CosineSimilarity(zeroPad(a.Values, n), zeroPad(b.Values, n))

	default:
		return 0
	}
}

func zeroPad(v []float64, n int) []float64 {
	if len(v) >= n {
		return v
	}
	padded := make([]float64, n)
	copy(padded, v)
	return padded
}

// Match is a ranked vector entry
type Match struct {
	ID         model.DiagnosisID
	Similarity float64
}

// Rank scores every entry against query and returns the best limit matches in
// descending similarity. Ties keep the order of entries. A non-positive limit
// means DefaultLimit.
func Rank(query model.Embedding, entries []*model.VectorEntry, limit int) []Match {
	if limit <= 0 {
		limit = DefaultLimit
	}

	matches := make([]Match, 0, len(entries))
	for _, entry := range entries {
		matches = append(matches, Match{
			ID:         entry.ID,
			Similarity: Similarity(query, entry.Embedding),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
