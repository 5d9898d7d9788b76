package vectorizer_test

import (
	"math"
	"testing"

	"github.com/cropai/cropai/pkg/domain/model"
	"github.com/cropai/cropai/pkg/service/vectorizer"
	"github.com/m-mizutani/gt"
)

func TestCosineSimilarity(t *testing.T) {
	t.Run("self similarity is one", func(t *testing.T) {
		v := []float64{0.3, 1.2, 0, 2.5}
		gt.Bool(t, math.Abs(vectorizer.CosineSimilarity(v, v)-1) < 1e-9).True()
	})

	t.Run("symmetric", func(t *testing.T) {
		a := []float64{1, 2, 3}
		b := []float64{3, 0, 1}
		gt.Value(t, vectorizer.CosineSimilarity(a, b)).Equal(vectorizer.CosineSimilarity(b, a))
	})

	t.Run("orthogonal", func(t *testing.T) {
		gt.Value(t, vectorizer.CosineSimilarity([]float64{1, 0}, []float64{0, 1})).Equal(0.0)
	})

	t.Run("unequal length is zero", func(t *testing.T) {
		gt.Value(t, vectorizer.CosineSimilarity([]float64{1, 2}, []float64{1, 2, 3})).Equal(0.0)
	})

	t.Run("zero vector is zero", func(t *testing.T) {
		gt.Value(t, vectorizer.CosineSimilarity([]float64{0, 0}, []float64{1, 1})).Equal(0.0)
	})

	t.Run("empty vectors are zero", func(t *testing.T) {
		gt.Value(t, vectorizer.CosineSimilarity(nil, nil)).Equal(0.0)
	})
}

func TestSimilarity(t *testing.T) {
	tfidf := func(lineage string, values ...float64) model.Embedding {
		return model.Embedding{Kind: model.EmbeddingKindTfIdf, Values: values, VocabularyID: lineage}
	}

	t.Run("different kinds never compare", func(t *testing.T) {
		a := model.Embedding{Kind: model.EmbeddingKindHashed, Values: []float64{0.5}}
		b := tfidf("v1", 0.5)
		gt.Value(t, vectorizer.Similarity(a, b)).Equal(0.0)
	})

	t.Run("different lineages never compare", func(t *testing.T) {
		gt.Value(t, vectorizer.Similarity(tfidf("v1", 1, 2), tfidf("v2", 1, 2))).Equal(0.0)
	})

	t.Run("same lineage pads the shorter vector", func(t *testing.T) {
		got := vectorizer.Similarity(tfidf("v1", 1, 2), tfidf("v1", 1, 2, 0))
		gt.Bool(t, math.Abs(got-1) < 1e-9).True()
	})

	t.Run("hashed compares by cosine", func(t *testing.T) {
		a := vectorizer.HashEmbedding("ab")
		b := vectorizer.HashEmbedding("a")
		// the norm epsilon dominates for single values near 0.1
		gt.Bool(t, math.Abs(vectorizer.Similarity(a, b)-1) < 1e-6).True()
	})
}

func TestRank(t *testing.T) {
	s := vectorizer.Fit(docs(
		"Leaf Rust orange pustules fungicide",
		"Nitrogen deficiency yellow leaves fertilizer",
		"Leaf Rust pustules resistant varieties",
	))

	entry := func(id, text string) *model.VectorEntry {
		return &model.VectorEntry{ID: model.DiagnosisID(id), Embedding: s.Embed(text)}
	}
	entries := []*model.VectorEntry{
		entry("A", "Leaf Rust orange pustules fungicide"),
		entry("B", "Nitrogen deficiency yellow leaves fertilizer"),
		entry("C", "Leaf Rust pustules resistant varieties"),
	}

	t.Run("closest entries first", func(t *testing.T) {
		got := vectorizer.Rank(s.Embed("rust pustules on leaf"), entries, 2)
		gt.Array(t, got).Length(2)
		ids := []model.DiagnosisID{got[0].ID, got[1].ID}
		gt.Array(t, ids).Has("A")
		gt.Array(t, ids).Has("C")
		gt.Bool(t, got[0].Similarity >= got[1].Similarity).True()
	})

	t.Run("sorted descending across all", func(t *testing.T) {
		got := vectorizer.Rank(s.Embed("yellow leaves"), entries, 10)
		gt.Array(t, got).Length(3)
		gt.Value(t, got[0].ID).Equal(model.DiagnosisID("B"))
		for i := 1; i < len(got); i++ {
			gt.Bool(t, got[i-1].Similarity >= got[i].Similarity).True()
		}
	})

	t.Run("ties keep input order", func(t *testing.T) {
		got := vectorizer.Rank(s.Embed("aphids"), entries, 3)
		gt.Array(t, got).Length(3)
		gt.Value(t, got[0].ID).Equal(model.DiagnosisID("A"))
		gt.Value(t, got[1].ID).Equal(model.DiagnosisID("B"))
		gt.Value(t, got[2].ID).Equal(model.DiagnosisID("C"))
		for _, m := range got {
			gt.Value(t, m.Similarity).Equal(0.0)
		}
	})

	t.Run("non positive limit uses default", func(t *testing.T) {
		many := make([]*model.VectorEntry, 0, 8)
		for i := 0; i < 8; i++ {
			many = append(many, entries[i%3])
		}
		gt.Array(t, vectorizer.Rank(s.Embed("leaf"), many, 0)).Length(vectorizer.DefaultLimit)
	})

	t.Run("empty entries", func(t *testing.T) {
		gt.Array(t, vectorizer.Rank(s.Embed("leaf"), nil, 3)).Length(0)
	})
}
