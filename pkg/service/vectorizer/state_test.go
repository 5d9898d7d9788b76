package vectorizer_test

import (
	"math"
	"testing"

	"github.com/cropai/cropai/pkg/domain/model"
	"github.com/cropai/cropai/pkg/service/vectorizer"
	"github.com/m-mizutani/gt"
)

func docs(texts ...string) []vectorizer.Document {
	out := make([]vectorizer.Document, len(texts))
	for i, text := range texts {
		out[i] = vectorizer.Document{Text: text}
	}
	return out
}

func TestFit(t *testing.T) {
	t.Run("common terms get lower weight", func(t *testing.T) {
		s := vectorizer.Fit(docs("leaf rust", "leaf spot", "leaf blight"))

		leaf, ok := s.IDFOf("leaf")
		gt.Bool(t, ok).True()
		rust, ok := s.IDFOf("rust")
		gt.Bool(t, ok).True()

		gt.Bool(t, leaf < rust).True()
		gt.Bool(t, math.Abs(leaf-1.0) < 1e-12).True()
		gt.Bool(t, math.Abs(rust-(math.Log(2)+1)) < 1e-12).True()
	})

	t.Run("vocabulary keeps first seen order", func(t *testing.T) {
		s := vectorizer.Fit(docs("rust leaf", "spot rust"))
		gt.Value(t, s.Vocabulary()).Equal([]string{"rust", "leaf", "spot"})
		gt.Array(t, s.IDF()).Length(3)
		gt.Number(t, s.DocumentCount()).Equal(2)
	})

	t.Run("term repeated in one document counts once", func(t *testing.T) {
		s := vectorizer.Fit(docs("rust rust rust", "leaf"))
		rust, _ := s.IDFOf("rust")
		leaf, _ := s.IDFOf("leaf")
		gt.Bool(t, math.Abs(rust-leaf) < 1e-12).True()
	})

	t.Run("each fit starts a new lineage", func(t *testing.T) {
		a := vectorizer.Fit(docs("leaf rust"))
		b := vectorizer.Fit(docs("leaf rust"))
		gt.String(t, a.VocabularyID()).NotEqual("")
		gt.String(t, a.VocabularyID()).NotEqual(b.VocabularyID())
		gt.Bool(t, a.IsFitted()).True()
	})

	t.Run("empty corpus is fitted with empty vocabulary", func(t *testing.T) {
		s := vectorizer.Fit(nil)
		gt.Bool(t, s.IsFitted()).True()
		gt.Number(t, s.Size()).Equal(0)
		gt.Array(t, s.Transform("leaf rust")).Length(0)
	})
}

func TestTransform(t *testing.T) {
	s := vectorizer.Fit(docs("leaf rust", "leaf spot", "leaf blight"))

	t.Run("length matches vocabulary", func(t *testing.T) {
		v := s.Transform("rust")
		gt.Array(t, v).Length(s.Size())
	})

	t.Run("no overlap yields zero vector", func(t *testing.T) {
		v := s.Transform("aphids everywhere")
		gt.Array(t, v).Length(s.Size())
		for _, x := range v {
			gt.Value(t, x).Equal(0.0)
		}
	})

	t.Run("augmented term frequency", func(t *testing.T) {
		v := s.Transform("rust rust leaf")
		vocab := s.Vocabulary()
		rustIDF, _ := s.IDFOf("rust")
		leafIDF, _ := s.IDFOf("leaf")
		for i, term := range vocab {
			switch term {
			case "rust":
				gt.Bool(t, math.Abs(v[i]-rustIDF) < 1e-12).True()
			case "leaf":
				gt.Bool(t, math.Abs(v[i]-0.75*leafIDF) < 1e-12).True()
			default:
				gt.Value(t, v[i]).Equal(0.0)
			}
		}
	})
}

func TestMerge(t *testing.T) {
	base := vectorizer.Fit(docs("leaf rust"))
	merged := base.Merge(docs("leaf spot"))

	t.Run("lineage kept and vocabulary appended", func(t *testing.T) {
		gt.Value(t, merged.VocabularyID()).Equal(base.VocabularyID())
		gt.Value(t, merged.Vocabulary()).Equal([]string{"leaf", "rust", "spot"})
		gt.Number(t, merged.DocumentCount()).Equal(2)
	})

	t.Run("base state is untouched", func(t *testing.T) {
		gt.Value(t, base.Vocabulary()).Equal([]string{"leaf", "rust"})
		gt.Number(t, base.DocumentCount()).Equal(1)
	})

	t.Run("weights recomputed over all documents", func(t *testing.T) {
		full := vectorizer.Fit(docs("leaf rust", "leaf spot"))
		for _, term := range full.Vocabulary() {
			want, _ := full.IDFOf(term)
			got, ok := merged.IDFOf(term)
			gt.Bool(t, ok).True()
			gt.Bool(t, math.Abs(want-got) < 1e-12).True()
		}
	})

	t.Run("merge into unfitted state fits", func(t *testing.T) {
		s := vectorizer.NewState().Merge(docs("leaf rust"))
		gt.Bool(t, s.IsFitted()).True()
		gt.Number(t, s.Size()).Equal(2)
	})

	t.Run("older vectors stay comparable", func(t *testing.T) {
		old := base.Embed("leaf rust")
		now := merged.Embed("leaf rust")
		gt.Number(t, old.Dimension()).Equal(2)
		gt.Number(t, now.Dimension()).Equal(3)
		gt.Bool(t, vectorizer.Similarity(old, now) > 0.5).True()
	})
}

func TestEmbed(t *testing.T) {
	t.Run("unfitted state uses hash embedding", func(t *testing.T) {
		e := vectorizer.NewState().Embed("ab")
		gt.Value(t, e.Kind).Equal(model.EmbeddingKindHashed)
		gt.Array(t, e.Values).Length(1)
		gt.Value(t, e.VocabularyID).Equal("")
	})

	t.Run("nil state uses hash embedding", func(t *testing.T) {
		var s *vectorizer.State
		gt.Value(t, s.Embed("ab").Kind).Equal(model.EmbeddingKindHashed)
		gt.Bool(t, s.IsFitted()).False()
	})

	t.Run("fitted state uses tfidf", func(t *testing.T) {
		s := vectorizer.Fit(docs("leaf rust"))
		e := s.Embed("leaf")
		gt.Value(t, e.Kind).Equal(model.EmbeddingKindTfIdf)
		gt.Value(t, e.VocabularyID).Equal(s.VocabularyID())
		gt.Array(t, e.Values).Length(2)
	})
}
