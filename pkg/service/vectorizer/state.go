package vectorizer

import (
	"math"

	"github.com/cropai/cropai/pkg/domain/model"
	"github.com/google/uuid"
)

// Document is one corpus entry used for fitting
type Document struct {
	ID   string
	Text string
}

// State is a fitted (or not yet fitted) vocabulary with its IDF weights.
// A State is never mutated after construction; Fit and Merge return new values.
//
// Invariant: len(vocabulary) == len(idf) == len(docFreq).
type State struct {
	vocabularyID string
	vocabulary   []string
	idf          []float64
	docFreq      []int
	index        map[string]int
	docCount     int
	fitted       bool
}

// NewState returns an unfitted state. Embed on it yields cold-start embeddings.
func NewState() *State {
	return &State{
		index: make(map[string]int),
	}
}

// Fit builds a new vocabulary from corpus. Document frequency counts term
// presence per document, terms keep first-seen order, and each weight is the
// smoothed IDF ln((N+1)/(df+1)) + 1. Every call starts a new vocabulary lineage.
func Fit(corpus []Document) *State {
	s := &State{
		vocabularyID: uuid.New().String(),
		index:        make(map[string]int),
		fitted:       true,
	}
	s.accumulate(corpus)
	return s
}

// Merge folds corpus into the running vocabulary: document frequencies and the
// document count accumulate, unseen terms are appended, and every IDF weight is
// recomputed. The lineage is kept, so vectors produced earlier stay
// positionally valid. Merging into an unfitted state is the same as Fit.
func (s *State) Merge(corpus []Document) *State {
	if s == nil || !s.fitted {
		return Fit(corpus)
	}

	merged := s.clone()
	merged.accumulate(corpus)
	return merged
}

func (s *State) clone() *State {
	copied := &State{
		vocabularyID: s.vocabularyID,
		vocabulary:   make([]string, len(s.vocabulary)),
		idf:          make([]float64, len(s.idf)),
		docFreq:      make([]int, len(s.docFreq)),
		index:        make(map[string]int, len(s.index)),
		docCount:     s.docCount,
		fitted:       s.fitted,
	}
	copy(copied.vocabulary, s.vocabulary)
	copy(copied.idf, s.idf)
	copy(copied.docFreq, s.docFreq)
	for term, idx := range s.index {
		copied.index[term] = idx
	}
	return copied
}

func (s *State) accumulate(corpus []Document) {
	for _, doc := range corpus {
		seen := make(map[string]struct{})
		for _, token := range Tokenize(doc.Text) {
			if _, ok := seen[token]; ok {
				continue
			}
			seen[token] = struct{}{}

			idx, ok := s.index[token]
			if !ok {
				idx = len(s.vocabulary)
				s.index[token] = idx
				s.vocabulary = append(s.vocabulary, token)
				s.docFreq = append(s.docFreq, 0)
			}
			s.docFreq[idx]++
		}
	}
	s.docCount += len(corpus)

	n := float64(s.docCount)
	s.idf = make([]float64, len(s.vocabulary))
	for i, df := range s.docFreq {
		s.idf[i] = math.Log((n+1)/(float64(df)+1)) + 1
	}
}

// Transform converts text into a dense TF-IDF vector over the vocabulary.
// Term frequency is scaled as 0.5 + 0.5*count/maxCount so one repeated word
// cannot dominate; out-of-vocabulary tokens are ignored.
func (s *State) Transform(text string) []float64 {
	vector := make([]float64, len(s.vocabulary))

	counts := make(map[int]int)
	maxFreq := 0
	for _, token := range Tokenize(text) {
		idx, ok := s.index[token]
		if !ok {
			continue
		}
		counts[idx]++
		if counts[idx] > maxFreq {
			maxFreq = counts[idx]
		}
	}

	for idx, count := range counts {
		tf := 0.5 + 0.5*float64(count)/float64(maxFreq)
		vector[idx] = tf * s.idf[idx]
	}

	return vector
}

// Embed returns the TF-IDF embedding of text, or the cold-start hash embedding
// when the state has never been fitted.
func (s *State) Embed(text string) model.Embedding {
	if s == nil || !s.fitted {
		return HashEmbedding(text)
	}

	return model.Embedding{
		Kind:         model.EmbeddingKindTfIdf,
		Values:       s.Transform(text),
		VocabularyID: s.vocabularyID,
	}
}

// IsFitted reports whether Fit or Merge produced this state
func (s *State) IsFitted() bool {
	return s != nil && s.fitted
}

// VocabularyID identifies the lineage of this vocabulary
func (s *State) VocabularyID() string {
	return s.vocabularyID
}

// Size returns the vocabulary length
func (s *State) Size() int {
	return len(s.vocabulary)
}

// DocumentCount returns the number of documents the state was fitted on
func (s *State) DocumentCount() int {
	return s.docCount
}

// Vocabulary returns a copy of the terms in vector order
func (s *State) Vocabulary() []string {
	out := make([]string, len(s.vocabulary))
	copy(out, s.vocabulary)
	return out
}

// IDF returns a copy of the weights in vector order
func (s *State) IDF() []float64 {
	out := make([]float64, len(s.idf))
	copy(out, s.idf)
	return out
}

// IDFOf returns the weight of term and whether it is in the vocabulary
func (s *State) IDFOf(term string) (float64, bool) {
	idx, ok := s.index[term]
	if !ok {
		return 0, false
	}
	return s.idf[idx], true
}
