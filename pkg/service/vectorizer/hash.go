package vectorizer

import (
	"math"
	"unicode/utf16"

	"github.com/cropai/cropai/pkg/domain/model"
)

// HashEmbedding is the cold-start placeholder used before any fit: a single
// component abs(h mod 1000)/1000 where h folds each character with h*31 + c in
// wrapping 32-bit signed arithmetic. It only buckets text roughly and carries no
// semantic meaning.
func HashEmbedding(text string) model.Embedding {
	return model.Embedding{
		Kind:   model.EmbeddingKindHashed,
		Values: []float64{math.Abs(float64(polynomialHash(text)%1000)) / 1000},
	}
}

// polynomialHash folds one UTF-16 code unit per character; characters outside
// the BMP contribute their high surrogate.
func polynomialHash(text string) int32 {
	var hash int32
	for _, r := range text {
		c := r
		if r > 0xFFFF {
			c, _ = utf16.EncodeRune(r)
		}
		hash = hash*31 + int32(c)
	}
	return hash
}
