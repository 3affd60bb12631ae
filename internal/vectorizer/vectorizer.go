// Package vectorizer turns segmented sentences into fixed-size vectors by
// averaging their token embeddings.
package vectorizer

import (
	"fmt"

	"titlecluster/internal/domain"
)

// Vectorizer averages token embeddings from a lookup of fixed dimension.
type Vectorizer struct {
	lookup    domain.EmbeddingLookup
	dimension int
}

// Stats counts token lookups over a VectorizeAll call.
type Stats struct {
	Tokens int
	Found  int
}

// Coverage is the fraction of tokens found in the lookup.
func (s Stats) Coverage() float64 {
	if s.Tokens == 0 {
		return 0
	}
	return float64(s.Found) / float64(s.Tokens)
}

func New(lookup domain.EmbeddingLookup) (*Vectorizer, error) {
	dim := lookup.Dimension()
	if dim <= 0 {
		return nil, &domain.DimensionMismatchError{Want: 1, Got: dim}
	}
	return &Vectorizer{lookup: lookup, dimension: dim}, nil
}

func (v *Vectorizer) Dimension() int { return v.dimension }

// Vectorize returns the element-wise mean of the sentence's token vectors.
// A token missing from the lookup counts as the zero vector, so the sum is
// divided by the full token count and unknown words pull the result toward
// the origin.
func (v *Vectorizer) Vectorize(s domain.Sentence) ([]float64, error) {
	vec, _, err := v.vectorize(s)
	return vec, err
}

func (v *Vectorizer) vectorize(s domain.Sentence) ([]float64, int, error) {
	if len(s.Tokens) == 0 {
		return nil, 0, &domain.EmptyInputError{What: fmt.Sprintf("sentence %d has no tokens", s.Index)}
	}
	sum := make([]float64, v.dimension)
	found := 0
	for _, tok := range s.Tokens {
		emb, ok, err := v.lookup.Lookup(tok)
		if err != nil {
			return nil, 0, err
		}
		if !ok {
			continue
		}
		if len(emb) != v.dimension {
			return nil, 0, &domain.DimensionMismatchError{Token: tok, Want: v.dimension, Got: len(emb)}
		}
		for i, x := range emb {
			sum[i] += x
		}
		found++
	}
	n := float64(len(s.Tokens))
	for i := range sum {
		sum[i] /= n
	}
	return sum, found, nil
}

// VectorizeAll vectorizes sentences in order.
func (v *Vectorizer) VectorizeAll(sentences []domain.Sentence) ([][]float64, Stats, error) {
	out := make([][]float64, len(sentences))
	var st Stats
	for i, s := range sentences {
		vec, found, err := v.vectorize(s)
		if err != nil {
			return nil, st, fmt.Errorf("sentence %d: %w", s.Index, err)
		}
		out[i] = vec
		st.Tokens += len(s.Tokens)
		st.Found += found
	}
	return out, st, nil
}
