package embedding

import (
	"errors"

	"titlecluster/internal/domain"
)

// Table is an in-memory embedding table with a fixed dimension.
// The first vector added for a token wins.
type Table struct {
	dimension int
	vectors   map[string][]float64
	tokens    []string
}

func NewTable(dimension int) (*Table, error) {
	if dimension <= 0 {
		return nil, errors.New("invalid dimension")
	}
	return &Table{dimension: dimension, vectors: make(map[string][]float64)}, nil
}

func (t *Table) Name() string { return "table" }

func (t *Table) Dimension() int { return t.dimension }

// Add stores vec under token. Vectors of the wrong length are rejected.
func (t *Table) Add(token string, vec []float64) error {
	if len(vec) != t.dimension {
		return &domain.DimensionMismatchError{Token: token, Want: t.dimension, Got: len(vec)}
	}
	if _, ok := t.vectors[token]; ok {
		return nil
	}
	t.vectors[token] = vec
	t.tokens = append(t.tokens, token)
	return nil
}

func (t *Table) Lookup(token string) ([]float64, bool, error) {
	v, ok := t.vectors[token]
	return v, ok, nil
}

// Len returns the vocabulary size.
func (t *Table) Len() int { return len(t.tokens) }

// Tokens returns the vocabulary in insertion order.
func (t *Table) Tokens() []string { return t.tokens }

func (t *Table) Close() error { return nil }
