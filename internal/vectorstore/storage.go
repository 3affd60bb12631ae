package vectorstore

import "titlecluster/internal/domain"

// Neighbor is a stored sentence and its distance to a query vector.
type Neighbor struct {
	Sentence domain.Sentence
	Distance float64
}

// Storage holds the sentence vectors of one run and supports nearest-neighbor
// search by Euclidean distance.
type Storage interface {
	Init(dimension int) error
	Upsert(sentences []domain.Sentence, vectors [][]float64) error
	Vectors() [][]float64
	Search(vector []float64, topK int, within []int) ([]Neighbor, error)
	Clear() error
}
