package memory

import (
	"errors"
	"sort"
	"sync"

	"titlecluster/internal/domain"
	"titlecluster/internal/kmeans"
	"titlecluster/internal/vectorstore"
)

// Storage is a simple in-memory vector table using brute-force Euclidean search.
type Storage struct {
	mu        sync.RWMutex
	dimension int
	vectors   [][]float64
	sentences []domain.Sentence
}

func NewStorage() *Storage { return &Storage{} }

func (s *Storage) Init(dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = dimension
	s.vectors = nil
	s.sentences = nil
	return nil
}

func (s *Storage) Upsert(sentences []domain.Sentence, vectors [][]float64) error {
	if len(sentences) != len(vectors) {
		return errors.New("sentences and vectors length mismatch")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range vectors {
		if len(v) != s.dimension {
			return &domain.DimensionMismatchError{Want: s.dimension, Got: len(v)}
		}
	}
	s.sentences = append(s.sentences, sentences...)
	s.vectors = append(s.vectors, vectors...)
	return nil
}

// Vectors returns the stored vectors in insertion order. Callers must not modify them.
func (s *Storage) Vectors() [][]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vectors
}

// Search returns the topK stored sentences closest to vector. When within is
// non-nil only those positions are considered. Equal distances keep
// insertion order.
func (s *Storage) Search(vector []float64, topK int, within []int) ([]vectorstore.Neighbor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(vector) != s.dimension {
		return nil, &domain.DimensionMismatchError{Want: s.dimension, Got: len(vector)}
	}
	if topK <= 0 {
		topK = 5
	}
	candidates := within
	if candidates == nil {
		candidates = make([]int, len(s.vectors))
		for i := range candidates {
			candidates[i] = i
		}
	}
	results := make([]vectorstore.Neighbor, 0, len(candidates))
	for _, i := range candidates {
		if i < 0 || i >= len(s.vectors) {
			continue
		}
		results = append(results, vectorstore.Neighbor{
			Sentence: s.sentences[i],
			Distance: kmeans.Euclidean(s.vectors[i], vector),
		})
	}
	sort.SliceStable(results, func(a, b int) bool { return results[a].Distance < results[b].Distance })
	if topK > len(results) {
		topK = len(results)
	}
	return results[:topK], nil
}

func (s *Storage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vectors = nil
	s.sentences = nil
	return nil
}
