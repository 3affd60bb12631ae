package domain

import "strings"

// Sentence is a deduplicated input line together with its segmented tokens.
type Sentence struct {
	Index  int
	Text   string
	Tokens []string
}

// Key returns the segmented form used to detect duplicate sentences.
func (s Sentence) Key() string { return strings.Join(s.Tokens, " ") }

// Cluster is one group produced by the cluster engine. Members are indices
// into the ordered sentence slice of the run, ascending.
type Cluster struct {
	ID       int
	Centroid []float64
	Members  []int
}

// ClusterReport is a ranked cluster with its mean member-to-centroid distance.
type ClusterReport struct {
	ClusterID    int
	MeanDistance float64
	Members      []int
}

// Segmenter splits raw text into an ordered sequence of tokens.
type Segmenter interface {
	Name() string
	Segment(text string) []string
}

// EmbeddingLookup maps a token to its pretrained embedding vector.
// A missing token is reported with found == false and a nil error.
type EmbeddingLookup interface {
	Dimension() int
	Lookup(token string) (vec []float64, found bool, err error)
}

// ClusterService defines the operations exposed by the application core.
type ClusterService interface {
	LoadSentences(paths []string) ([]Sentence, error)
	Run(paths []string) (*RunResult, error)
}

// RunResult holds everything one pipeline run produced.
type RunResult struct {
	Sentences  []Sentence
	Vectors    [][]float64
	Clusters   []Cluster
	Ranked     []ClusterReport
	Keywords   map[int][]string
	Iterations int
	Converged  bool
	Seed       int64
}

// Cluster returns the cluster with the given id, or false when absent.
func (r *RunResult) Cluster(id int) (Cluster, bool) {
	for _, c := range r.Clusters {
		if c.ID == id {
			return c, true
		}
	}
	return Cluster{}, false
}
