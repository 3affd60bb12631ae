// Package kmeans partitions sentence vectors into k clusters with Lloyd's
// algorithm.
//
// Runs are reproducible for a fixed seed and input order. Without WithSeed a
// time-based seed is drawn, so repeated runs may produce different
// partitions; the seed used is reported in Result.Seed.
package kmeans

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"titlecluster/internal/domain"
)

const DefaultMaxIterations = 300

// Engine runs k-means. It holds no per-run state and may be reused.
type Engine struct {
	maxIter int
	workers int
	seed    int64
	seeded  bool
	seedFn  Initializer
	logger  zerolog.Logger
}

type Option func(*Engine)

func WithMaxIterations(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxIter = n
		}
	}
}

func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.seed = seed
		e.seeded = true
	}
}

func WithInit(fn Initializer) Option {
	return func(e *Engine) {
		if fn != nil {
			e.seedFn = fn
		}
	}
}

// WithWorkers fans the assignment step out over n goroutines.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

func New(opts ...Option) *Engine {
	e := &Engine{
		maxIter: DefaultMaxIterations,
		workers: 1,
		seedFn:  PlusPlusInit,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is the frozen outcome of a run.
type Result struct {
	Labels     []int
	Centroids  [][]float64
	Iterations int
	Converged  bool
	Seed       int64
}

// Clusters groups member indices by label. Every cluster id in [0, k) is
// present, including clusters that ended up empty.
func (r *Result) Clusters() []domain.Cluster {
	out := make([]domain.Cluster, len(r.Centroids))
	for id := range out {
		out[id] = domain.Cluster{ID: id, Centroid: r.Centroids[id], Members: []int{}}
	}
	for i, label := range r.Labels {
		out[label].Members = append(out[label].Members, i)
	}
	return out
}

// ClusterCount is the k heuristic: round(sqrt(n)) clamped to [1, n].
func ClusterCount(n int) int {
	if n <= 0 {
		return 0
	}
	k := int(math.Round(math.Sqrt(float64(n))))
	if k < 1 {
		k = 1
	}
	if k > n {
		k = n
	}
	return k
}

// Fit partitions vectors into k clusters.
func (e *Engine) Fit(vectors [][]float64, k int) (*Result, error) {
	if err := validate(vectors, k); err != nil {
		return nil, err
	}
	seed := e.seed
	if !e.seeded {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	centroids := e.seedFn(vectors, k, rng)
	if len(centroids) != k {
		return nil, fmt.Errorf("initializer returned %d centroids, want %d", len(centroids), k)
	}
	return e.run(vectors, centroids, seed)
}

// FitFrom runs the iteration from the given starting centroids; k is len(centroids).
func (e *Engine) FitFrom(vectors [][]float64, centroids [][]float64) (*Result, error) {
	if err := validate(vectors, len(centroids)); err != nil {
		return nil, err
	}
	start := make([][]float64, len(centroids))
	for i, c := range centroids {
		start[i] = clone(c)
	}
	return e.run(vectors, start, e.seed)
}

func validate(vectors [][]float64, k int) error {
	n := len(vectors)
	if n == 0 {
		return &domain.EmptyInputError{What: "no vectors to cluster"}
	}
	if k < 1 || k > n {
		return &domain.InvalidClusterCountError{K: k, N: n}
	}
	dim := len(vectors[0])
	for _, v := range vectors[1:] {
		if len(v) != dim {
			return &domain.DimensionMismatchError{Want: dim, Got: len(v)}
		}
	}
	return nil
}

func (e *Engine) run(vectors, centroids [][]float64, seed int64) (*Result, error) {
	dim := len(vectors[0])
	for _, c := range centroids {
		if len(c) != dim {
			return nil, &domain.DimensionMismatchError{Want: dim, Got: len(c)}
		}
	}
	n := len(vectors)
	labels := make([]int, n)
	for i := range labels {
		labels[i] = -1
	}
	next := make([]int, n)
	res := &Result{Seed: seed}

	for it := 1; it <= e.maxIter; it++ {
		if err := e.assign(vectors, centroids, next); err != nil {
			return nil, err
		}
		changed := 0
		for i := range next {
			if next[i] != labels[i] {
				changed++
			}
		}
		labels, next = next, labels
		res.Iterations = it
		if changed == 0 {
			res.Converged = true
			break
		}
		centroids = update(vectors, labels, centroids)
		e.logger.Debug().Int("iteration", it).Int("changed", changed).Msg("kmeans iteration")
	}

	res.Labels = labels
	res.Centroids = centroids
	e.logger.Info().
		Int("k", len(centroids)).
		Int("iterations", res.Iterations).
		Bool("converged", res.Converged).
		Int64("seed", seed).
		Msg("clustering finished")
	return res, nil
}

// assign writes the nearest-centroid label of every vector into labels.
// Workers own disjoint index ranges and only read centroids.
func (e *Engine) assign(vectors, centroids [][]float64, labels []int) error {
	n := len(vectors)
	if e.workers <= 1 || n < 2*e.workers {
		assignRange(vectors, centroids, labels, 0, n)
		return nil
	}
	chunk := (n + e.workers - 1) / e.workers
	var g errgroup.Group
	for start := 0; start < n; start += chunk {
		start, end := start, min(start+chunk, n)
		g.Go(func() error {
			assignRange(vectors, centroids, labels, start, end)
			return nil
		})
	}
	return g.Wait()
}

func assignRange(vectors, centroids [][]float64, labels []int, start, end int) {
	for i := start; i < end; i++ {
		labels[i] = nearest(vectors[i], centroids)
	}
}

// update recomputes centroids as member means. A cluster without members
// keeps its previous centroid.
func update(vectors [][]float64, labels []int, prev [][]float64) [][]float64 {
	k := len(prev)
	dim := len(vectors[0])
	sums := make([][]float64, k)
	counts := make([]int, k)
	for i, v := range vectors {
		c := labels[i]
		if sums[c] == nil {
			sums[c] = make([]float64, dim)
		}
		for j, x := range v {
			sums[c][j] += x
		}
		counts[c]++
	}
	out := make([][]float64, k)
	for c := range out {
		if counts[c] == 0 {
			out[c] = prev[c]
			continue
		}
		n := float64(counts[c])
		for j := range sums[c] {
			sums[c][j] /= n
		}
		out[c] = sums[c]
	}
	return out
}
