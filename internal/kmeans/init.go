package kmeans

import (
	"fmt"
	"math/rand"
)

// Initializer picks k starting centroids from vectors. Implementations must
// return fresh slices and draw randomness only from rng.
type Initializer func(vectors [][]float64, k int, rng *rand.Rand) [][]float64

// InitializerByName maps the config names to initializers.
func InitializerByName(name string) (Initializer, error) {
	switch name {
	case "kmeans++", "":
		return PlusPlusInit, nil
	case "random":
		return RandomInit, nil
	default:
		return nil, fmt.Errorf("unknown cluster init: %s", name)
	}
}

// RandomInit samples k input vectors without replacement.
func RandomInit(vectors [][]float64, k int, rng *rand.Rand) [][]float64 {
	perm := rng.Perm(len(vectors))
	out := make([][]float64, k)
	for i := 0; i < k; i++ {
		out[i] = clone(vectors[perm[i]])
	}
	return out
}

// PlusPlusInit is k-means++ seeding: the first centroid is uniform, each next
// one is drawn with probability proportional to its squared distance from
// the closest centroid chosen so far. When every remaining vector coincides
// with a chosen centroid it falls back to a uniform pick among unchosen inputs.
func PlusPlusInit(vectors [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(vectors)
	chosen := make([]bool, n)
	out := make([][]float64, 0, k)

	first := rng.Intn(n)
	chosen[first] = true
	out = append(out, clone(vectors[first]))

	dist := make([]float64, n)
	for i, v := range vectors {
		dist[i] = SquaredEuclidean(v, out[0])
	}
	for len(out) < k {
		total := 0.0
		for i, d := range dist {
			if !chosen[i] {
				total += d
			}
		}
		next := -1
		if total > 0 {
			target := rng.Float64() * total
			acc := 0.0
			for i, d := range dist {
				if chosen[i] || d == 0 {
					continue
				}
				acc += d
				next = i
				if acc > target {
					break
				}
			}
		}
		if next < 0 {
			next = pickUnchosen(chosen, rng)
		}
		chosen[next] = true
		c := clone(vectors[next])
		out = append(out, c)
		for i, v := range vectors {
			if d := SquaredEuclidean(v, c); d < dist[i] {
				dist[i] = d
			}
		}
	}
	return out
}

func pickUnchosen(chosen []bool, rng *rand.Rand) int {
	free := make([]int, 0, len(chosen))
	for i, c := range chosen {
		if !c {
			free = append(free, i)
		}
	}
	return free[rng.Intn(len(free))]
}

func clone(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}
