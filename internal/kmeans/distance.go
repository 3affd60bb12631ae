package kmeans

import "math"

// SquaredEuclidean assumes len(a) == len(b).
func SquaredEuclidean(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// Euclidean assumes len(a) == len(b).
func Euclidean(a, b []float64) float64 {
	return math.Sqrt(SquaredEuclidean(a, b))
}

// nearest returns the index of the closest centroid; ties go to the lowest index.
func nearest(v []float64, centroids [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for i, c := range centroids {
		d := SquaredEuclidean(v, c)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
