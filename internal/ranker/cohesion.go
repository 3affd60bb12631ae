// Package ranker orders clusters by how tightly their members sit around the
// centroid.
package ranker

import (
	"fmt"
	"sort"

	"titlecluster/internal/domain"
	"titlecluster/internal/kmeans"
)

// Rank returns one entry per non-empty cluster, ordered by ascending mean
// Euclidean distance from member vectors to the centroid, ties by cluster id.
// Clusters without members are left out. Inputs are not modified.
func Rank(clusters []domain.Cluster, vectors [][]float64) ([]domain.ClusterReport, error) {
	out := make([]domain.ClusterReport, 0, len(clusters))
	for _, c := range clusters {
		if len(c.Members) == 0 {
			continue
		}
		sum := 0.0
		for _, idx := range c.Members {
			if idx < 0 || idx >= len(vectors) {
				return nil, fmt.Errorf("cluster %d: member %d out of range [0, %d)", c.ID, idx, len(vectors))
			}
			v := vectors[idx]
			if len(v) != len(c.Centroid) {
				return nil, &domain.DimensionMismatchError{Want: len(c.Centroid), Got: len(v)}
			}
			sum += kmeans.Euclidean(v, c.Centroid)
		}
		members := make([]int, len(c.Members))
		copy(members, c.Members)
		out = append(out, domain.ClusterReport{
			ClusterID:    c.ID,
			MeanDistance: sum / float64(len(c.Members)),
			Members:      members,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].MeanDistance == out[j].MeanDistance {
			return out[i].ClusterID < out[j].ClusterID
		}
		return out[i].MeanDistance < out[j].MeanDistance
	})
	return out, nil
}
