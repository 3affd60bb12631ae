// Package report renders ranked clusters for the terminal or for machines.
package report

import (
	"bufio"
	"fmt"
	"io"

	json "github.com/goccy/go-json"

	"titlecluster/internal/domain"
)

const DefaultSampleSize = 10

// Formatter writes a run result to w.
type Formatter interface {
	Format(w io.Writer, res *domain.RunResult) error
}

// New returns the formatter for format ("text" or "json").
func New(format string, sampleSize int) (Formatter, error) {
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}
	switch format {
	case "text", "":
		return &Text{SampleSize: sampleSize}, nil
	case "json":
		return &JSON{SampleSize: sampleSize, Indent: true}, nil
	default:
		return nil, fmt.Errorf("unknown report format: %s", format)
	}
}

// Samples returns the original text of the first n members.
func Samples(res *domain.RunResult, members []int, n int) []string {
	if n > len(members) {
		n = len(members)
	}
	out := make([]string, 0, n)
	for _, idx := range members[:n] {
		out = append(out, res.Sentences[idx].Text)
	}
	return out
}

// Text prints one block per cluster, most cohesive first.
type Text struct {
	SampleSize int
}

func (f *Text) Format(w io.Writer, res *domain.RunResult) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "Sentences: %d\n", len(res.Sentences))
	fmt.Fprintf(bw, "Clusters: %d\n", len(res.Clusters))
	for _, r := range res.Ranked {
		fmt.Fprintf(bw, "Cluster %d has an average intra-cluster distance of %.4f\n", r.ClusterID, r.MeanDistance)
		fmt.Fprintln(bw, "Sentences in cluster:")
		for _, s := range Samples(res, r.Members, f.SampleSize) {
			fmt.Fprintf(bw, " %s\n", s)
		}
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, "---------")
	}
	return bw.Flush()
}

type jsonCluster struct {
	ID           int      `json:"id"`
	MeanDistance float64  `json:"mean_distance"`
	Size         int      `json:"size"`
	Keywords     []string `json:"keywords"`
	Samples      []string `json:"samples"`
}

type jsonReport struct {
	Sentences  int           `json:"sentences"`
	K          int           `json:"k"`
	Seed       int64         `json:"seed"`
	Iterations int           `json:"iterations"`
	Converged  bool          `json:"converged"`
	Clusters   []jsonCluster `json:"clusters"`
}

// JSON emits the ranking as a single document, clusters in ranked order.
type JSON struct {
	SampleSize int
	Indent     bool
}

func (f *JSON) Format(w io.Writer, res *domain.RunResult) error {
	doc := jsonReport{
		Sentences:  len(res.Sentences),
		K:          len(res.Clusters),
		Seed:       res.Seed,
		Iterations: res.Iterations,
		Converged:  res.Converged,
		Clusters:   make([]jsonCluster, 0, len(res.Ranked)),
	}
	for _, r := range res.Ranked {
		kw := res.Keywords[r.ClusterID]
		if kw == nil {
			kw = []string{}
		}
		doc.Clusters = append(doc.Clusters, jsonCluster{
			ID:           r.ClusterID,
			MeanDistance: r.MeanDistance,
			Size:         len(r.Members),
			Keywords:     kw,
			Samples:      Samples(res, r.Members, f.SampleSize),
		})
	}
	enc := json.NewEncoder(w)
	if f.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(doc)
}
