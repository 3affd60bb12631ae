package service

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"titlecluster/internal/corpus"
	"titlecluster/internal/domain"
	"titlecluster/internal/kmeans"
	"titlecluster/internal/ranker"
	"titlecluster/internal/summarizer"
	"titlecluster/internal/vectorizer"
	"titlecluster/internal/vectorstore"
)

// ClusterServiceImpl runs the whole pipeline: load, vectorize, cluster, rank.
// It keeps the last run so callers can query neighbors afterwards.
type ClusterServiceImpl struct {
	loader     *corpus.Loader
	vectorizer *vectorizer.Vectorizer
	engine     *kmeans.Engine
	store      vectorstore.Storage
	keywords   *summarizer.KeywordExtractor
	keywordN   int
	logger     zerolog.Logger
	last       *domain.RunResult
}

func NewClusterService(loader *corpus.Loader, vec *vectorizer.Vectorizer, engine *kmeans.Engine, store vectorstore.Storage, keywords *summarizer.KeywordExtractor, keywordN int, logger zerolog.Logger) *ClusterServiceImpl {
	return &ClusterServiceImpl{
		loader:     loader,
		vectorizer: vec,
		engine:     engine,
		store:      store,
		keywords:   keywords,
		keywordN:   keywordN,
		logger:     logger,
	}
}

func (s *ClusterServiceImpl) LoadSentences(paths []string) ([]domain.Sentence, error) {
	if len(paths) == 0 {
		return nil, &domain.EmptyInputError{What: "no input files"}
	}
	return s.loader.Load(paths)
}

// Run executes one batch over the given sentence files. Any error aborts the
// run; there is no partial result.
func (s *ClusterServiceImpl) Run(paths []string) (*domain.RunResult, error) {
	sentences, err := s.LoadSentences(paths)
	if err != nil {
		return nil, err
	}
	return s.RunSentences(sentences)
}

// RunSentences clusters an already loaded, deduplicated sentence list. The
// previous run's vectors are dropped first, so a failed run leaves nothing
// for Nearest to search.
func (s *ClusterServiceImpl) RunSentences(sentences []domain.Sentence) (*domain.RunResult, error) {
	s.last = nil
	if err := s.store.Clear(); err != nil {
		return nil, fmt.Errorf("clear store: %w", err)
	}
	if len(sentences) == 0 {
		return nil, &domain.EmptyInputError{What: "no sentences"}
	}
	vectors, stats, err := s.vectorizer.VectorizeAll(sentences)
	if err != nil {
		return nil, fmt.Errorf("vectorize: %w", err)
	}
	s.logger.Debug().
		Int("tokens", stats.Tokens).
		Int("found", stats.Found).
		Float64("coverage", stats.Coverage()).
		Msg("sentences vectorized")

	if err := s.store.Init(s.vectorizer.Dimension()); err != nil {
		return nil, err
	}
	if err := s.store.Upsert(sentences, vectors); err != nil {
		return nil, fmt.Errorf("store vectors: %w", err)
	}

	k := kmeans.ClusterCount(len(sentences))
	s.logger.Info().Int("sentences", len(sentences)).Int("k", k).Msg("clustering")
	res, err := s.engine.Fit(s.store.Vectors(), k)
	if err != nil {
		return nil, fmt.Errorf("cluster: %w", err)
	}
	clusters := res.Clusters()
	ranked, err := ranker.Rank(clusters, vectors)
	if err != nil {
		return nil, fmt.Errorf("rank: %w", err)
	}
	if empty := len(clusters) - len(ranked); empty > 0 {
		s.logger.Warn().Int("empty", empty).Msg("clusters without members left out of the ranking")
	}

	out := &domain.RunResult{
		Sentences:  sentences,
		Vectors:    vectors,
		Clusters:   clusters,
		Ranked:     ranked,
		Keywords:   s.keywords.All(sentences, ranked, s.keywordN),
		Iterations: res.Iterations,
		Converged:  res.Converged,
		Seed:       res.Seed,
	}
	s.last = out
	return out, nil
}

// Nearest returns the topK members of a cluster closest to its centroid.
func (s *ClusterServiceImpl) Nearest(clusterID, topK int) ([]vectorstore.Neighbor, error) {
	if s.last == nil {
		return nil, errors.New("no clustering run yet")
	}
	c, ok := s.last.Cluster(clusterID)
	if !ok {
		return nil, fmt.Errorf("unknown cluster %d", clusterID)
	}
	if len(c.Members) == 0 {
		return nil, nil
	}
	return s.store.Search(c.Centroid, topK, c.Members)
}
