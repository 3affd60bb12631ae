package embedding

import (
	"errors"
	"fmt"
	"os"

	"titlecluster/internal/config"
	"titlecluster/internal/domain"
)

// Model is a loaded pretrained embedding table.
type Model interface {
	domain.EmbeddingLookup
	Name() string
	Close() error
}

// Open loads the embedding table described by cfg.
func Open(cfg config.EmbeddingConfig) (Model, error) {
	switch cfg.Type {
	case "text", "":
		return LoadTextFile(cfg.Path)
	case "word2vec-bin":
		return LoadBinaryFile(cfg.Path)
	case "sqlite":
		return OpenSQLite(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown embedding type: %s", cfg.Type)
	}
}

func openArtifact(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &domain.MissingResourceError{Resource: "embedding model", Path: path, Err: err}
	}
	return f, nil
}

func statArtifact(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return &domain.MissingResourceError{Resource: "embedding model", Path: path, Err: err}
	}
	if info.IsDir() {
		return &domain.MissingResourceError{Resource: "embedding model", Path: path, Err: errors.New("is a directory")}
	}
	return nil
}
