package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// EmbeddingConfig selects the pretrained embedding table and its on-disk format.
type EmbeddingConfig struct {
	Type string `yaml:"type"`
	Path string `yaml:"path"`
}

// SegmenterConfig selects how raw lines are split into tokens.
type SegmenterConfig struct {
	Type      string `yaml:"type"`
	Lowercase bool   `yaml:"lowercase"`
}

// ClusterConfig configures the k-means engine. A nil Seed means a fresh seed per run.
type ClusterConfig struct {
	MaxIterations int    `yaml:"max_iterations"`
	Init          string `yaml:"init"`
	Seed          *int64 `yaml:"seed,omitempty"`
	Workers       int    `yaml:"workers"`
}

// ReportConfig selects the output renderer.
type ReportConfig struct {
	Format     string `yaml:"format"`
	SampleSize int    `yaml:"sample_size"`
	Keywords   int    `yaml:"keywords"`
}

// LogConfig configures the zerolog logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Embedding EmbeddingConfig `yaml:"embedding"`
	Segmenter SegmenterConfig `yaml:"segmenter"`
	Cluster   ClusterConfig   `yaml:"cluster"`
	Report    ReportConfig    `yaml:"report"`
	Log       LogConfig       `yaml:"log"`
}

const (
	EnvModelPath = "TITLECLUSTER_MODEL"
	EnvLogLevel  = "TITLECLUSTER_LOG_LEVEL"

	DefaultMaxIterations = 300
	DefaultSampleSize    = 10
	DefaultKeywords      = 5
)

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./titlecluster.yaml first, then ~/.config/titlecluster/config.yaml.
// If neither exists, it writes defaults to the user path and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "titlecluster.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ApplyEnv overrides file values with TITLECLUSTER_* environment variables.
func (c *AppConfig) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvModelPath)); v != "" {
		c.Embedding.Path = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.Log.Level = v
	}
}

// Validate rejects unknown component types and out-of-range numbers.
func (c *AppConfig) Validate() error {
	switch c.Embedding.Type {
	case "text", "word2vec-bin", "sqlite":
	default:
		return fmt.Errorf("unknown embedding type: %q", c.Embedding.Type)
	}
	switch c.Segmenter.Type {
	case "whitespace", "words", "gse":
	default:
		return fmt.Errorf("unknown segmenter: %q", c.Segmenter.Type)
	}
	switch c.Cluster.Init {
	case "kmeans++", "random":
	default:
		return fmt.Errorf("unknown cluster init: %q", c.Cluster.Init)
	}
	switch c.Report.Format {
	case "text", "json", "tui":
	default:
		return fmt.Errorf("unknown report format: %q", c.Report.Format)
	}
	if c.Cluster.MaxIterations < 1 {
		return fmt.Errorf("cluster.max_iterations must be positive, got %d", c.Cluster.MaxIterations)
	}
	if c.Cluster.Workers < 1 {
		return fmt.Errorf("cluster.workers must be positive, got %d", c.Cluster.Workers)
	}
	if c.Report.SampleSize < 1 {
		return fmt.Errorf("report.sample_size must be positive, got %d", c.Report.SampleSize)
	}
	if c.Report.Keywords < 0 {
		return fmt.Errorf("report.keywords must not be negative, got %d", c.Report.Keywords)
	}
	return nil
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "titlecluster", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Embedding: EmbeddingConfig{Type: "text", Path: "model.txt"},
		Segmenter: SegmenterConfig{Type: "whitespace"},
		Cluster:   ClusterConfig{MaxIterations: DefaultMaxIterations, Init: "kmeans++", Workers: 1},
		Report:    ReportConfig{Format: "text", SampleSize: DefaultSampleSize, Keywords: DefaultKeywords},
		Log:       LogConfig{Level: "info", Format: "console"},
	}
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	def := defaultConfig()
	if cfg.Embedding.Type == "" {
		cfg.Embedding.Type = def.Embedding.Type
	}
	if cfg.Embedding.Path == "" {
		cfg.Embedding.Path = def.Embedding.Path
	}
	if cfg.Segmenter.Type == "" {
		cfg.Segmenter.Type = def.Segmenter.Type
	}
	if cfg.Cluster.MaxIterations == 0 {
		cfg.Cluster.MaxIterations = def.Cluster.MaxIterations
	}
	if cfg.Cluster.Init == "" {
		cfg.Cluster.Init = def.Cluster.Init
	}
	if cfg.Cluster.Workers == 0 {
		cfg.Cluster.Workers = def.Cluster.Workers
	}
	if cfg.Report.Format == "" {
		cfg.Report.Format = def.Report.Format
	}
	if cfg.Report.SampleSize == 0 {
		cfg.Report.SampleSize = def.Report.SampleSize
	}
	if cfg.Report.Keywords == 0 {
		cfg.Report.Keywords = def.Report.Keywords
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = def.Log.Format
	}
}
