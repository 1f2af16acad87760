package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DataDirName is the per-project directory holding the vector cache and optional config.
const DataDirName = ".assessrec"

// Config holds all configuration for the recommender.
type Config struct {
	Catalogue  CatalogueConfig  `yaml:"catalogue"`
	Normalize  NormalizeConfig  `yaml:"normalize"`
	Vectorizer VectorizerConfig `yaml:"vectorizer"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Cache      CacheConfig      `yaml:"cache"`
	Rank       RankConfig       `yaml:"rank"`
	Boosts     []BoostRule      `yaml:"boosts"`
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// CatalogueConfig locates the catalogue CSV files.
type CatalogueConfig struct {
	Paths []string `yaml:"paths"` // doublestar patterns, relative to the root dir
}

// NormalizeConfig extends the built-in abbreviation table.
type NormalizeConfig struct {
	Abbreviations map[string]string `yaml:"abbreviations"`
}

// VectorizerConfig selects the text vectorization strategy.
type VectorizerConfig struct {
	Strategy    string `yaml:"strategy"` // "tfidf" or "embedding"
	MaxFeatures int    `yaml:"max_features"`
	NgramMax    int    `yaml:"ngram_max"`
	ApplyLSA    bool   `yaml:"apply_lsa"`
	Components  int    `yaml:"components"`
}

// EmbeddingConfig holds pretrained embedding configuration.
type EmbeddingConfig struct {
	Provider          string  `yaml:"provider"`    // "openai", "ollama", "jina", "deepseek", "gemini", "mock"
	Model             string  `yaml:"model"`       // e.g., "all-minilm"
	APIKeyEnv         string  `yaml:"api_key_env"` // Environment variable for API key
	BaseURL           string  `yaml:"base_url"`
	Dimension         int     `yaml:"dimension"`
	BatchSize         int     `yaml:"batch_size"`
	Concurrency       int     `yaml:"concurrency"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	TimeoutSecs       int     `yaml:"timeout_secs"`
}

// CacheConfig controls the persisted vector cache and the in-process query cache.
type CacheConfig struct {
	Enabled       bool          `yaml:"enabled"`
	Dir           string        `yaml:"dir"`
	QueryCacheMax int           `yaml:"query_cache_max"`
	QueryCacheTTL time.Duration `yaml:"query_cache_ttl"`
}

// RankConfig holds scoring configuration.
type RankConfig struct {
	TopK           int     `yaml:"top_k"`
	SemanticWeight float64 `yaml:"semantic_weight"`
	SkillWeight    float64 `yaml:"skill_weight"`
	FuzzyThreshold float64 `yaml:"fuzzy_threshold"`
}

// BoostRule adds Increment when the query mentions any of QueryKeywords and the entry
// has one of Categories or a name containing one of NameContains.
type BoostRule struct {
	Name          string   `yaml:"name"`
	QueryKeywords []string `yaml:"query_keywords"`
	Categories    []string `yaml:"categories"`
	NameContains  []string `yaml:"name_contains"`
	Increment     float64  `yaml:"increment"`
}

// ServerConfig holds HTTP serving configuration.
type ServerConfig struct {
	Addr  string `yaml:"addr"`
	Watch bool   `yaml:"watch"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// DefaultBoostRules returns the manager and technical role rules.
func DefaultBoostRules() []BoostRule {
	return []BoostRule{
		{
			Name:          "manager",
			QueryKeywords: []string{"manager", "lead", "head", "director", "leadership"},
			Categories:    []string{"Behavioral", "Personality", "Simulation"},
			NameContains:  []string{"management"},
			Increment:     0.20,
		},
		{
			Name:          "technical",
			QueryKeywords: []string{"engineer", "developer", "coding", "software", "tech"},
			NameContains:  []string{"coding", "systems"},
			Increment:     0.20,
		},
	}
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Catalogue: CatalogueConfig{
			Paths: []string{"data/shl_catalogue.csv"},
		},
		Vectorizer: VectorizerConfig{
			Strategy:    "tfidf",
			MaxFeatures: 2000,
			NgramMax:    2,
			ApplyLSA:    true,
			Components:  15,
		},
		Embedding: EmbeddingConfig{
			Provider:          "ollama",
			Model:             "all-minilm",
			APIKeyEnv:         "OPENAI_API_KEY",
			Dimension:         384,
			BatchSize:         32,
			Concurrency:       4,
			RequestsPerSecond: 0, // unlimited
			TimeoutSecs:       60,
		},
		Cache: CacheConfig{
			Enabled:       true,
			Dir:           DataDirName,
			QueryCacheMax: 256,
			QueryCacheTTL: 5 * time.Minute,
		},
		Rank: RankConfig{
			TopK:           10,
			SemanticWeight: 0.5,
			SkillWeight:    0.5,
			FuzzyThreshold: 0.85,
		},
		Boosts: DefaultBoostRules(),
		Server: ServerConfig{
			Addr: ":8000",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for assessrec.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "assessrec.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, DataDirName, "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Validate checks enumerations and limits.
func (c *Config) Validate() error {
	switch c.Vectorizer.Strategy {
	case "tfidf", "embedding":
	default:
		return fmt.Errorf("unknown vectorizer strategy %q", c.Vectorizer.Strategy)
	}
	if c.Vectorizer.Strategy == "embedding" {
		switch c.Embedding.Provider {
		case "openai", "ollama", "jina", "deepseek", "gemini", "mock":
		default:
			return fmt.Errorf("unknown embedding provider %q", c.Embedding.Provider)
		}
	}
	if c.Vectorizer.MaxFeatures <= 0 {
		return fmt.Errorf("vectorizer.max_features must be positive")
	}
	if c.Vectorizer.NgramMax <= 0 {
		return fmt.Errorf("vectorizer.ngram_max must be positive")
	}
	if c.Rank.TopK <= 0 {
		return fmt.Errorf("rank.top_k must be positive")
	}
	for _, r := range c.Boosts {
		if r.Name == "" {
			return fmt.Errorf("boost rule without name")
		}
	}
	return nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// CacheDBPath returns the path to the vector cache database.
func (c *Config) CacheDBPath(root string) string {
	dir := c.Cache.Dir
	if dir == "" {
		dir = DataDirName
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(root, dir)
	}
	return filepath.Join(dir, "vectors.db")
}

// EnsureDataDir ensures the directory holding path exists.
func EnsureDataDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0755)
}
