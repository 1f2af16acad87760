package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Vectorizer.Strategy != "tfidf" {
		t.Errorf("expected Strategy=tfidf, got %s", cfg.Vectorizer.Strategy)
	}
	if cfg.Vectorizer.MaxFeatures != 2000 {
		t.Errorf("expected MaxFeatures=2000, got %d", cfg.Vectorizer.MaxFeatures)
	}
	if cfg.Rank.SemanticWeight != 0.5 || cfg.Rank.SkillWeight != 0.5 {
		t.Errorf("expected weights 0.5/0.5, got %f/%f", cfg.Rank.SemanticWeight, cfg.Rank.SkillWeight)
	}
	if cfg.Rank.FuzzyThreshold != 0.85 {
		t.Errorf("expected FuzzyThreshold=0.85, got %f", cfg.Rank.FuzzyThreshold)
	}
	if len(cfg.Boosts) != 2 {
		t.Fatalf("expected 2 default boost rules, got %d", len(cfg.Boosts))
	}
	for _, r := range cfg.Boosts {
		if r.Increment != 0.20 {
			t.Errorf("rule %s: expected increment 0.20, got %f", r.Name, r.Increment)
		}
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "assessrec.yaml")

	content := `
vectorizer:
  components: 8
rank:
  top_k: 5
  skill_weight: 0.9
cache:
  query_cache_ttl: 30s
boosts:
  - name: graduate
    query_keywords: [graduate, intern]
    categories: [Ability]
    increment: 0.1
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Vectorizer.Components != 8 {
		t.Errorf("expected Components=8, got %d", cfg.Vectorizer.Components)
	}
	if cfg.Vectorizer.MaxFeatures != 2000 {
		t.Errorf("expected MaxFeatures default to survive, got %d", cfg.Vectorizer.MaxFeatures)
	}
	if cfg.Rank.TopK != 5 {
		t.Errorf("expected TopK=5, got %d", cfg.Rank.TopK)
	}
	if cfg.Rank.SkillWeight != 0.9 {
		t.Errorf("expected SkillWeight=0.9, got %f", cfg.Rank.SkillWeight)
	}
	if cfg.Cache.QueryCacheTTL != 30*time.Second {
		t.Errorf("expected QueryCacheTTL=30s, got %s", cfg.Cache.QueryCacheTTL)
	}
	if len(cfg.Boosts) != 1 || cfg.Boosts[0].Name != "graduate" {
		t.Errorf("expected boosts to be replaced by file rules, got %+v", cfg.Boosts)
	}
}

func TestLoad_InvalidStrategy(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "assessrec.yaml")
	if err := os.WriteFile(configPath, []byte("vectorizer:\n  strategy: magic\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("expected error for unknown strategy")
	}
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpDir, DataDirName), 0755); err != nil {
		t.Fatal(err)
	}
	configPath := filepath.Join(tmpDir, DataDirName, "config.yaml")

	content := `
server:
  addr: ":9090"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Errorf("expected Addr=:9090, got %s", cfg.Server.Addr)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := DefaultConfig()
	cfg.Rank.TopK = 3

	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Rank.TopK != 3 {
		t.Errorf("expected TopK=3 after reload, got %d", loaded.Rank.TopK)
	}
}

func TestCacheDBPath(t *testing.T) {
	cfg := DefaultConfig()
	path := cfg.CacheDBPath("/home/user/project")
	expected := filepath.Join("/home/user/project", ".assessrec", "vectors.db")
	if path != expected {
		t.Errorf("expected %s, got %s", expected, path)
	}

	cfg.Cache.Dir = "/var/cache/assessrec"
	if got := cfg.CacheDBPath("/ignored"); got != "/var/cache/assessrec/vectors.db" {
		t.Errorf("absolute cache dir should be used as is, got %s", got)
	}
}
