package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rushteam/giftkit/core"
	"github.com/rushteam/giftkit/similarity"
	"github.com/rushteam/giftkit/store"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "giftkit.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Trending.MinSuccessRate != 85 || cfg.Trending.Jitter != 5.0 {
		t.Errorf("trending defaults wrong: %+v", cfg.Trending)
	}
	if cfg.Recompute.Threshold != 4 {
		t.Errorf("threshold default = %d, want 4", cfg.Recompute.Threshold)
	}
	if cfg.SearchLogCapacity != core.DefaultSearchLogCap {
		t.Errorf("search log capacity default = %d", cfg.SearchLogCapacity)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestLoad_OverridesKeepDefaults(t *testing.T) {
	path := writeConfig(t, `
trending:
  min_success_rate: 90
recompute:
  interval_seconds: 60
clusters:
  - name: edible
    expr: category == "food"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Trending.MinSuccessRate != 90 {
		t.Errorf("min_success_rate = %d, want 90", cfg.Trending.MinSuccessRate)
	}
	// 未出现的字段保持默认
	if cfg.Trending.Jitter != 5.0 || cfg.Recompute.Threshold != 4 {
		t.Errorf("untouched defaults lost: %+v", cfg)
	}
	if got := cfg.RecomputeInterval(); got != time.Minute {
		t.Errorf("RecomputeInterval = %v, want 1m", got)
	}
	if len(cfg.Clusters) != 1 || cfg.Clusters[0].Name != "edible" {
		t.Errorf("clusters = %+v", cfg.Clusters)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "trending: [not a map")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"negative scorer weight", func(c *Config) { c.Scorer.Weights.View = -1 }, false},
		{"negative similarity weight", func(c *Config) { c.Similarity.Price = -5 }, false},
		{"trending rate above 100", func(c *Config) { c.Trending.MinSuccessRate = 101 }, false},
		{"negative interval", func(c *Config) { c.Recompute.IntervalSeconds = -1 }, false},
		{"threshold above scale", func(c *Config) { c.Recompute.Threshold = 9 }, false},
		{"negative threshold", func(c *Config) { c.Recompute.Threshold = -1 }, false},
		{"zero threshold means default", func(c *Config) { c.Recompute.Threshold = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.ok {
				if err == nil {
					t.Fatal("expected validation error")
				}
				if !core.IsInvalidInput(err) {
					t.Errorf("err = %v, want INVALID_INPUT", err)
				}
			}
		})
	}
}

func TestBuild(t *testing.T) {
	mem := store.NewMemoryStore()
	defer mem.Close()
	catalog := store.NewMemoryCatalog()
	deps := Deps{
		Catalog:  catalog,
		Ratings:  store.NewRatingStore(mem),
		Metrics:  catalog,
		Profiles: store.NewProfileStore(mem),
		Events:   store.NewEventSink(mem),
	}

	cfg := Default()
	seed := int64(7)
	cfg.Trending.Seed = &seed
	cfg.SearchLogCapacity = 10

	eng, err := Build(cfg, deps)
	if err != nil {
		t.Fatal(err)
	}
	defer eng.StopScheduler()

	if eng.Recommender == nil || eng.Tracker == nil || eng.Aggregator == nil ||
		eng.Scheduler == nil || eng.Clusters == nil {
		t.Fatalf("engine incompletely wired: %+v", eng)
	}
	if eng.Tracker.SearchLogCap != 10 {
		t.Errorf("tracker search log cap = %d, want 10", eng.Tracker.SearchLogCap)
	}
}

func TestBuild_InvalidClusterRule(t *testing.T) {
	mem := store.NewMemoryStore()
	defer mem.Close()
	catalog := store.NewMemoryCatalog()
	deps := Deps{
		Catalog:  catalog,
		Ratings:  store.NewRatingStore(nil),
		Metrics:  catalog,
		Profiles: store.NewProfileStore(mem),
	}

	cfg := Default()
	cfg.Clusters = []similarity.Rule{{Name: "broken", Expr: "price >"}}

	if _, err := Build(cfg, deps); !core.IsInvalidInput(err) {
		t.Errorf("Build with broken rule = %v, want INVALID_INPUT", err)
	}
}
