package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoad_Defaults(t *testing.T) {
	// Isolated viper instance, no environment binding.
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadWithViper(v)
	if err != nil {
		t.Fatalf("LoadWithViper() failed: %v", err)
	}

	wantClusters := []int{2, 3, 4, 5, 6}
	if !equalInts(cfg.ClusterCounts, wantClusters) {
		t.Errorf("cluster_counts = %v, want %v", cfg.ClusterCounts, wantClusters)
	}

	wantPoints := []int{100000, 200000, 300000, 400000, 500000}
	if !equalInts(cfg.PointCounts, wantPoints) {
		t.Errorf("point_counts = %v, want %v", cfg.PointCounts, wantPoints)
	}

	if cfg.Launcher != "mpiexec" {
		t.Errorf("launcher = %q, want mpiexec", cfg.Launcher)
	}
	if cfg.Target != "./p5" {
		t.Errorf("target = %q, want ./p5", cfg.Target)
	}
	if cfg.Trials != 1 {
		t.Errorf("trials = %d, want 1", cfg.Trials)
	}
	if cfg.Timeout != 0 {
		t.Errorf("timeout = %s, want 0", cfg.Timeout)
	}
	if cfg.Format != "csv" {
		t.Errorf("format = %q, want csv", cfg.Format)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweep.toml")
	content := `
cluster_counts = [4, 8]
point_counts = [1000]
launcher = "mpiexec -n 4"
target = "./kmeans"
timeout = "30s"
format = "markdown"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if !equalInts(cfg.ClusterCounts, []int{4, 8}) {
		t.Errorf("cluster_counts = %v, want [4 8]", cfg.ClusterCounts)
	}
	if !equalInts(cfg.PointCounts, []int{1000}) {
		t.Errorf("point_counts = %v, want [1000]", cfg.PointCounts)
	}
	if cfg.Launcher != "mpiexec -n 4" {
		t.Errorf("launcher = %q", cfg.Launcher)
	}
	if cfg.Target != "./kmeans" {
		t.Errorf("target = %q", cfg.Target)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("timeout = %s, want 30s", cfg.Timeout)
	}
	if cfg.Format != "markdown" {
		t.Errorf("format = %q, want markdown", cfg.Format)
	}

	// Unset keys keep their defaults.
	if cfg.Trials != 1 {
		t.Errorf("trials = %d, want 1", cfg.Trials)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("KMSWEEP_TARGET", "./other")
	t.Setenv("KMSWEEP_TRIALS", "3")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Target != "./other" {
		t.Errorf("target = %q, want ./other", cfg.Target)
	}
	if cfg.Trials != 3 {
		t.Errorf("trials = %d, want 3", cfg.Trials)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			ClusterCounts: []int{2},
			PointCounts:   []int{100},
			Launcher:      "mpiexec",
			Target:        "./p5",
			Trials:        1,
			Format:        "csv",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"empty point counts is valid", func(c *Config) { c.PointCounts = nil }, false},
		{"empty launcher is valid", func(c *Config) { c.Launcher = "" }, false},
		{"no cluster counts", func(c *Config) { c.ClusterCounts = nil }, true},
		{"zero cluster count", func(c *Config) { c.ClusterCounts = []int{2, 0} }, true},
		{"negative point count", func(c *Config) { c.PointCounts = []int{-1} }, true},
		{"blank target", func(c *Config) { c.Target = "  " }, true},
		{"zero trials", func(c *Config) { c.Trials = 0 }, true},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, true},
		{"unknown format", func(c *Config) { c.Format = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
