// Package config loads the sweep configuration. Defaults reproduce the
// fixed grid the harness has always swept; a TOML file and KMSWEEP_*
// environment variables may override them.
package config

import (
	"slices"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
	"github.com/weiihann/kmsweep/report"
)

// Config is the full sweep configuration.
type Config struct {
	ClusterCounts []int         `mapstructure:"cluster_counts"`
	PointCounts   []int         `mapstructure:"point_counts"`
	Launcher      string        `mapstructure:"launcher"`
	Target        string        `mapstructure:"target"`
	Trials        int           `mapstructure:"trials"`
	Timeout       time.Duration `mapstructure:"timeout"`
	Format        string        `mapstructure:"format"`
}

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("cluster_counts", []int{2, 3, 4, 5, 6})
	v.SetDefault("point_counts", []int{100000, 200000, 300000, 400000, 500000})
	v.SetDefault("launcher", "mpiexec")
	v.SetDefault("target", "./p5")
	v.SetDefault("trials", 1)
	v.SetDefault("timeout", time.Duration(0)) // no limit
	v.SetDefault("format", "csv")
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix("KMSWEEP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	return v
}

// Load reads configuration from path when it is non-empty, then applies
// environment overrides.
func Load(path string) (*Config, error) {
	v := New()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")

		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config file %s", path)
		}
	}

	return LoadWithViper(v)
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}

	return &cfg, nil
}

// Validate checks that the configuration describes a runnable sweep.
func (c *Config) Validate() error {
	if len(c.ClusterCounts) == 0 {
		return errors.New("cluster_counts must not be empty")
	}

	for _, n := range c.ClusterCounts {
		if n <= 0 {
			return errors.Newf("cluster_counts: %d is not positive", n)
		}
	}

	for _, n := range c.PointCounts {
		if n <= 0 {
			return errors.Newf("point_counts: %d is not positive", n)
		}
	}

	if strings.TrimSpace(c.Target) == "" {
		return errors.New("target must be set")
	}

	if c.Trials < 1 {
		return errors.Newf("trials must be at least 1, got %d", c.Trials)
	}

	if c.Timeout < 0 {
		return errors.Newf("timeout must not be negative, got %s", c.Timeout)
	}

	if formats := report.Formats(); !slices.Contains(formats, c.Format) {
		return errors.WithHintf(
			errors.Newf("unknown format %q", c.Format),
			"use one of: %s", strings.Join(formats, ", "),
		)
	}

	return nil
}
