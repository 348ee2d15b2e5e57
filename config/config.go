// Package config loads the experiment configuration from YAML with GENETUNE_* env overrides
package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/neurlang/genetune/trainer"
)

// Model names the pretrained checkpoint and where to cache it. An empty ID
// means a randomly initialized encoder with the default architecture, which
// keeps offline runs possible.
type Model struct {
	ID       string `mapstructure:"id"`
	HubURL   string `mapstructure:"hub_url"`
	CacheDir string `mapstructure:"cache_dir"`
}

// Data points at the local input files
type Data struct {
	FASTA     string `mapstructure:"fasta"`
	Variants  string `mapstructure:"variants"`
	Reference string `mapstructure:"reference"`
}

// Benchmark controls the comparison step
type Benchmark struct {
	Simulate bool   `mapstructure:"simulate"`
	Samples  int    `mapstructure:"samples"`
	Seed     int64  `mapstructure:"seed"`
	PlotPath string `mapstructure:"plot_path"`
}

// Config is the full experiment configuration
type Config struct {
	Model     Model          `mapstructure:"model"`
	Data      Data           `mapstructure:"data"`
	Train     trainer.Config `mapstructure:"train"`
	Benchmark Benchmark      `mapstructure:"benchmark"`
}

// Load reads the config file at path ("" means ./genetune.yaml if present)
// and applies environment overrides.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("GENETUNE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("model.cache_dir", ".genetune/cache")
	v.SetDefault("data.fasta", "data/finetune.fa")
	v.SetDefault("data.variants", "data/brca_variants.tsv")
	v.SetDefault("data.reference", "data/brca_reference.fa")
	v.SetDefault("train.adapter_path", "out/adapter.json")
	v.SetDefault("train.head_path", "out/head.json")
	v.SetDefault("benchmark.simulate", true)
	v.SetDefault("benchmark.samples", 500)
	v.SetDefault("benchmark.seed", 42)
	v.SetDefault("benchmark.plot_path", "out/roc_comparison.png")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "config: read %s", path)
		}
	} else {
		v.SetConfigName("genetune")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, errors.Wrap(err, "config: read genetune.yaml")
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "config: unmarshal")
	}
	cfg.Train.Defaults()
	return cfg, nil
}
