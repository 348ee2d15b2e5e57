// Command benchmark_brca compares variant-pathogenicity classification of the
// fine-tuned model against the frozen baseline on the BRCA variant table,
// reporting ROC/AUC and rendering the comparison plot.
package main

import (
	"flag"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/neurlang/genetune/benchmark"
	"github.com/neurlang/genetune/config"
	"github.com/neurlang/genetune/datasets/brca"
	"github.com/neurlang/genetune/datasets/genomic"
	"github.com/neurlang/genetune/hub"
	"github.com/neurlang/genetune/inference"
	"github.com/neurlang/genetune/model"
	"github.com/neurlang/genetune/net/projection"
)

func main() {
	cfgPath := flag.String("config", "", "experiment config file")
	flag.Parse()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	var cmp benchmark.Comparison
	if cfg.Benchmark.Simulate {
		log.Warn().Msg("simulated benchmark: labels and scores are random placeholders")
		classes, baseline, tuned := benchmark.Simulate(cfg.Benchmark.Samples, cfg.Benchmark.Seed)
		cmp, err = benchmark.Compare(baseline, tuned, classes)
	} else {
		cmp, err = realComparison(cfg)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("benchmark")
	}

	log.Info().
		Float64("baseline_auc", cmp.Baseline.AUC).
		Float64("tuned_auc", cmp.Tuned.AUC).
		Float64("delta", cmp.Tuned.AUC-cmp.Baseline.AUC).
		Msg("benchmark done")

	if err := cmp.Plot(cfg.Benchmark.PlotPath); err != nil {
		log.Fatal().Err(err).Msg("plot")
	}
	log.Info().Str("path", cfg.Benchmark.PlotPath).Msg("plot written")
}

func realComparison(cfg config.Config) (benchmark.Comparison, error) {
	enc, err := loadEncoder(cfg)
	if err != nil {
		return benchmark.Comparison{}, err
	}
	adapter, err := model.LoadAdapter(cfg.Train.AdapterPath)
	if err != nil {
		return benchmark.Comparison{}, err
	}
	head, err := projection.Load(cfg.Train.HeadPath)
	if err != nil {
		return benchmark.Comparison{}, err
	}
	merged, err := enc.Merge(adapter)
	if err != nil {
		return benchmark.Comparison{}, err
	}

	refs, err := genomic.LoadFile(cfg.Data.Reference)
	if err != nil {
		return benchmark.Comparison{}, err
	}
	reference := refs[0].Seq
	variants, err := brca.LoadFile(cfg.Data.Variants)
	if err != nil {
		return benchmark.Comparison{}, err
	}
	classes := brca.Classes(variants)

	baseEmb, err := inference.NewEmbedder(enc, nil, cfg.Train.Threads)
	if err != nil {
		return benchmark.Comparison{}, err
	}
	tunedEmb, err := inference.NewEmbedder(merged, head, cfg.Train.Threads)
	if err != nil {
		return benchmark.Comparison{}, err
	}

	baseline, err := baseEmb.ScoreVariants(reference, variants)
	if err != nil {
		return benchmark.Comparison{}, err
	}
	tuned, err := tunedEmb.ScoreVariants(reference, variants)
	if err != nil {
		return benchmark.Comparison{}, err
	}
	log.Info().Int("variants", len(variants)).Msg("variants scored")
	return benchmark.Compare(baseline, tuned, classes)
}

func loadEncoder(cfg config.Config) (*model.Encoder, error) {
	if cfg.Model.ID == "" {
		log.Warn().Msg("no model id configured, using random-init encoder")
		return model.NewRandom(model.DefaultConfig(), cfg.Train.Seed)
	}
	path, err := hub.Resolve(cfg.Model.ID, cfg.Model.HubURL, cfg.Model.CacheDir)
	if err != nil {
		return nil, err
	}
	return model.Load(path)
}
