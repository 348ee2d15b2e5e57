// Command train_reward fine-tunes the pretrained genomic encoder with the
// reward signal, writing LoRA adapter and projection-head weights.
package main

import (
	"flag"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/neurlang/genetune/config"
	"github.com/neurlang/genetune/datasets/genomic"
	"github.com/neurlang/genetune/hub"
	"github.com/neurlang/genetune/model"
	"github.com/neurlang/genetune/trainer"
)

func main() {
	cfgPath := flag.String("config", "", "experiment config file")
	debug := flag.Bool("debug", false, "debug logging")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	enc, err := loadEncoder(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("load encoder")
	}
	log.Info().
		Int("layers", enc.Cfg.Layers).
		Int("hidden", enc.Cfg.Hidden).
		Int("params", enc.NumParams()).
		Msg("encoder ready")

	recs, err := genomic.LoadFile(cfg.Data.FASTA)
	if err != nil {
		log.Fatal().Err(err).Msg("load fasta")
	}

	res, err := trainer.Finetune(enc, recs, cfg.Train)
	if err != nil {
		log.Fatal().Err(err).Msg("fine-tune")
	}

	last := res.History[len(res.History)-1]
	log.Info().
		Float64("final_loss", last.Loss).
		Float64("final_norm", last.Norm).
		Float64("final_variance", last.Variance).
		Str("adapter", cfg.Train.AdapterPath).
		Str("head", cfg.Train.HeadPath).
		Msg("weights written")
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
