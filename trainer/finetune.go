package trainer

import (
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	ag "github.com/neurlang/genetune/autograd"
	"github.com/neurlang/genetune/datasets"
	"github.com/neurlang/genetune/datasets/genomic"
	"github.com/neurlang/genetune/learning"
	"github.com/neurlang/genetune/model"
	"github.com/neurlang/genetune/net/projection"
	"github.com/neurlang/genetune/reward"
	"github.com/neurlang/genetune/tokenizer"
)

// Config extends the hyperparameters with the adapter/head geometry and the
// output weight paths.
type Config struct {
	learning.HyperParameters `mapstructure:",squash"`

	Rank  int     `mapstructure:"rank"`
	Alpha float64 `mapstructure:"alpha"`

	MidDim    int `mapstructure:"mid_dim"`
	LatentDim int `mapstructure:"latent_dim"`

	AdapterPath string `mapstructure:"adapter_path"`
	HeadPath    string `mapstructure:"head_path"`
}

// Defaults fills zero fields, including the embedded hyperparameters
func (c *Config) Defaults() {
	c.HyperParameters.Defaults()
	if c.Rank == 0 {
		c.Rank = 4
	}
	if c.Alpha == 0 {
		c.Alpha = 8
	}
	if c.MidDim == 0 {
		c.MidDim = 32
	}
	if c.LatentDim == 0 {
		c.LatentDim = 16
	}
}

// StepMetrics is one logged training step
type StepMetrics struct {
	Epoch int
	Step  int
	LR    float64
	reward.Components
}

// Result carries the tuned weights and the per-step history
type Result struct {
	Adapter *model.Adapter
	Head    *projection.Head
	History []StepMetrics
}

// Finetune runs the single fixed-epoch training loop over the records and
// returns the tuned adapter and projection head. If output paths are set in
// the config the weights are also written to disk.
func Finetune(enc *model.Encoder, recs []genomic.Record, cfg Config) (*Result, error) {
	cfg.Defaults()
	if len(recs) == 0 {
		return nil, errors.New("trainer: no training records")
	}

	adapter, err := model.NewAdapter(enc.Cfg, cfg.Rank, cfg.Alpha, cfg.Seed)
	if err != nil {
		return nil, err
	}
	head, err := projection.New(enc.Cfg.Hidden, cfg.MidDim, cfg.LatentDim, cfg.Seed+1)
	if err != nil {
		return nil, err
	}

	vars := model.BindAdapter(adapter)
	headVars := head.Bind()
	params := make([]*ag.Value, 0, adapter.NumParams()+head.NumParams())
	params = append(params, vars.Params()...)
	params = append(params, headVars.Params()...)

	tok := tokenizer.New(enc.Cfg.Window)
	genomic.Shuffle(recs, cfg.Seed)
	ranges := datasets.Chunk(len(recs), cfg.BatchSize)
	totalSteps := cfg.Epochs * len(ranges)
	opt := cfg.NewAdam(params, totalSteps)

	log.Info().
		Int("records", len(recs)).
		Int("epochs", cfg.Epochs).
		Int("steps", totalSteps).
		Int("adapter_params", adapter.NumParams()).
		Int("head_params", head.NumParams()).
		Msg("fine-tuning start")

	res := &Result{History: make([]StepMetrics, 0, totalSteps)}
	start := time.Now()
	step := 0
	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		for _, rng := range ranges {
			seqs := genomic.Sequences(recs[rng[0]:rng[1]])
			batch := tok.EncodeBatch(seqs)

			pooled := enc.ForwardPooled(batch, vars)
			latents := make([][]*ag.Value, len(pooled))
			for i, p := range pooled {
				latents[i] = headVars.Forward(p)
			}

			loss, comps := reward.Compute(latents, cfg.DiversityWeight)
			ag.Backward(loss)
			lr := opt.LR()
			opt.Step()
			step++

			log.Info().
				Int("epoch", epoch+1).
				Int("step", step).
				Int("batch", batch.Size()).
				Float64("loss", comps.Loss).
				Float64("norm", comps.Norm).
				Float64("variance", comps.Variance).
				Float64("lr", lr).
				Msg("train step")
			res.History = append(res.History, StepMetrics{
				Epoch:      epoch + 1,
				Step:       step,
				LR:         lr,
				Components: comps,
			})
		}
	}
	log.Info().Dur("elapsed", time.Since(start)).Msg("fine-tuning done")

	res.Adapter = vars.Sync()
	res.Head = headVars.Sync()
	if cfg.AdapterPath != "" {
		if err := res.Adapter.SaveAdapter(cfg.AdapterPath); err != nil {
			return nil, err
		}
	}
	if cfg.HeadPath != "" {
		if err := res.Head.Save(cfg.HeadPath); err != nil {
			return nil, err
		}
	}
	return res, nil
}
