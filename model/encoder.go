package model

import (
	"fmt"
	"math/rand"
	"sync"
)

// Weight map keys, per layer: layer%d.attn_wq, attn_wk, attn_wv, attn_wo,
// mlp_fc1, mlp_fc2. Global: tok_emb, pos_emb. All matrices are row-major
// [out][in]; embeddings are [index][hidden].

// Encoder is the genomic transformer encoder with frozen weights
type Encoder struct {
	Cfg Config
	W   map[string][][]float64

	denseOnce sync.Once
	dense     []layerDense // float-path cache, built once on first use
}

func matrix(rng *rand.Rand, nout, nin int, std float64) [][]float64 {
	m := make([][]float64, nout)
	for o := range m {
		row := make([]float64, nin)
		for i := range row {
			row[i] = rng.NormFloat64() * std
		}
		m[o] = row
	}
	return m
}

// NewRandom builds a randomly initialized encoder. Used by tests and by
// experiments that start from scratch instead of a hub checkpoint.
func NewRandom(cfg Config, seed int64) (*Encoder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(seed))
	w := map[string][][]float64{
		"tok_emb": matrix(rng, cfg.Vocab, cfg.Hidden, 0.08),
		"pos_emb": matrix(rng, cfg.Window, cfg.Hidden, 0.08),
	}
	for l := 0; l < cfg.Layers; l++ {
		w[key(l, "attn_wq")] = matrix(rng, cfg.Hidden, cfg.Hidden, 0.08)
		w[key(l, "attn_wk")] = matrix(rng, cfg.Hidden, cfg.Hidden, 0.08)
		w[key(l, "attn_wv")] = matrix(rng, cfg.Hidden, cfg.Hidden, 0.08)
		w[key(l, "attn_wo")] = matrix(rng, cfg.Hidden, cfg.Hidden, 0.08)
		w[key(l, "mlp_fc1")] = matrix(rng, cfg.FFN, cfg.Hidden, 0.08)
		w[key(l, "mlp_fc2")] = matrix(rng, cfg.Hidden, cfg.FFN, 0.08)
	}
	return &Encoder{Cfg: cfg, W: w}, nil
}

func key(layer int, name string) string {
	return fmt.Sprintf("layer%d.%s", layer, name)
}

// NumParams counts the scalar weights of the backbone
func (e *Encoder) NumParams() int {
	n := 0
	for _, m := range e.W {
		for _, row := range m {
			n += len(row)
		}
	}
	return n
}

// Clone deep-copies the encoder so adapter merging cannot alias the original
func (e *Encoder) Clone() *Encoder {
	w := make(map[string][][]float64, len(e.W))
	for k, m := range e.W {
		cm := make([][]float64, len(m))
		for i, row := range m {
			cr := make([]float64, len(row))
			copy(cr, row)
			cm[i] = cr
		}
		w[k] = cm
	}
	return &Encoder{Cfg: e.Cfg, W: w}
}
