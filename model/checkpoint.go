package model

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Checkpoint is the on-disk encoder format: JSON holding the config and the
// full weight map under the standard keys.
type Checkpoint struct {
	Version int                    `json:"version"`
	Config  Config                 `json:"config"`
	Weights map[string][][]float64 `json:"weights"`
}

// Load reads an encoder checkpoint from path
func Load(path string) (*Encoder, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "model: read checkpoint %s", path)
	}
	var ckpt Checkpoint
	if err := json.Unmarshal(b, &ckpt); err != nil {
		return nil, errors.Wrapf(err, "model: decode checkpoint %s", path)
	}
	if err := ckpt.Config.Validate(); err != nil {
		return nil, err
	}
	e := &Encoder{Cfg: ckpt.Config, W: ckpt.Weights}
	if err := e.checkShapes(); err != nil {
		return nil, errors.Wrapf(err, "model: checkpoint %s", path)
	}
	return e, nil
}

// Save writes the encoder as a checkpoint to path
func (e *Encoder) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "model: checkpoint dir")
	}
	b, err := json.Marshal(Checkpoint{Version: 1, Config: e.Cfg, Weights: e.W})
	if err != nil {
		return errors.Wrap(err, "model: encode checkpoint")
	}
	return errors.Wrapf(os.WriteFile(path, b, 0o644), "model: write %s", path)
}

func (e *Encoder) checkShapes() error {
	want := map[string][2]int{
		"tok_emb": {e.Cfg.Vocab, e.Cfg.Hidden},
		"pos_emb": {e.Cfg.Window, e.Cfg.Hidden},
	}
	for l := 0; l < e.Cfg.Layers; l++ {
		want[key(l, "attn_wq")] = [2]int{e.Cfg.Hidden, e.Cfg.Hidden}
		want[key(l, "attn_wk")] = [2]int{e.Cfg.Hidden, e.Cfg.Hidden}
		want[key(l, "attn_wv")] = [2]int{e.Cfg.Hidden, e.Cfg.Hidden}
		want[key(l, "attn_wo")] = [2]int{e.Cfg.Hidden, e.Cfg.Hidden}
		want[key(l, "mlp_fc1")] = [2]int{e.Cfg.FFN, e.Cfg.Hidden}
		want[key(l, "mlp_fc2")] = [2]int{e.Cfg.Hidden, e.Cfg.FFN}
	}
	for k, dims := range want {
		m, ok := e.W[k]
		if !ok {
			return errors.Errorf("missing weight %s", k)
		}
		if len(m) != dims[0] {
			return errors.Errorf("weight %s: got %d rows, want %d", k, len(m), dims[0])
		}
		for _, row := range m {
			if len(row) != dims[1] {
				return errors.Errorf("weight %s: got %d cols, want %d", k, len(row), dims[1])
			}
		}
	}
	return nil
}
