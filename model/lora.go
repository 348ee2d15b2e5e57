package model

import (
	"encoding/json"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Adapter holds the low-rank LoRA matrices attached to the query and value
// projections of every attention block. B matrices start at zero, so a fresh
// adapter leaves the frozen forward untouched.
type Adapter struct {
	Rank   int `json:"rank"`
	Alpha  float64 `json:"alpha"`
	Layers []AdapterLayer `json:"layers"`
}

// AdapterLayer is the per-layer adapter weight set: delta = scale * B (A x)
type AdapterLayer struct {
	AQ [][]float64 `json:"a_q"` // rank x hidden
	BQ [][]float64 `json:"b_q"` // hidden x rank
	AV [][]float64 `json:"a_v"`
	BV [][]float64 `json:"b_v"`
}

// Scaling returns the LoRA scale alpha/rank
func (a *Adapter) Scaling() float64 {
	return a.Alpha / float64(a.Rank)
}

// NewAdapter builds a fresh adapter for the encoder config. A matrices get
// Kaiming-style gaussian init, B matrices are zero.
func NewAdapter(cfg Config, rank int, alpha float64, seed int64) (*Adapter, error) {
	if rank < 1 || rank > cfg.Hidden {
		return nil, errors.Errorf("model: adapter rank %d out of range", rank)
	}
	rng := rand.New(rand.NewSource(seed))
	std := 1 / math.Sqrt(float64(cfg.Hidden))
	zeros := func(nout, nin int) [][]float64 {
		m := make([][]float64, nout)
		for i := range m {
			m[i] = make([]float64, nin)
		}
		return m
	}
	ad := &Adapter{Rank: rank, Alpha: alpha, Layers: make([]AdapterLayer, cfg.Layers)}
	for l := range ad.Layers {
		ad.Layers[l] = AdapterLayer{
			AQ: matrix(rng, rank, cfg.Hidden, std),
			BQ: zeros(cfg.Hidden, rank),
			AV: matrix(rng, rank, cfg.Hidden, std),
			BV: zeros(cfg.Hidden, rank),
		}
	}
	return ad, nil
}

// NumParams counts the trainable adapter weights
func (a *Adapter) NumParams() int {
	n := 0
	for _, l := range a.Layers {
		n += len(l.AQ)*len(l.AQ[0]) + len(l.BQ)*len(l.BQ[0])
		n += len(l.AV)*len(l.AV[0]) + len(l.BV)*len(l.BV[0])
	}
	return n
}

// Merge folds the adapter into a copy of the encoder:
// Wq' = Wq + scale * BQ AQ, likewise for Wv. The original encoder is untouched.
func (e *Encoder) Merge(a *Adapter) (*Encoder, error) {
	if len(a.Layers) != e.Cfg.Layers {
		return nil, errors.Errorf("model: adapter has %d layers, encoder %d", len(a.Layers), e.Cfg.Layers)
	}
	out := e.Clone()
	scale := a.Scaling()
	for l, al := range a.Layers {
		addLowRank(out.W[key(l, "attn_wq")], al.BQ, al.AQ, scale)
		addLowRank(out.W[key(l, "attn_wv")], al.BV, al.AV, scale)
	}
	return out, nil
}

// addLowRank accumulates scale * B A into w in place
func addLowRank(w, b, a [][]float64, scale float64) {
	rank := len(a)
	for o := range w {
		for i := range w[o] {
			s := 0.0
			for r := 0; r < rank; r++ {
				s += b[o][r] * a[r][i]
			}
			w[o][i] += scale * s
		}
	}
}

// SaveAdapter writes the adapter weights to path as JSON
func (a *Adapter) SaveAdapter(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "model: adapter dir")
	}
	b, err := json.Marshal(a)
	if err != nil {
		return errors.Wrap(err, "model: encode adapter")
	}
	return errors.Wrapf(os.WriteFile(path, b, 0o644), "model: write %s", path)
}

// LoadAdapter reads adapter weights from path
func LoadAdapter(path string) (*Adapter, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "model: read adapter %s", path)
	}
	var a Adapter
	if err := json.Unmarshal(b, &a); err != nil {
		return nil, errors.Wrapf(err, "model: decode adapter %s", path)
	}
	if a.Rank < 1 || len(a.Layers) == 0 {
		return nil, errors.Errorf("model: adapter %s: empty or rankless", path)
	}
	return &a, nil
}
