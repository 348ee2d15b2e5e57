// Package projection implements the feed-forward projection head mapping pooled hidden states to latent vectors
package projection

import (
	"encoding/json"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	ag "github.com/neurlang/genetune/autograd"
)

// Head is the two-layer projection network: hidden -> ReLU(mid) -> latent
type Head struct {
	Hidden int         `json:"hidden"`
	Mid    int         `json:"mid"`
	Latent int         `json:"latent"`
	W1     [][]float64 `json:"w1"` // mid x hidden
	W2     [][]float64 `json:"w2"` // latent x mid
}

// New builds a projection head with uniform Xavier-style init
func New(hidden, mid, latent int, seed int64) (*Head, error) {
	if hidden < 1 || mid < 1 || latent < 1 {
		return nil, errors.Errorf("projection: bad dims %d/%d/%d", hidden, mid, latent)
	}
	rng := rand.New(rand.NewSource(seed))
	init := func(nout, nin int) [][]float64 {
		bound := 1 / math.Sqrt(float64(nin))
		m := make([][]float64, nout)
		for o := range m {
			row := make([]float64, nin)
			for i := range row {
				row[i] = (2*rng.Float64() - 1) * bound
			}
			m[o] = row
		}
		return m
	}
	return &Head{
		Hidden: hidden,
		Mid:    mid,
		Latent: latent,
		W1:     init(mid, hidden),
		W2:     init(latent, mid),
	}, nil
}

// NumParams counts the trainable head weights
func (h *Head) NumParams() int {
	return h.Mid*h.Hidden + h.Latent*h.Mid
}

// Forward is the float path: pooled hidden state in, latent vector out
func (h *Head) Forward(x []float64) []float64 {
	if len(x) != h.Hidden {
		panic("projection: input dimension mismatch")
	}
	mid := make([]float64, h.Mid)
	for o, row := range h.W1 {
		s := 0.0
		for i, w := range row {
			s += w * x[i]
		}
		if s > 0 {
			mid[o] = s
		}
	}
	out := make([]float64, h.Latent)
	for o, row := range h.W2 {
		s := 0.0
		for i, w := range row {
			s += w * mid[i]
		}
		out[o] = s
	}
	return out
}

// Vars is the head lifted into autograd leaves for training
type Vars struct {
	head   *Head
	w1, w2 [][]*ag.Value
	params []*ag.Value
}

// Bind lifts the head weights into graph leaves
func (h *Head) Bind() *Vars {
	v := &Vars{head: h}
	lift := func(m [][]float64) [][]*ag.Value {
		out := make([][]*ag.Value, len(m))
		for i, row := range m {
			out[i] = ag.Leaves(row)
			v.params = append(v.params, out[i]...)
		}
		return out
	}
	v.w1 = lift(h.W1)
	v.w2 = lift(h.W2)
	return v
}

// Params returns the trainable leaves
func (v *Vars) Params() []*ag.Value {
	return v.params
}

// Forward is the training path over graph nodes
func (v *Vars) Forward(x []*ag.Value) []*ag.Value {
	mid := make([]*ag.Value, len(v.w1))
	for o, row := range v.w1 {
		mid[o] = ag.ReLU(ag.Dot(x, row))
	}
	out := make([]*ag.Value, len(v.w2))
	for o, row := range v.w2 {
		out[o] = ag.Dot(mid, row)
	}
	return out
}

// Sync copies optimized leaf data back into the head
func (v *Vars) Sync() *Head {
	write := func(dst [][]float64, src [][]*ag.Value) {
		for i := range dst {
			for j := range dst[i] {
				dst[i][j] = src[i][j].Data
			}
		}
	}
	write(v.head.W1, v.w1)
	write(v.head.W2, v.w2)
	return v.head
}

// Save writes the head weights to path as JSON
func (h *Head) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "projection: head dir")
	}
	b, err := json.Marshal(h)
	if err != nil {
		return errors.Wrap(err, "projection: encode head")
	}
	return errors.Wrapf(os.WriteFile(path, b, 0o644), "projection: write %s", path)
}

// Load reads head weights from path
func Load(path string) (*Head, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "projection: read head %s", path)
	}
	var h Head
	if err := json.Unmarshal(b, &h); err != nil {
		return nil, errors.Wrapf(err, "projection: decode head %s", path)
	}
	if len(h.W1) != h.Mid || len(h.W2) != h.Latent {
		return nil, errors.Errorf("projection: head %s: shape mismatch", path)
	}
	return &h, nil
}
