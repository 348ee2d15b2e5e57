package model

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/neurlang/genetune/tokenizer"
)

const normEps = 1e-5

type layerDense struct {
	wq, wk, wv, wo, fc1, fc2 *mat.Dense
}

func toDense(m [][]float64) *mat.Dense {
	r, c := len(m), len(m[0])
	flat := make([]float64, 0, r*c)
	for _, row := range m {
		flat = append(flat, row...)
	}
	return mat.NewDense(r, c, flat)
}

// denseLayers is safe for concurrent embedders sharing one encoder
func (e *Encoder) denseLayers() []layerDense {
	e.denseOnce.Do(func() {
		e.dense = make([]layerDense, e.Cfg.Layers)
		for l := 0; l < e.Cfg.Layers; l++ {
			e.dense[l] = layerDense{
				wq:  toDense(e.W[key(l, "attn_wq")]),
				wk:  toDense(e.W[key(l, "attn_wk")]),
				wv:  toDense(e.W[key(l, "attn_wv")]),
				wo:  toDense(e.W[key(l, "attn_wo")]),
				fc1: toDense(e.W[key(l, "mlp_fc1")]),
				fc2: toDense(e.W[key(l, "mlp_fc2")]),
			}
		}
	})
	return e.dense
}

func rmsnormRow(row []float64) {
	ms := 0.0
	for _, x := range row {
		ms += x * x
	}
	scale := 1 / math.Sqrt(ms/float64(len(row))+normEps)
	for i := range row {
		row[i] *= scale
	}
}

func rmsnormed(x *mat.Dense) *mat.Dense {
	var out mat.Dense
	out.CloneFrom(x)
	r, _ := out.Dims()
	for i := 0; i < r; i++ {
		rmsnormRow(out.RawRowView(i))
	}
	return &out
}

func softmaxRow(row []float64) {
	max := row[0]
	for _, v := range row[1:] {
		if v > max {
			max = v
		}
	}
	sum := 0.0
	for i, v := range row {
		e := math.Exp(v - max)
		row[i] = e
		sum += e
	}
	for i := range row {
		row[i] /= sum
	}
}

// Forward runs the frozen float path over one tokenized row and returns the
// final hidden states, one row per real (unmasked) token.
func (e *Encoder) Forward(ids []int, mask []float64) *mat.Dense {
	n := 0
	for _, m := range mask {
		if m != 0 {
			n++
		}
	}
	if n == 0 {
		panic("model: all-padding row")
	}
	h := e.Cfg.Hidden
	x := mat.NewDense(n, h, nil)
	for t := 0; t < n; t++ {
		row := x.RawRowView(t)
		tok := e.W["tok_emb"][ids[t]]
		pos := e.W["pos_emb"][t]
		for i := 0; i < h; i++ {
			row[i] = tok[i] + pos[i]
		}
		rmsnormRow(row)
	}

	heads := e.Cfg.Heads
	hd := e.Cfg.HeadDim()
	invSqrt := 1 / math.Sqrt(float64(hd))
	for _, ld := range e.denseLayers() {
		xn := rmsnormed(x)
		var q, k, v mat.Dense
		q.Mul(xn, ld.wq.T())
		k.Mul(xn, ld.wk.T())
		v.Mul(xn, ld.wv.T())

		attnOut := mat.NewDense(n, h, nil)
		scores := make([]float64, n)
		for hh := 0; hh < heads; hh++ {
			lo := hh * hd
			for t := 0; t < n; t++ {
				qRow := q.RawRowView(t)[lo : lo+hd]
				for u := 0; u < n; u++ {
					scores[u] = dot(qRow, k.RawRowView(u)[lo:lo+hd]) * invSqrt
				}
				softmaxRow(scores)
				out := attnOut.RawRowView(t)[lo : lo+hd]
				for u := 0; u < n; u++ {
					w := scores[u]
					vRow := v.RawRowView(u)[lo : lo+hd]
					for j := 0; j < hd; j++ {
						out[j] += w * vRow[j]
					}
				}
			}
		}
		var proj mat.Dense
		proj.Mul(attnOut, ld.wo.T())
		x.Add(x, &proj)

		xn2 := rmsnormed(x)
		var h1 mat.Dense
		h1.Mul(xn2, ld.fc1.T())
		h1.Apply(func(_, _ int, v float64) float64 {
			if v > 0 {
				return v
			}
			return 0
		}, &h1)
		var h2 mat.Dense
		h2.Mul(&h1, ld.fc2.T())
		x.Add(x, &h2)
	}
	return x
}

// Pool mean-pools hidden states over their rows into one vector
func Pool(hidden *mat.Dense) []float64 {
	n, h := hidden.Dims()
	out := make([]float64, h)
	for t := 0; t < n; t++ {
		row := hidden.RawRowView(t)
		for i := range out {
			out[i] += row[i]
		}
	}
	for i := range out {
		out[i] /= float64(n)
	}
	return out
}

// Embed runs Forward then Pool over one tokenized row
func (e *Encoder) Embed(ids []int, mask []float64) []float64 {
	return Pool(e.Forward(ids, mask))
}

// EmbedBatch embeds every row of a batch sequentially. Callers that want
// bounded parallelism wrap Embed with parallel.ForEach instead.
func (e *Encoder) EmbedBatch(b tokenizer.Batch) [][]float64 {
	out := make([][]float64, b.Size())
	for i := range out {
		out[i] = e.Embed(b.IDs[i], b.Mask[i])
	}
	return out
}
