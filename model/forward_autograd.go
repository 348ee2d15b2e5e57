package model

import (
	"math"

	ag "github.com/neurlang/genetune/autograd"
	"github.com/neurlang/genetune/tokenizer"
)

// AdapterVars is the adapter lifted into autograd leaves for training.
// Backbone weights stay plain floats; gradients exist only for these nodes.
type AdapterVars struct {
	adapter *Adapter
	layers  []adapterLayerVars
	params  []*ag.Value
}

type adapterLayerVars struct {
	aq, bq, av, bv [][]*ag.Value
}

func liftMatrix(m [][]float64, params *[]*ag.Value) [][]*ag.Value {
	out := make([][]*ag.Value, len(m))
	for i, row := range m {
		out[i] = ag.Leaves(row)
		*params = append(*params, out[i]...)
	}
	return out
}

// BindAdapter lifts adapter weights into graph leaves. Call Sync after
// training to write the optimized values back into the adapter.
func BindAdapter(a *Adapter) *AdapterVars {
	v := &AdapterVars{adapter: a, layers: make([]adapterLayerVars, len(a.Layers))}
	for l, al := range a.Layers {
		v.layers[l] = adapterLayerVars{
			aq: liftMatrix(al.AQ, &v.params),
			bq: liftMatrix(al.BQ, &v.params),
			av: liftMatrix(al.AV, &v.params),
			bv: liftMatrix(al.BV, &v.params),
		}
	}
	return v
}

// Params returns the trainable leaves in a stable order
func (v *AdapterVars) Params() []*ag.Value {
	return v.params
}

// Sync copies optimized leaf data back into the bound adapter
func (v *AdapterVars) Sync() *Adapter {
	for l, lv := range v.layers {
		writeBack(v.adapter.Layers[l].AQ, lv.aq)
		writeBack(v.adapter.Layers[l].BQ, lv.bq)
		writeBack(v.adapter.Layers[l].AV, lv.av)
		writeBack(v.adapter.Layers[l].BV, lv.bv)
	}
	return v.adapter
}

func writeBack(dst [][]float64, src [][]*ag.Value) {
	for i := range dst {
		for j := range dst[i] {
			dst[i][j] = src[i][j].Data
		}
	}
}

func rmsnormNodes(x []*ag.Value) []*ag.Value {
	sq := make([]*ag.Value, len(x))
	for i, xi := range x {
		sq[i] = ag.Mul(xi, xi)
	}
	scale := ag.Pow(ag.Shift(ag.Mean(sq), normEps), -0.5)
	out := make([]*ag.Value, len(x))
	for i, xi := range x {
		out[i] = ag.Mul(xi, scale)
	}
	return out
}

func softmaxNodes(logits []*ag.Value) []*ag.Value {
	max := logits[0].Data
	for _, l := range logits[1:] {
		if l.Data > max {
			max = l.Data
		}
	}
	exps := make([]*ag.Value, len(logits))
	for i, l := range logits {
		exps[i] = ag.Exp(ag.Shift(l, -max))
	}
	total := ag.Sum(exps)
	out := make([]*ag.Value, len(logits))
	for i := range exps {
		out[i] = ag.Div(exps[i], total)
	}
	return out
}

// linearConst applies a frozen weight matrix to a node vector
func linearConst(x []*ag.Value, w [][]float64) []*ag.Value {
	out := make([]*ag.Value, len(w))
	for o, row := range w {
		out[o] = ag.DotConst(x, row)
	}
	return out
}

// loraDelta computes scale * B (A x) for one adapted projection
func loraDelta(x []*ag.Value, a, b [][]*ag.Value, scale float64) []*ag.Value {
	u := make([]*ag.Value, len(a))
	for r, row := range a {
		u[r] = ag.Dot(x, row)
	}
	out := make([]*ag.Value, len(b))
	for o, row := range b {
		out[o] = ag.Scale(ag.Dot(u, row), scale)
	}
	return out
}

func addVecs(a, b []*ag.Value) []*ag.Value {
	out := make([]*ag.Value, len(a))
	for i := range a {
		out[i] = ag.Add(a[i], b[i])
	}
	return out
}

// ForwardPooled runs the adapted training forward over one batch and returns
// the masked-mean-pooled final hidden state per row as graph nodes.
func (e *Encoder) ForwardPooled(b tokenizer.Batch, vars *AdapterVars) [][]*ag.Value {
	out := make([][]*ag.Value, b.Size())
	for i := range out {
		out[i] = e.forwardPooledRow(b.IDs[i], b.Mask[i], vars)
	}
	return out
}

func (e *Encoder) forwardPooledRow(ids []int, mask []float64, vars *AdapterVars) []*ag.Value {
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
	scale := vars.adapter.Scaling()

	x := make([][]*ag.Value, n)
	for t := 0; t < n; t++ {
		tok := e.W["tok_emb"][ids[t]]
		pos := e.W["pos_emb"][t]
		row := make([]*ag.Value, h)
		for i := 0; i < h; i++ {
			row[i] = ag.V(tok[i] + pos[i])
		}
		x[t] = rmsnormNodes(row)
	}

	heads := e.Cfg.Heads
	hd := e.Cfg.HeadDim()
	invSqrt := 1 / math.Sqrt(float64(hd))
	for l := 0; l < e.Cfg.Layers; l++ {
		lv := vars.layers[l]
		q := make([][]*ag.Value, n)
		k := make([][]*ag.Value, n)
		v := make([][]*ag.Value, n)
		xn := make([][]*ag.Value, n)
		for t := 0; t < n; t++ {
			xn[t] = rmsnormNodes(x[t])
			q[t] = addVecs(linearConst(xn[t], e.W[key(l, "attn_wq")]), loraDelta(xn[t], lv.aq, lv.bq, scale))
			k[t] = linearConst(xn[t], e.W[key(l, "attn_wk")])
			v[t] = addVecs(linearConst(xn[t], e.W[key(l, "attn_wv")]), loraDelta(xn[t], lv.av, lv.bv, scale))
		}

		attnOut := make([][]*ag.Value, n)
		for t := 0; t < n; t++ {
			attnOut[t] = make([]*ag.Value, 0, h)
		}
		for hh := 0; hh < heads; hh++ {
			lo := hh * hd
			for t := 0; t < n; t++ {
				logits := make([]*ag.Value, n)
				for u := 0; u < n; u++ {
					logits[u] = ag.Scale(ag.Dot(q[t][lo:lo+hd], k[u][lo:lo+hd]), invSqrt)
				}
				weights := softmaxNodes(logits)
				head := make([]*ag.Value, hd)
				for j := 0; j < hd; j++ {
					col := make([]*ag.Value, n)
					for u := 0; u < n; u++ {
						col[u] = v[u][lo+j]
					}
					head[j] = ag.Dot(weights, col)
				}
				attnOut[t] = append(attnOut[t], head...)
			}
		}
		for t := 0; t < n; t++ {
			x[t] = addVecs(x[t], linearConst(attnOut[t], e.W[key(l, "attn_wo")]))
		}

		for t := 0; t < n; t++ {
			xn2 := rmsnormNodes(x[t])
			h1 := linearConst(xn2, e.W[key(l, "mlp_fc1")])
			for i := range h1 {
				h1[i] = ag.ReLU(h1[i])
			}
			x[t] = addVecs(x[t], linearConst(h1, e.W[key(l, "mlp_fc2")]))
		}
	}

	pooled := make([]*ag.Value, h)
	for i := 0; i < h; i++ {
		col := make([]*ag.Value, n)
		for t := 0; t < n; t++ {
			col[t] = x[t][i]
		}
		pooled[i] = ag.Mean(col)
	}
	return pooled
}
