// Package autograd implements the scalar reverse-mode autodiff used by the genetune trainer
package autograd

import "math"

// Value represents one scalar node in the computation graph
type Value struct {
	Data       float64
	Grad       float64
	Children   []*Value
	LocalGrads []float64
}

// V wraps a float into a leaf node
func V(x float64) *Value {
	return &Value{Data: x}
}

// Leaves wraps a float slice into leaf nodes
func Leaves(xs []float64) []*Value {
	out := make([]*Value, len(xs))
	for i, x := range xs {
		out[i] = V(x)
	}
	return out
}

func Add(a, b *Value) *Value {
	return &Value{Data: a.Data + b.Data, Children: []*Value{a, b}, LocalGrads: []float64{1, 1}}
}

func Sub(a, b *Value) *Value {
	return &Value{Data: a.Data - b.Data, Children: []*Value{a, b}, LocalGrads: []float64{1, -1}}
}

func Mul(a, b *Value) *Value {
	return &Value{Data: a.Data * b.Data, Children: []*Value{a, b}, LocalGrads: []float64{b.Data, a.Data}}
}

func Pow(a *Value, p float64) *Value {
	return &Value{Data: math.Pow(a.Data, p), Children: []*Value{a}, LocalGrads: []float64{p * math.Pow(a.Data, p-1)}}
}

func Div(a, b *Value) *Value {
	return Mul(a, Pow(b, -1))
}

func Neg(a *Value) *Value {
	return &Value{Data: -a.Data, Children: []*Value{a}, LocalGrads: []float64{-1}}
}

func Log(a *Value) *Value {
	return &Value{Data: math.Log(a.Data), Children: []*Value{a}, LocalGrads: []float64{1 / a.Data}}
}

func Exp(a *Value) *Value {
	ed := math.Exp(a.Data)
	return &Value{Data: ed, Children: []*Value{a}, LocalGrads: []float64{ed}}
}

func Sqrt(a *Value) *Value {
	sd := math.Sqrt(a.Data)
	return &Value{Data: sd, Children: []*Value{a}, LocalGrads: []float64{1 / (2 * sd)}}
}

func Tanh(a *Value) *Value {
	td := math.Tanh(a.Data)
	return &Value{Data: td, Children: []*Value{a}, LocalGrads: []float64{1 - td*td}}
}

func ReLU(a *Value) *Value {
	if a.Data > 0 {
		return &Value{Data: a.Data, Children: []*Value{a}, LocalGrads: []float64{1}}
	}
	return &Value{Data: 0, Children: []*Value{a}, LocalGrads: []float64{0}}
}

// Scale multiplies a node by a constant without growing the graph through the constant
func Scale(a *Value, c float64) *Value {
	return &Value{Data: a.Data * c, Children: []*Value{a}, LocalGrads: []float64{c}}
}

// Shift adds a constant to a node
func Shift(a *Value, c float64) *Value {
	return &Value{Data: a.Data + c, Children: []*Value{a}, LocalGrads: []float64{1}}
}

// Sum collapses a slice of nodes into a single node
func Sum(xs []*Value) *Value {
	data := 0.0
	grads := make([]float64, len(xs))
	for i, x := range xs {
		data += x.Data
		grads[i] = 1
	}
	return &Value{Data: data, Children: xs, LocalGrads: grads}
}

// Mean is Sum divided by the element count
func Mean(xs []*Value) *Value {
	return Scale(Sum(xs), 1/float64(len(xs)))
}

// DotConst computes the inner product of nodes xs with constant weights w
// as a single fused graph node. The weights receive no gradient.
func DotConst(xs []*Value, w []float64) *Value {
	if len(xs) != len(w) {
		panic("autograd: dot dimension mismatch")
	}
	data := 0.0
	grads := make([]float64, len(xs))
	for i, x := range xs {
		data += x.Data * w[i]
		grads[i] = w[i]
	}
	return &Value{Data: data, Children: xs, LocalGrads: grads}
}

// Dot computes the inner product of two node slices. Both sides receive gradients.
func Dot(xs, ws []*Value) *Value {
	if len(xs) != len(ws) {
		panic("autograd: dot dimension mismatch")
	}
	data := 0.0
	children := make([]*Value, 0, 2*len(xs))
	grads := make([]float64, 0, 2*len(xs))
	for i := range xs {
		data += xs[i].Data * ws[i].Data
		children = append(children, xs[i], ws[i])
		grads = append(grads, ws[i].Data, xs[i].Data)
	}
	return &Value{Data: data, Children: children, LocalGrads: grads}
}

// Backward runs the reverse sweep from out, accumulating gradients into the graph.
// Leaf gradients are not zeroed first; the optimizer owns that.
func Backward(out *Value) {
	var topo []*Value
	visited := map[*Value]bool{}
	var build func(v *Value)
	build = func(v *Value) {
		if visited[v] {
			return
		}
		visited[v] = true
		for _, ch := range v.Children {
			build(ch)
		}
		topo = append(topo, v)
	}
	build(out)
	out.Grad = 1
	for i := len(topo) - 1; i >= 0; i-- {
		v := topo[i]
		for j, ch := range v.Children {
			ch.Grad += v.LocalGrads[j] * v.Grad
		}
	}
}

// Datas extracts the raw floats from a node slice
func Datas(xs []*Value) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = x.Data
	}
	return out
}
