package autograd

import (
	"math"
	"testing"
)

// numeric gradient of f at xs[i] by central difference
func numGrad(f func(xs []*Value) *Value, data []float64, i int) float64 {
	const h = 1e-6
	up := append([]float64(nil), data...)
	dn := append([]float64(nil), data...)
	up[i] += h
	dn[i] -= h
	return (f(Leaves(up)).Data - f(Leaves(dn)).Data) / (2 * h)
}

func TestBackwardMatchesNumericGradient(t *testing.T) {
	f := func(xs []*Value) *Value {
		// sqrt(x0^2 + x1^2) + exp(x2) * tanh(x0) - log(x1)
		a := Sqrt(Add(Mul(xs[0], xs[0]), Mul(xs[1], xs[1])))
		b := Mul(Exp(xs[2]), Tanh(xs[0]))
		return Sub(Add(a, b), Log(xs[1]))
	}
	data := []float64{0.7, 1.3, -0.4}
	xs := Leaves(data)
	Backward(f(xs))
	for i, x := range xs {
		want := numGrad(f, data, i)
		if math.Abs(x.Grad-want) > 1e-5 {
			t.Errorf("grad[%d] = %v, numeric %v", i, x.Grad, want)
		}
	}
}

func TestDotGradients(t *testing.T) {
	xs := Leaves([]float64{1, 2, 3})
	ws := Leaves([]float64{-1, 0.5, 2})
	out := Dot(xs, ws)
	if out.Data != 1*-1+2*0.5+3*2 {
		t.Fatalf("dot = %v", out.Data)
	}
	Backward(out)
	for i := range xs {
		if xs[i].Grad != ws[i].Data {
			t.Errorf("x grad[%d] = %v, want %v", i, xs[i].Grad, ws[i].Data)
		}
		if ws[i].Grad != xs[i].Data {
			t.Errorf("w grad[%d] = %v, want %v", i, ws[i].Grad, xs[i].Data)
		}
	}
}

func TestDotConstGradients(t *testing.T) {
	xs := Leaves([]float64{2, -1})
	w := []float64{3, 4}
	out := DotConst(xs, w)
	if out.Data != 2 {
		t.Fatalf("dotconst = %v", out.Data)
	}
	Backward(out)
	if xs[0].Grad != 3 || xs[1].Grad != 4 {
		t.Errorf("grads = %v, %v", xs[0].Grad, xs[1].Grad)
	}
}

func TestSumMeanScale(t *testing.T) {
	xs := Leaves([]float64{1, 2, 3, 4})
	m := Mean(xs)
	if m.Data != 2.5 {
		t.Fatalf("mean = %v", m.Data)
	}
	Backward(Scale(m, 8))
	for i, x := range xs {
		if math.Abs(x.Grad-2) > 1e-12 {
			t.Errorf("grad[%d] = %v, want 2", i, x.Grad)
		}
	}
}

func TestGradAccumulatesOnSharedNode(t *testing.T) {
	x := V(3)
	out := Add(Mul(x, x), x) // x^2 + x, d/dx = 2x+1 = 7
	Backward(out)
	if x.Grad != 7 {
		t.Errorf("grad = %v, want 7", x.Grad)
	}
}
