package learning

import (
	"math"

	ag "github.com/neurlang/genetune/autograd"
)

// Adam holds the moment estimates for one parameter set. The learning rate
// decays linearly to zero over the planned number of steps.
type Adam struct {
	params []*ag.Value
	m, v   []float64

	lr         float64
	beta1      float64
	beta2      float64
	eps        float64
	totalSteps int
	step       int
}

// NewAdam builds the solver over the given graph leaves
func (h *HyperParameters) NewAdam(params []*ag.Value, totalSteps int) *Adam {
	if totalSteps < 1 {
		totalSteps = 1
	}
	return &Adam{
		params:     params,
		m:          make([]float64, len(params)),
		v:          make([]float64, len(params)),
		lr:         h.LearningRate,
		beta1:      h.Beta1,
		beta2:      h.Beta2,
		eps:        h.Epsilon,
		totalSteps: totalSteps,
	}
}

// LR returns the decayed learning rate of the upcoming step
func (a *Adam) LR() float64 {
	return a.lr * (1 - float64(a.step)/float64(a.totalSteps))
}

// Step applies one Adam update from the accumulated gradients, then zeroes them
func (a *Adam) Step() {
	lrT := a.LR()
	a.step++
	t := float64(a.step)
	for i, p := range a.params {
		g := p.Grad
		a.m[i] = a.beta1*a.m[i] + (1-a.beta1)*g
		a.v[i] = a.beta2*a.v[i] + (1-a.beta2)*g*g
		mHat := a.m[i] / (1 - math.Pow(a.beta1, t))
		vHat := a.v[i] / (1 - math.Pow(a.beta2, t))
		p.Data -= lrT * mHat / (math.Sqrt(vHat) + a.eps)
		p.Grad = 0
	}
}
