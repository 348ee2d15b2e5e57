// Package reward implements the scalar reward signal optimized during fine-tuning
package reward

import ag "github.com/neurlang/genetune/autograd"

// Components are the raw reward terms of one batch, kept for logging
type Components struct {
	Norm     float64 // mean latent L2 norm, the concentration term
	Variance float64 // mean per-dimension variance, the diversity term
	Reward   float64 // Norm + weight*Variance
	Loss     float64 // -Reward
}

// Compute reduces a batch of latent vectors to the optimization loss.
// The reward is the mean vector norm plus the weighted mean per-dimension
// variance across the batch; the loss is its negation. The returned node is
// differentiable through the latents.
func Compute(latents [][]*ag.Value, weight float64) (*ag.Value, Components) {
	if len(latents) == 0 {
		panic("reward: empty batch")
	}
	dim := len(latents[0])

	norms := make([]*ag.Value, len(latents))
	for b, v := range latents {
		if len(v) != dim {
			panic("reward: ragged latent batch")
		}
		sq := make([]*ag.Value, dim)
		for i, x := range v {
			sq[i] = ag.Mul(x, x)
		}
		norms[b] = ag.Sqrt(ag.Sum(sq))
	}
	normTerm := ag.Mean(norms)

	vars := make([]*ag.Value, dim)
	for i := 0; i < dim; i++ {
		col := make([]*ag.Value, len(latents))
		for b := range latents {
			col[b] = latents[b][i]
		}
		mean := ag.Mean(col)
		dev := make([]*ag.Value, len(col))
		for b, x := range col {
			d := ag.Sub(x, mean)
			dev[b] = ag.Mul(d, d)
		}
		vars[i] = ag.Mean(dev)
	}
	varTerm := ag.Mean(vars)

	rewardNode := ag.Add(normTerm, ag.Scale(varTerm, weight))
	loss := ag.Neg(rewardNode)
	return loss, Components{
		Norm:     normTerm.Data,
		Variance: varTerm.Data,
		Reward:   rewardNode.Data,
		Loss:     loss.Data,
	}
}

// Eval computes the same statistics over plain float latents, for logging
// paths that never backpropagate.
func Eval(latents [][]float64, weight float64) Components {
	nodes := make([][]*ag.Value, len(latents))
	for i, v := range latents {
		nodes[i] = ag.Leaves(v)
	}
	_, c := Compute(nodes, weight)
	return c
}
