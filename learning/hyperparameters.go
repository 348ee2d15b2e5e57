// Package learning implements the optimization stage of the genetune fine-tuner
package learning

import "runtime"

// HyperParameters drive one fine-tuning run
type HyperParameters struct {
	Epochs    int `mapstructure:"epochs"` // fixed epoch budget, no early stopping
	BatchSize int `mapstructure:"batch_size"`

	LearningRate float64 `mapstructure:"learning_rate"`
	Beta1        float64 `mapstructure:"beta1"`
	Beta2        float64 `mapstructure:"beta2"`
	Epsilon      float64 `mapstructure:"epsilon"`

	DiversityWeight float64 `mapstructure:"diversity_weight"` // weight of the variance reward term

	Seed    int64 `mapstructure:"seed"`
	Threads int   `mapstructure:"threads"` // parallelism for float-path scoring, not the train step
}

// Defaults fills zero fields with the standard experiment values
func (h *HyperParameters) Defaults() {
	if h.Epochs == 0 {
		h.Epochs = 3
	}
	if h.BatchSize == 0 {
		h.BatchSize = 8
	}
	if h.LearningRate == 0 {
		h.LearningRate = 1e-3
	}
	if h.Beta1 == 0 {
		h.Beta1 = 0.9
	}
	if h.Beta2 == 0 {
		h.Beta2 = 0.999
	}
	if h.Epsilon == 0 {
		h.Epsilon = 1e-8
	}
	if h.DiversityWeight == 0 {
		h.DiversityWeight = 0.5
	}
	if h.Seed == 0 {
		h.Seed = 42
	}
	if h.Threads == 0 {
		h.Threads = runtime.NumCPU()
	}
}
