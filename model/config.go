// Package model implements the pretrained genomic transformer encoder and its LoRA adapters
package model

import "github.com/neurlang/genetune/tokenizer"

// Config holds the encoder architecture. It travels inside the checkpoint
// and must divide evenly: Hidden % Heads == 0.
type Config struct {
	Layers int `json:"layers"`
	Hidden int `json:"hidden"`
	Heads  int `json:"heads"`
	FFN    int `json:"ffn"`
	Window int `json:"window"`
	Vocab  int `json:"vocab"`
}

// DefaultConfig is the architecture used when no checkpoint dictates one,
// sized for CPU experiments rather than accuracy.
func DefaultConfig() Config {
	return Config{
		Layers: 2,
		Hidden: 64,
		Heads:  4,
		FFN:    128,
		Window: 128,
		Vocab:  tokenizer.VocabSize,
	}
}

// Validate reports the first structural problem with the config
func (c Config) Validate() error {
	switch {
	case c.Layers < 1:
		return errConfig("layers")
	case c.Hidden < 1:
		return errConfig("hidden")
	case c.Heads < 1 || c.Hidden%c.Heads != 0:
		return errConfig("heads")
	case c.FFN < 1:
		return errConfig("ffn")
	case c.Window < 2:
		return errConfig("window")
	case c.Vocab < tokenizer.VocabSize:
		return errConfig("vocab")
	}
	return nil
}

type errConfig string

func (e errConfig) Error() string {
	return "model: invalid config field: " + string(e)
}

// HeadDim returns the per-head width
func (c Config) HeadDim() int {
	return c.Hidden / c.Heads
}
