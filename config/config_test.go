package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `model:
  id: acme/genomic-tiny
  cache_dir: /tmp/hub-cache
data:
  fasta: seqs.fa
train:
  epochs: 5
  batch_size: 4
  learning_rate: 0.01
  rank: 8
benchmark:
  simulate: false
  samples: 1000
`

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "genetune.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	cfg, err := Load(writeConfig(t))
	require.NoError(t, err)

	assert.Equal(t, "acme/genomic-tiny", cfg.Model.ID)
	assert.Equal(t, "/tmp/hub-cache", cfg.Model.CacheDir)
	assert.Equal(t, "seqs.fa", cfg.Data.FASTA)
	assert.Equal(t, 5, cfg.Train.Epochs)
	assert.Equal(t, 4, cfg.Train.BatchSize)
	assert.Equal(t, 0.01, cfg.Train.LearningRate)
	assert.Equal(t, 8, cfg.Train.Rank)
	assert.False(t, cfg.Benchmark.Simulate)
	assert.Equal(t, 1000, cfg.Benchmark.Samples)
}

func TestLoadFillsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t))
	require.NoError(t, err)

	// untouched by the file, filled by defaults
	assert.Equal(t, "data/brca_variants.tsv", cfg.Data.Variants)
	assert.Equal(t, "out/adapter.json", cfg.Train.AdapterPath)
	assert.Equal(t, "out/roc_comparison.png", cfg.Benchmark.PlotPath)
	assert.Equal(t, float64(8), cfg.Train.Alpha)
	assert.Equal(t, 16, cfg.Train.LatentDim)
	assert.NotZero(t, cfg.Train.Threads)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("GENETUNE_MODEL_ID", "acme/override")
	cfg, err := Load(writeConfig(t))
	require.NoError(t, err)
	assert.Equal(t, "acme/override", cfg.Model.ID)
}
