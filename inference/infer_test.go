package inference

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurlang/genetune/datasets/brca"
	"github.com/neurlang/genetune/model"
	"github.com/neurlang/genetune/net/projection"
	"github.com/neurlang/genetune/tokenizer"
)

func testEncoder(t *testing.T) *model.Encoder {
	t.Helper()
	enc, err := model.NewRandom(model.Config{
		Layers: 1, Hidden: 8, Heads: 2, FFN: 16, Window: 16, Vocab: tokenizer.VocabSize,
	}, 9)
	require.NoError(t, err)
	return enc
}

func TestEmbedWithAndWithoutHead(t *testing.T) {
	enc := testEncoder(t)

	bare, err := NewEmbedder(enc, nil, 1)
	require.NoError(t, err)
	assert.Len(t, bare.Embed("GATTACA"), enc.Cfg.Hidden)

	head, err := projection.New(enc.Cfg.Hidden, 8, 4, 1)
	require.NoError(t, err)
	headed, err := NewEmbedder(enc, head, 1)
	require.NoError(t, err)
	assert.Len(t, headed.Embed("GATTACA"), head.Latent)
}

func TestNewEmbedderRejectsHeadMismatch(t *testing.T) {
	enc := testEncoder(t)
	head, err := projection.New(enc.Cfg.Hidden+1, 8, 4, 1)
	require.NoError(t, err)
	_, err = NewEmbedder(enc, head, 1)
	assert.Error(t, err)
}

func TestEmbedAllMatchesSerial(t *testing.T) {
	enc := testEncoder(t)
	e, err := NewEmbedder(enc, nil, 4)
	require.NoError(t, err)

	seqs := []string{"ACGT", "GATTACA", "TTTTCCCCAAAA", "CG"}
	all := e.EmbedAll(seqs)
	require.Len(t, all, len(seqs))
	for i, s := range seqs {
		assert.Equal(t, e.Embed(s), all[i])
	}
}

func TestScoreVariants(t *testing.T) {
	enc := testEncoder(t)
	e, err := NewEmbedder(enc, nil, 2)
	require.NoError(t, err)

	reference := strings.Repeat("ACGT", 16)
	vs := []brca.Variant{
		{Position: 2, Ref: "C", Alt: "T", Label: "pathogenic"},
		{Position: 30, Ref: "C", Alt: "G", Label: "benign"},
		{Position: 64, Ref: "T", Alt: "A", Label: "benign"},
	}
	scores, err := e.ScoreVariants(reference, vs)
	require.NoError(t, err)
	require.Len(t, scores, len(vs))
	for i, s := range scores {
		assert.Greater(t, s, 0.0, "variant %d produced a zero effect score", i)
	}
}

func TestScoreVariantsRejectsOutOfRange(t *testing.T) {
	enc := testEncoder(t)
	e, err := NewEmbedder(enc, nil, 1)
	require.NoError(t, err)

	_, err = e.ScoreVariants("ACGT", []brca.Variant{
		{Position: 5, Ref: "A", Alt: "C", Label: "benign"},
	})
	assert.Error(t, err)
	_, err = e.ScoreVariants("ACGT", []brca.Variant{
		{Position: 0, Ref: "A", Alt: "C", Label: "benign"},
	})
	assert.Error(t, err)
}

func TestFreshAdapterMergePreservesScores(t *testing.T) {
	enc := testEncoder(t)
	adapter, err := model.NewAdapter(enc.Cfg, 2, 4, 3)
	require.NoError(t, err)
	merged, err := enc.Merge(adapter)
	require.NoError(t, err)

	base, err := NewEmbedder(enc, nil, 1)
	require.NoError(t, err)
	tuned, err := NewEmbedder(merged, nil, 1)
	require.NoError(t, err)

	reference := strings.Repeat("GATTACA", 8)
	vs := []brca.Variant{{Position: 10, Ref: "T", Alt: "G", Label: "benign"}}
	s1, err := base.ScoreVariants(reference, vs)
	require.NoError(t, err)
	s2, err := tuned.ScoreVariants(reference, vs)
	require.NoError(t, err)
	assert.InDeltaSlice(t, s1, s2, 1e-12)
}
