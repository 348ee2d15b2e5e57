package projection

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ag "github.com/neurlang/genetune/autograd"
)

func TestForwardPathsAgree(t *testing.T) {
	h, err := New(6, 4, 3, 21)
	require.NoError(t, err)
	x := []float64{0.3, -1.2, 0.5, 2.0, -0.7, 0.1}

	want := h.Forward(x)
	got := ag.Datas(h.Bind().Forward(ag.Leaves(x)))
	require.Len(t, got, 3)
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-12)
	}
}

func TestForwardDimensionMismatchPanics(t *testing.T) {
	h, err := New(6, 4, 3, 21)
	require.NoError(t, err)
	assert.Panics(t, func() { h.Forward([]float64{1, 2}) })
}

func TestGradientsReachWeights(t *testing.T) {
	h, err := New(4, 3, 2, 21)
	require.NoError(t, err)
	vars := h.Bind()
	out := vars.Forward(ag.Leaves([]float64{1, -1, 0.5, 2}))
	ag.Backward(ag.Sum(out))
	nonzero := 0
	for _, p := range vars.Params() {
		if p.Grad != 0 {
			nonzero++
		}
	}
	assert.Greater(t, nonzero, 0)
}

func TestSyncWritesBack(t *testing.T) {
	h, err := New(4, 3, 2, 21)
	require.NoError(t, err)
	vars := h.Bind()
	vars.Params()[0].Data = 7.5
	assert.Equal(t, 7.5, vars.Sync().W1[0][0])
}

func TestSaveLoadRoundTrip(t *testing.T) {
	h, err := New(6, 4, 3, 33)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "head.json")
	require.NoError(t, h.Save(path))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, h, got)
}

func TestNewRejectsBadDims(t *testing.T) {
	_, err := New(0, 4, 3, 1)
	assert.Error(t, err)
}
