package benchmark

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluatePerfectSeparation(t *testing.T) {
	scores := []float64{0.9, 0.8, 0.7, 0.2, 0.1}
	classes := []bool{true, true, true, false, false}
	c, err := Evaluate(scores, classes)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, c.AUC, 1e-12)
}

func TestEvaluateInvertedScores(t *testing.T) {
	scores := []float64{0.1, 0.2, 0.8, 0.9}
	classes := []bool{true, true, false, false}
	c, err := Evaluate(scores, classes)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, c.AUC, 1e-12)
}

func TestEvaluateCurveIsMonotone(t *testing.T) {
	scores := []float64{0.1, 0.4, 0.35, 0.8, 0.65, 0.9}
	classes := []bool{false, false, true, true, false, true}
	c, err := Evaluate(scores, classes)
	require.NoError(t, err)
	require.Equal(t, len(c.FPR), len(c.TPR))
	for i := 1; i < len(c.FPR); i++ {
		assert.GreaterOrEqual(t, c.FPR[i], c.FPR[i-1])
	}
	assert.GreaterOrEqual(t, c.AUC, 0.0)
	assert.LessOrEqual(t, c.AUC, 1.0)
}

func TestEvaluateTiedScores(t *testing.T) {
	// one positive and one negative share a score: the tie contributes half
	scores := []float64{0.5, 0.5, 0.9, 0.1}
	classes := []bool{true, false, true, false}
	c, err := Evaluate(scores, classes)
	require.NoError(t, err)
	assert.InDelta(t, 0.875, c.AUC, 1e-12)
}

func TestEvaluateDoesNotMutateInputs(t *testing.T) {
	scores := []float64{0.9, 0.1, 0.5}
	classes := []bool{true, false, true}
	_, err := Evaluate(scores, classes)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.9, 0.1, 0.5}, scores)
	assert.Equal(t, []bool{true, false, true}, classes)
}

func TestEvaluateRejectsBadInput(t *testing.T) {
	_, err := Evaluate([]float64{0.5}, []bool{true, false})
	assert.Error(t, err)
	_, err = Evaluate(nil, nil)
	assert.Error(t, err)
}

func TestSimulateDeterministic(t *testing.T) {
	c1, b1, t1 := Simulate(100, 7)
	c2, b2, t2 := Simulate(100, 7)
	assert.Equal(t, c1, c2)
	assert.Equal(t, b1, b2)
	assert.Equal(t, t1, t2)
}

func TestSimulatedTunedBeatsBaseline(t *testing.T) {
	classes, baseline, tuned := Simulate(500, 42)
	cmp, err := Compare(baseline, tuned, classes)
	require.NoError(t, err)
	assert.Greater(t, cmp.Tuned.AUC, cmp.Baseline.AUC)
	// pure noise stays near chance level
	assert.InDelta(t, 0.5, cmp.Baseline.AUC, 0.1)
}

func TestPlotWritesFile(t *testing.T) {
	classes, baseline, tuned := Simulate(50, 1)
	cmp, err := Compare(baseline, tuned, classes)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "roc.png")
	require.NoError(t, cmp.Plot(path))
	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, fi.Size(), int64(0))
}
