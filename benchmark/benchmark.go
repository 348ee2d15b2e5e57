// Package benchmark implements the baseline-vs-tuned ROC/AUC comparison
package benchmark

import (
	"math/rand"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

// Curve is one classifier's ROC curve with its area
type Curve struct {
	FPR []float64
	TPR []float64
	AUC float64
}

// Evaluate computes the ROC curve and AUC of scores against binary classes.
// Higher scores are expected to indicate the positive class.
func Evaluate(scores []float64, classes []bool) (Curve, error) {
	if len(scores) != len(classes) {
		return Curve{}, errors.Errorf("benchmark: %d scores versus %d classes", len(scores), len(classes))
	}
	if len(scores) == 0 {
		return Curve{}, errors.New("benchmark: empty score set")
	}
	y := append([]float64(nil), scores...)
	cl := append([]bool(nil), classes...)
	sort.Sort(&scoredClasses{y, cl})

	tpr, fpr, _ := stat.ROC(nil, y, cl, nil)
	// integrate over ascending fpr
	if len(fpr) > 1 && fpr[0] > fpr[len(fpr)-1] {
		reverse(fpr)
		reverse(tpr)
	}
	return Curve{FPR: fpr, TPR: tpr, AUC: integrate.Trapezoidal(fpr, tpr)}, nil
}

type scoredClasses struct {
	y  []float64
	cl []bool
}

func (s *scoredClasses) Len() int           { return len(s.y) }
func (s *scoredClasses) Less(i, j int) bool { return s.y[i] < s.y[j] }
func (s *scoredClasses) Swap(i, j int) {
	s.y[i], s.y[j] = s.y[j], s.y[i]
	s.cl[i], s.cl[j] = s.cl[j], s.cl[i]
}

func reverse(xs []float64) {
	for i, j := 0, len(xs)-1; i < j; i, j = i+1, j-1 {
		xs[i], xs[j] = xs[j], xs[i]
	}
}

// Comparison bundles both curves of one benchmark run
type Comparison struct {
	Baseline Curve
	Tuned    Curve
}

// Compare evaluates baseline and tuned scores over the same classes
func Compare(baseline, tuned []float64, classes []bool) (Comparison, error) {
	b, err := Evaluate(baseline, classes)
	if err != nil {
		return Comparison{}, errors.Wrap(err, "baseline")
	}
	t, err := Evaluate(tuned, classes)
	if err != nil {
		return Comparison{}, errors.Wrap(err, "tuned")
	}
	return Comparison{Baseline: b, Tuned: t}, nil
}

// Simulate generates the placeholder benchmark inputs: random ground-truth
// classes, pure-noise baseline scores, and tuned scores leaking a fixed
// amount of label signal so the tuned curve lands above the baseline. This
// stands in for real model predictions and tests nothing scientific.
func Simulate(n int, seed int64) (classes []bool, baseline, tuned []float64) {
	const lift = 0.35
	rng := rand.New(rand.NewSource(seed))
	classes = make([]bool, n)
	baseline = make([]float64, n)
	tuned = make([]float64, n)
	for i := 0; i < n; i++ {
		classes[i] = rng.Float64() < 0.5
		baseline[i] = rng.Float64()
		tuned[i] = rng.Float64()
		if classes[i] {
			tuned[i] += lift
		}
	}
	return classes, baseline, tuned
}
