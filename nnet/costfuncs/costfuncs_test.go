package costfuncs

import (
	"math"
	"testing"

	"github.com/0xqq/five-video-classification-methods/nnet"
)

func TestCrossEntropy(t *testing.T) {
	c := CrossEntropy()
	outs := []float32{0.2, 0.5, 0.3}
	targets := []float32{0, 1, 0}

	if got, want := c.Cost(outs, targets), -math.Log(0.5); math.Abs(got-want) > 1e-6 {
		t.Errorf("expected cost %v, got %v", want, got)
	}

	// zero outputs are clipped instead of giving infinite cost
	if got := c.Cost([]float32{1, 0}, []float32{0, 1}); math.IsInf(got, 0) || got <= 0 {
		t.Errorf("expected large finite cost, got %v", got)
	}
}

func TestDerivs(t *testing.T) {
	outs := []float32{0.2, 0.5, 0.3}
	targets := []float32{0, 1, 0}

	for _, cf := range []nnet.CostFunction{CrossEntropy(), MSE(), Huber(0.25)} {
		ds := make([]float32, len(outs))
		cf.Derivs(outs, targets, ds)

		const eps = 1e-3
		for i := range outs {
			orig := outs[i]
			outs[i] = orig + eps
			plus := cf.Cost(outs, targets)
			outs[i] = orig - eps
			minus := cf.Cost(outs, targets)
			outs[i] = orig

			num := (plus - minus) / (2 * eps)
			if math.Abs(num-float64(ds[i])) > 1e-2*math.Max(1, math.Abs(num)) {
				t.Errorf("%s: derivative %d is %v, numerically %v", cf.TypeString(), i, ds[i], num)
			}
		}
	}
}

func TestMSE(t *testing.T) {
	if got := MSE().Cost([]float32{1, 2}, []float32{0, 0}); got != 2.5 {
		t.Errorf("expected 2.5, got %v", got)
	}
}
