package costfuncs

import (
	"math"
)

type huber struct {
	Delta float64 `json:"delta"`
}

// Huber returns the Huber Loss Function, which implements nnet.CostFunction. δ controls the
// bounds of the transition between MSE and Absolute Value.
func Huber(δ float64) *huber {
	return &huber{Delta: δ}
}

func (h *huber) TypeString() string {
	return "huber"
}

func (h *huber) Cost(outs, targets []float32) float64 {
	var sum float64
	for i := range outs {
		d := math.Abs(float64(outs[i] - targets[i]))
		if d <= h.Delta {
			sum += 0.5 * d * d // faster than math.Pow
		} else {
			sum += h.Delta*d - 0.5*h.Delta*h.Delta
		}
	}

	return sum / float64(len(outs))
}

func (h *huber) Derivs(outs, targets, ds []float32) {
	n := float64(len(outs))
	for i := range outs {
		d := float64(outs[i] - targets[i])
		if !(d < -h.Delta || d > h.Delta) { // d >= -δ && d <= δ
			ds[i] = float32(d / n)
		} else {
			ds[i] = float32(math.Copysign(h.Delta, d) / n)
		}
	}
}
