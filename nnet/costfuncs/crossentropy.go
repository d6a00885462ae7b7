package costfuncs

import (
	"math"
)

// outputs are clipped to [epsilon, 1 - epsilon] before taking their log
const epsilon = 1e-7

type crossEntropy struct{}

// CrossEntropy returns the categorical cross-entropy cost function, which implements
// nnet.CostFunction. It expects the outputs to be a probability distribution (see
// operators.Softmax) and the targets to be one-hot, or otherwise sum to one.
func CrossEntropy() *crossEntropy {
	return &crossEntropy{}
}

func (c *crossEntropy) TypeString() string {
	return "categorical_crossentropy"
}

func clip(v float32) float64 {
	return math.Min(math.Max(float64(v), epsilon), 1-epsilon)
}

func (c *crossEntropy) Cost(outs, targets []float32) float64 {
	var sum float64
	for i := range outs {
		if targets[i] != 0 {
			sum -= float64(targets[i]) * math.Log(clip(outs[i]))
		}
	}

	return sum
}

func (c *crossEntropy) Derivs(outs, targets, ds []float32) {
	for i := range outs {
		ds[i] = float32(-float64(targets[i]) / clip(outs[i]))
	}
}
