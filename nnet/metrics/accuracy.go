// Package metrics provides the nnet.Metrics reported by Evaluate and the training functions.
package metrics

type accuracy struct{}

// Accuracy returns the categorical accuracy: 1 if the largest output is at the same index as the
// largest target, else 0.
func Accuracy() *accuracy {
	return &accuracy{}
}

func (a *accuracy) TypeString() string {
	return "accuracy"
}

func (a *accuracy) Score(outs, targets []float32) float64 {
	if ArgMax(outs) == ArgMax(targets) {
		return 1
	}

	return 0
}

// ArgMax returns the index of the largest value. Ties go to the lowest index.
func ArgMax(vs []float32) int {
	best := 0
	for i, v := range vs {
		if v > vs[best] {
			best = i
		}
	}

	return best
}

type binaryAccuracy struct{}

// BinaryAccuracy returns a Metric that is 1 only if every output, rounded at 0.5, equals its
// target
func BinaryAccuracy() *binaryAccuracy {
	return &binaryAccuracy{}
}

func (b *binaryAccuracy) TypeString() string {
	return "binary_accuracy"
}

func (b *binaryAccuracy) Score(outs, targets []float32) float64 {
	for i := range outs {
		var r float32
		if outs[i] > 0.5 {
			r = 1
		}

		if r != targets[i] {
			return 0
		}
	}

	return 1
}
