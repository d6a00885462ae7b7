package operators

import (
	"math"

	"github.com/pkg/errors"

	"github.com/0xqq/five-video-classification-methods/nnet"
)

// softmax normalizes its one-dimensional input to a probability distribution
type softmax struct{}

// Softmax returns a softmax Operator. Its input must be one-dimensional.
func Softmax() *softmax {
	return &softmax{}
}

func (s *softmax) TypeString() string {
	return "softmax"
}

func (s *softmax) Finalize(in []int) ([]int, error) {
	if len(in) != 1 {
		return nil, errors.Errorf("Input must be one-dimensional, has dimensions %v", in)
	}

	return in, nil
}

func (s *softmax) Evaluate(n *nnet.Node, in, out []float32) {
	top := in[0]
	for _, x := range in[1:] {
		if x > top {
			top = x
		}
	}

	var sum float64
	for i, x := range in {
		e := math.Exp(float64(x - top))
		out[i] = float32(e)
		sum += e
	}

	for i := range out {
		out[i] = float32(float64(out[i]) / sum)
	}
}

func (s *softmax) InputDeltas(n *nnet.Node, in, out, deltas, inDeltas []float32) {
	var dot float32
	for i, d := range deltas {
		dot += d * out[i]
	}

	for i, y := range out {
		inDeltas[i] += y * (deltas[i] - dot)
	}
}
