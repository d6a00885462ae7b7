package operators

import (
	"github.com/0xqq/five-video-classification-methods/nnet"
)

type relu int8

// ReLU returns a rectified linear unit activation, which gives max(0, x) for each value
func ReLU() nnet.Operator {
	return nnet.Elementwise(relu(0))
}

func (r relu) TypeString() string {
	return "relu"
}

func (r relu) Value(in float32) float32 {
	if in < 0 {
		return 0
	}

	return in
}

func (r relu) Deriv(in, out float32) float32 {
	if in > 0 {
		return 1
	}

	return 0
}
