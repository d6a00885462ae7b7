package operators

import (
	"math"

	"github.com/0xqq/five-video-classification-methods/nnet"
)

type tanh int8

// Tanh returns an elementwise hyperbolic tangent activation
func Tanh() nnet.Operator {
	return nnet.Elementwise(tanh(0))
}

func (t tanh) TypeString() string {
	return "tanh"
}

func (t tanh) Value(in float32) float32 {
	return float32(math.Tanh(float64(in)))
}

func (t tanh) Deriv(in, out float32) float32 {
	return 1 - out*out
}
