package operators

import (
	"math"

	"github.com/0xqq/five-video-classification-methods/nnet"
)

type logistic int8

// Logistic returns an elementwise sigmoid activation, 1 / (1 + e^-x)
func Logistic() nnet.Operator {
	return nnet.Elementwise(logistic(0))
}

func (l logistic) TypeString() string {
	return "logistic"
}

func (l logistic) Value(in float32) float32 {
	return sigmoid(in)
}

func (l logistic) Deriv(in, out float32) float32 {
	return out * (1 - out)
}

func sigmoid(x float32) float32 {
	return float32(1 / (1 + math.Exp(-float64(x))))
}
