package nnet

import (
	"github.com/0xqq/five-video-classification-methods/nnet/utils"
)

// Elementwise returns an Operator that applies the function to each of its input values
// independently. The output has the same dimensions as the input.
func Elementwise(f ElementwiseFunc) Operator {
	if f == nil {
		panic(NilArgError{"ElementwiseFunc"})
	}

	return &elementwise{f: f}
}

type elementwise struct {
	f ElementwiseFunc
}

// MarshalJSON encodes nothing; elementwise functions carry no configuration.
func (e *elementwise) MarshalJSON() ([]byte, error) {
	return []byte("{}"), nil
}

func (e *elementwise) UnmarshalJSON([]byte) error {
	return nil
}

func (e *elementwise) TypeString() string {
	return e.f.TypeString()
}

// Func returns the wrapped ElementwiseFunc
func (e *elementwise) Func() ElementwiseFunc {
	return e.f
}

func (e *elementwise) Finalize(in []int) ([]int, error) {
	return in, nil
}

const elementwiseOpsPerThread = 4096

func (e *elementwise) Evaluate(n *Node, in, out []float32) {
	f := func(b int) {
		end := (b + 1) * elementwiseOpsPerThread
		if end > len(in) {
			end = len(in)
		}

		for i := b * elementwiseOpsPerThread; i < end; i++ {
			out[i] = e.f.Value(in[i])
		}
	}

	utils.MultiThread(0, blocks(len(in), elementwiseOpsPerThread), f, 1, 1)
}

func (e *elementwise) InputDeltas(n *Node, in, out, deltas, inDeltas []float32) {
	f := func(b int) {
		end := (b + 1) * elementwiseOpsPerThread
		if end > len(in) {
			end = len(in)
		}

		for i := b * elementwiseOpsPerThread; i < end; i++ {
			inDeltas[i] += deltas[i] * e.f.Deriv(in[i], out[i])
		}
	}

	utils.MultiThread(0, blocks(len(in), elementwiseOpsPerThread), f, 1, 1)
}

// blocks returns the number of blocks of the given size needed to cover n values
func blocks(n, size int) int {
	return (n + size - 1) / size
}
