package operators

import (
	"github.com/pkg/errors"

	"github.com/0xqq/five-video-classification-methods/nnet"
	"github.com/0xqq/five-video-classification-methods/nnet/utils"
)

// Because values are always stored flat, Flatten and Reshape only change the dimensions that
// later Operators see.

type flatten struct{}

// Flatten returns an Operator that gives its input as a single dimension
func Flatten() *flatten {
	return &flatten{}
}

func (f *flatten) TypeString() string {
	return "flatten"
}

func (f *flatten) Finalize(in []int) ([]int, error) {
	return []int{utils.Product(in)}, nil
}

func (f *flatten) Evaluate(n *nnet.Node, in, out []float32) {
	copy(out, in)
}

func (f *flatten) InputDeltas(n *nnet.Node, in, out, deltas, inDeltas []float32) {
	for i, d := range deltas {
		inDeltas[i] += d
	}
}

type reshape struct {
	Dims []int `json:"dims"`
}

// Reshape returns an Operator that gives its input with new dimensions. At most one of the
// dimensions may be -1, in which case it is inferred from the size of the input:
// Reshape(1, -1) turns a flat input into a sequence of length one.
func Reshape(dims ...int) *reshape {
	return &reshape{Dims: dims}
}

func (r *reshape) TypeString() string {
	return "reshape"
}

func (r *reshape) Finalize(in []int) ([]int, error) {
	size := utils.Product(in)

	out := append([]int(nil), r.Dims...)
	infer, known := -1, 1
	for i, d := range out {
		switch {
		case d == -1 && infer >= 0:
			return nil, errors.Errorf("Dimensions %v have more than one -1", r.Dims)
		case d == -1:
			infer = i
		case d < 1:
			return nil, errors.Errorf("Dimensions %v must be >= 1, or -1", r.Dims)
		default:
			known *= d
		}
	}

	if infer >= 0 {
		if size%known != 0 {
			return nil, errors.Errorf("Can't reshape %v to %v, size %d is not divisible by %d", in, r.Dims, size, known)
		}

		out[infer] = size / known
	} else if known != size {
		return nil, errors.Errorf("Can't reshape %v to %v, sizes differ", in, r.Dims)
	}

	return out, nil
}

func (r *reshape) Evaluate(n *nnet.Node, in, out []float32) {
	copy(out, in)
}

func (r *reshape) InputDeltas(n *nnet.Node, in, out, deltas, inDeltas []float32) {
	for i, d := range deltas {
		inDeltas[i] += d
	}
}
