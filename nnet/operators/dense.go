package operators

import (
	"github.com/pkg/errors"

	"github.com/0xqq/five-video-classification-methods/nnet"
	"github.com/0xqq/five-video-classification-methods/nnet/initializers"
	"github.com/0xqq/five-video-classification-methods/nnet/utils"
)

// dense is a fully-connected layer of neurons. Its kernel is stored [input, units], with biases
// separate.
type dense struct {
	Units  int  `json:"units"`
	NoBias bool `json:"no_bias,omitempty"`

	kernelInit nnet.Initializer
	in         int
	finalized  bool
}

// the number of units handled by each goroutine
const denseBlock = 64

// Dense returns a fully-connected layer with the given number of units, which implements
// nnet.Layer. Its input must be one-dimensional (see Flatten).
func Dense(units int) *dense {
	return &dense{Units: units}
}

// Init sets the Initializer of the kernel. It defaults to the package default. Init will panic if
// called after the Operator has been finalized.
func (d *dense) Init(i nnet.Initializer) *dense {
	if d.finalized {
		panic("dense Operator has already been finalized")
	}

	d.kernelInit = i
	return d
}

// WithoutBias removes the biases of the layer. WithoutBias will panic if called after the Operator
// has been finalized.
func (d *dense) WithoutBias() *dense {
	if d.finalized {
		panic("dense Operator has already been finalized")
	}

	d.NoBias = true
	return d
}

func (d *dense) TypeString() string {
	return "dense"
}

func (d *dense) Finalize(in []int) ([]int, error) {
	if d.Units < 1 {
		return nil, errors.Errorf("Number of units must be >= 1 (%d)", d.Units)
	} else if len(in) != 1 {
		return nil, errors.Errorf("Input must be one-dimensional, has dimensions %v", in)
	}

	d.in = in[0]
	d.finalized = true
	return []int{d.Units}, nil
}

func (d *dense) Params() []nnet.ParamSpec {
	ps := []nnet.ParamSpec{{
		Name:   "kernel",
		Dims:   []int{d.in, d.Units},
		FanIn:  d.in,
		FanOut: d.Units,
		Init:   d.kernelInit,
	}}

	if !d.NoBias {
		ps = append(ps, nnet.ParamSpec{Name: "bias", Dims: []int{d.Units}, Init: initializers.Zeros()})
	}

	return ps
}

func (d *dense) Evaluate(n *nnet.Node, in, out []float32) {
	w := n.Param(0).Values()
	var b []float32
	if !d.NoBias {
		b = n.Param(1).Values()
	}

	u := d.Units
	f := func(blk int) {
		lo, hi := blockRange(blk, denseBlock, u)
		o := out[lo:hi]
		if b != nil {
			copy(o, b[lo:hi])
		} else {
			for j := range o {
				o[j] = 0
			}
		}

		for i, x := range in {
			if x == 0 {
				continue
			}

			row := w[i*u+lo : i*u+hi]
			for j, wv := range row {
				o[j] += x * wv
			}
		}
	}

	utils.MultiThread(0, numBlocks(u, denseBlock), f, 1, 1)
}

func (d *dense) Grad(n *nnet.Node, in, deltas []float32) {
	gw := n.Param(0).Grads()

	u := d.Units
	f := func(i int) {
		x := in[i]
		if x == 0 {
			return
		}

		row := gw[i*u : (i+1)*u]
		for j, dv := range deltas {
			row[j] += x * dv
		}
	}

	utils.MultiThread(0, d.in, f, 16, 1)

	if !d.NoBias {
		gb := n.Param(1).Grads()
		for j, dv := range deltas {
			gb[j] += dv
		}
	}
}

func (d *dense) InputDeltas(n *nnet.Node, in, out, deltas, inDeltas []float32) {
	w := n.Param(0).Values()

	u := d.Units
	f := func(i int) {
		row := w[i*u : (i+1)*u]
		var s float32
		for j, dv := range deltas {
			s += row[j] * dv
		}

		inDeltas[i] += s
	}

	utils.MultiThread(0, d.in, f, 16, 1)
}
