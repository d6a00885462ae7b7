package operators

import (
	"github.com/pkg/errors"

	"github.com/0xqq/five-video-classification-methods/nnet"
	"github.com/0xqq/five-video-classification-methods/nnet/initializers"
	"github.com/0xqq/five-video-classification-methods/nnet/utils"
)

// conv is a convolution over any number of spatial dimensions. Its input and output are stored
// with channels last. The kernel is stored [kernel..., input channels, filters].
type conv struct {
	Filters int   `json:"filters"`
	Kernel  []int `json:"kernel"`

	// Str is short for stride
	Str []int `json:"strides,omitempty"`

	// "same" or "valid"
	Padding string `json:"padding"`
	NoBias  bool   `json:"no_bias,omitempty"`

	kernelInit nnet.Initializer
	finalized  bool

	win *window
}

// Conv returns a convolutional layer with the given number of filters and kernel size, which
// implements nnet.Layer. The number of dimensions of the kernel determines the dimensions of the
// convolution: Conv(32, 3, 3) is two-dimensional and expects input [height, width, channels],
// Conv(64, 3, 3, 3) is three-dimensional and expects [time, height, width, channels].
//
// Conv does not check its arguments until it is finalized. Other methods can be called to
// further customize it -- they return *conv so they can be chained.
func Conv(filters int, kernel ...int) *conv {
	return &conv{
		Filters: filters,
		Kernel:  kernel,
		Padding: "valid",
	}
}

func (c *conv) check() {
	if c.finalized {
		panic("convolutional Operator has already been finalized")
	}
}

// Stride sets the space between the starts of kernel regions. Stride defaults to 1 in every
// dimension. Stride will panic if called after the Operator has been finalized.
func (c *conv) Stride(dims ...int) *conv {
	c.check()
	c.Str = dims
	return c
}

// Same pads the input with zeros so that, with stride 1, the output has the same spatial
// dimensions as the input. Same will panic if called after the Operator has been finalized.
func (c *conv) Same() *conv {
	c.check()
	c.Padding = "same"
	return c
}

// Valid removes any padding, so that the kernel only covers real input. This is the default.
// Valid will panic if called after the Operator has been finalized.
func (c *conv) Valid() *conv {
	c.check()
	c.Padding = "valid"
	return c
}

// Init sets the Initializer of the kernel. It defaults to the package default. Init will panic if
// called after the Operator has been finalized.
func (c *conv) Init(i nnet.Initializer) *conv {
	c.check()
	c.kernelInit = i
	return c
}

// WithoutBias removes the biases of the layer. WithoutBias will panic if called after the
// Operator has been finalized.
func (c *conv) WithoutBias() *conv {
	c.check()
	c.NoBias = true
	return c
}

func (c *conv) TypeString() string {
	return "conv"
}

func (c *conv) Finalize(in []int) ([]int, error) {
	if c.Filters < 1 {
		return nil, errors.Errorf("Number of filters must be >= 1 (%d)", c.Filters)
	} else if c.Padding != "same" && c.Padding != "valid" {
		return nil, errors.Errorf("Unknown padding %q", c.Padding)
	}

	w, out, err := newWindow(in, c.Kernel, c.Str, c.Padding == "same", c.Filters)
	if err != nil {
		return nil, err
	}

	c.win = w
	c.finalized = true
	return out, nil
}

func (c *conv) Params() []nnet.ParamSpec {
	k := c.win.kern.Size()
	ps := []nnet.ParamSpec{{
		Name:   "kernel",
		Dims:   append(append([]int(nil), c.Kernel...), c.win.channels, c.Filters),
		FanIn:  k * c.win.channels,
		FanOut: k * c.Filters,
		Init:   c.kernelInit,
	}}

	if !c.NoBias {
		ps = append(ps, nnet.ParamSpec{Name: "bias", Dims: []int{c.Filters}, Init: initializers.Zeros()})
	}

	return ps
}

func (c *conv) Evaluate(n *nnet.Node, in, out []float32) {
	w := n.Param(0).Values()
	var b []float32
	if !c.NoBias {
		b = n.Param(1).Values()
	}

	nf, nc, ks := c.Filters, c.win.channels, c.win.kern.Size()
	f := func(o int) {
		dst := out[o*nf : (o+1)*nf]
		if b != nil {
			copy(dst, b)
		} else {
			for i := range dst {
				dst[i] = 0
			}
		}

		op := c.win.outs.Point(o)
		kp := make([]int, len(op))
		ip := make([]int, len(op))

		for k := 0; k < ks; k, _ = k+1, c.win.kern.Increment(kp) {
			idx := c.win.index(op, kp, ip)
			if idx < 0 {
				continue
			}

			x := in[idx*nc : (idx+1)*nc]
			wk := w[k*nc*nf : (k+1)*nc*nf]
			for ci, xv := range x {
				if xv == 0 {
					continue
				}

				row := wk[ci*nf : (ci+1)*nf]
				for fi, wv := range row {
					dst[fi] += xv * wv
				}
			}
		}
	}

	utils.MultiThread(0, c.win.outs.Size(), f, 8, 1)
}

func (c *conv) Grad(n *nnet.Node, in, deltas []float32) {
	gw := n.Param(0).Grads()

	nf, nc, no := c.Filters, c.win.channels, c.win.outs.Size()

	// each kernel position owns its own block of gradients
	f := func(k int) {
		kp := c.win.kern.Point(k)
		ip := make([]int, len(kp))
		gk := gw[k*nc*nf : (k+1)*nc*nf]

		op := make([]int, len(kp))
		for o := 0; o < no; o, _ = o+1, c.win.outs.Increment(op) {
			idx := c.win.index(op, kp, ip)
			if idx < 0 {
				continue
			}

			d := deltas[o*nf : (o+1)*nf]
			x := in[idx*nc : (idx+1)*nc]
			for ci, xv := range x {
				if xv == 0 {
					continue
				}

				row := gk[ci*nf : (ci+1)*nf]
				for fi, dv := range d {
					row[fi] += xv * dv
				}
			}
		}
	}

	utils.MultiThread(0, c.win.kern.Size(), f, 1, 1)

	if !c.NoBias {
		gb := n.Param(1).Grads()
		for o := 0; o < no; o++ {
			for fi, dv := range deltas[o*nf : (o+1)*nf] {
				gb[fi] += dv
			}
		}
	}
}

func (c *conv) InputDeltas(n *nnet.Node, in, out, deltas, inDeltas []float32) {
	w := n.Param(0).Values()

	nf, nc, ks, no := c.Filters, c.win.channels, c.win.kern.Size(), c.win.outs.Size()

	// each input channel is handled by only one goroutine
	f := func(ci int) {
		op := make([]int, len(c.Kernel))
		kp := make([]int, len(c.Kernel))
		ip := make([]int, len(c.Kernel))

		for o := 0; o < no; o, _ = o+1, c.win.outs.Increment(op) {
			d := deltas[o*nf : (o+1)*nf]
			for k := 0; k < ks; k, _ = k+1, c.win.kern.Increment(kp) {
				idx := c.win.index(op, kp, ip)
				if idx < 0 {
					continue
				}

				row := w[(k*nc+ci)*nf : (k*nc+ci+1)*nf]
				var s float32
				for fi, dv := range d {
					s += row[fi] * dv
				}

				inDeltas[idx*nc+ci] += s
			}
		}
	}

	utils.MultiThread(0, nc, f, 1, 1)
}
