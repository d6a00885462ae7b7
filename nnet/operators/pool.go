package operators

import (
	"github.com/pkg/errors"

	"github.com/0xqq/five-video-classification-methods/nnet"
	"github.com/0xqq/five-video-classification-methods/nnet/utils"
)

// maxPool takes the maximum of each channel over each window of its input. It has no padding.
type maxPool struct {
	Size []int `json:"size"`

	// Str is short for stride
	Str []int `json:"strides,omitempty"`

	finalized bool
	win       *window
}

// MaxPool returns a max-pooling Operator with the given window size, over any number of spatial
// dimensions. The stride defaults to the size of the window.
func MaxPool(size ...int) *maxPool {
	return &maxPool{Size: size}
}

// Stride sets the space between the starts of windows. Stride will panic if called after the
// Operator has been finalized.
func (p *maxPool) Stride(dims ...int) *maxPool {
	if p.finalized {
		panic("pooling Operator has already been finalized")
	}

	p.Str = dims
	return p
}

func (p *maxPool) TypeString() string {
	return "max_pool"
}

func (p *maxPool) Finalize(in []int) ([]int, error) {
	if len(p.Size) == 0 {
		return nil, errors.Errorf("No pool size given")
	}

	str := p.Str
	if str == nil {
		str = p.Size
	}

	w, out, err := newWindow(in, p.Size, str, false, in[len(in)-1])
	if err != nil {
		return nil, err
	}

	p.win = w
	p.finalized = true
	return out, nil
}

// argMax returns the flat input index of the largest value in channel 'c' under output point
// 'op'. The window never leaves the input, as there is no padding.
func (p *maxPool) argMax(in []float32, op, kp, ip []int, c int) int {
	nc := p.win.channels
	best := -1
	for k, ks := 0, p.win.kern.Size(); k < ks; k, _ = k+1, p.win.kern.Increment(kp) {
		i := p.win.index(op, kp, ip)*nc + c
		if best < 0 || in[i] > in[best] {
			best = i
		}
	}

	return best
}

func (p *maxPool) Evaluate(n *nnet.Node, in, out []float32) {
	nc := p.win.channels
	f := func(o int) {
		op := p.win.outs.Point(o)
		kp := make([]int, len(op))
		ip := make([]int, len(op))

		for c := 0; c < nc; c++ {
			out[o*nc+c] = in[p.argMax(in, op, kp, ip, c)]
		}
	}

	utils.MultiThread(0, p.win.outs.Size(), f, 16, 1)
}

func (p *maxPool) InputDeltas(n *nnet.Node, in, out, deltas, inDeltas []float32) {
	nc, no := p.win.channels, p.win.outs.Size()

	// windows may overlap, so each channel is handled by only one goroutine
	f := func(c int) {
		op := make([]int, len(p.Size))
		kp := make([]int, len(op))
		ip := make([]int, len(op))

		for o := 0; o < no; o, _ = o+1, p.win.outs.Increment(op) {
			inDeltas[p.argMax(in, op, kp, ip, c)] += deltas[o*nc+c]
		}
	}

	utils.MultiThread(0, nc, f, 1, 1)
}
