package operators

import (
	"github.com/pkg/errors"

	"github.com/0xqq/five-video-classification-methods/nnet"
	"github.com/0xqq/five-video-classification-methods/nnet/utils"
)

// zeroPad surrounds each spatial dimension of its input with zeros. Channels are not padded.
type zeroPad struct {
	Padding []int `json:"padding"`

	ins, outs *utils.MultiDim
	channels  int
}

// ZeroPad returns an Operator that adds the given number of zeros to both ends of each spatial
// dimension of its input. ZeroPad(0, 1, 1) pads the height and width of [time, height, width,
// channels] input by one on each side.
func ZeroPad(padding ...int) *zeroPad {
	return &zeroPad{Padding: padding}
}

func (z *zeroPad) TypeString() string {
	return "zero_pad"
}

func (z *zeroPad) Finalize(in []int) ([]int, error) {
	spatial := len(in) - 1
	if len(z.Padding) != spatial {
		return nil, errors.Errorf("Padding %v does not match spatial dimensions of input %v", z.Padding, in)
	}

	out := make([]int, len(in))
	for d, p := range z.Padding {
		if p < 0 {
			return nil, errors.Errorf("Padding cannot be negative (%v)", z.Padding)
		}

		out[d] = in[d] + 2*p
	}

	out[spatial] = in[spatial]
	z.channels = in[spatial]
	z.ins = utils.NewMultiDim(in[:spatial])
	z.outs = utils.NewMultiDim(out[:spatial])
	return out, nil
}

// outIndex returns the flat output index of the given input point
func (z *zeroPad) outIndex(ip, op []int) int {
	for d := range ip {
		op[d] = ip[d] + z.Padding[d]
	}

	return z.outs.Index(op)
}

func (z *zeroPad) Evaluate(n *nnet.Node, in, out []float32) {
	for i := range out {
		out[i] = 0
	}

	nc := z.channels
	ip := make([]int, len(z.Padding))
	op := make([]int, len(z.Padding))
	for i, ni := 0, z.ins.Size(); i < ni; i, _ = i+1, z.ins.Increment(ip) {
		o := z.outIndex(ip, op)
		copy(out[o*nc:(o+1)*nc], in[i*nc:(i+1)*nc])
	}
}

func (z *zeroPad) InputDeltas(n *nnet.Node, in, out, deltas, inDeltas []float32) {
	nc := z.channels
	ip := make([]int, len(z.Padding))
	op := make([]int, len(z.Padding))
	for i, ni := 0, z.ins.Size(); i < ni; i, _ = i+1, z.ins.Increment(ip) {
		o := z.outIndex(ip, op)
		for c := 0; c < nc; c++ {
			inDeltas[i*nc+c] += deltas[o*nc+c]
		}
	}
}
