package operators

import (
	"github.com/pkg/errors"

	"github.com/0xqq/five-video-classification-methods/nnet/utils"
)

// window is the geometry shared by convolution and pooling: a kernel slid over the spatial
// dimensions of the input (every dimension but the last, which is channels)
type window struct {
	ins, outs, kern *utils.MultiDim
	str             []int

	// padding before the first value, per dimension
	pads []int

	channels int
}

// outSize returns the length of an output dimension, and the padding before it
func outSize(in, kernel, stride int, same bool) (out, pad int, err error) {
	if same {
		out = (in + stride - 1) / stride
		total := (out-1)*stride + kernel - in
		if total < 0 {
			total = 0
		}

		return out, total / 2, nil
	}

	if in < kernel {
		return 0, 0, errors.Errorf("input of size %d is smaller than kernel of size %d", in, kernel)
	}

	return (in-kernel)/stride + 1, 0, nil
}

// newWindow calculates the geometry of the kernel over the input. The returned output dimensions
// include 'outChannels'.
func newWindow(in, kernel, stride []int, same bool, outChannels int) (*window, []int, error) {
	spatial := len(in) - 1
	if spatial < 1 {
		return nil, nil, errors.Errorf("Input %v must have at least one spatial dimension and channels", in)
	} else if len(kernel) != spatial {
		return nil, nil, errors.Errorf("Kernel %v does not have the same number of dimensions as input %v (less channels)", kernel, in)
	}

	if stride == nil {
		stride = make([]int, spatial)
		for i := range stride {
			stride[i] = 1
		}
	} else if len(stride) != spatial {
		return nil, nil, errors.Errorf("Strides %v do not have the same number of dimensions as kernel %v", stride, kernel)
	}

	w := &window{
		ins:      utils.NewMultiDim(in[:spatial]),
		kern:     utils.NewMultiDim(kernel),
		str:      append([]int(nil), stride...),
		pads:     make([]int, spatial),
		channels: in[spatial],
	}

	outDims := make([]int, spatial+1)
	for d := 0; d < spatial; d++ {
		if kernel[d] < 1 || stride[d] < 1 {
			return nil, nil, errors.Errorf("Kernel %v and strides %v must be >= 1", kernel, stride)
		}

		var err error
		outDims[d], w.pads[d], err = outSize(in[d], kernel[d], stride[d], same)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "Dimension %d", d)
		}
	}

	outDims[spatial] = outChannels
	w.outs = utils.NewMultiDim(outDims[:spatial])
	return w, outDims, nil
}

// index sets 'ip' to the input point under kernel point 'kp' for output point 'op', and returns
// its flat index. If the point is in the padding, index returns -1.
func (w *window) index(op, kp, ip []int) int {
	for d := range op {
		v := op[d]*w.str[d] - w.pads[d] + kp[d]
		if v < 0 || v >= w.ins.Dims[d] {
			return -1
		}

		ip[d] = v
	}

	return w.ins.Index(ip)
}

// blockRange returns the bounds of block b, when n values are split into blocks of the given size
func blockRange(b, size, n int) (lo, hi int) {
	return b * size, min((b+1)*size, n)
}

func numBlocks(n, size int) int {
	return (n + size - 1) / size
}
