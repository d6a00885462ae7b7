package models

import (
	"github.com/0xqq/five-video-classification-methods/nnet"
	"github.com/0xqq/five-video-classification-methods/nnet/operators"
)

// buildConv3D builds C3D: three-dimensional convolutions over [seq, height, width, channels],
// with the layer names used by the published Sports-1M weights. Unless spec.NoPretrained is set,
// those weights are then restored by name from spec.C3DWeights; layers not named in the file keep
// their random initialization, and a file that can't be read is an error.
func buildConv3D(spec Spec) (*nnet.Network, error) {
	net := nnet.New(Conv3D.String()).SetSeed(spec.Seed)

	frame := spec.frame(defaultC3DFrame)
	x := net.AddInput(append([]int{spec.SeqLength}, frame...)...)

	conv := func(name string, filters int) {
		x = net.Add(operators.Conv(filters, 3, 3, 3).Same(), x).SetName(name)
		x = net.Add(operators.ReLU(), x)
	}

	pool := func(name string, size ...int) {
		x = net.Add(operators.MaxPool(size...).Stride(size...), x).SetName(name)
	}

	conv("conv1", 64)
	pool("pool1", 1, 2, 2)

	conv("conv2", 128)
	pool("pool2", 2, 2, 2)

	conv("conv3a", 256)
	conv("conv3b", 256)
	pool("pool3", 2, 2, 2)

	conv("conv4a", 512)
	conv("conv4b", 512)
	pool("pool4", 2, 2, 2)

	conv("conv5a", 512)
	conv("conv5b", 512)
	x = net.Add(operators.ZeroPad(0, 1, 1), x)
	pool("pool5", 2, 2, 2)

	x = net.Add(operators.Flatten(), x)

	for _, name := range []string{"fc6", "fc7"} {
		x = net.Add(operators.Dense(4096), x).SetName(name)
		x = net.Add(operators.ReLU(), x)
		x = net.Add(operators.Dropout(0.5), x)
	}

	if _, err := finish(net, classifier(net, x, spec.NumClasses)); err != nil {
		return nil, err
	}

	if !spec.NoPretrained {
		if err := restore(net, spec.C3DWeights, "c3d"); err != nil {
			return nil, err
		}
	}

	return net, nil
}
