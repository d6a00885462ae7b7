package models

import (
	"strconv"

	"github.com/0xqq/five-video-classification-methods/nnet"
	"github.com/0xqq/five-video-classification-methods/nnet/initializers"
	"github.com/0xqq/five-video-classification-methods/nnet/operators"
)

// the number of convolutions in each block of VGG16, and their filters
var vgg16Blocks = []struct{ convs, filters int }{
	{2, 64},
	{2, 128},
	{3, 256},
	{3, 512},
	{3, 512},
}

// buildStatefulLRCN builds VGG16 without its classifier, followed by a stateful LSTM, so that a
// video is fed one frame per step through an nnet.Session. Its input is a single frame,
// [height, width, channels].
//
// The layers of VGG16 are named as in the published ImageNet weights (block1_conv1 ...
// block5_pool). If spec.BackboneWeights is set, they are restored by name from it.
func buildStatefulLRCN(spec Spec) (*nnet.Network, error) {
	net := nnet.New(StatefulLRCN.String()).SetSeed(spec.Seed)

	x := net.AddInput(spec.frame(defaultFrame)...)

	for b, block := range vgg16Blocks {
		prefix := "block" + strconv.Itoa(b+1) + "_"

		for c := 1; c <= block.convs; c++ {
			op := operators.Conv(block.filters, 3, 3).Same().Init(initializers.HeNormal())
			x = net.Add(op, x).SetName(prefix + "conv" + strconv.Itoa(c))
			x = net.Add(operators.ReLU(), x)
		}

		x = net.Add(operators.MaxPool(2, 2).Stride(2, 2), x).SetName(prefix + "pool")
	}

	x = net.Add(operators.Flatten(), x)

	// a sequence of length 1
	x = net.Add(operators.Reshape(1, -1), x)
	x = net.Add(operators.LSTM(256).Dropout(0.9).Stateful(), x)

	if _, err := finish(net, classifier(net, x, spec.NumClasses)); err != nil {
		return nil, err
	}

	if spec.BackboneWeights != "" {
		if err := restore(net, spec.BackboneWeights, "vgg16"); err != nil {
			return nil, err
		}
	}

	return net, nil
}
