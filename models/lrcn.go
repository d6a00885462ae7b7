package models

import (
	"github.com/0xqq/five-video-classification-methods/nnet"
	"github.com/0xqq/five-video-classification-methods/nnet/initializers"
	"github.com/0xqq/five-video-classification-methods/nnet/operators"
)

// buildLRCN builds a convolutional network applied to every frame with shared weights, followed
// by an LSTM over the sequence of frame features. Its input is [seq, height, width, channels].
func buildLRCN(spec Spec) (*nnet.Network, error) {
	net := nnet.New(LRCN.String()).SetSeed(spec.Seed)

	frame := spec.frame(defaultFrame)
	x := net.AddInput(append([]int{spec.SeqLength}, frame...)...)

	// per-frame convolutions. relu is applied elementwise, so it doesn't need to be distributed.
	conv := func(op nnet.Operator) {
		x = net.Add(operators.TimeDistributed(op), x)
		x = net.Add(operators.ReLU(), x)
	}

	pool := func() {
		x = net.Add(operators.TimeDistributed(operators.MaxPool(2, 2).Stride(2, 2)), x)
	}

	conv(operators.Conv(32, 7, 7).Stride(2, 2).Same())
	conv(operators.Conv(32, 3, 3).Init(initializers.HeNormal()))
	pool()

	for _, filters := range []int{64, 128, 256, 512} {
		conv(operators.Conv(filters, 3, 3).Same())
		conv(operators.Conv(filters, 3, 3).Same())
		pool()
	}

	x = net.Add(operators.TimeDistributed(operators.Flatten()), x)
	x = net.Add(operators.Dropout(0.9), x)
	x = net.Add(operators.LSTM(256).Dropout(0.9), x)

	return finish(net, classifier(net, x, spec.NumClasses))
}
