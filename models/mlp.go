package models

import (
	"github.com/0xqq/five-video-classification-methods/nnet"
	"github.com/0xqq/five-video-classification-methods/nnet/operators"
)

// buildMLP builds a fully connected classifier over the feature vectors of a whole sequence,
// concatenated. Its input is [features * seq].
func buildMLP(spec Spec) (*nnet.Network, error) {
	net := nnet.New(MLP.String()).SetSeed(spec.Seed)

	x := net.AddInput(spec.FeaturesLength * spec.SeqLength)
	for i := 0; i < 2; i++ {
		x = net.Add(operators.Dense(512), x)
		x = net.Add(operators.ReLU(), x)
		x = net.Add(operators.Dropout(0.5), x)
	}

	return finish(net, classifier(net, x, spec.NumClasses))
}
