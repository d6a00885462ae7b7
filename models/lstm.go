package models

import (
	"github.com/0xqq/five-video-classification-methods/nnet"
	"github.com/0xqq/five-video-classification-methods/nnet/operators"
)

// buildLSTM builds a single recurrent layer over sequences of pre-extracted feature vectors,
// followed by the classifier. Its input is [seq, features].
func buildLSTM(spec Spec) (*nnet.Network, error) {
	net := nnet.New(LSTM.String()).SetSeed(spec.Seed)

	x := net.AddInput(spec.SeqLength, spec.FeaturesLength)
	x = net.Add(operators.LSTM(2048).Dropout(0.5), x)

	return finish(net, classifier(net, x, spec.NumClasses))
}
