package metrics

import (
	"github.com/0xqq/five-video-classification-methods/nnet"
)

func init() {
	list := []func() nnet.Metric{
		func() nnet.Metric { return BinaryAccuracy() },
		func() nnet.Metric { return Accuracy() },
		func() nnet.Metric { return TopK(DefaultK) },
	}

	for _, f := range list {
		nnet.RegisterMetric(f().TypeString(), f)
	}
}
