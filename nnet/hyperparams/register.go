package hyperparams

import (
	"github.com/0xqq/five-video-classification-methods/nnet"
)

func init() {
	list := []func() nnet.HyperParameter{
		func() nnet.HyperParameter { return Constant(0) }, // 0 is just random. It'll be loaded.
		func() nnet.HyperParameter { return InverseTime(0, 0) },
		func() nnet.HyperParameter { return Step(0) },
	}

	for _, f := range list {
		nnet.RegisterHyperParameter(f().TypeString(), f)
	}
}
