package optimizers

import (
	"github.com/0xqq/five-video-classification-methods/nnet"
)

func init() {
	list := []func() nnet.Optimizer{
		func() nnet.Optimizer { return GradientDescent(0) },
		func() nnet.Optimizer { return Adam() },
	}

	for _, f := range list {
		nnet.RegisterOptimizer(f().TypeString(), f)
	}
}
