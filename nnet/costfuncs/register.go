package costfuncs

import (
	"github.com/0xqq/five-video-classification-methods/nnet"
)

func init() {
	list := []func() nnet.CostFunction{
		func() nnet.CostFunction { return CrossEntropy() },
		func() nnet.CostFunction { return Huber(1) },
		func() nnet.CostFunction { return MSE() },
	}

	for _, f := range list {
		nnet.RegisterCostFunction(f().TypeString(), f)
	}
}
