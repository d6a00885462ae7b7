package operators

import (
	"math"

	"github.com/pkg/errors"

	"github.com/0xqq/five-video-classification-methods/nnet"
)

func init() {
	list := []func() nnet.Operator{
		func() nnet.Operator { return TimeDistributed(Flatten()) },
		func() nnet.Operator { return Dropout(0) },
		func() nnet.Operator { return Reshape() },
		func() nnet.Operator { return Flatten() },
		func() nnet.Operator { return MaxPool() },
		func() nnet.Operator { return Logistic() },
		func() nnet.Operator { return Softmax() },
		func() nnet.Operator { return ZeroPad() },
		func() nnet.Operator { return Dense(0) },
		func() nnet.Operator { return LSTM(0) },
		func() nnet.Operator { return Conv(0) },
		func() nnet.Operator { return Tanh() },
		func() nnet.Operator { return ReLU() },
	}

	for _, f := range list {
		nnet.RegisterOperator(f().TypeString(), f)
	}
}

var defaultValue = map[string]float64{
	"lstm-forget-bias": 1,
}

// SetDefault sets the default values for certain Operators. The only value that can be set is
// "lstm-forget-bias", the starting bias of the forget gate of LSTMs created afterwards.
func SetDefault(name string, value float64) error {
	if _, ok := defaultValue[name]; !ok {
		return errors.Errorf("Value with name %q does not exist", name)
	} else if math.IsNaN(value) || math.IsInf(value, 0) {
		return errors.Errorf("Value is invalid (%v)", value)
	}

	defaultValue[name] = value
	return nil
}
