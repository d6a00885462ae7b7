package initializers

import (
	"math"

	"github.com/pkg/errors"

	"github.com/0xqq/five-video-classification-methods/nnet"
)

// default values, because 'default' is a keyword
var defaultValue = map[string]float64{
	"uniform-lower": -0.05,
	"uniform-upper": 0.05,
	"normal-mean":   0,
	"normal-sd":     0.05,
	"varscl-factor": 1,
}

func init() {
	nnet.SetDefaultInitializer(GlorotUniform())

	list := []func() nnet.Initializer{
		func() nnet.Initializer { return GlorotUniform() },
		func() nnet.Initializer { return HeNormal() },
		func() nnet.Initializer { return Zeros() },
		func() nnet.Initializer {
			r := Random(Uniform())
			r.name = "random_uniform"
			return r
		},
		func() nnet.Initializer {
			r := Random(TruncNormal())
			r.name = "truncated_normal"
			return r
		},
	}

	for _, f := range list {
		nnet.RegisterInitializer(f().TypeString(), f)
	}
}

// SetDefault sets the default values used by the RNGs and VarianceScaling. The values that can be
// set are: "uniform-lower", "uniform-upper", "normal-mean", "normal-sd" and "varscl-factor".
func SetDefault(name string, value float64) error {
	if _, ok := defaultValue[name]; !ok {
		return errors.Errorf("Value with name %q does not exist", name)
	} else if math.IsNaN(value) || math.IsInf(value, 0) {
		return errors.Errorf("Value is invalid (%v)", value)
	}

	defaultValue[name] = value
	return nil
}
