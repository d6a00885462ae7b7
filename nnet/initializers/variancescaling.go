package initializers

import (
	"math"
	"math/rand"
)

type varianceScaling struct {
	// either: "in", "out", "avg"
	mode   string
	factor float64

	// whether to draw from a uniform distribution instead of a truncated normal
	uniform bool

	name string
}

const defaultVarianceMode string = "avg"

// the standard deviation of a unit normal truncated at two standard deviations
const truncNormalSD = 0.87962566103423978

// VarianceScaling returns the variance scaling initializer, which has 3 modes and a user-defined
// scaling factor. The three modes can be set by In, Out, and Avg. It defaults to Avg. Values are
// drawn from a truncated normal distribution unless Uniform is called.
func VarianceScaling() *varianceScaling {
	return &varianceScaling{mode: defaultVarianceMode, factor: defaultValue["varscl-factor"], name: "variance_scaling"}
}

// GlorotUniform returns the Glorot (Xavier) uniform initializer: uniform on ±sqrt(6 / (in + out)).
// This is the default Initializer.
func GlorotUniform() *varianceScaling {
	v := VarianceScaling().Avg().Factor(1).Uniform()
	v.name = "glorot_uniform"
	return v
}

// HeNormal returns the He initializer: a truncated normal with standard deviation sqrt(2 / in).
func HeNormal() *varianceScaling {
	v := VarianceScaling().In().Factor(2)
	v.name = "he_normal"
	return v
}

func (v *varianceScaling) TypeString() string {
	return v.name
}

// Factor sets the scaling factor to be used for the Initializer. The default factor can be set by
// SetDefault("varscl-factor")
func (v *varianceScaling) Factor(f float64) *varianceScaling {
	v.factor = f
	return v
}

// In sets the scaling to be based on the number of input values to the parameter.
func (v *varianceScaling) In() *varianceScaling {
	v.mode = "in"
	return v
}

// Out sets the scaling to be based on the number of output values from the parameter.
func (v *varianceScaling) Out() *varianceScaling {
	v.mode = "out"
	return v
}

// Avg sets the scaling to be based on the average of the numbers of input and output values.
func (v *varianceScaling) Avg() *varianceScaling {
	v.mode = "avg"
	return v
}

// Uniform makes the Initializer draw from a uniform distribution with the same variance.
func (v *varianceScaling) Uniform() *varianceScaling {
	v.uniform = true
	return v
}

// Set is the implementation of nnet.Initializer
func (v *varianceScaling) Set(fanIn, fanOut int, r *rand.Rand, ws []float32) {
	var scale float64
	if v.mode == "in" {
		scale = float64(fanIn)
	} else if v.mode == "out" {
		scale = float64(fanOut)
	} else { // must be "avg"
		scale = float64(fanIn+fanOut) / 2
	}

	if scale < 1 {
		scale = 1
	}

	var gen RNG
	if v.uniform {
		limit := math.Sqrt(3 * v.factor / scale)
		gen = Uniform().Bounds(-limit, limit)
	} else {
		t := TruncNormal()
		t.SD(math.Sqrt(v.factor/scale) / truncNormalSD)
		gen = t
	}

	for i := range ws {
		ws[i] = float32(gen.Gen(r))
	}
}
