package initializers

import (
	"math/rand"
)

type constant float64

// Constant returns an Initializer that sets every value to c
func Constant(c float64) constant {
	return constant(c)
}

// Zeros returns an Initializer that sets every value to zero. It is used for biases.
func Zeros() constant {
	return constant(0)
}

func (c constant) TypeString() string {
	if c == 0 {
		return "zeros"
	}

	return "constant"
}

func (c constant) Set(fanIn, fanOut int, r *rand.Rand, ws []float32) {
	for i := range ws {
		ws[i] = float32(c)
	}
}

type random struct {
	gen  RNG
	name string
}

// Random returns an Initializer that draws every value from the RNG, regardless of the size of
// the parameter.
func Random(gen RNG) *random {
	return &random{gen: gen, name: "random"}
}

func (r *random) TypeString() string {
	return r.name
}

func (r *random) Set(fanIn, fanOut int, rng *rand.Rand, ws []float32) {
	for i := range ws {
		ws[i] = float32(r.gen.Gen(rng))
	}
}
