package nnet

import (
	"hash/fnv"
	"math/rand"

	"github.com/pkg/errors"
)

// Name returns the full name of the parameter: "<node name>/<param name>". This is the name it has
// in weight files.
func (p *Param) Name() string {
	return p.host.name + "/" + p.spec.Name
}

// Node returns the Node that the parameter belongs to
func (p *Param) Node() *Node {
	return p.host
}

// Spec returns the specification of the parameter, as given by the Operator
func (p *Param) Spec() ParamSpec {
	s := p.spec
	s.Dims = append([]int(nil), s.Dims...)
	return s
}

// Dims returns a copy of the dimensions of the parameter
func (p *Param) Dims() []int {
	return append([]int(nil), p.spec.Dims...)
}

// Size returns the number of weights in the parameter
func (p *Param) Size() int {
	return product(p.spec.Dims)
}

// Materialized returns whether or not the values of the parameter have been generated or set
func (p *Param) Materialized() bool {
	return p.values != nil
}

// Values returns the values of the parameter, generating them with its Initializer if this has
// not happened yet. The returned slice is the parameter's own storage.
//
// If there is no Initializer for the parameter and no default has been set, Values will panic
// with ErrNoInitializer.
func (p *Param) Values() []float32 {
	if p.values == nil {
		ini := p.spec.Init
		if ini == nil {
			ini = defaultInitializer
		}

		if ini == nil {
			panic(errors.Wrapf(ErrNoInitializer, "Can't generate values of %s", p.Name()))
		}

		p.values = make([]float32, p.Size())
		ini.Set(p.spec.FanIn, p.spec.FanOut, p.rand(), p.values)
	}

	return p.values
}

// rand returns a source of randomness determined only by the seed of the Network and the name of
// the parameter
func (p *Param) rand() *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(p.Name()))
	return rand.New(rand.NewSource(p.host.host.seed ^ int64(h.Sum64())))
}

// Set copies the given values into the parameter. If the number of values is not equal to the
// size of the parameter, Set returns type SizeMismatchError.
func (p *Param) Set(values []float32) error {
	if len(values) != p.Size() {
		return SizeMismatchError{p.Size(), len(values), p.Name()}
	}

	if p.values == nil {
		p.values = make([]float32, p.Size())
	}

	copy(p.values, values)
	return nil
}

// Grads returns the accumulated gradients of the parameter, allocating them if necessary.
func (p *Param) Grads() []float32 {
	if p.grads == nil {
		p.grads = make([]float32, p.Size())
	}

	return p.grads
}

// Slot returns a named slice of per-weight state, for use by Optimizers. The slice is allocated
// (zeroed) the first time it is requested.
func (p *Param) Slot(name string) []float32 {
	if p.slots == nil {
		p.slots = make(map[string][]float32)
	}

	s, ok := p.slots[name]
	if !ok {
		s = make([]float32, p.Size())
		p.slots[name] = s
	}

	return s
}

func (p *Param) clearGrads() {
	for i := range p.grads {
		p.grads[i] = 0
	}
}
