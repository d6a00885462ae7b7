package nnet

import (
	"math/rand"
)

// Operator is the computation attached to a Node. Operators see their input and output as flat
// slices of float32, stored row-major in the dimensions given to and returned by Finalize.
//
// Operators are encoded to JSON in checkpoints, so any configuration should be held in exported
// fields; anything derived in Finalize should be unexported.
type Operator interface {
	// TypeString returns the unique string that the Operator was registered with.
	TypeString() string

	// Finalize is given the dimensions of the Operator's input and returns the dimensions of its
	// output. Finalize will always be run on an operator before any other method (except
	// TypeString), and will be run exactly once per Node.
	//
	// Incompatible input dimensions should be returned as an error.
	Finalize(in []int) ([]int, error)

	// Evaluate sets the values of the Operator's output, given its input. 'out' is not guaranteed to
	// be zeroed.
	Evaluate(n *Node, in, out []float32)

	// InputDeltas should ADD to 'inDeltas' the derivative of the total cost with respect to each
	// input value, given the same with respect to each output value ('deltas'). 'in' and 'out'
	// are the values from the most recent call to Evaluate.
	//
	// InputDeltas is only called if some Node before this one has weights.
	InputDeltas(n *Node, in, out, deltas, inDeltas []float32)
}

// Layer is an Operator that has weights.
type Layer interface {
	Operator

	// Params returns the specifications of each of the parameters of the Operator. It is called
	// once, after Finalize. The order of the returned parameters gives the index used in
	// Node.Param().
	Params() []ParamSpec

	// Grad should add to the gradients of each parameter (Node.Param(i).Grads()), given the
	// values of the input and the deltas of the output. It is called after the corresponding
	// Evaluate, and before InputDeltas.
	Grad(n *Node, in, deltas []float32)
}

// Stateful operators carry a state vector between calls when they are run within a Session. When
// they are not, the state they are given is nil and they should start from zero.
type Stateful interface {
	Operator

	// KeepsState returns whether or not the Operator wants its state to persist across Session
	// steps.
	KeepsState() bool

	// StateSize returns the number of values in the state. Only valid after Finalize.
	StateSize() int
}

// ElementwiseFunc is a function applied independently to every value. Elementwise() turns one into
// an Operator.
type ElementwiseFunc interface {
	TypeString() string

	// Value returns the output for the given input value
	Value(in float32) float32

	// Deriv returns the derivative of the output with respect to the input, given both
	Deriv(in, out float32) float32
}

// CostFunction measures how far a Network's output is from its target.
type CostFunction interface {
	TypeString() string

	// Cost returns the cost of the given outputs. The lengths of 'outs' and 'targets' will always
	// be equal.
	Cost(outs, targets []float32) float64

	// Derivs sets 'ds' to the derivative of the cost with respect to each output.
	Derivs(outs, targets, ds []float32)
}

// Optimizer changes the values of a parameter given its gradient.
type Optimizer interface {
	TypeString() string

	// Run updates the values of the parameter from its accumulated gradients, which have
	// already been averaged over the batch. 'iter' is the number of optimizer steps that the
	// Network has taken before this one.
	//
	// Any state the Optimizer needs per-parameter should be kept with Param.Slot().
	Run(p *Param, iter int)
}

// Metric scores a single output against its target. Scores are averaged over samples.
type Metric interface {
	// TypeString is also the key used for the Metric in a Result.
	TypeString() string

	Score(outs, targets []float32) float64
}

// HyperParameter is a value that may change over the course of training.
type HyperParameter interface {
	TypeString() string

	// Value returns the value of the HyperParameter at the given iteration.
	Value(iter int) float64
}

// Initializer sets the initial values of a parameter.
type Initializer interface {
	TypeString() string

	// Set fills 'ws' with starting values. 'fanIn' and 'fanOut' are given by the ParamSpec.
	Set(fanIn, fanOut int, rng *rand.Rand, ws []float32)
}
