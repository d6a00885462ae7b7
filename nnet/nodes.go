package nnet

import (
	"math/rand"
)

// String returns the name of the Node, quoted.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}

	return `"` + n.name + `"`
}

func (n *Node) Name() string {
	return n.name
}

// ID returns the position of the Node in its Network. The input has ID 0.
func (n *Node) ID() int {
	return n.id
}

// Operator returns the Operator of the Node, or nil for the input.
func (n *Node) Operator() Operator {
	return n.op
}

// TypeString returns the type string of the Node's Operator, or "input".
func (n *Node) TypeString() string {
	if n.op == nil {
		return "input"
	}

	return n.op.TypeString()
}

// InputDims returns a copy of the dimensions of the Node's input. It is nil for the input Node.
func (n *Node) InputDims() []int {
	if n.op == nil {
		return nil
	}

	return append([]int(nil), n.inDims...)
}

// OutputDims returns a copy of the dimensions of the Node's values.
func (n *Node) OutputDims() []int {
	return append([]int(nil), n.outDims...)
}

// Size returns the number of values of the Node.
func (n *Node) Size() int {
	return product(n.outDims)
}

// NumParams returns the number of parameters (not weights) of the Node.
func (n *Node) NumParams() int {
	return len(n.params)
}

// Param returns the parameter of the Node at the given index, as ordered by the Operator's
// Params().
func (n *Node) Param(index int) *Param {
	return n.params[index]
}

// ParamCount returns the total number of weights held by the Node
func (n *Node) ParamCount() int {
	c := 0
	for _, p := range n.params {
		c += p.Size()
	}

	return c
}

// Training returns whether or not the current pass is a training pass. Operators like Dropout
// behave differently while training.
func (n *Node) Training() bool {
	return n.host.pass.training
}

// Rand returns the source of randomness for the current pass. It is only valid during a call to
// Evaluate, and is not safe for use by multiple goroutines.
func (n *Node) Rand() *rand.Rand {
	p := &n.host.pass
	if p.rng == nil {
		p.rng = rand.New(rand.NewSource(n.host.seed))
	}

	return p.rng
}

// State returns the state vector that the Node's Operator should start from and leave its final
// state in. It is nil unless the Operator is Stateful (and wants its state kept) and the pass is
// being run in a Session, in which case the operator should start from a zero state.
func (n *Node) State() []float32 {
	s := n.host.pass.state
	if s == nil {
		return nil
	}

	st, ok := n.op.(Stateful)
	if !ok || !st.KeepsState() {
		return nil
	}

	return s.stateOf(n, st.StateSize())
}

// allocate makes the value and delta slices if they have not already been made. They are made
// lazily so that building a Network does not allocate its activations.
func (n *Node) allocate() {
	if n.values == nil {
		n.values = make([]float32, n.Size())
	}

	if n.deltas == nil && n.op != nil {
		n.deltas = make([]float32, n.Size())
	}
}

func product(dims []int) int {
	p := 1
	for _, d := range dims {
		p *= d
	}

	return p
}
