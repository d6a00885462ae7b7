package nnet

import (
	"github.com/google/uuid"
)

// Name returns the name given to New
func (net *Network) Name() string {
	return net.name
}

// ID returns the unique identifier of the Network. It is kept through Save and Load.
func (net *Network) ID() uuid.UUID {
	return net.id
}

// Seed returns the seed set by SetSeed
func (net *Network) Seed() int64 {
	return net.seed
}

// Error returns any errors encountered while constructing the Network, particularly while creating
// the architecture.
func (net *Network) Error() error {
	return net.err
}

// Nodes returns the list of all Nodes in the Network, sorted by ID such that Nodes()[n] has id=n.
// The slice that Nodes returns is a copy; it can be modified freely but will not update if more
// Nodes are added to the Network.
func (net *Network) Nodes() []*Node {
	ns := make([]*Node, len(net.nodes))
	copy(ns, net.nodes)
	return ns
}

// Layers returns all of the Nodes except for the input, in order.
func (net *Network) Layers() []*Node {
	if len(net.nodes) == 0 {
		return nil
	}

	return append([]*Node(nil), net.nodes[1:]...)
}

// Node returns the Node with the given name, or nil if there is none.
func (net *Network) Node(name string) *Node {
	return net.nodesByName[name]
}

// InputShape returns the dimensions of a single input sample, or nil if the Network has no input.
func (net *Network) InputShape() []int {
	if len(net.nodes) == 0 {
		return nil
	}

	return net.nodes[0].OutputDims()
}

// OutputShape returns the dimensions of the Network's output, or nil if it has not been finalized.
func (net *Network) OutputShape() []int {
	if net.stat < finalized {
		return nil
	}

	return net.out().OutputDims()
}

// InputSize returns the total number of expected input values to the Network. If the Network has
// no input, InputSize will return -1.
func (net *Network) InputSize() int {
	if len(net.nodes) == 0 {
		return -1
	}

	return net.nodes[0].Size()
}

// OutputSize returns the total number of output values of the Network. If the Network has not
// been finalized yet, OutputSize will return -1.
func (net *Network) OutputSize() int {
	if net.stat < finalized {
		return -1
	}

	return net.out().Size()
}

func (net *Network) out() *Node {
	return net.nodes[len(net.nodes)-1]
}

// ParamCount returns the total number of weights in the Network. It does not cause any weights to
// be generated.
func (net *Network) ParamCount() int {
	c := 0
	for _, n := range net.nodes {
		c += n.ParamCount()
	}

	return c
}

// Params returns every parameter in the Network, in node order.
func (net *Network) Params() []*Param {
	var ps []*Param
	for _, n := range net.nodes {
		ps = append(ps, n.params...)
	}

	return ps
}

// IsFinalized returns whether or not Finalize has succeeded
func (net *Network) IsFinalized() bool {
	return net.stat >= finalized
}

// IsCompiled returns whether or not Compile has succeeded
func (net *Network) IsCompiled() bool {
	return net.stat >= compiled
}

// CostFunction returns the CostFunction given to Compile, or nil.
func (net *Network) CostFunction() CostFunction {
	return net.cf
}

// Optimizer returns the Optimizer given to Compile, or nil.
func (net *Network) Optimizer() Optimizer {
	return net.opt
}

// Metrics returns a copy of the Metrics given to Compile.
func (net *Network) Metrics() []Metric {
	return append([]Metric(nil), net.metrics...)
}

// HasState returns whether or not any Operator in the Network keeps state across Session steps.
func (net *Network) HasState() bool {
	for _, n := range net.nodes {
		if st, ok := n.op.(Stateful); ok && st.KeepsState() {
			return true
		}
	}

	return false
}

// Iter returns the number of optimizer steps the Network has taken.
func (net *Network) Iter() int {
	return net.iter
}

// ResetIter resets the Network's tracked number of iterations to the provided value. This could be
// done to bring HyperParameters that are dependent upon iterations back to an earlier state. The
// given value will usually be zero. ResetIter will return ErrNegativeIter if the iteration given
// is less than zero.
func (net *Network) ResetIter(iter int) error {
	if iter < 0 {
		return ErrNegativeIter
	}

	net.iter = iter
	return nil
}
