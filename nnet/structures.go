package nnet

import (
	"math/rand"

	"github.com/google/uuid"
)

// Network is the main structure that is used to learn to map input to output functions. It is a
// chain of Nodes, each of which takes its input from the one before it.
//
// A Network is not safe for concurrent use. Sessions borrow it for their steps, so only one of
// Predict, Evaluate, TrainBatch or a Session step may run at once.
type Network struct {
	name string
	id   uuid.UUID

	// weights are generated from the seed and the name of the node and parameter
	seed int64

	// a list of all of the Nodes, stored such that their id is their index in this slice. The
	// first Node is always the input
	nodes       []*Node
	nodesByName map[string]*Node

	// the number of Nodes with each type string, used to give names to unnamed Nodes
	typeCounts map[string]int

	err  error
	stat status

	cf      CostFunction
	opt     Optimizer
	metrics []Metric

	// the number of optimizer steps that have been taken
	iter int

	// the settings for the current forward and backward pass
	pass pass
}

type status int8

const (
	initialized status = iota
	finalized
	compiled
)

type pass struct {
	training bool
	rng      *rand.Rand
	state    *Session
}

// Nodes are the building blocks with which the Network is built. Each Node has an Operator that
// determines how it computes its values from those of the previous Node.
type Node struct {
	name string
	id   int
	host *Network

	// nil for the input Node
	op Operator

	inDims, outDims []int

	values, deltas []float32

	params []*Param

	// whether or not InputDeltas should be called on the Operator, which is true iff some earlier
	// Node has weights
	calcInDeltas bool
}

// ParamSpec describes a single parameter (kernel, bias, ...) of a Layer.
type ParamSpec struct {
	// Name is the name of the parameter within its Node, e.g. "kernel". Weight files store the
	// parameter as "<node name>/<Name>".
	Name string

	Dims []int

	// FanIn and FanOut are handed to the Initializer
	FanIn, FanOut int

	// Init is the Initializer for the parameter. If nil, the default Initializer is used.
	Init Initializer
}

// Param holds the values of a single parameter of a Node, along with its gradients.
//
// Values are generated the first time they are requested, so that very large Networks can be
// built and inspected without allocating their weights.
type Param struct {
	host *Node
	spec ParamSpec

	values, grads []float32

	// optimizer state
	slots map[string][]float32
}
