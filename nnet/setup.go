package nnet

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// New returns an empty Network with the given name. The name is only used for display and in
// checkpoints.
func New(name string) *Network {
	return &Network{
		name:        name,
		id:          uuid.New(),
		nodesByName: make(map[string]*Node),
		typeCounts:  make(map[string]int),
	}
}

// SetSeed sets the seed from which the Network's weights, and the randomness used during
// training, are derived. SetSeed must be called before any weights have been generated to have an
// effect on them.
func (net *Network) SetSeed(seed int64) *Network {
	net.seed = seed
	return net
}

// setError sets the Network's stored error to the error provided, if there is not already one.
func (net *Network) setError(e error) {
	if net.err == nil {
		net.err = e
	}
}

// AddInput adds the input Node of the Network, which receives values with the given dimensions.
// There can be only one input, and it must be the first Node added.
//
// As with Add, any errors are stored in the Network and given by Error().
func (net *Network) AddInput(dims ...int) *Node {
	if net.err != nil {
		return nil
	} else if net.stat != initialized {
		net.setError(ErrNetFinalized)
		return nil
	} else if len(net.nodes) != 0 {
		net.setError(errors.Errorf("Can't add input, Network already has an input node"))
		return nil
	}

	if err := checkDims(dims); err != nil {
		net.setError(errors.Wrapf(err, "Can't add input"))
		return nil
	}

	return net.addNode(nil, "input", dims, nil)
}

// Add adds a new Node to the end of the Network, with the given Operator and input. The input must
// be the most recently added Node. The Operator is finalized with the output dimensions of the
// input, which determines the dimensions of the new Node.
//
// If there is already an error stored in the Network, Add does nothing and returns nil. If adding
// the Node fails, the error is stored (see Error()) and nil is returned, so that construction can
// be chained and checked once at the end. If op is nil, Add will panic with type NilArgError.
func (net *Network) Add(op Operator, in *Node) *Node {
	if net.err != nil {
		return nil
	} else if op == nil {
		panic(NilArgError{"Operator"})
	} else if in == nil {
		panic(NilArgError{"Input node"})
	} else if net.stat != initialized {
		net.setError(ErrNetFinalized)
		return nil
	} else if in.host != net {
		net.setError(errors.Errorf("Can't add %s node, input %v does not belong to this Network", op.TypeString(), in))
		return nil
	} else if in != net.nodes[len(net.nodes)-1] {
		net.setError(errors.Wrapf(ErrNotSequential, "Can't add %s node after %v", op.TypeString(), in))
		return nil
	}

	outDims, err := op.Finalize(append([]int(nil), in.outDims...))
	if err != nil {
		net.setError(errors.Wrapf(err, "Can't add %s node after %v", op.TypeString(), in))
		return nil
	} else if err = checkDims(outDims); err != nil {
		net.setError(errors.Wrapf(err, "Can't add %s node after %v, bad output dimensions", op.TypeString(), in))
		return nil
	}

	return net.addNode(op, op.TypeString(), outDims, in.outDims)
}

func checkDims(dims []int) error {
	if len(dims) == 0 {
		return errors.Errorf("No dimensions given")
	}

	for i, d := range dims {
		if d < 1 {
			return errors.Errorf("Dimension %d of %v is %d, must be >= 1", i, dims, d)
		}
	}

	return nil
}

func (net *Network) addNode(op Operator, typ string, outDims, inDims []int) *Node {
	n := &Node{
		name:    net.autoName(typ),
		id:      len(net.nodes),
		host:    net,
		op:      op,
		inDims:  append([]int(nil), inDims...),
		outDims: append([]int(nil), outDims...),
	}

	if l, ok := op.(Layer); ok {
		for _, s := range l.Params() {
			s.Dims = append([]int(nil), s.Dims...)
			n.params = append(n.params, &Param{host: n, spec: s})
		}
	}

	net.nodes = append(net.nodes, n)
	net.nodesByName[n.name] = n
	return n
}

// autoName returns the first name of the form "<typ>_<k>" that has not been taken
func (net *Network) autoName(typ string) string {
	typ = strings.Replace(typ, "-", "_", -1)
	for {
		net.typeCounts[typ]++
		name := typ + "_" + strconv.Itoa(net.typeCounts[typ])
		if net.nodesByName[name] == nil {
			return name
		}
	}
}

// SetName renames the Node. Names must be unique within the Network, cannot be empty and cannot
// contain '/' or '"'. Errors are stored in the host Network, as with Add. SetName may be called on
// a nil Node, in which case it does nothing, so that it can be chained after a failed Add.
func (n *Node) SetName(name string) *Node {
	if n == nil {
		return nil
	}

	net := n.host
	if net.err != nil {
		return n
	} else if net.stat != initialized {
		net.setError(errors.Wrapf(ErrNetFinalized, "Can't rename %v", n))
		return n
	}

	if name == n.name {
		return n
	} else if name == "" {
		net.setError(errors.Errorf(`Can't rename %v, name cannot be ""`, n))
		return n
	} else if strings.ContainsAny(name, `/"`) {
		net.setError(errors.Errorf(`Can't rename %v to %q, name contains illegal character`, n, name))
		return n
	} else if net.nodesByName[name] != nil {
		net.setError(errors.Errorf("Can't rename %v, name %q is already taken", n, name))
		return n
	}

	delete(net.nodesByName, n.name)
	n.name = name
	net.nodesByName[name] = n
	return n
}

// Finalize finishes the structure of the Network, with the given Node as its output. The output
// must be the last Node added. After Finalize, no more Nodes can be added.
//
// If the Network has a stored error, Finalize returns it.
func (net *Network) Finalize(out *Node) error {
	if net.err != nil {
		return net.err
	} else if net.stat != initialized {
		return ErrNetFinalized
	} else if len(net.nodes) == 0 {
		return ErrNoInput
	} else if out == nil {
		panic(NilArgError{"Output node"})
	} else if out.host != net || out != net.nodes[len(net.nodes)-1] {
		return errors.Errorf("Can't finalize, output %v is not the last node of the Network", out)
	} else if len(net.nodes) == 1 {
		return errors.Errorf("Can't finalize, Network has no nodes other than its input")
	}

	hasWeights := false
	for _, n := range net.nodes[1:] {
		n.calcInDeltas = hasWeights
		if len(n.params) != 0 {
			hasWeights = true
		}
	}

	net.stat = finalized
	return nil
}

// CompileArgs are the arguments to Compile. Metrics may be empty.
type CompileArgs struct {
	Cost      CostFunction
	Optimizer Optimizer
	Metrics   []Metric
}

// Compile attaches the cost function, optimizer and metrics used for training and evaluation. The
// Network must have been finalized. Compile may be called more than once, which replaces the
// previous arguments without touching the weights or the number of iterations.
func (net *Network) Compile(args CompileArgs) error {
	if net.stat < finalized {
		return ErrNetNotFinalized
	} else if args.Cost == nil {
		panic(NilArgError{"CostFunction"})
	} else if args.Optimizer == nil {
		panic(NilArgError{"Optimizer"})
	}

	seen := make(map[string]bool)
	for i, m := range args.Metrics {
		if m == nil {
			panic(NilArgError{"Metric #" + strconv.Itoa(i)})
		} else if seen[m.TypeString()] {
			return errors.Errorf("Can't compile, metric %q given twice", m.TypeString())
		}

		seen[m.TypeString()] = true
	}

	net.cf = args.Cost
	net.opt = args.Optimizer
	net.metrics = append([]Metric(nil), args.Metrics...)
	net.stat = compiled
	return nil
}
