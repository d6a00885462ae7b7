package nnet

import (
	"math/rand"
)

// start sets the settings for the next pass through the Network
func (net *Network) start(training bool, s *Session) {
	net.pass = pass{training: training, state: s}
	if training {
		// a distinct stream for every optimizer step
		net.pass.rng = rand.New(rand.NewSource(net.seed + int64(net.iter)*1000003 + 1))
	}
}

// forward runs the given input sample through the Network, leaving the values of every Node set.
// The length of x is assumed to be correct.
func (net *Network) forward(x []float32) {
	for _, n := range net.nodes {
		n.allocate()
	}

	copy(net.nodes[0].values, x)
	for _, n := range net.nodes[1:] {
		n.op.Evaluate(n, net.nodes[n.id-1].values, n.values)
	}
}

// backward calculates the cost of the most recent forward pass against the targets, and adds to
// the gradients of every parameter. It returns the cost.
func (net *Network) backward(targets []float32) float64 {
	out := net.out()
	cost := net.cf.Cost(out.values, targets)
	net.cf.Derivs(out.values, targets, out.deltas)

	for i := len(net.nodes) - 1; i >= 1; i-- {
		n, in := net.nodes[i], net.nodes[i-1]

		if l, ok := n.op.(Layer); ok && len(n.params) != 0 {
			l.Grad(n, in.values, n.deltas)
		}

		if n.calcInDeltas {
			for d := range in.deltas {
				in.deltas[d] = 0
			}

			n.op.InputDeltas(n, in.values, n.values, n.deltas, in.deltas)
		}
	}

	return cost
}

// step averages the accumulated gradients over the batch, runs the Optimizer on every parameter
// and clears the gradients.
func (net *Network) step(batchSize int) {
	scale := 1 / float32(batchSize)
	for _, n := range net.nodes {
		for _, p := range n.params {
			if p.grads == nil {
				continue
			}

			if batchSize > 1 {
				for i := range p.grads {
					p.grads[i] *= scale
				}
			}

			net.opt.Run(p, net.iter)
			p.clearGrads()
		}
	}

	net.iter++
}

// score adds the score of each metric for the current output to the running totals
func (net *Network) score(targets []float32, totals map[string]float64) {
	out := net.out().values
	for _, m := range net.metrics {
		totals[m.TypeString()] += m.Score(out, targets)
	}
}
