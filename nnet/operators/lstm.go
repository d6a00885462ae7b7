package operators

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"

	"github.com/0xqq/five-video-classification-methods/nnet"
	"github.com/0xqq/five-video-classification-methods/nnet/utils"
)

// lstm is a standard LSTM layer over a sequence, input [steps, features]. The four gates are
// stored side by side in the order input, forget, cell, output, so the kernel is
// [features, 4*units], the recurrent kernel [units, 4*units] and the bias [4*units].
//
// for more information, consult: https://www.youtube.com/watch?v=WCUNPb-5EYI, at 20:31
type lstm struct {
	Units      int     `json:"units"`
	Sequences  bool    `json:"return_sequences,omitempty"`
	Drop       float64 `json:"dropout,omitempty"`
	IsStateful bool    `json:"stateful,omitempty"`
	ForgetBias float64 `json:"forget_bias"`

	kernelInit, recurrentInit nnet.Initializer
	finalized                 bool

	steps, features int

	// from the most recent call to Evaluate. Gates hold activated values; cells and hiddens have
	// the starting state at index 0, so step t reads t and writes t+1
	mask           []float32
	gates, tanhC   []float32
	cells, hiddens []float32

	// derivatives of the pre-activation gates, computed once per backward pass
	dz      []float32
	dzValid bool
}

// the number of gate values handled by each goroutine
const lstmBlock = 256

// LSTM returns an LSTM layer with the given number of units, which implements nnet.Layer and
// nnet.Stateful. By default it outputs only its final hidden state. Other methods can be called
// to further customize it -- they return *lstm so they can be chained.
func LSTM(units int) *lstm {
	return &lstm{
		Units:      units,
		ForgetBias: defaultValue["lstm-forget-bias"],
	}
}

func (l *lstm) check() {
	if l.finalized {
		panic("LSTM Operator has already been finalized")
	}
}

// ReturnSequences makes the layer output its hidden state at every step, [steps, units], instead
// of only the last. ReturnSequences will panic if called after the Operator has been finalized.
func (l *lstm) ReturnSequences() *lstm {
	l.check()
	l.Sequences = true
	return l
}

// Dropout sets the fraction of input features dropped while training. The same features are
// dropped at every step of a sequence. Dropout will panic if called after the Operator has been
// finalized.
func (l *lstm) Dropout(rate float64) *lstm {
	l.check()
	l.Drop = rate
	return l
}

// Stateful makes the layer keep its hidden and cell state between steps of an nnet.Session, until
// the Session is reset. Stateful will panic if called after the Operator has been finalized.
func (l *lstm) Stateful() *lstm {
	l.check()
	l.IsStateful = true
	return l
}

// Init sets the Initializers of the input and recurrent kernels. Either may be nil, in which case
// the package default is used. Init will panic if called after the Operator has been finalized.
func (l *lstm) Init(kernel, recurrent nnet.Initializer) *lstm {
	l.check()
	l.kernelInit, l.recurrentInit = kernel, recurrent
	return l
}

func (l *lstm) TypeString() string {
	return "lstm"
}

func (l *lstm) KeepsState() bool {
	return l.IsStateful
}

func (l *lstm) StateSize() int {
	return 2 * l.Units
}

func (l *lstm) Finalize(in []int) ([]int, error) {
	if l.Units < 1 {
		return nil, errors.Errorf("Number of units must be >= 1 (%d)", l.Units)
	} else if len(in) != 2 {
		return nil, errors.Errorf("Input must be [steps, features], has dimensions %v", in)
	} else if l.Drop < 0 || l.Drop >= 1 {
		return nil, errors.Errorf("Dropout must be in [0, 1) (%v)", l.Drop)
	}

	l.steps, l.features = in[0], in[1]
	l.finalized = true

	if l.Sequences {
		return []int{l.steps, l.Units}, nil
	}

	return []int{l.Units}, nil
}

func (l *lstm) Params() []nnet.ParamSpec {
	g := 4 * l.Units
	return []nnet.ParamSpec{
		{Name: "kernel", Dims: []int{l.features, g}, FanIn: l.features, FanOut: g, Init: l.kernelInit},
		{Name: "recurrent_kernel", Dims: []int{l.Units, g}, FanIn: l.Units, FanOut: g, Init: l.recurrentInit},
		{Name: "bias", Dims: []int{g}, Init: lstmBias{Units: l.Units, Forget: l.ForgetBias}},
	}
}

func (l *lstm) allocate() {
	if l.gates != nil {
		return
	}

	u, t := l.Units, l.steps
	l.gates = make([]float32, t*4*u)
	l.tanhC = make([]float32, t*u)
	l.cells = make([]float32, (t+1)*u)
	l.hiddens = make([]float32, (t+1)*u)
	l.dz = make([]float32, t*4*u)
}

func (l *lstm) Evaluate(n *nnet.Node, in, out []float32) {
	l.allocate()
	l.dzValid = false

	w, r, b := n.Param(0).Values(), n.Param(1).Values(), n.Param(2).Values()
	u, g, nf := l.Units, 4*l.Units, l.features

	if state := n.State(); state != nil {
		copy(l.hiddens[:u], state[:u])
		copy(l.cells[:u], state[u:])
	} else {
		zero(l.hiddens[:u])
		zero(l.cells[:u])
	}

	l.mask = nil
	if n.Training() && l.Drop > 0 {
		l.mask = make([]float32, nf)
		fillMask(l.mask, l.Drop, n)
	}

	// the input contribution to every step does not depend on the recurrence
	utils.MultiThread(0, l.steps, func(t int) {
		z := l.gates[t*g : (t+1)*g]
		copy(z, b)
		for i, x := range in[t*nf : (t+1)*nf] {
			if l.mask != nil {
				x *= l.mask[i]
			}

			if x == 0 {
				continue
			}

			row := w[i*g : (i+1)*g]
			for j, wv := range row {
				z[j] += x * wv
			}
		}
	}, 1, 1)

	for t := 0; t < l.steps; t++ {
		z := l.gates[t*g : (t+1)*g]
		hPrev := l.hiddens[t*u : (t+1)*u]

		utils.MultiThread(0, numBlocks(g, lstmBlock), func(blk int) {
			lo, hi := blockRange(blk, lstmBlock, g)
			zb := z[lo:hi]
			for i, h := range hPrev {
				if h == 0 {
					continue
				}

				row := r[i*g+lo : i*g+hi]
				for j, rv := range row {
					zb[j] += h * rv
				}
			}
		}, 1, 1)

		cPrev := l.cells[t*u : (t+1)*u]
		c := l.cells[(t+1)*u : (t+2)*u]
		h := l.hiddens[(t+1)*u : (t+2)*u]
		tc := l.tanhC[t*u : (t+1)*u]

		for k := 0; k < u; k++ {
			ig := sigmoid(z[k])
			fg := sigmoid(z[u+k])
			cg := float32(math.Tanh(float64(z[2*u+k])))
			og := sigmoid(z[3*u+k])
			z[k], z[u+k], z[2*u+k], z[3*u+k] = ig, fg, cg, og

			c[k] = fg*cPrev[k] + ig*cg
			tc[k] = float32(math.Tanh(float64(c[k])))
			h[k] = og * tc[k]
		}
	}

	last := l.hiddens[l.steps*u:]
	if l.Sequences {
		copy(out, l.hiddens[u:])
	} else {
		copy(out, last)
	}

	if state := n.State(); state != nil {
		copy(state[:u], last)
		copy(state[u:], l.cells[l.steps*u:])
	}
}

// backprop calculates the derivatives of the pre-activation gates at every step, through time.
// The derivatives do not flow into the starting state.
func (l *lstm) backprop(n *nnet.Node, deltas []float32) {
	if l.dzValid {
		return
	}

	r := n.Param(1).Values()
	u, g := l.Units, 4*l.Units

	dh := make([]float32, u)
	dc := make([]float32, u)
	next := make([]float32, u)

	for t := l.steps - 1; t >= 0; t-- {
		if l.Sequences {
			for k, d := range deltas[t*u : (t+1)*u] {
				dh[k] += d
			}
		} else if t == l.steps-1 {
			for k, d := range deltas {
				dh[k] += d
			}
		}

		z := l.gates[t*g : (t+1)*g]
		dz := l.dz[t*g : (t+1)*g]
		cPrev := l.cells[t*u : (t+1)*u]
		tc := l.tanhC[t*u : (t+1)*u]

		for k := 0; k < u; k++ {
			ig, fg, cg, og := z[k], z[u+k], z[2*u+k], z[3*u+k]

			dck := dc[k] + dh[k]*og*(1-tc[k]*tc[k])
			dz[k] = dck * cg * ig * (1 - ig)
			dz[u+k] = dck * cPrev[k] * fg * (1 - fg)
			dz[2*u+k] = dck * ig * (1 - cg*cg)
			dz[3*u+k] = dh[k] * tc[k] * og * (1 - og)

			dc[k] = dck * fg
		}

		if t == 0 {
			break
		}

		utils.MultiThread(0, u, func(i int) {
			row := r[i*g : (i+1)*g]
			var s float32
			for j, d := range dz {
				s += row[j] * d
			}

			next[i] = s
		}, 16, 1)

		dh, next = next, dh
	}

	l.dzValid = true
}

func (l *lstm) Grad(n *nnet.Node, in, deltas []float32) {
	l.backprop(n, deltas)

	gw, gr, gb := n.Param(0).Grads(), n.Param(1).Grads(), n.Param(2).Grads()
	u, g, nf := l.Units, 4*l.Units, l.features

	utils.MultiThread(0, nf, func(i int) {
		row := gw[i*g : (i+1)*g]
		for t := 0; t < l.steps; t++ {
			x := in[t*nf+i]
			if l.mask != nil {
				x *= l.mask[i]
			}

			if x == 0 {
				continue
			}

			for j, d := range l.dz[t*g : (t+1)*g] {
				row[j] += x * d
			}
		}
	}, 16, 1)

	utils.MultiThread(0, u, func(i int) {
		row := gr[i*g : (i+1)*g]
		for t := 0; t < l.steps; t++ {
			h := l.hiddens[t*u+i]
			if h == 0 {
				continue
			}

			for j, d := range l.dz[t*g : (t+1)*g] {
				row[j] += h * d
			}
		}
	}, 16, 1)

	for t := 0; t < l.steps; t++ {
		for j, d := range l.dz[t*g : (t+1)*g] {
			gb[j] += d
		}
	}
}

func (l *lstm) InputDeltas(n *nnet.Node, in, out, deltas, inDeltas []float32) {
	l.backprop(n, deltas)

	w := n.Param(0).Values()
	g, nf := 4*l.Units, l.features

	utils.MultiThread(0, nf, func(i int) {
		if l.mask != nil && l.mask[i] == 0 {
			return
		}

		row := w[i*g : (i+1)*g]
		for t := 0; t < l.steps; t++ {
			var s float32
			for j, d := range l.dz[t*g : (t+1)*g] {
				s += row[j] * d
			}

			if l.mask != nil {
				s *= l.mask[i]
			}

			inDeltas[t*nf+i] += s
		}
	}, 16, 1)
}

// lstmBias initializes the bias of an LSTM: zero, except for the forget gate
type lstmBias struct {
	Units  int
	Forget float64
}

func (b lstmBias) TypeString() string {
	return "lstm_bias"
}

func (b lstmBias) Set(fanIn, fanOut int, rng *rand.Rand, ws []float32) {
	zero(ws)
	for k := b.Units; k < 2*b.Units; k++ {
		ws[k] = float32(b.Forget)
	}
}

func zero(vs []float32) {
	for i := range vs {
		vs[i] = 0
	}
}
