package operators

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/0xqq/five-video-classification-methods/nnet"
	"github.com/0xqq/five-video-classification-methods/nnet/utils"
)

// timeDistributed applies another Operator to every step of a sequence, with the same weights
type timeDistributed struct {
	inner nnet.Operator

	steps, inSize, outSize int
}

// TimeDistributed returns an Operator that applies op independently to each step of its input,
// [steps, ...]. The weights of op are shared between steps. Operators that keep state or that
// draw randomness while training (LSTM, Dropout) cannot be wrapped.
func TimeDistributed(op nnet.Operator) *timeDistributed {
	if op == nil {
		panic(nnet.NewNilArgError("Operator"))
	}

	return &timeDistributed{inner: op}
}

// Inner returns the wrapped Operator
func (td *timeDistributed) Inner() nnet.Operator {
	return td.inner
}

func (td *timeDistributed) TypeString() string {
	return "time_distributed"
}

type tdConfig struct {
	Layer nnet.Envelope `json:"layer"`
}

func (td *timeDistributed) MarshalJSON() ([]byte, error) {
	e, err := nnet.EncodeOperator(td.inner)
	if err != nil {
		return nil, err
	}

	return json.Marshal(tdConfig{Layer: e})
}

func (td *timeDistributed) UnmarshalJSON(data []byte) error {
	var c tdConfig
	if err := json.Unmarshal(data, &c); err != nil {
		return err
	}

	op, err := nnet.DecodeOperator(c.Layer)
	if err != nil {
		return err
	}

	td.inner = op
	return nil
}

func (td *timeDistributed) Finalize(in []int) ([]int, error) {
	if td.inner == nil {
		return nil, errors.Errorf("No Operator to distribute")
	} else if len(in) < 2 {
		return nil, errors.Errorf("Input must be [steps, ...], has dimensions %v", in)
	} else if _, ok := td.inner.(nnet.Stateful); ok {
		return nil, errors.Errorf("Can't distribute %s, it keeps state", td.inner.TypeString())
	} else if _, ok := td.inner.(*dropout); ok {
		return nil, errors.Errorf("Can't distribute dropout")
	}

	out, err := td.inner.Finalize(append([]int(nil), in[1:]...))
	if err != nil {
		return nil, errors.Wrapf(err, "Distributed %s", td.inner.TypeString())
	}

	td.steps = in[0]
	td.inSize = utils.Product(in[1:])
	td.outSize = utils.Product(out)
	return append([]int{td.steps}, out...), nil
}

func (td *timeDistributed) Params() []nnet.ParamSpec {
	if l, ok := td.inner.(nnet.Layer); ok {
		return l.Params()
	}

	return nil
}

func (td *timeDistributed) Evaluate(n *nnet.Node, in, out []float32) {
	for t := 0; t < td.steps; t++ {
		td.inner.Evaluate(n, td.in(in, t), td.out(out, t))
	}
}

func (td *timeDistributed) Grad(n *nnet.Node, in, deltas []float32) {
	l, ok := td.inner.(nnet.Layer)
	if !ok {
		return
	}

	for t := 0; t < td.steps; t++ {
		l.Grad(n, td.in(in, t), td.out(deltas, t))
	}
}

func (td *timeDistributed) InputDeltas(n *nnet.Node, in, out, deltas, inDeltas []float32) {
	for t := 0; t < td.steps; t++ {
		td.inner.InputDeltas(n, td.in(in, t), td.out(out, t), td.out(deltas, t), td.in(inDeltas, t))
	}
}

func (td *timeDistributed) in(vs []float32, t int) []float32 {
	return vs[t*td.inSize : (t+1)*td.inSize]
}

func (td *timeDistributed) out(vs []float32, t int) []float32 {
	return vs[t*td.outSize : (t+1)*td.outSize]
}
