package operators

import (
	"github.com/pkg/errors"

	"github.com/0xqq/five-video-classification-methods/nnet"
)

// dropout zeroes a random fraction of its input while training, and scales the rest up so that
// the expected value is unchanged. Outside of training it is the identity.
type dropout struct {
	Rate float64 `json:"rate"`

	// the scale applied to each value during the last training pass; 0 for dropped values
	mask []float32
}

// Dropout returns a dropout Operator that drops each value with the given probability
func Dropout(rate float64) *dropout {
	return &dropout{Rate: rate}
}

func (d *dropout) TypeString() string {
	return "dropout"
}

func (d *dropout) Finalize(in []int) ([]int, error) {
	if d.Rate < 0 || d.Rate >= 1 {
		return nil, errors.Errorf("Rate must be in [0, 1) (%v)", d.Rate)
	}

	return in, nil
}

func (d *dropout) Evaluate(n *nnet.Node, in, out []float32) {
	if !n.Training() || d.Rate == 0 {
		d.mask = nil
		copy(out, in)
		return
	}

	if d.mask == nil {
		d.mask = make([]float32, len(in))
	}

	fillMask(d.mask, d.Rate, n)
	for i, x := range in {
		out[i] = x * d.mask[i]
	}
}

func (d *dropout) InputDeltas(n *nnet.Node, in, out, deltas, inDeltas []float32) {
	if d.mask == nil {
		for i, dv := range deltas {
			inDeltas[i] += dv
		}
		return
	}

	for i, dv := range deltas {
		inDeltas[i] += dv * d.mask[i]
	}
}

// fillMask sets each value of the mask to 0 with probability 'rate', and otherwise to
// 1 / (1 - rate)
func fillMask(mask []float32, rate float64, n *nnet.Node) {
	rng := n.Rand()
	keep := float32(1 / (1 - rate))
	for i := range mask {
		if rng.Float64() < rate {
			mask[i] = 0
		} else {
			mask[i] = keep
		}
	}
}
