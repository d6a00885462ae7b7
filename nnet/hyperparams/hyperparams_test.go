package hyperparams

import (
	"math"
	"testing"

	"github.com/0xqq/five-video-classification-methods/nnet"
)

func TestInverseTime(t *testing.T) {
	hp := InverseTime(0.001, 1e-6)
	if hp.Value(0) != 0.001 {
		t.Errorf("expected 0.001 at iteration 0, got %v", hp.Value(0))
	}
	if got, want := hp.Value(1000000), 0.0005; math.Abs(got-want) > 1e-12 {
		t.Errorf("expected %v at iteration 1e6, got %v", want, got)
	}
}

func TestStep(t *testing.T) {
	hp := Step(1).Add(10, 0.5).Add(20, 0.1)
	cases := map[int]float64{0: 1, 9: 1, 10: 0.5, 19: 0.5, 20: 0.1, 1000: 0.1}
	for iter, want := range cases {
		if got := hp.Value(iter); got != want {
			t.Errorf("iteration %d: expected %v, got %v", iter, want, got)
		}
	}
}

func TestEncode(t *testing.T) {
	for _, hp := range []nnet.HyperParameter{Constant(0.3), InverseTime(0.01, 0.5), Step(2).Add(5, 1)} {
		e, err := nnet.EncodeHyperParameter(hp)
		if err != nil {
			t.Fatalf("%s: %v", hp.TypeString(), err)
		}

		decoded, err := nnet.DecodeHyperParameter(e)
		if err != nil {
			t.Fatalf("%s: %v", hp.TypeString(), err)
		}

		for _, iter := range []int{0, 3, 7, 100} {
			if decoded.Value(iter) != hp.Value(iter) {
				t.Errorf("%s: decoded value at %d is %v, expected %v", hp.TypeString(), iter, decoded.Value(iter), hp.Value(iter))
			}
		}
	}
}
