package optimizers

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/0xqq/five-video-classification-methods/nnet"
	"github.com/0xqq/five-video-classification-methods/nnet/hyperparams"
)

func TestAdamDecay(t *testing.T) {
	a := Adam().Decay(1e-6)

	if got := a.Rate().Value(0); got != defaultAdamRate {
		t.Errorf("expected rate %v at iteration 0, got %v", defaultAdamRate, got)
	}
	if got, want := a.Rate().Value(1000), defaultAdamRate/(1+1e-3); math.Abs(got-want) > 1e-15 {
		t.Errorf("expected rate %v at iteration 1000, got %v", want, got)
	}
	if a.Rate().TypeString() != "inverse_time" {
		t.Errorf("expected inverse_time schedule, got %s", a.Rate().TypeString())
	}
}

func TestEncode(t *testing.T) {
	opts := []nnet.Optimizer{
		Adam().LearningRate(0.01).Decay(1e-6).Betas(0.8, 0.99),
		SGD(0.1).Schedule(hyperparams.Step(0.1).Add(10, 0.01)),
	}

	for _, o := range opts {
		a, err := json.Marshal(o)
		if err != nil {
			t.Fatalf("%s: %v", o.TypeString(), err)
		}

		decoded := map[string]nnet.Optimizer{"adam": Adam(), "sgd": SGD(0)}[o.TypeString()]
		if err = json.Unmarshal(a, decoded); err != nil {
			t.Fatalf("%s: %v", o.TypeString(), err)
		}

		b, err := json.Marshal(decoded)
		if err != nil {
			t.Fatal(err)
		}
		if string(a) != string(b) {
			t.Errorf("%s: decoded as %s, expected %s", o.TypeString(), b, a)
		}
	}
}
