package nnet_test

import (
	"testing"

	"github.com/0xqq/five-video-classification-methods/nnet"
	"github.com/0xqq/five-video-classification-methods/nnet/costfuncs"
	"github.com/0xqq/five-video-classification-methods/nnet/operators"
	"github.com/0xqq/five-video-classification-methods/nnet/optimizers"
)

func stateful(t *testing.T) *nnet.Network {
	t.Helper()

	net := nnet.New("stateful").SetSeed(8)
	x := net.AddInput(5)
	x = net.Add(operators.Reshape(1, -1), x)
	x = net.Add(operators.LSTM(4).Stateful(), x)
	x = net.Add(operators.Dense(2), x)
	x = net.Add(operators.Softmax(), x)
	if err := net.Finalize(x); err != nil {
		t.Fatal(err)
	}

	err := net.Compile(nnet.CompileArgs{Cost: costfuncs.CrossEntropy(), Optimizer: optimizers.SGD(0.1)})
	if err != nil {
		t.Fatal(err)
	}

	return net
}

func TestSession(t *testing.T) {
	net := stateful(t)
	if !net.HasState() {
		t.Fatal("expected network to have state")
	}

	s, err := net.NewSession()
	if err != nil {
		t.Fatal(err)
	}
	if s.Accumulating() {
		t.Fatal("expected new session to start reset")
	}

	x := random(5, 1)
	first, err := s.Step(x)
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Step(x)
	if err != nil {
		t.Fatal(err)
	}

	if equal(first, second) {
		t.Error("expected state to carry over between steps")
	}
	if s.Steps() != 2 || !s.Accumulating() {
		t.Errorf("expected 2 accumulated steps, got %d", s.Steps())
	}

	// another session has its own state
	other, err := net.NewSession()
	if err != nil {
		t.Fatal(err)
	}
	if out, _ := other.Step(x); !equal(out, first) {
		t.Errorf("expected a new session to start from zero state: %v != %v", out, first)
	}
	if other.ID() == s.ID() {
		t.Error("expected sessions to have distinct ids")
	}

	s.Reset()
	if s.Accumulating() {
		t.Fatal("expected session to be reset")
	}

	again, err := s.Step(x)
	if err != nil {
		t.Fatal(err)
	}
	if !equal(again, first) {
		t.Errorf("expected first step after Reset to match the first step: %v != %v", again, first)
	}

	pred, err := net.Predict(x)
	if err != nil {
		t.Fatal(err)
	}
	if !equal(pred, first) {
		t.Errorf("expected Predict to start from zero state: %v != %v", pred, first)
	}
}

func TestSession_TrainStep(t *testing.T) {
	net := stateful(t)

	s, err := net.NewSession()
	if err != nil {
		t.Fatal(err)
	}

	x, y := random(5, 2), []float32{0, 1}
	before, err := net.Predict(x)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 5; i++ {
		if _, err = s.TrainStep(x, y); err != nil {
			t.Fatalf("TrainStep %d: %v", i, err)
		}
	}

	if net.Iter() != 5 || s.Steps() != 5 {
		t.Errorf("expected 5 iterations and steps, got %d and %d", net.Iter(), s.Steps())
	}

	after, err := net.Predict(x)
	if err != nil {
		t.Fatal(err)
	}
	if after[1] <= before[1] {
		t.Errorf("expected training to raise the target probability: %v -> %v", before[1], after[1])
	}

	if _, err = s.TrainStep(x, []float32{1}); err == nil {
		t.Error("expected error for bad target size")
	}
}

func TestSession_NotFinalized(t *testing.T) {
	net := nnet.New("net")
	net.AddInput(3)
	if _, err := net.NewSession(); err != nnet.ErrNetNotFinalized {
		t.Fatalf("expected ErrNetNotFinalized, got %v", err)
	}
}
