package nnet_test

import (
	"bytes"
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/0xqq/five-video-classification-methods/nnet"
	"github.com/0xqq/five-video-classification-methods/nnet/costfuncs"
	"github.com/0xqq/five-video-classification-methods/nnet/metrics"
	"github.com/0xqq/five-video-classification-methods/nnet/operators"
	"github.com/0xqq/five-video-classification-methods/nnet/optimizers"
)

func random(size int, seed int64) []float32 {
	r := rand.New(rand.NewSource(seed))
	vs := make([]float32, size)
	for i := range vs {
		vs[i] = r.Float32()*2 - 1
	}
	return vs
}

func equal(a, b []float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// small returns a compiled classifier with input [4] and 3 outputs
func small(t *testing.T, seed int64) *nnet.Network {
	t.Helper()

	net := nnet.New("small").SetSeed(seed)
	x := net.AddInput(4)
	x = net.Add(operators.Dense(6), x).SetName("hidden")
	x = net.Add(operators.Tanh(), x)
	x = net.Add(operators.Dense(3), x).SetName("logits")
	x = net.Add(operators.Softmax(), x)

	if err := net.Finalize(x); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	err := net.Compile(nnet.CompileArgs{
		Cost:      costfuncs.CrossEntropy(),
		Optimizer: optimizers.Adam().LearningRate(0.01).Decay(1e-6),
		Metrics:   []nnet.Metric{metrics.Accuracy()},
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	return net
}

func TestBuild(t *testing.T) {
	net := small(t, 1)

	if s := net.InputShape(); len(s) != 1 || s[0] != 4 {
		t.Errorf("expected input shape [4], got %v", s)
	}
	if s := net.OutputShape(); len(s) != 1 || s[0] != 3 {
		t.Errorf("expected output shape [3], got %v", s)
	}

	names := []string{"input_1", "hidden", "tanh_1", "logits", "softmax_1"}
	nodes := net.Nodes()
	if len(nodes) != len(names) {
		t.Fatalf("expected %d nodes, got %d", len(names), len(nodes))
	}
	for i, n := range nodes {
		if n.Name() != names[i] {
			t.Errorf("node %d: expected name %q, got %q", i, names[i], n.Name())
		}
		if net.Node(names[i]) != n {
			t.Errorf("Node(%q) did not return node %d", names[i], i)
		}
	}

	if len(net.Layers()) != len(names)-1 {
		t.Errorf("expected %d layers, got %d", len(names)-1, len(net.Layers()))
	}

	// 4*6 + 6 + 6*3 + 3
	if net.ParamCount() != 51 {
		t.Errorf("expected 51 parameters, got %d", net.ParamCount())
	}
	for _, p := range net.Params() {
		if p.Materialized() {
			t.Errorf("expected %s to be generated lazily", p.Name())
		}
	}
}

func TestSeededWeights(t *testing.T) {
	a, b, c := small(t, 1), small(t, 1), small(t, 2)

	for i, p := range a.Params() {
		if !equal(p.Values(), b.Params()[i].Values()) {
			t.Errorf("%s differs between networks with the same seed", p.Name())
		}
	}

	if equal(a.Node("hidden").Param(0).Values(), c.Node("hidden").Param(0).Values()) {
		t.Error("expected different seeds to give different weights")
	}

	// biases start at zero
	for _, v := range a.Node("hidden").Param(1).Values() {
		if v != 0 {
			t.Fatalf("expected zero bias, got %v", v)
		}
	}
}

func TestAddErrors(t *testing.T) {
	t.Run("not sequential", func(t *testing.T) {
		net := nnet.New("net")
		in := net.AddInput(3)
		net.Add(operators.Dense(2), in)
		if n := net.Add(operators.Dense(2), in); n != nil {
			t.Fatal("expected Add to fail")
		}
		if errors.Cause(net.Error()) != nnet.ErrNotSequential {
			t.Fatalf("expected ErrNotSequential, got %v", net.Error())
		}
	})

	t.Run("bad shape", func(t *testing.T) {
		net := nnet.New("net")
		x := net.Add(operators.Dense(2), net.AddInput(3, 3))
		if x != nil || net.Error() == nil {
			t.Fatal("expected dense on 2-D input to fail")
		}

		// later calls are no-ops
		if net.Add(operators.Softmax(), x) != nil {
			t.Fatal("expected Add after an error to return nil")
		}
		if err := net.Finalize(x); err != net.Error() {
			t.Fatalf("expected Finalize to return stored error, got %v", err)
		}
	})

	t.Run("second input", func(t *testing.T) {
		net := nnet.New("net")
		net.AddInput(3)
		if net.AddInput(3) != nil || net.Error() == nil {
			t.Fatal("expected second input to fail")
		}
	})

	t.Run("bad input dims", func(t *testing.T) {
		net := nnet.New("net")
		if net.AddInput(3, 0) != nil || net.Error() == nil {
			t.Fatal("expected zero dimension to fail")
		}
	})

	t.Run("after finalize", func(t *testing.T) {
		net := nnet.New("net")
		x := net.Add(operators.Dense(2), net.AddInput(3))
		if err := net.Finalize(x); err != nil {
			t.Fatal(err)
		}
		if net.Add(operators.Softmax(), x) != nil {
			t.Fatal("expected Add after Finalize to fail")
		}
		if errors.Cause(net.Error()) != nnet.ErrNetFinalized {
			t.Fatalf("expected ErrNetFinalized, got %v", net.Error())
		}
	})

	t.Run("nil operator", func(t *testing.T) {
		net := nnet.New("net")
		in := net.AddInput(3)

		defer func() {
			if _, ok := recover().(nnet.NilArgError); !ok {
				t.Fatal("expected panic with NilArgError")
			}
		}()
		net.Add(nil, in)
	})
}

func TestSetName(t *testing.T) {
	cases := []struct {
		name string
		ok   bool
	}{
		{"fc6", true},
		{"", false},
		{"a/b", false},
		{`a"b`, false},
		{"input_1", false},
	}

	for _, c := range cases {
		net := nnet.New("net")
		x := net.Add(operators.Dense(2), net.AddInput(3)).SetName(c.name)
		if err := net.Error(); (err == nil) != c.ok {
			t.Errorf("SetName(%q): expected ok=%v, got error %v", c.name, c.ok, err)
		} else if c.ok && net.Node(c.name) != x {
			t.Errorf("SetName(%q): node not found by new name", c.name)
		}
	}
}

func TestFinalizeErrors(t *testing.T) {
	net := nnet.New("net")
	if err := net.Finalize(nil); err != nnet.ErrNoInput {
		t.Fatalf("expected ErrNoInput, got %v", err)
	}

	in := net.AddInput(3)
	if err := net.Finalize(in); err == nil {
		t.Fatal("expected error finalizing with only an input")
	}

	x := net.Add(operators.Dense(2), in)
	net.Add(operators.Softmax(), x)
	if err := net.Finalize(x); err == nil {
		t.Fatal("expected error finalizing with a node that isn't last")
	}
}

func TestPredictErrors(t *testing.T) {
	net := nnet.New("net")
	x := net.Add(operators.Dense(2), net.AddInput(3))

	if _, err := net.Predict(make([]float32, 3)); err != nnet.ErrNetNotFinalized {
		t.Fatalf("expected ErrNetNotFinalized, got %v", err)
	}

	if err := net.Finalize(x); err != nil {
		t.Fatal(err)
	}

	_, err := net.Predict(make([]float32, 4))
	sm, ok := errors.Cause(err).(nnet.SizeMismatchError)
	if !ok {
		t.Fatalf("expected SizeMismatchError, got %v", err)
	} else if sm.Expected != 3 || sm.Got != 4 {
		t.Errorf("unexpected mismatch %+v", sm)
	}

	if _, err = net.Evaluate([][]float32{make([]float32, 3)}, [][]float32{make([]float32, 2)}); err != nnet.ErrNotCompiled {
		t.Fatalf("expected ErrNotCompiled, got %v", err)
	}
}

func TestBatchErrors(t *testing.T) {
	net := small(t, 1)

	if _, err := net.TrainBatch(nil, nil); err != nnet.ErrEmptyBatch {
		t.Errorf("expected ErrEmptyBatch, got %v", err)
	}

	xs := [][]float32{make([]float32, 4), make([]float32, 4)}
	if _, err := net.Evaluate(xs, xs[:1]); err == nil {
		t.Error("expected error for mismatched batch lengths")
	}

	if _, err := net.TrainBatch(xs, [][]float32{make([]float32, 3), make([]float32, 2)}); err == nil {
		t.Error("expected error for bad target size")
	}

	if net.Iter() != 0 {
		t.Errorf("expected failed batches not to step, iter is %d", net.Iter())
	}
}

func TestCompile(t *testing.T) {
	net := nnet.New("net")
	x := net.Add(operators.Dense(2), net.AddInput(3))

	args := nnet.CompileArgs{Cost: costfuncs.MSE(), Optimizer: optimizers.SGD(0.1)}
	if err := net.Compile(args); err != nnet.ErrNetNotFinalized {
		t.Fatalf("expected ErrNetNotFinalized, got %v", err)
	}

	if err := net.Finalize(x); err != nil {
		t.Fatal(err)
	}

	args.Metrics = []nnet.Metric{metrics.Accuracy(), metrics.Accuracy()}
	if err := net.Compile(args); err == nil {
		t.Fatal("expected error for duplicate metric")
	}

	args.Metrics = args.Metrics[:1]
	if err := net.Compile(args); err != nil {
		t.Fatal(err)
	}
	if !net.IsCompiled() {
		t.Fatal("expected network to be compiled")
	}
}

func TestPredict(t *testing.T) {
	net := small(t, 3)

	out, err := net.Predict(random(4, 1))
	if err != nil {
		t.Fatal(err)
	}

	var sum float32
	for _, o := range out {
		sum += o
	}
	if sum < 0.999 || sum > 1.001 {
		t.Errorf("expected softmax outputs to sum to 1, got %v", sum)
	}

	outs, err := net.PredictBatch([][]float32{random(4, 1), random(4, 2)})
	if err != nil {
		t.Fatal(err)
	}
	if !equal(outs[0], out) {
		t.Errorf("PredictBatch gave %v for the same sample as Predict (%v)", outs[0], out)
	}
}

func TestTrainBatch_XOR(t *testing.T) {
	net := nnet.New("xor").SetSeed(4)
	x := net.AddInput(2)
	x = net.Add(operators.Dense(8), x)
	x = net.Add(operators.Tanh(), x)
	x = net.Add(operators.Dense(1), x)
	x = net.Add(operators.Logistic(), x)
	if err := net.Finalize(x); err != nil {
		t.Fatal(err)
	}

	err := net.Compile(nnet.CompileArgs{
		Cost:      costfuncs.MSE(),
		Optimizer: optimizers.Adam().LearningRate(0.05),
		Metrics:   []nnet.Metric{metrics.BinaryAccuracy()},
	})
	if err != nil {
		t.Fatal(err)
	}

	xs := [][]float32{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	ys := [][]float32{{0}, {1}, {1}, {0}}

	before, err := net.Evaluate(xs, ys)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 500; i++ {
		if _, err = net.TrainBatch(xs, ys); err != nil {
			t.Fatalf("TrainBatch %d: %v", i, err)
		}
	}

	after, err := net.Evaluate(xs, ys)
	if err != nil {
		t.Fatal(err)
	}

	if net.Iter() != 500 {
		t.Errorf("expected 500 iterations, got %d", net.Iter())
	}
	if after.Loss >= before.Loss/2 {
		t.Errorf("expected training to at least halve the loss: %v -> %v", before.Loss, after.Loss)
	}
	if after.Samples != 4 {
		t.Errorf("expected 4 samples, got %d", after.Samples)
	}
	if _, ok := after.Metrics["binary_accuracy"]; !ok {
		t.Errorf("expected binary_accuracy in metrics, got %v", after.Metrics)
	}
}

func TestSummary(t *testing.T) {
	net := small(t, 1)

	var b bytes.Buffer
	if err := net.Summary(&b); err != nil {
		t.Fatal(err)
	}

	s := b.String()
	for _, want := range []string{"hidden (dense)", "softmax_1 (softmax)", "(6)", "Total params: " + strconv.Itoa(net.ParamCount())} {
		if !strings.Contains(s, want) {
			t.Errorf("expected summary to contain %q:\n%s", want, s)
		}
	}
}
