package nnet

import (
	"github.com/pkg/errors"
)

// Result is the outcome of evaluating or training on a set of samples
type Result struct {
	// Loss is the mean cost over the samples
	Loss float64

	// Metrics maps the type string of each compiled Metric to its mean score
	Metrics map[string]float64

	Samples int
}

func (net *Network) checkInput(x []float32, field string) error {
	if len(x) != net.InputSize() {
		return SizeMismatchError{net.InputSize(), len(x), field}
	}

	return nil
}

func (net *Network) checkTarget(y []float32, field string) error {
	if len(y) != net.OutputSize() {
		return SizeMismatchError{net.OutputSize(), len(y), field}
	}

	return nil
}

// Predict returns the output of the Network for a single input sample. The sample is given
// row-major in the dimensions of InputShape(). Stateful Operators start from zero state; use a
// Session to carry state between calls.
//
// There are several error conditions:
//	(0) If the Network has not been finalized: ErrNetNotFinalized,
//	(1) If the number of inputs doesn't match the input size: type SizeMismatchError.
func (net *Network) Predict(x []float32) ([]float32, error) {
	if net.stat < finalized {
		return nil, ErrNetNotFinalized
	} else if err := net.checkInput(x, "inputs"); err != nil {
		return nil, err
	}

	net.start(false, nil)
	net.forward(x)
	return append([]float32(nil), net.out().values...), nil
}

// PredictBatch runs Predict for each of the samples
func (net *Network) PredictBatch(xs [][]float32) ([][]float32, error) {
	outs := make([][]float32, len(xs))
	for i, x := range xs {
		var err error
		if outs[i], err = net.Predict(x); err != nil {
			return nil, errors.Wrapf(err, "Sample %d", i)
		}
	}

	return outs, nil
}

func (net *Network) checkBatch(xs, ys [][]float32) error {
	if net.stat < compiled {
		return ErrNotCompiled
	} else if len(xs) == 0 {
		return ErrEmptyBatch
	} else if len(xs) != len(ys) {
		return SizeMismatchError{len(xs), len(ys), "batch targets"}
	}

	for i := range xs {
		if err := net.checkInput(xs[i], "inputs"); err != nil {
			return errors.Wrapf(err, "Sample %d", i)
		} else if err := net.checkTarget(ys[i], "targets"); err != nil {
			return errors.Wrapf(err, "Sample %d", i)
		}
	}

	return nil
}

// Evaluate returns the mean cost and the mean of each metric over the given samples, without
// changing any weights. The Network must have been compiled.
func (net *Network) Evaluate(xs, ys [][]float32) (Result, error) {
	if err := net.checkBatch(xs, ys); err != nil {
		return Result{}, err
	}

	totals := make(map[string]float64)
	var loss float64

	for i := range xs {
		net.start(false, nil)
		net.forward(xs[i])
		loss += net.cf.Cost(net.out().values, ys[i])
		net.score(ys[i], totals)
	}

	return mean(loss, totals, len(xs)), nil
}

// TrainBatch runs a single optimizer step over the given mini-batch of samples, and returns the
// mean cost and metrics of the outputs that were produced while training. The Network must have
// been compiled.
func (net *Network) TrainBatch(xs, ys [][]float32) (Result, error) {
	if err := net.checkBatch(xs, ys); err != nil {
		return Result{}, err
	}

	totals := make(map[string]float64)
	var loss float64

	net.start(true, nil)
	for i := range xs {
		net.forward(xs[i])
		loss += net.backward(ys[i])
		net.score(ys[i], totals)
	}

	net.step(len(xs))
	return mean(loss, totals, len(xs)), nil
}

func mean(loss float64, totals map[string]float64, samples int) Result {
	r := Result{
		Loss:    loss / float64(samples),
		Metrics: make(map[string]float64, len(totals)),
		Samples: samples,
	}

	for k, v := range totals {
		r.Metrics[k] = v / float64(samples)
	}

	return r
}
