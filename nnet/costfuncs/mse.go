package costfuncs

type mse struct{}

// MSE returns the mean squared error cost function, which implements nnet.CostFunction.
func MSE() *mse {
	return &mse{}
}

func (m *mse) TypeString() string {
	return "mean_squared_error"
}

func (m *mse) Cost(outs, targets []float32) float64 {
	var sum float64
	for i := range outs {
		d := float64(outs[i] - targets[i])
		sum += d * d
	}

	return sum / float64(len(outs))
}

func (m *mse) Derivs(outs, targets, ds []float32) {
	scale := 2 / float32(len(outs))
	for i := range outs {
		ds[i] = scale * (outs[i] - targets[i])
	}
}
