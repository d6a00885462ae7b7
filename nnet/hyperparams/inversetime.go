package hyperparams

type inverseTime struct {
	Base  float64 `json:"base"`
	Decay float64 `json:"decay"`
}

// InverseTime returns a HyperParameter that decays with the number of iterations:
// base / (1 + decay*iter). This is the learning rate decay of Keras optimizers.
func InverseTime(base, decay float64) *inverseTime {
	return &inverseTime{Base: base, Decay: decay}
}

func (t *inverseTime) TypeString() string {
	return "inverse_time"
}

func (t *inverseTime) Value(iter int) float64 {
	return t.Base / (1 + t.Decay*float64(iter))
}
