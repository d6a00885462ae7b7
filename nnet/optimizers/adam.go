package optimizers

import (
	"encoding/json"
	"math"

	"github.com/0xqq/five-video-classification-methods/nnet"
	"github.com/0xqq/five-video-classification-methods/nnet/hyperparams"
)

// adam is the Adam optimizer, with the learning rate given by a HyperParameter of the number of
// steps taken
type adam struct {
	rate nnet.HyperParameter

	beta1, beta2, epsilon float64
}

const (
	defaultAdamRate    = 0.001
	defaultAdamBeta1   = 0.9
	defaultAdamBeta2   = 0.999
	defaultAdamEpsilon = 1e-7
)

// Adam returns the Adam optimizer with a learning rate of 0.001, beta1 0.9, beta2 0.999 and
// epsilon 1e-7. Other methods can be called to customize it -- they return *adam so they can be
// chained.
func Adam() *adam {
	return &adam{
		rate:    hyperparams.Constant(defaultAdamRate),
		beta1:   defaultAdamBeta1,
		beta2:   defaultAdamBeta2,
		epsilon: defaultAdamEpsilon,
	}
}

// LearningRate sets a constant learning rate
func (a *adam) LearningRate(lr float64) *adam {
	a.rate = hyperparams.Constant(lr)
	return a
}

// Schedule sets the learning rate to a HyperParameter of the number of optimizer steps taken.
// Schedule will panic if given a nil HyperParameter.
func (a *adam) Schedule(hp nnet.HyperParameter) *adam {
	if hp == nil {
		panic(nnet.NewNilArgError("HyperParameter"))
	}

	a.rate = hp
	return a
}

// Decay makes the learning rate decay with time, as lr / (1 + decay*iter), starting from the
// rate at iteration zero.
func (a *adam) Decay(decay float64) *adam {
	a.rate = hyperparams.InverseTime(a.rate.Value(0), decay)
	return a
}

// Betas sets the decay rates of the first and second moment estimates
func (a *adam) Betas(beta1, beta2 float64) *adam {
	a.beta1, a.beta2 = beta1, beta2
	return a
}

// Epsilon sets the value added to the denominator for numerical stability
func (a *adam) Epsilon(eps float64) *adam {
	a.epsilon = eps
	return a
}

// Rate returns the HyperParameter that gives the learning rate
func (a *adam) Rate() nnet.HyperParameter {
	return a.rate
}

func (a *adam) TypeString() string {
	return "adam"
}

func (a *adam) Run(p *nnet.Param, iter int) {
	ws, gs := p.Values(), p.Grads()
	m, v := p.Slot("m"), p.Slot("v")

	t := float64(iter + 1)
	lr := a.rate.Value(iter) * math.Sqrt(1-math.Pow(a.beta2, t)) / (1 - math.Pow(a.beta1, t))

	b1, b2 := float32(a.beta1), float32(a.beta2)
	for i, g := range gs {
		m[i] = b1*m[i] + (1-b1)*g
		v[i] = b2*v[i] + (1-b2)*g*g
		ws[i] -= float32(lr * float64(m[i]) / (math.Sqrt(float64(v[i])) + a.epsilon))
	}
}

type adamConfig struct {
	Rate    nnet.Envelope `json:"learning_rate"`
	Beta1   float64       `json:"beta1"`
	Beta2   float64       `json:"beta2"`
	Epsilon float64       `json:"epsilon"`
}

func (a *adam) MarshalJSON() ([]byte, error) {
	r, err := nnet.EncodeHyperParameter(a.rate)
	if err != nil {
		return nil, err
	}

	return json.Marshal(adamConfig{r, a.beta1, a.beta2, a.epsilon})
}

func (a *adam) UnmarshalJSON(data []byte) error {
	var c adamConfig
	if err := json.Unmarshal(data, &c); err != nil {
		return err
	}

	r, err := nnet.DecodeHyperParameter(c.Rate)
	if err != nil {
		return err
	}

	a.rate, a.beta1, a.beta2, a.epsilon = r, c.Beta1, c.Beta2, c.Epsilon
	return nil
}
