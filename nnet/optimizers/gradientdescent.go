package optimizers

import (
	"encoding/json"

	"github.com/0xqq/five-video-classification-methods/nnet"
	"github.com/0xqq/five-video-classification-methods/nnet/hyperparams"
)

type gradientDescent struct {
	rate nnet.HyperParameter
}

// GradientDescent returns plain gradient descent with the given learning rate
func GradientDescent(lr float64) *gradientDescent {
	return &gradientDescent{hyperparams.Constant(lr)}
}

// SGD is an alias for GradientDescent
func SGD(lr float64) *gradientDescent {
	return GradientDescent(lr)
}

// Schedule sets the learning rate to a HyperParameter of the number of optimizer steps taken.
// Schedule will panic if given a nil HyperParameter.
func (g *gradientDescent) Schedule(hp nnet.HyperParameter) *gradientDescent {
	if hp == nil {
		panic(nnet.NewNilArgError("HyperParameter"))
	}

	g.rate = hp
	return g
}

func (g *gradientDescent) TypeString() string {
	return "sgd"
}

func (g *gradientDescent) Run(p *nnet.Param, iter int) {
	lr := float32(g.rate.Value(iter))
	ws := p.Values()
	for i, gr := range p.Grads() {
		ws[i] -= lr * gr
	}
}

type sgdConfig struct {
	Rate nnet.Envelope `json:"learning_rate"`
}

func (g *gradientDescent) MarshalJSON() ([]byte, error) {
	r, err := nnet.EncodeHyperParameter(g.rate)
	if err != nil {
		return nil, err
	}

	return json.Marshal(sgdConfig{r})
}

func (g *gradientDescent) UnmarshalJSON(data []byte) error {
	var c sgdConfig
	if err := json.Unmarshal(data, &c); err != nil {
		return err
	}

	r, err := nnet.DecodeHyperParameter(c.Rate)
	if err != nil {
		return err
	}

	g.rate = r
	return nil
}
