package metrics

type topK struct {
	K int `json:"k"`
}

// DefaultK is the k of TopK when it is given k < 1
const DefaultK = 5

// TopK returns the top-k categorical accuracy: 1 if the output at the index of the largest target
// is among the k largest outputs, else 0.
func TopK(k int) *topK {
	if k < 1 {
		k = DefaultK
	}

	return &topK{K: k}
}

func (t *topK) TypeString() string {
	return "top_k_categorical_accuracy"
}

func (t *topK) Score(outs, targets []float32) float64 {
	v := outs[ArgMax(targets)]

	above := 0
	for _, o := range outs {
		if o > v {
			above++
		}
	}

	if above < t.K {
		return 1
	}

	return 0
}
