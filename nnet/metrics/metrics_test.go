package metrics

import (
	"testing"
)

func TestAccuracy(t *testing.T) {
	a := Accuracy()
	if s := a.Score([]float32{0.1, 0.7, 0.2}, []float32{0, 1, 0}); s != 1 {
		t.Errorf("expected 1, got %v", s)
	}
	if s := a.Score([]float32{0.5, 0.3, 0.2}, []float32{0, 1, 0}); s != 0 {
		t.Errorf("expected 0, got %v", s)
	}
}

func TestTopK(t *testing.T) {
	outs := []float32{0.30, 0.25, 0.15, 0.10, 0.08, 0.07, 0.05}
	cases := []struct {
		k, target int
		expected  float64
	}{
		{5, 0, 1},
		{5, 4, 1},
		{5, 5, 0},
		{1, 0, 1},
		{1, 1, 0},
		{0, 4, 1}, // default k
	}

	for _, c := range cases {
		targets := make([]float32, len(outs))
		targets[c.target] = 1
		if s := TopK(c.k).Score(outs, targets); s != c.expected {
			t.Errorf("TopK(%d) with target %d: expected %v, got %v", c.k, c.target, c.expected, s)
		}
	}
}

func TestBinaryAccuracy(t *testing.T) {
	b := BinaryAccuracy()
	if s := b.Score([]float32{0.9, 0.2}, []float32{1, 0}); s != 1 {
		t.Errorf("expected 1, got %v", s)
	}
	if s := b.Score([]float32{0.9, 0.6}, []float32{1, 0}); s != 0 {
		t.Errorf("expected 0, got %v", s)
	}
}
