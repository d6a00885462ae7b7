package utils

import (
	"sync/atomic"
	"testing"
)

func TestMultiDim(t *testing.T) {
	m := NewMultiDim([]int{2, 3, 4})

	if m.Size() != 24 {
		t.Fatalf("expected size 24, got %d", m.Size())
	}
	if s := m.Strides; s[0] != 12 || s[1] != 4 || s[2] != 1 {
		t.Fatalf("expected strides [12 4 1], got %v", s)
	}

	p := make([]int, 3)
	for i := 0; i < m.Size(); i++ {
		if idx := m.Index(p); idx != i {
			t.Fatalf("point %v: expected index %d, got %d", p, i, idx)
		}

		q := m.Point(i)
		for d := range q {
			if q[d] != p[d] {
				t.Fatalf("index %d: expected point %v, got %v", i, p, q)
			}
		}

		more := m.Increment(p)
		if more != (i < m.Size()-1) {
			t.Fatalf("index %d: Increment returned %v", i, more)
		}
	}

	if p[0] != 0 || p[1] != 0 || p[2] != 0 {
		t.Errorf("expected point to wrap to zero, got %v", p)
	}

	if !m.Contains([]int{1, 2, 3}) || m.Contains([]int{2, 0, 0}) || m.Contains([]int{0, -1, 0}) {
		t.Error("Contains gave wrong results")
	}
}

func TestNewMultiDim_Copies(t *testing.T) {
	dims := []int{3, 3}
	m := NewMultiDim(dims)
	dims[0] = 10
	if m.Dim(0) != 3 {
		t.Fatal("expected dimensions to be copied")
	}
}

func TestMultiThread(t *testing.T) {
	for _, n := range []int{0, 1, 7, 1000} {
		var sum int64
		hits := make([]int32, n)

		MultiThread(0, n, func(i int) {
			atomic.AddInt32(&hits[i], 1)
			atomic.AddInt64(&sum, int64(i))
		}, 10, 2)

		for i, h := range hits {
			if h != 1 {
				t.Fatalf("n=%d: index %d run %d times", n, i, h)
			}
		}
		if want := int64(n) * int64(n-1) / 2; n > 0 && sum != want {
			t.Errorf("n=%d: expected sum %d, got %d", n, want, sum)
		}
	}
}
