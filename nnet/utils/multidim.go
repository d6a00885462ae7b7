package utils

// MultiDim maps between flat indexes and points in an n-dimensional space
//
// values are stored row-major: the last dimension varies fastest. This is the
// layout of every tensor in the framework ([time, height, width, channels] and
// so on), so that the channels of a single position are adjacent in memory
//
// the fields are made public in order to allow exporting to JSON,
// but they should not actually be altered once it has been initialized
type MultiDim struct {
	// the length of each dimension
	Dims []int

	// Strides[i] is the number of values spanned by one step along dimension i
	// -- Strides[end] = 1; Strides[0] * Dims[0] = Size()
	Strides []int
}

// NewMultiDim creates a new MultiDim for the given dimensions. The slice is
// copied.
func NewMultiDim(dims []int) *MultiDim {
	m := &MultiDim{
		Dims:    append([]int(nil), dims...),
		Strides: make([]int, len(dims)),
	}

	s := 1
	for i := len(dims) - 1; i >= 0; i-- {
		m.Strides[i] = s
		s *= dims[i]
	}

	return m
}

// Index returns the index corresponding to the given point
// assumes that the point has the same number of dimensions as 'm'
func (m *MultiDim) Index(point []int) int {
	index := 0
	for i := range point {
		index += point[i] * m.Strides[i]
	}

	return index
}

// Point returns the multi-dimensional point leading to the given index
//
// assumes that the given index will be in bounds
func (m *MultiDim) Point(index int) []int {
	p := make([]int, len(m.Dims))
	for i := range p {
		p[i] = index / m.Strides[i]
		index %= m.Strides[i]
	}

	return p
}

// Size returns the total number of values covered by the dimensions
func (m *MultiDim) Size() int {
	return Product(m.Dims)
}

func (m *MultiDim) Dim(d int) int {
	return m.Dims[d]
}

// Increment increments the given point by 1, carrying into earlier dimensions
// assumes that len(point) = len(dims)
//
// returns false if it overflows, in which case the point is reset to zero
func (m *MultiDim) Increment(point []int) bool {
	for i := len(point) - 1; i >= 0; i-- {
		point[i]++
		if point[i] < m.Dims[i] {
			return true
		}

		point[i] = 0
	}

	return false
}

// Contains returns whether or not the point lies within the dimensions
func (m *MultiDim) Contains(point []int) bool {
	for i, p := range point {
		if p < 0 || p >= m.Dims[i] {
			return false
		}
	}

	return true
}

// Product returns the product of all of the given values. The product of no
// values is 1.
func Product(dims []int) int {
	p := 1
	for _, d := range dims {
		p *= d
	}

	return p
}
