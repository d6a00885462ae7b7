package nnet

import (
	"log/slog"
	"sort"

	"github.com/pkg/errors"

	"github.com/0xqq/five-video-classification-methods/nnet/weights"
)

// LoadReport describes what a weight restore did
type LoadReport struct {
	// Matched lists the parameters that were set from the file
	Matched []string

	// Skipped lists the tensors in the file that did not name any parameter
	Skipped []string

	// Untouched lists the parameters that the file did not provide
	Untouched []string
}

// SaveWeights writes the values of every parameter to a weights file at the given path. Any
// weights that have not been generated yet are generated first.
func (net *Network) SaveWeights(path string) error {
	return net.encodeWeights().WriteFile(path)
}

func (net *Network) encodeWeights() *weights.File {
	f := weights.NewFile()
	f.Metadata["network"] = net.name
	f.Metadata["id"] = net.id.String()

	for _, p := range net.Params() {
		f.Tensors[p.Name()] = weights.Tensor{
			Shape: p.Dims(),
			Data:  p.Values(),
		}
	}

	return f
}

// LoadWeights reads a weights file and copies its tensors into the parameters of the Network.
//
// If byName is true, tensors are matched to parameters by name, and names without a partner on
// either side are skipped and reported. A restore that matches nothing is not an error, though it
// is logged as a warning. If byName is false, the file must hold exactly the parameters of the
// Network.
//
// In either case, a tensor whose shape differs from that of its parameter is an error of type
// ShapeMismatchError, and no weights are changed.
func (net *Network) LoadWeights(path string, byName bool) (LoadReport, error) {
	f, err := weights.ReadFile(path)
	if err != nil {
		return LoadReport{}, err
	}

	rep, err := net.SetWeights(f, byName)
	if err != nil {
		return rep, errors.Wrapf(err, "Can't load weights from %s", path)
	}

	if byName && len(rep.Matched) == 0 {
		slog.Warn("no weights matched by name", "network", net.name, "path", path,
			"tensors", len(rep.Skipped), "params", len(rep.Untouched))
	}

	return rep, nil
}

// SetWeights copies the tensors of an already decoded weights file into the Network, following the
// same rules as LoadWeights.
func (net *Network) SetWeights(f *weights.File, byName bool) (LoadReport, error) {
	var rep LoadReport
	params := net.Params()
	names := make(map[string]bool, len(params))

	for _, p := range params {
		names[p.Name()] = true

		t, ok := f.Tensors[p.Name()]
		if !ok {
			rep.Untouched = append(rep.Untouched, p.Name())
			continue
		}

		if !sameDims(t.Shape, p.spec.Dims) {
			return LoadReport{}, ShapeMismatchError{p.Name(), p.Dims(), t.Shape}
		}

		rep.Matched = append(rep.Matched, p.Name())
	}

	for name := range f.Tensors {
		if !names[name] {
			rep.Skipped = append(rep.Skipped, name)
		}
	}
	sort.Strings(rep.Skipped)

	if !byName {
		if len(rep.Untouched) != 0 {
			return LoadReport{}, errors.Errorf("Weights file is missing %d parameters, including %q",
				len(rep.Untouched), rep.Untouched[0])
		} else if len(rep.Skipped) != 0 {
			return LoadReport{}, errors.Errorf("Weights file has %d tensors that are not parameters, including %q",
				len(rep.Skipped), rep.Skipped[0])
		}
	}

	for _, name := range rep.Matched {
		p := net.param(name)
		if err := p.Set(f.Tensors[name].Data); err != nil {
			return LoadReport{}, err
		}
	}

	return rep, nil
}

// param returns the parameter with the given full name, or nil
func (net *Network) param(name string) *Param {
	for _, n := range net.nodes {
		for _, p := range n.params {
			if p.Name() == name {
				return p
			}
		}
	}

	return nil
}

func sameDims(a, b []int) bool {
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
