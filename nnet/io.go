package nnet

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/0xqq/five-video-classification-methods/nnet/weights"
)

// the files that make up a checkpoint directory
const (
	networkFileName = "network.json"
	weightsFileName = "weights.safetensors"
)

type savedNetwork struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Created   time.Time     `json:"created"`
	Seed      int64         `json:"seed"`
	InputName string        `json:"input_name"`
	Input     []int         `json:"input_shape"`
	Layers    []savedLayer  `json:"layers"`
	Compile   *savedCompile `json:"compile,omitempty"`
}

type savedLayer struct {
	Name string `json:"name"`
	Envelope
}

type savedCompile struct {
	Cost      Envelope   `json:"cost"`
	Optimizer Envelope   `json:"optimizer"`
	Metrics   []Envelope `json:"metrics"`
	Iter      int        `json:"iter"`
}

// Save saves the Network to the specified path, creating a directory to contain it (with
// permissions 0700). The directory holds the structure of the Network, its compile arguments (if
// it has been compiled) and all of its weights. Optimizer state other than the iteration count is
// not saved.
//
// The Network must have been finalized. If 'overwrite' is false and the directory already exists,
// Save will return error.
func (net *Network) Save(dirPath string, overwrite bool) error {
	if net.stat < finalized {
		return ErrNetNotFinalized
	}

	s := savedNetwork{
		ID:        net.id.String(),
		Name:      net.name,
		Created:   time.Now().UTC(),
		Seed:      net.seed,
		InputName: net.nodes[0].name,
		Input:     net.nodes[0].outDims,
	}

	for _, n := range net.nodes[1:] {
		e, err := encode(n.op)
		if err != nil {
			return errors.Wrapf(err, "Can't save network, failed to encode node %v", n)
		}

		s.Layers = append(s.Layers, savedLayer{Name: n.name, Envelope: e})
	}

	if net.stat >= compiled {
		c := &savedCompile{Iter: net.iter}

		var err error
		if c.Cost, err = encode(net.cf); err != nil {
			return errors.Wrapf(err, "Can't save network")
		} else if c.Optimizer, err = encode(net.opt); err != nil {
			return errors.Wrapf(err, "Can't save network")
		}

		for _, m := range net.metrics {
			e, err := encode(m)
			if err != nil {
				return errors.Wrapf(err, "Can't save network")
			}

			c.Metrics = append(c.Metrics, e)
		}

		s.Compile = c
	}

	main, err := json.MarshalIndent(s, "", "\t")
	if err != nil {
		return errors.Wrapf(err, "Can't save network, failed to encode structure")
	}

	// check if the folder already exists
	if _, err = os.Stat(dirPath); err == nil {
		if !overwrite {
			return errors.Errorf("Can't save network, folder %s already exists, and overwrite is not enabled", dirPath)
		}

		if err = os.RemoveAll(dirPath); err != nil {
			return errors.Wrapf(err, "Can't save network, couldn't remove pre-existing folder to overwrite")
		}
	}

	if err = os.MkdirAll(dirPath, 0700); err != nil {
		return errors.Wrapf(err, "Couldn't make directory to save network")
	}

	if err = os.WriteFile(filepath.Join(dirPath, networkFileName), main, 0600); err != nil {
		return errors.Wrapf(err, "Can't save network")
	}

	if err = net.SaveWeights(filepath.Join(dirPath, weightsFileName)); err != nil {
		return errors.Wrapf(err, "Can't save network")
	}

	slog.Info("saved network", "network", net.name, "id", net.id, "path", dirPath, "params", net.ParamCount())
	return nil
}

// Load loads a Network from the directory written by Save. Every type named in the checkpoint
// must have been registered, which the subpackages operators, costfuncs, optimizers and metrics
// do when they are imported.
//
// The returned Network is finalized, and compiled if it was compiled when it was saved.
func Load(dirPath string) (*Network, error) {
	main, err := os.ReadFile(filepath.Join(dirPath, networkFileName))
	if err != nil {
		return nil, errors.Wrapf(err, "Can't load network")
	}

	var s savedNetwork
	if err = json.Unmarshal(main, &s); err != nil {
		return nil, errors.Wrapf(err, "Can't load network from %s, corrupt %s", dirPath, networkFileName)
	}

	net := New(s.Name).SetSeed(s.Seed)
	if net.id, err = uuid.Parse(s.ID); err != nil {
		return nil, errors.Wrapf(err, "Can't load network from %s, bad id", dirPath)
	}

	prev := net.AddInput(s.Input...).SetName(s.InputName)
	for i, l := range s.Layers {
		if net.err != nil {
			break
		}

		op, err := DecodeOperator(l.Envelope)
		if err != nil {
			return nil, errors.Wrapf(err, "Can't load network from %s, layer %d (%q)", dirPath, i, l.Name)
		}

		prev = net.Add(op, prev).SetName(l.Name)
	}

	if net.err != nil {
		return nil, errors.Wrapf(net.err, "Can't load network from %s", dirPath)
	} else if prev == nil {
		return nil, errors.Errorf("Can't load network from %s, no input", dirPath)
	} else if err = net.Finalize(prev); err != nil {
		return nil, errors.Wrapf(err, "Can't load network from %s", dirPath)
	}

	if c := s.Compile; c != nil {
		args := CompileArgs{}
		if args.Cost, err = decodeCostFunction(c.Cost); err != nil {
			return nil, errors.Wrapf(err, "Can't load network from %s", dirPath)
		} else if args.Optimizer, err = decodeOptimizer(c.Optimizer); err != nil {
			return nil, errors.Wrapf(err, "Can't load network from %s", dirPath)
		}

		for _, e := range c.Metrics {
			m, err := decodeMetric(e)
			if err != nil {
				return nil, errors.Wrapf(err, "Can't load network from %s", dirPath)
			}

			args.Metrics = append(args.Metrics, m)
		}

		if err = net.Compile(args); err != nil {
			return nil, errors.Wrapf(err, "Can't load network from %s", dirPath)
		} else if err = net.ResetIter(c.Iter); err != nil {
			return nil, errors.Wrapf(err, "Can't load network from %s", dirPath)
		}
	}

	f, err := weights.ReadFile(filepath.Join(dirPath, weightsFileName))
	if err != nil {
		return nil, errors.Wrapf(err, "Can't load network from %s", dirPath)
	} else if _, err = net.SetWeights(f, false); err != nil {
		return nil, errors.Wrapf(err, "Can't load network from %s", dirPath)
	}

	slog.Info("loaded network", "network", net.name, "id", net.id, "path", dirPath)
	return net, nil
}
