// Package models builds the video classification networks: given the name of an architecture
// and the shape of the data, it returns a compiled network ready to be trained, evaluated or used
// for prediction. It can also restore a network from a checkpoint instead.
package models

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pkg/errors"

	"github.com/0xqq/five-video-classification-methods/nnet"
	"github.com/0xqq/five-video-classification-methods/nnet/costfuncs"
	"github.com/0xqq/five-video-classification-methods/nnet/metrics"
	"github.com/0xqq/five-video-classification-methods/nnet/operators"
	"github.com/0xqq/five-video-classification-methods/nnet/optimizers"
)

const (
	// DefaultFeaturesLength is the length of the feature vector of each frame, when it is not
	// given. It is the width of the pooled output of InceptionV3.
	DefaultFeaturesLength = 2048

	// DefaultC3DWeights is where the Conv3D architecture looks for its pretrained weights.
	DefaultC3DWeights = "data/c3d/models/sports1M_weights.safetensors"

	// LearningRateDecay is the time-based decay of the learning rate of every network.
	LearningRateDecay = 1e-6

	// TopKThreshold is the number of classes from which top-k accuracy is also reported
	TopKThreshold = 10
)

// the frame shapes used when Spec.FrameShape is not given
var (
	defaultFrame    = []int{150, 150, 3}
	defaultC3DFrame = []int{112, 112, 3}
)

// Spec fully determines the network that New returns.
type Spec struct {
	// Arch selects the architecture. If it is zero, Name is parsed instead.
	Arch Arch
	Name string

	NumClasses int
	SeqLength  int

	// SavedModel is the path of a checkpoint directory. If it is set, the network is loaded from
	// it and the architecture is ignored, whether or not it is valid.
	SavedModel string

	// FeaturesLength is the length of the feature vector of each frame for LSTM and MLP.
	// Defaults to DefaultFeaturesLength.
	FeaturesLength int

	// FrameShape overrides the [height, width, channels] of the frames for LRCN, Conv3D and
	// StatefulLRCN.
	FrameShape []int

	// C3DWeights is the path of the pretrained weights restored by name into Conv3D. Defaults to
	// DefaultC3DWeights.
	C3DWeights string

	// NoPretrained skips restoring C3DWeights
	NoPretrained bool

	// BackboneWeights is the optional path of VGG16 weights restored by name into the feature
	// extractor of StatefulLRCN. Without it, the extractor starts from random weights.
	BackboneWeights string

	// Seed determines the initial weights
	Seed int64
}

func (s Spec) frame(def []int) []int {
	if s.FrameShape != nil {
		return s.FrameShape
	}

	return def
}

func (s Spec) withDefaults() Spec {
	if s.FeaturesLength == 0 {
		s.FeaturesLength = DefaultFeaturesLength
	}

	if s.C3DWeights == "" {
		s.C3DWeights = DefaultC3DWeights
	}

	return s
}

// New returns the compiled network described by the Spec.
//
// If spec.SavedModel is set, the network is loaded from that checkpoint, structure and weights
// together, and no architecture is built. Otherwise the architecture is chosen by spec.Arch (or
// spec.Name), and an unknown architecture is returned as a *ConfigError. Errors from the layers
// themselves, such as frames too small for the architecture, are returned as they are.
//
// Every network is compiled with categorical cross-entropy, Adam with a time-based learning rate
// decay of LearningRateDecay, and the metrics given by Metrics(spec.NumClasses).
func New(spec Spec) (*nnet.Network, error) {
	spec = spec.withDefaults()

	var net *nnet.Network
	var err error

	if spec.SavedModel != "" {
		slog.Info("loading saved model", "path", spec.SavedModel)
		if net, err = nnet.Load(spec.SavedModel); err != nil {
			return nil, errors.Wrapf(err, "models: loading %s", spec.SavedModel)
		}
	} else {
		arch := spec.Arch
		if arch == 0 {
			if arch, err = ParseArch(spec.Name); err != nil {
				return nil, err
			}
		}

		if net, err = build(arch, spec); err != nil {
			return nil, errors.Wrapf(err, "models: building %s", arch)
		}
	}

	if err = Compile(net, spec.NumClasses); err != nil {
		return nil, errors.Wrapf(err, "models: compiling %s", net.Name())
	}

	logSummary(net)
	return net, nil
}

func build(arch Arch, spec Spec) (*nnet.Network, error) {
	if arch == StatefulLRCN {
		// one frame per step
		spec.SeqLength = 1
	}

	slog.Info("building model", "arch", arch, "classes", spec.NumClasses, "seq_length", spec.SeqLength)

	switch arch {
	case LSTM:
		return buildLSTM(spec)
	case LRCN:
		return buildLRCN(spec)
	case MLP:
		return buildMLP(spec)
	case Conv3D:
		return buildConv3D(spec)
	case StatefulLRCN:
		return buildStatefulLRCN(spec)
	default:
		return nil, &ConfigError{Field: "arch", Value: arch.String(), Reason: "unknown architecture"}
	}
}

// Metrics returns the metrics reported for a classifier over the given number of classes:
// accuracy, and top-k accuracy if there are at least TopKThreshold classes.
func Metrics(classes int) []nnet.Metric {
	ms := []nnet.Metric{metrics.Accuracy()}
	if classes >= TopKThreshold {
		ms = append(ms, metrics.TopK(metrics.DefaultK))
	}

	return ms
}

// Compile compiles the network with the loss, optimizer and metrics shared by every architecture.
func Compile(net *nnet.Network, classes int) error {
	return net.Compile(nnet.CompileArgs{
		Cost:      costfuncs.CrossEntropy(),
		Optimizer: optimizers.Adam().Decay(LearningRateDecay),
		Metrics:   Metrics(classes),
	})
}

// classifier adds the final layer of every architecture: one output per class, with softmax
func classifier(net *nnet.Network, x *nnet.Node, classes int) *nnet.Node {
	x = net.Add(operators.Dense(classes), x)
	return net.Add(operators.Softmax(), x)
}

// finish finalizes the network with the given output
func finish(net *nnet.Network, out *nnet.Node) (*nnet.Network, error) {
	if err := net.Finalize(out); err != nil {
		return nil, err
	}

	return net, nil
}

func logSummary(net *nnet.Network) {
	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	var b strings.Builder
	if err := net.Summary(&b); err != nil {
		return
	}

	slog.Debug("model summary", "network", net.Name(), "params", net.ParamCount(), "summary", b.String())
}

// restore restores weights by name from the file at path, logging what was matched
func restore(net *nnet.Network, path, what string) error {
	slog.Info("loading pretrained weights", "weights", what, "path", path)

	rep, err := net.LoadWeights(path, true)
	if err != nil {
		return errors.Wrapf(err, "loading %s weights", what)
	}

	slog.Info("restored pretrained weights", "weights", what,
		"matched", len(rep.Matched), "skipped", len(rep.Skipped), "untouched", len(rep.Untouched))
	return nil
}
