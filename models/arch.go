package models

import (
	"strconv"
	"strings"
)

// Arch is one of the architectures that New can build
type Arch int

const (
	// LSTM classifies sequences of precomputed frame features with a recurrent layer
	LSTM Arch = iota + 1

	// LRCN runs a small convolutional network over every frame, feeding a recurrent layer
	LRCN

	// MLP classifies the concatenated frame features of a whole sequence
	MLP

	// Conv3D convolves over time and space together (C3D)
	Conv3D

	// StatefulLRCN runs a VGG16 feature extractor over one frame per call, feeding a recurrent
	// layer whose state is kept between calls
	StatefulLRCN
)

var archNames = []string{
	LSTM:         "lstm",
	LRCN:         "lrcn",
	MLP:          "mlp",
	Conv3D:       "conv_3d",
	StatefulLRCN: "stateful_lrcn",
}

// Archs returns every architecture, in order
func Archs() []Arch {
	return []Arch{LSTM, LRCN, MLP, Conv3D, StatefulLRCN}
}

// String returns the name of the architecture, as accepted by ParseArch
func (a Arch) String() string {
	if a < LSTM || a > StatefulLRCN {
		return "Arch(" + strconv.Itoa(int(a)) + ")"
	}

	return archNames[a]
}

// ParseArch returns the architecture with the given name. An unknown name is returned as a
// *ConfigError; there is no fallback architecture.
func ParseArch(name string) (Arch, error) {
	for _, a := range Archs() {
		if archNames[a] == name {
			return a, nil
		}
	}

	return 0, &ConfigError{
		Field:  "model",
		Value:  name,
		Reason: "unknown architecture, expected one of " + strings.Join(archNames[LSTM:], ", "),
	}
}
