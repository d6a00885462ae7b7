package config

import (
	"log/slog"
	"os"
	"strconv"
)

// Config holds the settings used to build a model from the command line.
type Config struct {
	Model   ModelConfig
	Weights WeightsConfig
	Log     LogConfig
}

// ModelConfig selects and shapes the architecture.
type ModelConfig struct {
	Name           string // "lstm", "lrcn", "mlp", "conv_3d", "stateful_lrcn"
	Classes        int
	SeqLength      int
	FeaturesLength int
	SavedModel     string // checkpoint directory; when set, Name is ignored
	Seed           int64
}

// WeightsConfig holds the paths of pretrained weights.
type WeightsConfig struct {
	C3D          string
	VGG16        string
	NoPretrained bool
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
	JSON  bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Model: ModelConfig{
			Name:           getenv("VIDCLS_MODEL", "lstm"),
			Classes:        getenvInt("VIDCLS_CLASSES", 101),
			SeqLength:      getenvInt("VIDCLS_SEQ_LENGTH", 40),
			FeaturesLength: getenvInt("VIDCLS_FEATURES_LENGTH", 2048),
			SavedModel:     os.Getenv("VIDCLS_SAVED_MODEL"),
			Seed:           int64(getenvInt("VIDCLS_SEED", 1)),
		},
		Weights: WeightsConfig{
			C3D:          getenv("VIDCLS_C3D_WEIGHTS", "data/c3d/models/sports1M_weights.safetensors"),
			VGG16:        os.Getenv("VIDCLS_VGG16_WEIGHTS"),
			NoPretrained: getenvBool("VIDCLS_NO_PRETRAINED", false),
		},
		Log: LogConfig{
			Level: getenv("VIDCLS_LOG_LEVEL", "info"),
			JSON:  getenvBool("VIDCLS_LOG_JSON", false),
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid boolean in environment, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return b
}
