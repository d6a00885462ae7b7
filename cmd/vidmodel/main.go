// Command vidmodel builds one of the video classification models, or loads it from a checkpoint,
// and prints its summary. The compiled model can then be saved as a checkpoint for training.
//
// Settings are read from VIDCLS_* environment variables and can be overridden by flags. An
// invalid model configuration exits with status 2, any other failure with status 1.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/pkg/errors"

	"github.com/0xqq/five-video-classification-methods/internal/config"
	"github.com/0xqq/five-video-classification-methods/internal/logging"
	"github.com/0xqq/five-video-classification-methods/models"
)

func main() {
	cfg := config.Load()

	flag.StringVar(&cfg.Model.Name, "model", cfg.Model.Name, "architecture: lstm, lrcn, mlp, conv_3d or stateful_lrcn")
	flag.IntVar(&cfg.Model.Classes, "classes", cfg.Model.Classes, "number of classes")
	flag.IntVar(&cfg.Model.SeqLength, "seq-length", cfg.Model.SeqLength, "number of frames per video")
	flag.IntVar(&cfg.Model.FeaturesLength, "features-length", cfg.Model.FeaturesLength, "length of the feature vector of each frame")
	flag.StringVar(&cfg.Model.SavedModel, "saved-model", cfg.Model.SavedModel, "checkpoint directory to load instead of building")
	flag.Int64Var(&cfg.Model.Seed, "seed", cfg.Model.Seed, "seed of the initial weights")
	flag.StringVar(&cfg.Weights.C3D, "c3d-weights", cfg.Weights.C3D, "pretrained weights for conv_3d")
	flag.StringVar(&cfg.Weights.VGG16, "vgg16-weights", cfg.Weights.VGG16, "pretrained VGG16 weights for stateful_lrcn")
	flag.BoolVar(&cfg.Weights.NoPretrained, "no-pretrained", cfg.Weights.NoPretrained, "don't load the conv_3d pretrained weights")
	flag.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "debug, info, warn or error")
	flag.BoolVar(&cfg.Log.JSON, "log-json", cfg.Log.JSON, "log as JSON")

	save := flag.String("save", "", "directory to save the compiled model to")
	overwrite := flag.Bool("overwrite", false, "replace the save directory if it exists")

	flag.Parse()

	logging.Init(cfg.Log.JSON, logging.ParseLevel(cfg.Log.Level))

	if err := run(cfg, *save, *overwrite); err != nil {
		var cerr *models.ConfigError
		if errors.As(err, &cerr) {
			fmt.Fprintln(os.Stderr, "vidmodel:", err)
			os.Exit(2)
		}

		slog.Error("failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, save string, overwrite bool) error {
	net, err := models.New(models.Spec{
		Name:            cfg.Model.Name,
		NumClasses:      cfg.Model.Classes,
		SeqLength:       cfg.Model.SeqLength,
		SavedModel:      cfg.Model.SavedModel,
		FeaturesLength:  cfg.Model.FeaturesLength,
		C3DWeights:      cfg.Weights.C3D,
		NoPretrained:    cfg.Weights.NoPretrained,
		BackboneWeights: cfg.Weights.VGG16,
		Seed:            cfg.Model.Seed,
	})
	if err != nil {
		return err
	}

	if err = net.Summary(os.Stdout); err != nil {
		return err
	}

	if save != "" {
		if err = net.Save(save, overwrite); err != nil {
			return errors.Wrapf(err, "saving to %s", save)
		}
	}

	return nil
}
