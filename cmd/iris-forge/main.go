package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"iris-forge/internal/config"
	"iris-forge/internal/model"
	"iris-forge/internal/prompt"
	"iris-forge/internal/trainer"
)

func main() {
	cfgPath := flag.String("config", "configs/iris.yaml", "Path to YAML config")
	dataDir := flag.String("data-dir", "", "Directory holding training.txt, validation.txt and all_data.txt")
	trainPath := flag.String("train", "", "Override training set path")
	validationPath := flag.String("validation", "", "Override validation set path")
	allDataPath := flag.String("all-data", "", "Override reference set used for column maxima")
	maxEpochs := flag.Int("max-epochs", 0, "Maximum number of training epochs")
	learningRate := flag.Float64("learning-rate", 0, "Learning rate")
	seed := flag.Int64("seed", 0, "PRNG seed")
	logEvery := flag.Int("log-every", 0, "Log every N epochs")
	noPrompt := flag.Bool("no-prompt", false, "Exit after training instead of starting the prompt")

	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	cfg.ApplyOverrides(config.Overrides{
		DataDir:        *dataDir,
		TrainPath:      *trainPath,
		ValidationPath: *validationPath,
		AllDataPath:    *allDataPath,
		MaxEpochs:      *maxEpochs,
		LearningRate:   *learningRate,
		Seed:           *seed,
		LogEvery:       *logEvery,
	})

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out, err := trainer.Run(ctx, trainer.RunConfig{
		DataDir:        cfg.DataDir,
		TrainPath:      cfg.TrainPath,
		ValidationPath: cfg.ValidationPath,
		AllDataPath:    cfg.AllDataPath,
		MaxEpochs:      cfg.MaxEpochs,
		LearningRate:   cfg.LearningRate,
		LogEvery:       cfg.LogEvery,
		Seed:           cfg.Seed,
	})
	if err != nil {
		log.Fatalf("training failed: %v", err)
	}
	if err := out.Result.Err(); errors.Is(err, model.ErrDidNotConverge) {
		log.Printf("warning: run=%s stopped after %d epochs without reaching the validation threshold", out.RunID, out.Result.Epochs)
	}

	if *noPrompt {
		return
	}
	// The session gets its own stream so prompts do not depend on how training consumed the seed.
	session := prompt.New(os.Stdin, os.Stdout, out.Network, out.Normalizer, rand.New(rand.NewSource(cfg.Seed)))
	if err := session.Run(); err != nil {
		log.Fatalf("prompt failed: %v", err)
	}
}
