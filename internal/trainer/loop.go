package trainer

import (
	"context"
	"log"
	"math/rand"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"iris-forge/internal/dataset"
	"iris-forge/internal/metrics"
	"iris-forge/internal/model"
)

// RunConfig captures the knobs required by the training loop.
type RunConfig struct {
	// DataDir, when set, supplies any of the paths below that are empty.
	DataDir        string
	TrainPath      string
	ValidationPath string
	// AllDataPath names the reference set for column maxima. When empty the maxima
	// come from the training and validation sets combined.
	AllDataPath  string
	MaxEpochs    int
	LearningRate float64
	LogEvery     int
	Seed         int64
}

// Outcome is what a finished run hands to the caller.
type Outcome struct {
	RunID      string
	Network    *model.Network
	Normalizer dataset.Normalizer
	Result     model.TrainingResult
	Host       metrics.HostInfo
	// BestInvalid and BestEpoch record the lowest validation invalid count seen.
	BestInvalid int
	BestEpoch   int
}

// Run loads the datasets, trains a fresh network and returns it. Running out of
// epochs is not an error; inspect Outcome.Result.
func Run(ctx context.Context, cfg RunConfig) (*Outcome, error) {
	if cfg.DataDir != "" {
		files, err := dataset.DiscoverFiles(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		if cfg.TrainPath == "" {
			cfg.TrainPath = files.Training
		}
		if cfg.ValidationPath == "" {
			cfg.ValidationPath = files.Validation
		}
		if cfg.AllDataPath == "" {
			cfg.AllDataPath = files.AllData
		}
	}
	if cfg.TrainPath == "" || cfg.ValidationPath == "" {
		return nil, errors.New("trainer: training and validation paths must be set")
	}
	if cfg.MaxEpochs <= 0 {
		return nil, errors.New("trainer: max epochs must be > 0")
	}
	if cfg.LogEvery <= 0 {
		cfg.LogEvery = 50
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	rawTrain, err := dataset.LoadRaw(cfg.TrainPath, rng)
	if err != nil {
		return nil, err
	}
	rawValidation, err := dataset.LoadRaw(cfg.ValidationPath, rng)
	if err != nil {
		return nil, err
	}
	reference := append(append([]model.Example(nil), rawTrain...), rawValidation...)
	if cfg.AllDataPath != "" {
		reference, err = dataset.LoadRaw(cfg.AllDataPath, nil)
		if err != nil {
			return nil, err
		}
	}
	norm, err := dataset.NewNormalizer(reference)
	if err != nil {
		return nil, err
	}
	train, err := norm.Apply(rawTrain)
	if err != nil {
		return nil, errors.Wrap(err, "normalize training set")
	}
	validation, err := norm.Apply(rawValidation)
	if err != nil {
		return nil, errors.Wrap(err, "normalize validation set")
	}

	out := &Outcome{
		RunID:      uuid.NewString(),
		Network:    model.NewNetwork(cfg.LearningRate, cfg.Seed),
		Normalizer: norm,
		Host:       metrics.Host(),
	}
	log.Printf("run=%s %s", out.RunID, out.Host)
	log.Printf("run=%s train=%d validation=%d max_epochs=%d learning_rate=%.3f",
		out.RunID, len(train), len(validation), cfg.MaxEpochs, out.Network.LearningRate())

	var window metrics.Window
	hook := func(stats model.EpochStats) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		examples := stats.Examples
		if stats.Epoch == 0 {
			examples = 0
		}
		window.Record(stats.Epoch, examples, stats.TrainTime, stats.EvalTime, stats.Invalid)
		out.BestInvalid, out.BestEpoch, _ = window.Best()
		if stats.Epoch > 0 && stats.Epoch%cfg.LogEvery == 0 {
			snap := window.Snapshot()
			log.Printf("run=%s epoch=%d invalid=%d best_invalid=%d best_epoch=%d examples_per_sec=%.1f train_ms=%.3f eval_ms=%.3f",
				out.RunID,
				snap.Epoch,
				snap.LastInvalid,
				snap.BestInvalid,
				snap.BestEpoch,
				snap.ExamplesPerSec,
				snap.AvgTrainMS,
				snap.AvgEvalMS,
			)
		}
		return nil
	}

	res, err := out.Network.Train(train, validation, cfg.MaxEpochs, hook)
	out.Result = res
	if err != nil {
		return out, errors.Wrapf(err, "trainer: run %s", out.RunID)
	}
	log.Printf("run=%s converged=%t epochs=%d", out.RunID, res.Converged, res.Epochs)
	return out, nil
}
