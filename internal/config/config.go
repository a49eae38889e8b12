package config

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"iris-forge/internal/model"
)

const (
	defaultMaxEpochs = 10000
	defaultLogEvery  = 50
)

// Config captures the runtime knobs for a training run.
type Config struct {
	DataDir        string  `yaml:"data_dir"`
	TrainPath      string  `yaml:"train_path"`
	ValidationPath string  `yaml:"validation_path"`
	AllDataPath    string  `yaml:"all_data_path"`
	MaxEpochs      int     `yaml:"max_epochs"`
	LearningRate   float64 `yaml:"learning_rate"`
	Seed           int64   `yaml:"seed"`
	LogEvery       int     `yaml:"log_every"`
}

// Overrides captures CLI supplied values.
type Overrides struct {
	DataDir        string
	TrainPath      string
	ValidationPath string
	AllDataPath    string
	MaxEpochs      int
	LearningRate   float64
	Seed           int64
	LogEvery       int
}

// Load reads a Config from YAML. Unknown keys are rejected. Validate should be called
// once overrides have been applied.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open config")
	}
	defer f.Close()

	cfg, err := parseYAML(f)
	if err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	return cfg, nil
}

// ApplyOverrides updates cfg using any non-zero override.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.DataDir != "" {
		c.DataDir = o.DataDir
	}
	if o.TrainPath != "" {
		c.TrainPath = o.TrainPath
	}
	if o.ValidationPath != "" {
		c.ValidationPath = o.ValidationPath
	}
	if o.AllDataPath != "" {
		c.AllDataPath = o.AllDataPath
	}
	if o.MaxEpochs > 0 {
		c.MaxEpochs = o.MaxEpochs
	}
	if o.LearningRate > 0 {
		c.LearningRate = o.LearningRate
	}
	if o.Seed != 0 {
		c.Seed = o.Seed
	}
	if o.LogEvery > 0 {
		c.LogEvery = o.LogEvery
	}
}

// Validate verifies the config is runnable and fills defaults.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	// Paths left empty are discovered beneath data_dir at run time.
	if c.DataDir == "" {
		if c.TrainPath == "" {
			return errors.New("train_path or data_dir must be set")
		}
		if c.ValidationPath == "" {
			return errors.New("validation_path or data_dir must be set")
		}
	}
	if c.MaxEpochs < 0 {
		return errors.Errorf("max_epochs must be >= 0 (got %d)", c.MaxEpochs)
	}
	if c.LearningRate < 0 {
		return errors.Errorf("learning_rate must be >= 0 (got %v)", c.LearningRate)
	}
	if c.MaxEpochs == 0 {
		c.MaxEpochs = defaultMaxEpochs
	}
	if c.LearningRate == 0 {
		c.LearningRate = model.DefaultLearningRate
	}
	if c.LogEvery <= 0 {
		c.LogEvery = defaultLogEvery
	}
	return nil
}

func parseYAML(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return nil, err
	}
	return cfg, nil
}
