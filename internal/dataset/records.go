package dataset

import (
	"bufio"
	"io"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"iris-forge/internal/model"
)

// ErrMalformedEntry indicates a line that is not four numbers and an optional label.
var ErrMalformedEntry = errors.New("dataset: malformed entry")

// ParseEntry parses one comma separated record, e.g. "5.1,3.5,1.4,0.2,Iris-setosa".
// The label may be omitted.
func ParseEntry(line string) (model.Example, error) {
	fields := strings.Split(strings.TrimSpace(line), ",")
	numAttrs := len(model.Attributes)
	if len(fields) != numAttrs && len(fields) != numAttrs+1 {
		return model.Example{}, errors.Wrapf(ErrMalformedEntry, "got %d fields", len(fields))
	}
	attrs := make([]float64, numAttrs)
	for i := range attrs {
		v, err := strconv.ParseFloat(strings.TrimSpace(fields[i]), 64)
		if err != nil {
			return model.Example{}, errors.Wrapf(ErrMalformedEntry, "field %d: %v", i+1, err)
		}
		attrs[i] = v
	}
	ex := model.Example{Attributes: attrs}
	if len(fields) > numAttrs {
		ex.Label = strings.TrimSpace(fields[numAttrs])
	}
	return ex, nil
}

// Parse reads one record per non-blank line.
func Parse(r io.Reader) ([]model.Example, error) {
	var examples []model.Example
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		ex, err := ParseEntry(line)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNo)
		}
		examples = append(examples, ex)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read records")
	}
	return examples, nil
}

// LoadRaw parses the file at path and shuffles the records with rng. A nil rng keeps
// file order.
func LoadRaw(path string, rng *rand.Rand) ([]model.Example, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open dataset")
	}
	defer f.Close()

	examples, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	Shuffle(examples, rng)
	return examples, nil
}

// Load is LoadRaw followed by norm.Apply.
func Load(path string, norm Normalizer, rng *rand.Rand) ([]model.Example, error) {
	raw, err := LoadRaw(path, rng)
	if err != nil {
		return nil, err
	}
	examples, err := norm.Apply(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "normalize %s", path)
	}
	return examples, nil
}

// Shuffle permutes examples in place.
func Shuffle(examples []model.Example, rng *rand.Rand) {
	if rng == nil {
		return
	}
	rng.Shuffle(len(examples), func(i, j int) {
		examples[i], examples[j] = examples[j], examples[i]
	})
}
