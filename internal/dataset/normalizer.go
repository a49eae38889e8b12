package dataset

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"iris-forge/internal/model"
)

// Normalizer scales attributes into [-3, 3] using per-column maxima computed once
// over a reference set. It holds no hidden state; pass it to every load.
type Normalizer struct {
	Maxima []float64
}

// NewNormalizer computes column maxima over examples.
func NewNormalizer(examples []model.Example) (Normalizer, error) {
	if len(examples) == 0 {
		return Normalizer{}, errors.New("normalizer: no examples")
	}
	numAttrs := len(model.Attributes)
	cols := make([][]float64, numAttrs)
	for i, ex := range examples {
		if len(ex.Attributes) != numAttrs {
			return Normalizer{}, errors.Wrapf(model.ErrMalformedInput, "normalizer: example %d has %d attributes", i, len(ex.Attributes))
		}
		for c, v := range ex.Attributes {
			cols[c] = append(cols[c], v)
		}
	}
	maxima := make([]float64, numAttrs)
	for c, col := range cols {
		maxima[c] = floats.Max(col)
		if maxima[c] <= 0 {
			return Normalizer{}, errors.Errorf("normalizer: column %s has non-positive maximum %v", model.Attributes[c], maxima[c])
		}
	}
	return Normalizer{Maxima: maxima}, nil
}

// ApplyVector returns attrs scaled as (v/max - 0.5) * 6.
func (n Normalizer) ApplyVector(attrs []float64) ([]float64, error) {
	if len(attrs) != len(n.Maxima) {
		return nil, errors.Wrapf(model.ErrMalformedInput, "normalizer: got %d attributes, want %d", len(attrs), len(n.Maxima))
	}
	out := make([]float64, len(attrs))
	for i, v := range attrs {
		out[i] = (v/n.Maxima[i] - 0.5) * 6
	}
	return out, nil
}

// Apply returns normalized copies of examples; the input is left untouched.
func (n Normalizer) Apply(examples []model.Example) ([]model.Example, error) {
	out := make([]model.Example, len(examples))
	for i, ex := range examples {
		attrs, err := n.ApplyVector(ex.Attributes)
		if err != nil {
			return nil, errors.Wrapf(err, "example %d", i)
		}
		out[i] = model.Example{Attributes: attrs, Label: ex.Label}
	}
	return out, nil
}
