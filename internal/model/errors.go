package model

import (
	"math"

	"github.com/pkg/errors"
)

var (
	// ErrMalformedInput indicates an attribute vector of the wrong length or with a
	// non-finite value.
	ErrMalformedInput = errors.New("model: malformed input")
	// ErrUnknownLabel indicates a label outside Classes.
	ErrUnknownLabel = errors.New("model: unknown label")
	// ErrDidNotConverge is reported when the epoch budget is spent before the
	// validation set is satisfied.
	ErrDidNotConverge = errors.New("model: did not converge")
)

// checkExamples rejects examples the propagation code cannot handle. Empty labels are
// accepted only when allowUnlabeled is set.
func checkExamples(examples []Example, allowUnlabeled bool) error {
	for i, ex := range examples {
		if len(ex.Attributes) != len(Attributes) {
			return errors.Wrapf(ErrMalformedInput, "example %d: got %d attributes, want %d",
				i, len(ex.Attributes), len(Attributes))
		}
		for j, v := range ex.Attributes {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return errors.Wrapf(ErrMalformedInput, "example %d: attribute %s is %v", i, Attributes[j], v)
			}
		}
		if ex.Label == "" && allowUnlabeled {
			continue
		}
		if classIndex(ex.Label) < 0 {
			return errors.Wrapf(ErrUnknownLabel, "example %d: %q", i, ex.Label)
		}
	}
	return nil
}
