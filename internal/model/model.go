package model

// Attribute names, in the positional order attribute vectors use.
var Attributes = []string{"sepal-length", "sepal-width", "petal-length", "petal-width"}

// Classes is the label vocabulary. Output units are named after these, in this order.
var Classes = []string{"Iris-setosa", "Iris-versicolor", "Iris-virginica"}

// Example pairs a normalized attribute vector with its class label.
type Example struct {
	Attributes []float64
	Label      string
}

// Prediction is the classifier's report for one example.
type Prediction struct {
	// Labels holds every class whose activation equals the maximum. It usually has
	// a single entry.
	Labels []string
	// Activations holds the output activation of each class, in Classes order.
	Activations []float64
}

// Label returns the first predicted label.
func (p Prediction) Label() string {
	if len(p.Labels) == 0 {
		return ""
	}
	return p.Labels[0]
}

// Unique reports whether exactly one class holds the maximum activation.
func (p Prediction) Unique() bool {
	return len(p.Labels) == 1
}

// TrainingResult describes how a call to Train ended.
type TrainingResult struct {
	Converged bool
	Epochs    int
}

// Err returns ErrDidNotConverge when the epoch budget ran out first.
func (r TrainingResult) Err() error {
	if r.Converged {
		return nil
	}
	return ErrDidNotConverge
}

// Classifier is the surface the trainer and the prompt drive.
type Classifier interface {
	Train(examples, validation []Example, maxEpochs int, hooks ...EpochHook) (TrainingResult, error)
	Evaluate(dataset []Example) (bool, error)
	Infer(dataset []Example) ([]Prediction, error)
}

func classIndex(label string) int {
	for i, c := range Classes {
		if c == label {
			return i
		}
	}
	return -1
}
