package model

import (
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// DefaultLearningRate is used when NewNetwork is given a non-positive rate.
const DefaultLearningRate = 0.08

const (
	correctThreshold   = 0.9
	incorrectThreshold = -0.5
	// maxInvalid is an absolute count, independent of the validation set size.
	maxInvalid = 5
)

var hiddenNames = []string{"h1", "h2", "h3", "h4"}

// EpochStats describes the training loop at a convergence check.
type EpochStats struct {
	// Epoch is the number of completed epochs.
	Epoch int
	// Invalid is the validation invalid count.
	Invalid int
	// Examples is the number of training examples per epoch.
	Examples int
	// TrainTime covers the last epoch; it is zero before the first one.
	TrainTime time.Duration
	EvalTime  time.Duration
}

// EpochHook observes the training loop before every convergence check. A non-nil
// error stops training and is returned from Train unchanged.
type EpochHook func(EpochStats) error

// Edge is a weighted connection between units of adjacent layers.
type Edge struct {
	Source string
	Dest   string
	Weight float64
}

var _ Classifier = (*Network)(nil)

// Network is a 4-4-3 feed-forward classifier with tanh units. It is not safe for
// concurrent use.
type Network struct {
	inputUnits  []Unit
	hiddenUnits []Unit
	outputUnits []Unit

	// hiddenWeights.At(h, i) weights input unit i into hidden unit h;
	// outputWeights.At(o, h) weights hidden unit h into output unit o.
	hiddenWeights *mat.Dense
	outputWeights *mat.Dense

	learningRate float64

	inputOut  *mat.VecDense
	hiddenIn  *mat.VecDense
	hiddenOut *mat.VecDense
	outputIn  *mat.VecDense
	hiddenErr *mat.VecDense
	outputErr *mat.VecDense
}

// NewNetwork constructs the network with weights drawn uniformly from [-1/W, 1/W],
// W being the total number of units.
func NewNetwork(learningRate float64, seed int64) *Network {
	if learningRate <= 0 {
		learningRate = DefaultLearningRate
	}
	n := &Network{
		inputUnits:   newUnits(Attributes),
		hiddenUnits:  newUnits(hiddenNames),
		outputUnits:  newUnits(Classes),
		learningRate: learningRate,
	}
	numIn, numHidden, numOut := len(n.inputUnits), len(n.hiddenUnits), len(n.outputUnits)

	rng := rand.New(rand.NewSource(seed))
	bound := 1 / float64(numIn+numHidden+numOut)
	n.hiddenWeights = randomDense(rng, numHidden, numIn, bound)
	n.outputWeights = randomDense(rng, numOut, numHidden, bound)

	n.inputOut = mat.NewVecDense(numIn, nil)
	n.hiddenIn = mat.NewVecDense(numHidden, nil)
	n.hiddenOut = mat.NewVecDense(numHidden, nil)
	n.outputIn = mat.NewVecDense(numOut, nil)
	n.hiddenErr = mat.NewVecDense(numHidden, nil)
	n.outputErr = mat.NewVecDense(numOut, nil)
	return n
}

func randomDense(rng *rand.Rand, rows, cols int, bound float64) *mat.Dense {
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = (rng.Float64()*2 - 1) * bound
	}
	return mat.NewDense(rows, cols, data)
}

// LearningRate returns the fixed learning rate.
func (n *Network) LearningRate() float64 {
	return n.learningRate
}

// Train runs online gradient descent over examples, one epoch at a time, until the
// validation set is satisfied. With maxEpochs <= 0 there is no epoch budget and the
// loop may never return if the validation threshold is unreachable.
func (n *Network) Train(examples, validation []Example, maxEpochs int, hooks ...EpochHook) (TrainingResult, error) {
	if err := checkExamples(examples, false); err != nil {
		return TrainingResult{}, errors.Wrap(err, "training set")
	}
	if err := checkExamples(validation, false); err != nil {
		return TrainingResult{}, errors.Wrap(err, "validation set")
	}

	var res TrainingResult
	var trainTime time.Duration
	for {
		start := time.Now()
		invalid := n.invalidCount(validation)
		stats := EpochStats{
			Epoch:     res.Epochs,
			Invalid:   invalid,
			Examples:  len(examples),
			TrainTime: trainTime,
			EvalTime:  time.Since(start),
		}
		for _, hook := range hooks {
			if err := hook(stats); err != nil {
				return res, err
			}
		}
		if invalid <= maxInvalid {
			res.Converged = true
			return res, nil
		}
		if maxEpochs > 0 && res.Epochs >= maxEpochs {
			return res, nil
		}

		start = time.Now()
		for _, ex := range examples {
			n.step(ex)
		}
		trainTime = time.Since(start)
		res.Epochs++
	}
}

// TrainStep applies a single online update for ex.
func (n *Network) TrainStep(ex Example) error {
	if err := checkExamples([]Example{ex}, false); err != nil {
		return err
	}
	n.step(ex)
	return nil
}

// Evaluate reports whether the network satisfies dataset. An empty dataset is always
// satisfied.
func (n *Network) Evaluate(dataset []Example) (bool, error) {
	invalid, err := n.InvalidCount(dataset)
	if err != nil {
		return false, err
	}
	return invalid <= maxInvalid, nil
}

// InvalidCount returns the number of output activations that miss their target band:
// below 0.9 for the labelled class, above -0.5 for every other class.
func (n *Network) InvalidCount(dataset []Example) (int, error) {
	if err := checkExamples(dataset, false); err != nil {
		return 0, err
	}
	return n.invalidCount(dataset), nil
}

// Infer classifies every example in dataset. Labels are optional here; when present
// they must be known.
func (n *Network) Infer(dataset []Example) ([]Prediction, error) {
	if err := checkExamples(dataset, true); err != nil {
		return nil, err
	}
	preds := make([]Prediction, 0, len(dataset))
	for _, ex := range dataset {
		n.forwardPropagate(ex.Attributes)
		acts := n.Outputs()
		best := floats.Max(acts)
		var labels []string
		for i, a := range acts {
			if a == best {
				labels = append(labels, n.outputUnits[i].Name)
			}
		}
		preds = append(preds, Prediction{Labels: labels, Activations: acts})
	}
	return preds, nil
}

// Outputs returns a copy of the output activations from the last forward pass.
func (n *Network) Outputs() []float64 {
	out := make([]float64, len(n.outputUnits))
	for i, u := range n.outputUnits {
		out[i] = u.Output
	}
	return out
}

// Weight looks up the edge between two units by name, in either order.
func (n *Network) Weight(a, b string) (float64, bool) {
	if w, ok := n.directedWeight(a, b); ok {
		return w, true
	}
	return n.directedWeight(b, a)
}

func (n *Network) directedWeight(src, dest string) (float64, bool) {
	if i := unitIndex(n.inputUnits, src); i >= 0 {
		if h := unitIndex(n.hiddenUnits, dest); h >= 0 {
			return n.hiddenWeights.At(h, i), true
		}
		return 0, false
	}
	if h := unitIndex(n.hiddenUnits, src); h >= 0 {
		if o := unitIndex(n.outputUnits, dest); o >= 0 {
			return n.outputWeights.At(o, h), true
		}
	}
	return 0, false
}

// Edges lists every weighted edge, input-to-hidden first.
func (n *Network) Edges() []Edge {
	edges := make([]Edge, 0, len(n.hiddenUnits)*(len(n.inputUnits)+len(n.outputUnits)))
	for i, in := range n.inputUnits {
		for h, hid := range n.hiddenUnits {
			edges = append(edges, Edge{Source: in.Name, Dest: hid.Name, Weight: n.hiddenWeights.At(h, i)})
		}
	}
	for h, hid := range n.hiddenUnits {
		for o, out := range n.outputUnits {
			edges = append(edges, Edge{Source: hid.Name, Dest: out.Name, Weight: n.outputWeights.At(o, h)})
		}
	}
	return edges
}

func unitIndex(units []Unit, name string) int {
	for i := range units {
		if units[i].Name == name {
			return i
		}
	}
	return -1
}

// forwardPropagate assumes attrs has already been checked.
func (n *Network) forwardPropagate(attrs []float64) {
	for i := range n.inputUnits {
		n.inputUnits[i].Output = attrs[i]
		n.inputOut.SetVec(i, attrs[i])
	}

	n.hiddenIn.MulVec(n.hiddenWeights, n.inputOut)
	for h := range n.hiddenUnits {
		u := &n.hiddenUnits[h]
		u.Input = n.hiddenIn.AtVec(h)
		u.Activate()
		n.hiddenOut.SetVec(h, u.Output)
	}

	n.outputIn.MulVec(n.outputWeights, n.hiddenOut)
	for o := range n.outputUnits {
		u := &n.outputUnits[o]
		u.Input = n.outputIn.AtVec(o)
		u.Activate()
	}
}

func (n *Network) step(ex Example) {
	n.forwardPropagate(ex.Attributes)
	n.backPropagate(ex.Label)

	n.outputWeights.RankOne(n.outputWeights, n.learningRate, n.outputErr, n.hiddenOut)
	n.hiddenWeights.RankOne(n.hiddenWeights, n.learningRate, n.hiddenErr, n.inputOut)
}

// backPropagate fills outputErr and hiddenErr from the current unit state. Hidden
// errors use the weights as they were during the forward pass.
func (n *Network) backPropagate(label string) {
	for o := range n.outputUnits {
		u := &n.outputUnits[o]
		target := -1.0
		if u.Name == label {
			target = 1
		}
		n.outputErr.SetVec(o, u.ActivationDerivative()*(target-u.Output))
	}

	n.hiddenErr.MulVec(n.outputWeights.T(), n.outputErr)
	for h := range n.hiddenUnits {
		n.hiddenErr.SetVec(h, n.hiddenErr.AtVec(h)*n.hiddenUnits[h].ActivationDerivative())
	}
}

func (n *Network) invalidCount(dataset []Example) int {
	invalid := 0
	for _, ex := range dataset {
		n.forwardPropagate(ex.Attributes)
		for _, u := range n.outputUnits {
			if u.Name == ex.Label {
				if u.Output < correctThreshold {
					invalid++
				}
			} else if u.Output > incorrectThreshold {
				invalid++
			}
		}
	}
	return invalid
}
