package metrics

import "time"

// Window accumulates epoch timings between log lines. The best validation result is
// kept for the whole run and survives Snapshot.
type Window struct {
	examples int
	train    time.Duration
	eval     time.Duration
	checks   int

	lastEpoch   int
	lastInvalid int

	haveBest    bool
	bestEpoch   int
	bestInvalid int
	improved    bool
}

// Record adds one convergence check. examples and trainTime describe the epoch that
// preceded it and are zero for the check before the first epoch.
func (w *Window) Record(epoch, examples int, trainTime, evalTime time.Duration, invalid int) {
	w.examples += examples
	w.train += trainTime
	w.eval += evalTime
	w.checks++
	w.lastEpoch = epoch
	w.lastInvalid = invalid

	if !w.haveBest || invalid < w.bestInvalid {
		w.haveBest = true
		w.bestEpoch = epoch
		w.bestInvalid = invalid
		w.improved = true
	}
}

// Best returns the lowest invalid count seen so far and the epoch it was reached at.
// ok is false before anything was recorded.
func (w *Window) Best() (invalid, epoch int, ok bool) {
	return w.bestInvalid, w.bestEpoch, w.haveBest
}

// Snapshot aggregates the checks recorded since the previous Snapshot and clears
// them.
func (w *Window) Snapshot() Snapshot {
	snap := Snapshot{
		Epoch:       w.lastEpoch,
		LastInvalid: w.lastInvalid,
		BestInvalid: w.bestInvalid,
		BestEpoch:   w.bestEpoch,
		Improved:    w.improved,
	}
	if w.train > 0 {
		snap.ExamplesPerSec = float64(w.examples) / w.train.Seconds()
	}
	if w.checks > 0 {
		snap.AvgTrainMS = float64(w.train) / float64(time.Millisecond) / float64(w.checks)
		snap.AvgEvalMS = float64(w.eval) / float64(time.Millisecond) / float64(w.checks)
	}

	w.improved = false
	w.examples, w.checks = 0, 0
	w.train, w.eval = 0, 0
	return snap
}

// Snapshot represents loggable metrics.
type Snapshot struct {
	Epoch          int
	ExamplesPerSec float64
	AvgTrainMS     float64
	AvgEvalMS      float64
	LastInvalid    int
	BestInvalid    int
	BestEpoch      int
	// Improved reports whether the best invalid count moved since the previous
	// Snapshot.
	Improved bool
}
