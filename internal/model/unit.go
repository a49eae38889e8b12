package model

import "math"

// Unit is a single node of the network.
type Unit struct {
	Name   string
	Input  float64
	Output float64
}

// Activate sets Output to tanh(Input). In float64 the result saturates to exactly
// ±1 once |Input| exceeds about 19.
func (u *Unit) Activate() {
	u.Output = math.Tanh(u.Input)
}

// ActivationDerivative returns the derivative of tanh at the current Input.
func (u *Unit) ActivationDerivative() float64 {
	t := math.Tanh(u.Input)
	return 1 - t*t
}

func newUnits(names []string) []Unit {
	units := make([]Unit, len(names))
	for i, name := range names {
		units[i] = Unit{Name: name}
	}
	return units
}
