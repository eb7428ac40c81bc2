// Package eval compares idealizations against ground-truth dwell-time
// annotations and aggregates method quality over trace collections.
package eval

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is returned for mismatched or degenerate inputs.
var ErrInvalidInput = errors.New("eval: invalid input")

// ReconstructGroundTruth expands a dwell-time annotation into a per-sample
// state label sequence of exactly n samples. States alternate starting
// from state0; every dwell occupies round(dwell/dt) samples, at least one.
// The sequence is truncated or padded with the final state to length n.
func ReconstructGroundTruth(dwells []float64, state0, n int, dt float64) ([]int, error) {
	if dt <= 0 {
		return nil, fmt.Errorf("%w: non-positive sampling interval %g", ErrInvalidInput, dt)
	}
	if state0 != 0 && state0 != 1 {
		return nil, fmt.Errorf("%w: initial state must be 0 or 1, got %d", ErrInvalidInput, state0)
	}

	labels := make([]int, 0, n)
	state := state0
	last := state0
	for _, d := range dwells {
		k := int(math.Round(d / dt))
		if k < 1 {
			k = 1
		}
		for j := 0; j < k && len(labels) < n; j++ {
			labels = append(labels, state)
		}
		last = state
		state = 1 - state
		if len(labels) >= n {
			break
		}
	}
	for len(labels) < n {
		labels = append(labels, last)
	}
	return labels, nil
}

// Accuracy returns the fraction of matching samples between a ground-truth
// and an approximated label sequence. State labels are assigned
// arbitrarily by the methods, so when the first labels disagree the
// approximation is complemented before comparison.
func Accuracy(truth, approx []int) (float64, error) {
	if len(truth) != len(approx) {
		return 0, fmt.Errorf("%w: %d truth vs %d approximated samples", ErrInvalidInput, len(truth), len(approx))
	}
	if len(truth) == 0 {
		return 0, fmt.Errorf("%w: empty sequences", ErrInvalidInput)
	}

	flip := truth[0] != approx[0]
	match := 0
	for i := range truth {
		a := approx[i]
		if flip {
			a = 1 - a
		}
		if a == truth[i] {
			match++
		}
	}
	return float64(match) / float64(len(truth)), nil
}
