// Package segment converts amplitude time series into breakpoint and
// dwell-time sequences via hysteresis-band threshold crossing.
package segment

import (
	"fmt"
	"math"
	"sort"

	"bitbucket.org/Mikkola/patchid/hist"
)

// Breakpoints is an ordered sequence of transition times in seconds.
type Breakpoints = []float64

// DwellTimes is an ordered sequence of state durations in seconds.
type DwellTimes = []float64

// ByThreshold segments a (time, value) series with a threshold band. The
// initial state is 0 when the first value lies below the band centre.
// Samples falling inside the open interval (X1, X2) are buffered; when the
// signal exits the band on the side opposite to the current state, the
// median buffered timestamp is recorded as the breakpoint and the state
// flips. A zero-width band degenerates to a direct crossing test on
// consecutive samples. A series with no transitions yields empty results.
func ByThreshold(times, values []float64, band hist.ThresholdBand) (Breakpoints, DwellTimes, error) {
	if len(times) != len(values) {
		return nil, nil, fmt.Errorf("segment: length mismatch: %d times vs %d values", len(times), len(values))
	}
	if len(values) == 0 {
		return nil, nil, nil
	}

	state := 0
	if values[0] >= band.Centre {
		state = 1
	}

	var bps []float64
	if band.Zero() {
		for i := 1; i < len(values); i++ {
			prev, v := values[i-1], values[i]
			if (state == 0 && prev < band.Centre && v >= band.Centre) ||
				(state == 1 && prev >= band.Centre && v < band.Centre) {
				bps = append(bps, times[i])
				state = 1 - state
			}
		}
	} else {
		var zone []float64
		for i, v := range values {
			switch {
			case v > band.X1 && v < band.X2:
				zone = append(zone, times[i])
			case (state == 0 && v >= band.X2) || (state == 1 && v <= band.X1):
				bt := times[i]
				if len(zone) > 0 {
					bt = median(zone)
				}
				bps = append(bps, bt)
				state = 1 - state
				zone = zone[:0]
			default:
				// left the band on the same side, noise excursion
				zone = zone[:0]
			}
		}
	}

	return bps, Dwells(bps), nil
}

// Dwells returns the successive differences of breakpoints; the first dwell
// time equals the first breakpoint. An empty breakpoint sequence yields
// empty dwell times rather than an error, since a trace with no channel
// activity is a valid outcome.
func Dwells(bps Breakpoints) DwellTimes {
	if len(bps) == 0 {
		return nil
	}
	d := make([]float64, len(bps))
	d[0] = bps[0]
	for i := 1; i < len(bps); i++ {
		d[i] = bps[i] - bps[i-1]
	}
	return d
}

// Close appends the end-of-trace time as a final segment boundary so that
// the trailing dwell is included in the dwell-time distribution. Returns
// bps unchanged when end does not extend past the last breakpoint.
func Close(bps Breakpoints, end float64) Breakpoints {
	if len(bps) > 0 && end <= bps[len(bps)-1] {
		return bps
	}
	out := make([]float64, len(bps)+1)
	copy(out, bps)
	out[len(bps)] = end
	return out
}

// Idealize expands breakpoints into n per-sample state labels, starting
// from state0 and flipping at each breakpoint. Sample i is taken at time
// i*dt; the flip takes effect at the nearest sample index.
func Idealize(n int, bps Breakpoints, dt float64, state0 int) []int {
	labels := make([]int, n)
	state := state0
	next := 0
	nextIdx := flipIndex(bps, next, dt, n)
	for i := 0; i < n; i++ {
		for i >= nextIdx {
			state = 1 - state
			next++
			nextIdx = flipIndex(bps, next, dt, n)
		}
		labels[i] = state
	}
	return labels
}

func flipIndex(bps Breakpoints, k int, dt float64, n int) int {
	if k >= len(bps) {
		return n
	}
	return int(math.Round(bps[k] / dt))
}

// FromLabels extracts breakpoints and dwell times from a per-sample class
// label sequence, e.g. the output of an external classifier. A breakpoint
// is emitted at every label change.
func FromLabels(labels []int, dt float64) (Breakpoints, DwellTimes) {
	var bps []float64
	for i := 1; i < len(labels); i++ {
		if labels[i] != labels[i-1] {
			bps = append(bps, float64(i)*dt)
		}
	}
	return bps, Dwells(bps)
}

// median returns the median of v. v is not modified.
func median(v []float64) float64 {
	s := make([]float64, len(v))
	copy(s, v)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}
