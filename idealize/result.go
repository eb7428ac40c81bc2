package idealize

import (
	"math"

	"bitbucket.org/Mikkola/patchid/hist"
	"bitbucket.org/Mikkola/patchid/noise"
	"bitbucket.org/Mikkola/patchid/segment"
	"bitbucket.org/Mikkola/patchid/trace"
)

// Result is the outcome of one idealization method on one trace.
type Result struct {
	Method string
	// Breakpoints are the detected transition times in seconds.
	Breakpoints []float64
	// DwellTimes is the dwell-time distribution including the trailing
	// dwell that closes the trace.
	DwellTimes []float64
	// Idealized is the per-sample state label sequence, same length as
	// the trace.
	Idealized []int
	// Levels holds the mean raw amplitude of each state.
	Levels [2]float64
	// Band is the threshold band the idealization was derived from.
	Band hist.ThresholdBand
	// Noise holds the residuals between trace and reconstruction.
	Noise *noise.Noise
	// Score is the noise-normality objective, NaN when not evaluated.
	Score float64
}

// Amplitudes reconstructs the idealized amplitude trace from the state
// labels and levels.
func (r *Result) Amplitudes() []float64 {
	amp := make([]float64, len(r.Idealized))
	for i, s := range r.Idealized {
		amp[i] = r.Levels[s]
	}
	return amp
}

// buildResult assembles a Result from detected breakpoints: it expands the
// per-sample labels, estimates the state amplitude levels from the raw
// samples and computes the residuals of the reconstruction.
func buildResult(method string, tr *trace.Trace, bps []float64, band hist.ThresholdBand, state0 int) (*Result, error) {
	r := &Result{
		Method:      method,
		Breakpoints: bps,
		DwellTimes:  segment.Dwells(segment.Close(bps, tr.Duration())),
		Idealized:   segment.Idealize(tr.Len(), bps, tr.Dt, state0),
		Band:        band,
		Score:       math.NaN(),
	}
	r.Levels = stateLevels(tr.Samples, r.Idealized)

	ns, err := noise.New(tr.Samples, r.Amplitudes())
	if err != nil {
		return nil, err
	}
	r.Noise = ns
	return r, nil
}

// stateLevels returns the mean raw amplitude per state. A state with no
// assigned samples inherits the overall mean.
func stateLevels(raw []float64, labels []int) [2]float64 {
	var sum [2]float64
	var count [2]int
	total := 0.0
	for i, v := range raw {
		sum[labels[i]] += v
		count[labels[i]]++
		total += v
	}
	var lv [2]float64
	for s := 0; s < 2; s++ {
		if count[s] > 0 {
			lv[s] = sum[s] / float64(count[s])
		} else {
			lv[s] = total / float64(len(raw))
		}
	}
	return lv
}

// initialState returns the starting state of a trace relative to a
// threshold.
func initialState(v0, threshold float64) int {
	if v0 < threshold {
		return 0
	}
	return 1
}
