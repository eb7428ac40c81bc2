package idealize

import (
	"math"

	"bitbucket.org/Mikkola/patchid/noise"
	"bitbucket.org/Mikkola/patchid/segment"
	"bitbucket.org/Mikkola/patchid/trace"
)

// Band-width sweep grid for the second optimizer phase.
const (
	epsMin  = 0.01
	epsMax  = 0.20
	epsStep = 0.01
)

// runBand is the threshold-band ("Mika") method: two sequential local
// searches, both maximizing the batched Shapiro-Wilk noise-normality
// score. Phase 1 slides the trough index toward the lighter peak; phase 2
// holds the best trough fixed and sweeps the band width. The histogram
// trough is only a noisy point estimate of the discrimination threshold;
// rescoring against the downstream residual normality corrects it without
// ground truth. If neither phase improves on the initial configuration the
// initial result is returned unchanged.
func runBand(c BandConfig, tr *trace.Trace) (*Result, error) {
	pa, err := analyze(tr.Samples, c.Bins)
	if err != nil {
		return nil, err
	}
	times := tr.Times()

	evaluate := func(trough int, eps float64) (*Result, error) {
		band := pa.Band(trough, eps)
		bps, _, err := segment.ByThreshold(times, tr.Samples, band)
		if err != nil {
			return nil, err
		}
		res, err := buildResult(c.Method(), tr, bps, band, initialState(tr.Samples[0], band.Centre))
		if err != nil {
			return nil, err
		}
		res.Score = res.Noise.NormalityScore(noise.DefaultBatchSize)
		return res, nil
	}

	initial, err := evaluate(pa.Min, 0)
	if err != nil {
		return nil, err
	}
	best := initial
	bestTrough := pa.Min
	improved := false

	// Phase 1: slide the trough toward the peak with less histogram mass
	// between it and the trough. Candidate positions stay strictly between
	// the peaks; with adjacent peaks there is nothing to slide over.
	dir := 1
	if pa.Hist.MassBetween(pa.Max1, pa.Min) < pa.Hist.MassBetween(pa.Min, pa.Max2) {
		dir = -1
	}
	for i := pa.Min + dir; i > pa.Max1 && i < pa.Max2; i += dir {
		res, err := evaluate(i, 0)
		if err != nil {
			return nil, err
		}
		if better(res.Score, best.Score) {
			best, bestTrough = res, i
			improved = true
		}
	}
	log.Debugf("mika: %s: phase 1 trough %d -> %d (score %g)", tr.Name, pa.Min, bestTrough, best.Score)

	// Phase 2: widen the band around the best trough.
	for eps := epsMin; eps <= epsMax+epsStep/2; eps += epsStep {
		res, err := evaluate(bestTrough, eps)
		if err != nil {
			return nil, err
		}
		if better(res.Score, best.Score) {
			best = res
			improved = true
		}
	}

	if !improved {
		log.Debugf("mika: %s: no improvement over initial configuration", tr.Name)
		return initial, nil
	}
	log.Debugf("mika: %s: best band [%g, %g] score %g", tr.Name, best.Band.X1, best.Band.X2, best.Score)
	return best, nil
}

// better reports whether score a beats b; NaN never wins and always loses
// to a valid score.
func better(a, b float64) bool {
	if math.IsNaN(a) {
		return false
	}
	return math.IsNaN(b) || a > b
}
