package hist

import (
	"fmt"
	"math"
)

// PeakAnalysis locates the two dominant modes of a probability histogram
// and the trough between them. Max1 is always the left peak after
// canonicalization. The analysis is a pure value; candidate trough indices
// are passed to Band explicitly rather than mutated in place.
type PeakAnalysis struct {
	Hist *Histogram
	// Max1 and Max2 are the bin indices of the left and right peak.
	Max1 int
	Max2 int
	// Mid is the bin index halfway between the peaks.
	Mid int
	// Min is the bin index of the trough between the peaks. When the
	// peaks are adjacent no interior bin exists and Min equals Max1;
	// consumers iterating the interior must treat the range as empty.
	Min int
}

// ThresholdBand is a discrimination threshold with an asymmetric hysteresis
// band. X1 <= Centre <= X2; samples inside (X1, X2) are treated as
// uncertain by the segmenter. A zero-width band (X1 == X2) degenerates to a
// plain threshold.
type ThresholdBand struct {
	X1     float64
	Centre float64
	X2     float64
}

// Zero reports whether the band has collapsed to a plain threshold.
func (b ThresholdBand) Zero() bool {
	return b.X1 == b.X2
}

// AnalyzePeaks finds the two dominant peaks of a probability histogram and
// the trough between them. The global maximum is located first; the second
// peak is searched for in the far half of the bin range, starting from the
// midpoint between the first peak and the boundary. On a unimodal
// histogram the second peak degenerates to the boundary extremum.
func AnalyzePeaks(h *Histogram) (*PeakAnalysis, error) {
	n := h.Bins()
	if n < 3 {
		return nil, fmt.Errorf("%w: need at least 3 bins for peak analysis, have %d", ErrInvalidInput, n)
	}

	p1 := argmax(h.Weights, 0, n)
	var p2 int
	if p1 < n/2 {
		p2 = argmax(h.Weights, (p1+n-1)/2, n)
	} else {
		p2 = argmax(h.Weights, 0, p1/2+1)
	}
	if p1 > p2 {
		p1, p2 = p2, p1
	}

	pa := &PeakAnalysis{
		Hist: h,
		Max1: p1,
		Max2: p2,
		Mid:  (p1 + p2) / 2,
	}
	if p2-p1 > 1 {
		pa.Min = argmin(h.Weights, p1+1, p2)
	} else {
		// adjacent peaks leave no interior bin for a trough
		pa.Min = pa.Mid
	}
	return pa, nil
}

// Band derives a threshold band from the peak analysis with the trough
// placed at bin index trough and smoothing parameter eps in [0, 1]. Two
// lines are drawn from the peaks through the trough point; the band edge on
// each side is pulled toward its peak in proportion to the opposite line's
// slope magnitude, so a steep flank keeps the band narrow on its side. If
// either slope is not finite, or both vanish, the pull is symmetric eps.
func (pa *PeakAnalysis) Band(trough int, eps float64) ThresholdBand {
	c := pa.Hist.Centers()
	w := pa.Hist.Weights

	xt, wt := c[trough], w[trough]
	x1, w1 := c[pa.Max1], w[pa.Max1]
	x2, w2 := c[pa.Max2], w[pa.Max2]

	s1 := (w1 - wt) / (x1 - xt)
	s2 := (w2 - wt) / (x2 - xt)
	sum := math.Abs(s1) + math.Abs(s2)

	var lo, hi float64
	if math.IsNaN(s1) || math.IsInf(s1, 0) || math.IsNaN(s2) || math.IsInf(s2, 0) || sum == 0 {
		lo = xt - eps*(xt-x1)
		hi = xt + eps*(x2-xt)
	} else {
		lo = xt - eps*(xt-x1)*math.Abs(s2)/sum
		hi = xt + eps*(x2-xt)*math.Abs(s1)/sum
	}

	b := ThresholdBand{X1: lo, Centre: xt, X2: hi}
	if b.X1 > b.Centre {
		b.X1 = b.Centre
	}
	if b.X2 < b.Centre {
		b.X2 = b.Centre
	}
	return b
}

// Threshold returns the zero-width band at the detected trough.
func (pa *PeakAnalysis) Threshold() ThresholdBand {
	return pa.Band(pa.Min, 0)
}

// argmax returns the index of the maximum value in v[lo:hi].
func argmax(v []float64, lo, hi int) int {
	best := lo
	for i := lo + 1; i < hi; i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}

// argmin returns the index of the minimum value in v[lo:hi].
func argmin(v []float64, lo, hi int) int {
	best := lo
	for i := lo + 1; i < hi; i++ {
		if v[i] < v[best] {
			best = i
		}
	}
	return best
}
