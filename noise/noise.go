// Package noise evaluates idealization quality from the residuals it
// leaves behind.
package noise

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"bitbucket.org/Mikkola/patchid/hist"
)

// ErrInvalidInput is returned for mismatched or degenerate input vectors.
var ErrInvalidInput = errors.New("noise: invalid input")

// DefaultBatchSize is the normality test batch size.
const DefaultBatchSize = 50

// Noise holds the residuals between a raw trace and its idealization.
type Noise struct {
	Residuals []float64
	Mean      float64
	StdDev    float64
}

// New computes elementwise residuals raw - ideal and their moments.
func New(raw, ideal []float64) (*Noise, error) {
	if len(raw) != len(ideal) {
		return nil, fmt.Errorf("%w: %d raw vs %d idealized samples", ErrInvalidInput, len(raw), len(ideal))
	}
	ns := &Noise{Residuals: make([]float64, len(raw))}
	floats.SubTo(ns.Residuals, raw, ideal)
	ns.Mean, ns.StdDev = stat.MeanStdDev(ns.Residuals, nil)
	return ns, nil
}

// NormalityScore partitions the residuals into non-overlapping batches of
// the given size (trailing remainder discarded), runs a Shapiro-Wilk test
// on each and returns the mean p-value. A high score means the residuals
// are statistically indistinguishable from Gaussian noise, i.e. the
// idealization explains the signal well. Returns NaN when fewer than one
// full batch exists; callers must guard.
func (ns *Noise) NormalityScore(batch int) float64 {
	if batch <= 0 {
		batch = DefaultBatchSize
	}
	nb := len(ns.Residuals) / batch
	if nb == 0 {
		return math.NaN()
	}
	sum := 0.0
	count := 0
	for b := 0; b < nb; b++ {
		_, p, err := ShapiroWilk(ns.Residuals[b*batch : (b+1)*batch])
		if err != nil {
			// constant batch, no normality information
			continue
		}
		sum += p
		count++
	}
	if count == 0 {
		return math.NaN()
	}
	return sum / float64(count)
}

// DwellMSE histograms the true and approximated dwell-time distributions
// over shared fixed bins and returns the mean squared difference of the
// bin counts. Scale-sensitive on purpose: missing a long dwell costs more
// than missing a short one.
func DwellMSE(trueDwells, approxDwells []float64, bins int) (float64, *hist.Histogram, *hist.Histogram, error) {
	if bins <= 0 {
		return 0, nil, nil, fmt.Errorf("%w: non-positive bin count %d", ErrInvalidInput, bins)
	}
	if len(trueDwells) == 0 || len(approxDwells) == 0 {
		return 0, nil, nil, fmt.Errorf("%w: empty dwell-time distribution", ErrInvalidInput)
	}

	lo := math.Min(floats.Min(trueDwells), floats.Min(approxDwells))
	hi := math.Max(floats.Max(trueDwells), floats.Max(approxDwells))
	if hi <= lo {
		return 0, nil, nil, fmt.Errorf("%w: zero dwell-time range", ErrInvalidInput)
	}

	ht := fixedCount(trueDwells, lo, hi, bins)
	ha := fixedCount(approxDwells, lo, hi, bins)

	mse := 0.0
	for i := range ht.Weights {
		d := ht.Weights[i] - ha.Weights[i]
		mse += d * d
	}
	mse /= float64(bins)
	return mse, ht, ha, nil
}

// fixedCount builds a count histogram over explicit bounds, so that two
// distributions can share bin edges.
func fixedCount(v []float64, lo, hi float64, bins int) *hist.Histogram {
	h := &hist.Histogram{
		Edges:   make([]float64, bins+1),
		Weights: make([]float64, bins),
	}
	width := (hi - lo) / float64(bins)
	for i := range h.Edges {
		h.Edges[i] = lo + float64(i)*width
	}
	h.Edges[bins] = hi
	for _, x := range v {
		i := int((x - lo) / width)
		if i < 0 {
			i = 0
		}
		if i >= bins {
			i = bins - 1
		}
		h.Weights[i]++
	}
	return h
}
