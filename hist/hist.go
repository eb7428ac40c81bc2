// Package hist builds amplitude histograms and derives discrimination
// thresholds from their bimodal structure.
package hist

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrInvalidInput is returned for empty, zero-range or zero-weight input.
var ErrInvalidInput = errors.New("hist: invalid input")

// Histogram stores uniform bin edges and per-bin weights. Weights are raw
// counts after New and probability densities after ToProbability.
type Histogram struct {
	Edges   []float64
	Weights []float64
}

// New builds a histogram of samples with the given number of uniform bins
// over [min(samples), max(samples)]. If bins is not positive, the bin count
// is chosen with the Freedman-Diaconis rule.
func New(samples []float64, bins int) (*Histogram, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: no samples", ErrInvalidInput)
	}
	lo := floats.Min(samples)
	hi := floats.Max(samples)
	if hi <= lo {
		return nil, fmt.Errorf("%w: zero amplitude range", ErrInvalidInput)
	}
	if bins <= 0 {
		bins = freedmanDiaconis(samples, lo, hi)
	}

	h := &Histogram{
		Edges:   make([]float64, bins+1),
		Weights: make([]float64, bins),
	}
	width := (hi - lo) / float64(bins)
	for i := range h.Edges {
		h.Edges[i] = lo + float64(i)*width
	}
	h.Edges[bins] = hi
	for _, v := range samples {
		i := int((v - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		h.Weights[i]++
	}
	return h, nil
}

// freedmanDiaconis returns the bin count given by the Freedman-Diaconis
// rule, bin width 2*IQR/n^(1/3). Falls back to the square-root rule when
// the interquartile range vanishes.
func freedmanDiaconis(samples []float64, lo, hi float64) int {
	n := len(samples)
	sorted := make([]float64, n)
	copy(sorted, samples)
	sort.Float64s(sorted)

	iqr := stat.Quantile(0.75, stat.Empirical, sorted, nil) -
		stat.Quantile(0.25, stat.Empirical, sorted, nil)
	width := 2 * iqr / math.Cbrt(float64(n))
	if width <= 0 {
		return int(math.Max(1, math.Round(math.Sqrt(float64(n)))))
	}
	bins := int(math.Round((hi - lo) / width))
	if bins < 1 {
		bins = 1
	}
	return bins
}

// Bins returns the number of bins.
func (h *Histogram) Bins() int {
	return len(h.Weights)
}

// BinWidth returns the uniform bin width.
func (h *Histogram) BinWidth() float64 {
	return (h.Edges[len(h.Edges)-1] - h.Edges[0]) / float64(h.Bins())
}

// Centers returns the bin midpoints.
func (h *Histogram) Centers() []float64 {
	c := make([]float64, h.Bins())
	for i := range c {
		c[i] = (h.Edges[i] + h.Edges[i+1]) / 2
	}
	return c
}

// ToProbability returns a copy of the histogram rescaled to a probability
// density, i.e. the weights integrate to one over the bin range.
func (h *Histogram) ToProbability() (*Histogram, error) {
	total := floats.Sum(h.Weights)
	if total <= 0 {
		return nil, fmt.Errorf("%w: zero total weight", ErrInvalidInput)
	}
	p := &Histogram{
		Edges:   h.Edges,
		Weights: make([]float64, h.Bins()),
	}
	norm := total * h.BinWidth()
	for i, w := range h.Weights {
		p.Weights[i] = w / norm
	}
	return p, nil
}

// MassBetween returns the total weight of bins i through j inclusive.
// Arguments may be given in either order.
func (h *Histogram) MassBetween(i, j int) float64 {
	if i > j {
		i, j = j, i
	}
	return floats.Sum(h.Weights[i : j+1])
}
