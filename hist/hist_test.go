package hist

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

const smallDiff = 1e-6

// bimodalSamples generates a two-state amplitude distribution with
// Gaussian noise around each level.
func bimodalSamples(n int, lo, hi, sd float64, seed int64) []float64 {
	r := rand.New(rand.NewSource(seed))
	samples := make([]float64, n)
	for i := range samples {
		level := lo
		if i%2 == 0 {
			level = hi
		}
		samples[i] = level + r.NormFloat64()*sd
	}
	return samples
}

func TestHistogramInvariants(tst *testing.T) {
	samples := bimodalSamples(2000, 0, 1, 0.1, 1)
	h, err := New(samples, 40)
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	if len(h.Edges) != h.Bins()+1 {
		tst.Errorf("Expected %d edges, got %d", h.Bins()+1, len(h.Edges))
	}
	total := 0.0
	for _, w := range h.Weights {
		total += w
	}
	if total != float64(len(samples)) {
		tst.Errorf("Expected total weight %d, got %f", len(samples), total)
	}
}

func TestToProbability(tst *testing.T) {
	samples := bimodalSamples(2000, 0, 1, 0.1, 2)
	h, err := New(samples, 40)
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	p, err := h.ToProbability()
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	integral := 0.0
	for _, w := range p.Weights {
		integral += w * p.BinWidth()
	}
	if math.Abs(integral-1) > smallDiff {
		tst.Errorf("Expected unit integral, got %f", integral)
	}
}

func TestFreedmanDiaconis(tst *testing.T) {
	samples := bimodalSamples(5000, 0, 1, 0.1, 3)
	h, err := New(samples, 0)
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	if h.Bins() < 5 || h.Bins() > 200 {
		tst.Errorf("Unreasonable Freedman-Diaconis bin count %d", h.Bins())
	}
}

func TestDegenerateInput(tst *testing.T) {
	if _, err := New(nil, 10); !errors.Is(err, ErrInvalidInput) {
		tst.Error("Expected invalid input error for empty samples, got", err)
	}
	constant := []float64{2, 2, 2, 2}
	if _, err := New(constant, 10); !errors.Is(err, ErrInvalidInput) {
		tst.Error("Expected invalid input error for zero range, got", err)
	}
}

func TestPeakCanonicalization(tst *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		samples := bimodalSamples(3000, 0, 1, 0.12, seed)
		h, err := New(samples, 30)
		if err != nil {
			tst.Fatal("Error: ", err)
		}
		p, err := h.ToProbability()
		if err != nil {
			tst.Fatal("Error: ", err)
		}
		pa, err := AnalyzePeaks(p)
		if err != nil {
			tst.Fatal("Error: ", err)
		}
		if pa.Max1 >= pa.Max2 {
			tst.Errorf("seed %d: peaks not canonical: %d >= %d", seed, pa.Max1, pa.Max2)
		}
		if pa.Min <= pa.Max1 || pa.Min >= pa.Max2 {
			tst.Errorf("seed %d: trough %d not strictly between peaks %d, %d",
				seed, pa.Min, pa.Max1, pa.Max2)
		}
	}
}

// TestAnalyzePeaksAdjacent pins down the degenerate convention for peaks
// in neighboring bins: no interior trough bin exists, so Min collapses
// onto the left peak and Band still produces a canonical band there.
func TestAnalyzePeaksAdjacent(tst *testing.T) {
	h := &Histogram{
		Edges:   []float64{0, 1, 2, 3, 4},
		Weights: []float64{1, 10, 8, 1},
	}
	pa, err := AnalyzePeaks(h)
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	if pa.Max1 != 1 || pa.Max2 != 2 {
		tst.Fatalf("Expected adjacent peaks at bins 1 and 2, got %d and %d", pa.Max1, pa.Max2)
	}
	if pa.Min != pa.Max1 {
		tst.Errorf("Expected trough to collapse onto the left peak, got %d", pa.Min)
	}
	for _, eps := range []float64{0, 0.1} {
		b := pa.Band(pa.Min, eps)
		if b.X1 > b.Centre || b.X2 < b.Centre {
			tst.Errorf("eps=%g: band not canonical: [%g, %g, %g]", eps, b.X1, b.Centre, b.X2)
		}
	}
}

func TestBandOrdering(tst *testing.T) {
	samples := bimodalSamples(3000, 0, 1, 0.12, 4)
	h, _ := New(samples, 30)
	p, _ := h.ToProbability()
	pa, err := AnalyzePeaks(p)
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	for _, eps := range []float64{0, 0.01, 0.1, 0.2, 1} {
		b := pa.Band(pa.Min, eps)
		if b.X1 > b.Centre || b.X2 < b.Centre {
			tst.Errorf("eps=%g: band not canonical: [%g, %g, %g]", eps, b.X1, b.Centre, b.X2)
		}
		if eps == 0 && !b.Zero() {
			tst.Errorf("eps=0 should give a zero-width band, got [%g, %g]", b.X1, b.X2)
		}
	}
}

func TestBandSymmetricFallback(tst *testing.T) {
	// flat probability histogram: both slopes are zero
	h := &Histogram{
		Edges:   []float64{0, 1, 2, 3, 4, 5},
		Weights: []float64{1, 1, 1, 1, 1},
	}
	pa := &PeakAnalysis{Hist: h, Max1: 0, Max2: 4, Mid: 2, Min: 2}
	b := pa.Band(2, 0.1)
	dLo := b.Centre - b.X1
	dHi := b.X2 - b.Centre
	if math.Abs(dLo-dHi) > smallDiff {
		tst.Errorf("Expected symmetric fallback band, got pulls %g and %g", dLo, dHi)
	}
	if dLo <= 0 {
		tst.Error("Expected nonzero band width in fallback")
	}
}
