package segment

import (
	"math"
	"math/rand"
	"testing"

	"bitbucket.org/Mikkola/patchid/hist"
)

const smallDiff = 1e-9

func stepTimes(n int, dt float64) []float64 {
	ts := make([]float64, n)
	for i := range ts {
		ts[i] = float64(i) * dt
	}
	return ts
}

func TestStepSignalRoundTrip(tst *testing.T) {
	const dt = 0.01
	values := make([]float64, 100)
	for i := 50; i < 100; i++ {
		values[i] = 1
	}
	band := hist.ThresholdBand{X1: 0.5, Centre: 0.5, X2: 0.5}

	bps, dwells, err := ByThreshold(stepTimes(100, dt), values, band)
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	if len(bps) != 1 {
		tst.Fatalf("Expected 1 breakpoint, got %d", len(bps))
	}
	if math.Abs(bps[0]-0.5) > dt+smallDiff {
		tst.Errorf("Expected breakpoint near 0.5s, got %g", bps[0])
	}
	if len(dwells) != 1 || math.Abs(dwells[0]-bps[0]) > smallDiff {
		tst.Errorf("Expected first dwell to equal first breakpoint, got %v", dwells)
	}
}

func TestConstantTraceEmptyResult(tst *testing.T) {
	values := make([]float64, 200)
	for i := range values {
		values[i] = 3
	}
	band := hist.ThresholdBand{X1: 1, Centre: 1, X2: 1}
	bps, dwells, err := ByThreshold(stepTimes(200, 0.01), values, band)
	if err != nil {
		tst.Fatal("Constant trace must not error, got ", err)
	}
	if len(bps) != 0 || len(dwells) != 0 {
		tst.Errorf("Expected empty results, got %d breakpoints", len(bps))
	}

	ideal := Idealize(200, bps, 0.01, 1)
	if len(ideal) != 200 {
		tst.Fatalf("Expected 200 labels, got %d", len(ideal))
	}
	for i, s := range ideal {
		if s != 1 {
			tst.Fatalf("Expected constant state 1, got %d at sample %d", s, i)
		}
	}
}

func TestBreakpointDwellConsistency(tst *testing.T) {
	r := rand.New(rand.NewSource(5))
	n := 2000
	values := make([]float64, n)
	state := 0.0
	for i := range values {
		if r.Float64() < 0.01 {
			state = 1 - state
		}
		values[i] = state + r.NormFloat64()*0.1
	}
	band := hist.ThresholdBand{X1: 0.4, Centre: 0.5, X2: 0.6}

	bps, dwells, err := ByThreshold(stepTimes(n, 1e-4), values, band)
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	if len(bps) != len(dwells) {
		tst.Fatalf("Expected equal lengths, got %d breakpoints vs %d dwells", len(bps), len(dwells))
	}
	if len(bps) == 0 {
		tst.Fatal("Expected transitions in the synthetic trace")
	}
	if math.Abs(bps[0]-dwells[0]) > smallDiff {
		tst.Errorf("breakpoints[0]=%g != dwells[0]=%g", bps[0], dwells[0])
	}
	for i := 1; i < len(bps); i++ {
		if bps[i] <= bps[i-1] {
			tst.Fatalf("Breakpoints not strictly increasing at %d", i)
		}
		if math.Abs(bps[i]-bps[i-1]-dwells[i]) > smallDiff {
			tst.Errorf("dwells[%d]=%g != breakpoint difference %g", i, dwells[i], bps[i]-bps[i-1])
		}
	}
}

func TestHysteresisSuppressesNoise(tst *testing.T) {
	// single noise spike into the band must not produce a transition
	values := []float64{0, 0, 0, 0.5, 0, 0, 1, 1, 1}
	band := hist.ThresholdBand{X1: 0.3, Centre: 0.5, X2: 0.7}
	bps, _, err := ByThreshold(stepTimes(len(values), 0.01), values, band)
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	if len(bps) != 1 {
		tst.Fatalf("Expected exactly 1 breakpoint, got %d (%v)", len(bps), bps)
	}
	// crossing time smoothed to the median of the buffered zone samples
	if bps[0] < 0.03 || bps[0] > 0.06 {
		tst.Errorf("Unexpected breakpoint position %g", bps[0])
	}
}

func TestClose(tst *testing.T) {
	bps := []float64{0.5}
	closed := Close(bps, 1.0)
	if len(closed) != 2 || closed[1] != 1.0 {
		tst.Errorf("Expected trailing boundary at 1.0, got %v", closed)
	}
	d := Dwells(closed)
	if len(d) != 2 || math.Abs(d[0]-0.5) > smallDiff || math.Abs(d[1]-0.5) > smallDiff {
		tst.Errorf("Expected dwells [0.5 0.5], got %v", d)
	}
}

func TestIdealizeLengthInvariant(tst *testing.T) {
	bps := []float64{0.1, 0.25, 0.7}
	for _, n := range []int{1, 10, 100, 1000} {
		labels := Idealize(n, bps, 1e-3, 0)
		if len(labels) != n {
			tst.Errorf("n=%d: got %d labels", n, len(labels))
		}
	}
}

func TestFromLabels(tst *testing.T) {
	labels := make([]int, 100)
	for i := 50; i < 100; i++ {
		labels[i] = 1
	}
	bps, dwells := FromLabels(labels, 0.01)
	if len(bps) != 1 || math.Abs(bps[0]-0.5) > smallDiff {
		tst.Fatalf("Expected single breakpoint at 0.5, got %v", bps)
	}
	if len(dwells) != 1 || math.Abs(dwells[0]-0.5) > smallDiff {
		tst.Errorf("Expected dwells [0.5], got %v", dwells)
	}
}
