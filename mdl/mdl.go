// Package mdl implements recursive minimum-description-length change-point
// segmentation of noisy piecewise-constant signals.
package mdl

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Variant selects the breakpoint detector.
type Variant int

const (
	// Single searches for one breakpoint.
	Single Variant = iota + 1
	// Double searches for a breakpoint pair.
	Double
)

// Score returns the description length of a segment under the given
// interior breakpoints: p*log(N) + 0.5*sum(log(len)) + (N/2)*log(RSS/N),
// where p is the number of breakpoints and RSS the total within-segment
// sum of squared deviations. Returns +Inf for degenerate segmentations
// (RSS <= 0 or an empty part), guarding against log(0).
func Score(data []float64, breaks []int) float64 {
	rss, sumLogLen, ok := partition(data, breaks)
	if !ok || rss <= 0 {
		return math.Inf(1)
	}
	nf := float64(len(data))
	return float64(len(breaks))*math.Log(nf) + 0.5*sumLogLen + nf/2*math.Log(rss/nf)
}

// partition computes the total within-segment sum of squared deviations
// and the sum of log segment lengths for the segmentation given by the
// interior breakpoints. ok is false when a part is empty.
func partition(data []float64, breaks []int) (rss, sumLogLen float64, ok bool) {
	n := len(data)
	if n == 0 {
		return 0, 0, false
	}
	prev := 0
	for k := 0; k <= len(breaks); k++ {
		end := n
		if k < len(breaks) {
			end = breaks[k]
		}
		l := end - prev
		if l <= 0 {
			return 0, 0, false
		}
		seg := data[prev:end]
		mean := floats.Sum(seg) / float64(l)
		for _, v := range seg {
			d := v - mean
			rss += d * d
		}
		sumLogLen += math.Log(float64(l))
		prev = end
	}
	return rss, sumLogLen, true
}

// Accept reports whether the candidate breakpoints reduce the description
// length of the segment. An empty candidate is never accepted. A
// candidate that leaves zero residual on a segment with positive residual
// is a perfect fit and is accepted directly, since its score degenerates
// to the log(0) guard.
func Accept(data []float64, candidate []int) bool {
	if len(candidate) == 0 {
		return false
	}
	candRSS, _, ok := partition(data, candidate)
	if !ok {
		return false
	}
	if candRSS <= 0 {
		nullRSS, _, _ := partition(data, nil)
		return nullRSS > 0
	}
	return Score(data, nil) > Score(data, candidate)
}

// SingleBreak finds the split index minimizing the combined within-part
// squared error, with both parts at least minSeg samples long. The scan is
// O(n): left-part sums are updated incrementally as the candidate split
// slides, never recomputed. Returns nil when the data is too short.
func SingleBreak(data []float64, minSeg int) []int {
	n := len(data)
	if minSeg < 1 || n < 2*minSeg {
		return nil
	}

	totalSum := floats.Sum(data)
	totalSq := 0.0
	for _, v := range data {
		totalSq += v * v
	}

	best := -1
	bestSSE := math.Inf(1)
	leftSum, leftSq := 0.0, 0.0
	for k := 1; k < n; k++ {
		leftSum += data[k-1]
		leftSq += data[k-1] * data[k-1]
		if k < minSeg || n-k < minSeg {
			continue
		}
		rightSum := totalSum - leftSum
		rightSq := totalSq - leftSq
		sse := leftSq - leftSum*leftSum/float64(k) +
			rightSq - rightSum*rightSum/float64(n-k)
		if sse < bestSSE {
			bestSSE = sse
			best = k
		}
	}
	if best < 0 {
		return nil
	}
	return []int{best}
}

// DoubleBreak finds the breakpoint pair minimizing the three-part squared
// error, each part at least minSeg samples long. Prefix sums of the signal
// and its square make every candidate pair O(1), for an O(n^2) scan total.
// Returns nil when the data is too short.
func DoubleBreak(data []float64, minSeg int) []int {
	n := len(data)
	if minSeg < 1 || n < 3*minSeg {
		return nil
	}

	sum := make([]float64, n+1)
	sq := make([]float64, n+1)
	for i, v := range data {
		sum[i+1] = sum[i] + v
		sq[i+1] = sq[i] + v*v
	}
	sse := func(a, b int) float64 {
		s := sum[b] - sum[a]
		return sq[b] - sq[a] - s*s/float64(b-a)
	}

	bi, bj := -1, -1
	bestSSE := math.Inf(1)
	for i := minSeg; i <= n-2*minSeg; i++ {
		left := sse(0, i)
		for j := i + minSeg; j <= n-minSeg; j++ {
			e := left + sse(i, j) + sse(j, n)
			if e < bestSSE {
				bestSSE = e
				bi, bj = i, j
			}
		}
	}
	if bi < 0 {
		return nil
	}
	return []int{bi, bj}
}

// Detect runs the selected detector on data and validates the candidate
// with the MDL comparison test. Returns nil on rejection.
func Detect(data []float64, variant Variant, minSeg int) []int {
	var candidate []int
	switch variant {
	case Single:
		candidate = SingleBreak(data, minSeg)
	case Double:
		candidate = DoubleBreak(data, minSeg)
	}
	if !Accept(data, candidate) {
		return nil
	}
	return candidate
}

// Segment recursively partitions data into piecewise-constant segments and
// returns the sorted interior breakpoint indices. The recursion is
// flattened into a frontier sweep: the current unresolved region
// [t0, cur) is searched for a single breakpoint (falling back to the
// double detector on long regions); accepted breakpoints shrink the
// region from the right, and once a region yields nothing the sweep
// advances past it to the next unresolved region. Every inserted
// breakpoint becomes a region boundary, so all sub-regions created along
// the way are revisited before the sweep passes them.
func Segment(data []float64, minSeg int) []int {
	n := len(data)
	breaks := []int{n}
	t0 := 0
	for t0 < n {
		cur := breaks[sort.SearchInts(breaks, t0+1)]
		region := data[t0:cur]
		found := Detect(region, Single, minSeg)
		if len(found) == 0 && len(region) > 3*minSeg {
			found = Detect(region, Double, minSeg)
		}
		if len(found) == 0 {
			t0 = cur
			continue
		}
		for _, b := range found {
			breaks = insert(breaks, t0+b)
		}
	}
	return breaks[:len(breaks)-1]
}

// insert adds v to the sorted slice s, keeping it sorted and unique.
func insert(s []int, v int) []int {
	i := sort.SearchInts(s, v)
	if i < len(s) && s[i] == v {
		return s
	}
	s = append(s, 0)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

// FilterByJump drops breakpoints whose jump in consecutive segment means
// does not exceed jump in absolute value. Segment means are computed with
// a 1-sample erosion at each edge to avoid boundary contamination, or over
// the whole segment when erosion would empty it. Returns the surviving
// breakpoints and the mean level of each resulting segment.
func FilterByJump(data []float64, breaks []int, jump float64) ([]int, []float64) {
	means := segmentMeans(data, breaks)

	var kept []int
	for k, b := range breaks {
		if math.Abs(means[k+1]-means[k]) > jump {
			kept = append(kept, b)
		}
	}
	return kept, segmentMeans(data, kept)
}

// segmentMeans returns the eroded mean of every segment delimited by the
// interior breakpoints.
func segmentMeans(data []float64, breaks []int) []float64 {
	n := len(data)
	means := make([]float64, 0, len(breaks)+1)
	prev := 0
	for k := 0; k <= len(breaks); k++ {
		end := n
		if k < len(breaks) {
			end = breaks[k]
		}
		a, b := prev, end
		if b-a > 2 {
			a, b = a+1, b-1
		}
		seg := data[a:b]
		if len(seg) == 0 {
			means = append(means, 0)
		} else {
			means = append(means, floats.Sum(seg)/float64(len(seg)))
		}
		prev = end
	}
	return means
}
