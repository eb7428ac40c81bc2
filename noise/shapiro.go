package noise

import (
	"fmt"
	"math"
	"sort"

	"github.com/gonum/mathext"
)

/*

ShapiroWilk computes the Shapiro-Wilk W statistic and its p-value for a
sample of 3 or more observations.

Algorithm AS R94, Royston P. (1995) Remark AS R94: A remark on Algorithm
AS 181: The W-test for normality. Applied Statistics 44: 547-551.
Uncensored samples only; the p-value approximation is the three-branch
normalizing transformation from the same paper (exact for n=3).

*/
func ShapiroWilk(x []float64) (w, p float64, err error) {
	n := len(x)
	if n < 3 {
		return 0, 0, fmt.Errorf("%w: need at least 3 observations for Shapiro-Wilk, have %d", ErrInvalidInput, n)
	}

	s := make([]float64, n)
	copy(s, x)
	sort.Float64s(s)

	rng := s[n-1] - s[0]
	if rng <= 0 {
		return 0, 0, fmt.Errorf("%w: zero sample range", ErrInvalidInput)
	}

	nn2 := n / 2
	a := make([]float64, nn2)

	if n == 3 {
		a[0] = math.Sqrt(0.5)
	} else {
		// expected normal order statistics (lower half, negative)
		q := make([]float64, nn2)
		summ2 := 0.0
		for i := 0; i < nn2; i++ {
			q[i] = mathext.NormalQuantile((float64(i+1) - 0.375) / (float64(n) + 0.25))
			summ2 += q[i] * q[i]
		}
		summ2 *= 2
		ssumm2 := math.Sqrt(summ2)
		rsn := 1 / math.Sqrt(float64(n))

		a1 := poly(swC1, rsn) - q[0]/ssumm2
		i1 := 1
		fac := 1.0
		if n > 5 {
			i1 = 2
			a2 := -q[1]/ssumm2 + poly(swC2, rsn)
			fac = math.Sqrt((summ2 - 2*q[0]*q[0] - 2*q[1]*q[1]) /
				(1 - 2*a1*a1 - 2*a2*a2))
			a[1] = a2
		} else if n > 3 {
			fac = math.Sqrt((summ2 - 2*q[0]*q[0]) / (1 - 2*a1*a1))
		}
		a[0] = a1
		for i := i1; i < nn2; i++ {
			a[i] = -q[i] / fac
		}
	}

	// W is the squared correlation between the sorted sample and the
	// antisymmetric weight vector (-a[i] low tail, +a[i] high tail).
	// Division by the range keeps the sums well scaled.
	mean := 0.0
	for _, xi := range s {
		mean += xi / rng
	}
	mean /= float64(n)

	var sax, ssa, ssx float64
	for i := 0; i < n; i++ {
		j := n - 1 - i
		var wv float64
		switch {
		case i < j:
			wv = -a[i]
		case i > j:
			wv = a[j]
		}
		xi := s[i]/rng - mean
		sax += wv * xi
		ssa += wv * wv
		ssx += xi * xi
	}
	w = sax * sax / (ssa * ssx)
	if w > 1 {
		w = 1
	}

	p = shapiroWilkP(w, n)
	return w, p, nil
}

// Royston's polynomial coefficients, ascending order.
var (
	swC1 = []float64{0, 0.221157, -0.147981, -2.071190, 4.434685, -2.706056}
	swC2 = []float64{0, 0.042981, -0.293762, -1.752461, 5.682633, -3.582633}
	swC3 = []float64{0.544, -0.39978, 0.025054, -6.714e-4}
	swC4 = []float64{1.3822, -0.77857, 0.062767, -0.0020322}
	swC5 = []float64{-1.5861, -0.31082, -0.083751, 0.0038915}
	swC6 = []float64{-0.4803, -0.082676, 0.0030302}
	swG  = []float64{-2.273, 0.459}
)

// shapiroWilkP transforms W to an upper-tail standard normal deviate and
// returns the corresponding p-value.
func shapiroWilkP(w float64, n int) float64 {
	if n == 3 {
		const pi6 = 1.90985931710274   // 6/pi
		const stqr = 1.04719755119660  // asin(sqrt(3/4))
		p := pi6 * (math.Asin(math.Sqrt(w)) - stqr)
		return math.Max(0, math.Min(1, p))
	}

	an := float64(n)
	y := math.Log(1 - w)
	var mu, sigma float64
	if n <= 11 {
		gamma := poly(swG, an)
		if y >= gamma {
			// w essentially zero
			return 0
		}
		y = -math.Log(gamma - y)
		mu = poly(swC3, an)
		sigma = math.Exp(poly(swC4, an))
	} else {
		ln := math.Log(an)
		mu = poly(swC5, ln)
		sigma = math.Exp(poly(swC6, ln))
	}
	z := (y - mu) / sigma
	return 0.5 * math.Erfc(z/math.Sqrt2)
}

// poly evaluates a polynomial with ascending coefficients c at x.
func poly(c []float64, x float64) float64 {
	res := 0.0
	for i := len(c) - 1; i >= 0; i-- {
		res = res*x + c[i]
	}
	return res
}
