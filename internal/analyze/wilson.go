package analyze

import "math"

// z95 is the standard normal quantile for a 95% two-sided interval.
const z95 = 1.959963984540054

// wilsonInterval returns the Wilson score interval for a binomial proportion
// at 95% confidence. The closed form stays well-defined at 0/n and n/n: for
// finite n the interval is never a degenerate point at the boundary — 30/30
// yields a lower bound near 88.6%, not [100%, 100%].
func wilsonInterval(successes, n int) (low, high float64) {
	if n == 0 {
		return 0, 1
	}

	p := float64(successes) / float64(n)
	nf := float64(n)
	z2 := z95 * z95

	denom := 1 + z2/nf
	centre := (p + z2/(2*nf)) / denom
	margin := z95 * math.Sqrt(p*(1-p)/nf+z2/(4*nf*nf)) / denom

	low = centre - margin
	high = centre + margin
	if low < 0 {
		low = 0
	}
	if high > 1 {
		high = 1
	}
	return low, high
}
