package analyze

import "math"

// independenceTest runs a 2x2 test of independence between two
// correct/incorrect cells. It uses a Yates-corrected chi-squared test, and
// switches to Fisher's exact test when any expected cell count falls below 5.
// Returns the method name, the test statistic and the two-sided p-value.
func independenceTest(aCorrect, aTotal, bCorrect, bTotal int) (method string, statistic, pValue float64) {
	a := aCorrect
	b := aTotal - aCorrect
	c := bCorrect
	d := bTotal - bCorrect
	n := a + b + c + d
	if n == 0 || aTotal == 0 || bTotal == 0 {
		return "chi-squared", 0, 1
	}

	row1 := float64(a + b)
	row2 := float64(c + d)
	col1 := float64(a + c)
	col2 := float64(b + d)
	nf := float64(n)

	expected := [4]float64{
		row1 * col1 / nf,
		row1 * col2 / nf,
		row2 * col1 / nf,
		row2 * col2 / nf,
	}

	small := false
	for _, e := range expected {
		if e < 5 {
			small = true
			break
		}
	}
	if small {
		return "fisher-exact", oddsRatio(a, b, c, d), fisherExact(a, b, c, d)
	}

	// Yates continuity correction, standard for 2x2 tables.
	observed := [4]float64{float64(a), float64(b), float64(c), float64(d)}
	chi2 := 0.0
	for i := range observed {
		if expected[i] == 0 {
			continue
		}
		diff := math.Abs(observed[i]-expected[i]) - 0.5
		if diff < 0 {
			diff = 0
		}
		chi2 += diff * diff / expected[i]
	}

	return "chi-squared", chi2, chiSquaredPValue1DF(chi2)
}

// fisherExact computes the two-sided Fisher exact p-value for a 2x2 table
// with fixed margins: the sum of probabilities of all tables at least as
// extreme as the observed one under the hypergeometric distribution.
func fisherExact(a, b, c, d int) float64 {
	row1 := a + b
	col1 := a + c
	n := a + b + c + d

	logDenom := logChoose(n, col1)
	tableLogP := func(k int) float64 {
		return logChoose(row1, k) + logChoose(n-row1, col1-k) - logDenom
	}

	observed := tableLogP(a)

	lo := col1 - (n - row1)
	if lo < 0 {
		lo = 0
	}
	hi := row1
	if col1 < hi {
		hi = col1
	}

	// Tolerance absorbs floating error when comparing tied probabilities.
	const slack = 1e-7
	p := 0.0
	for k := lo; k <= hi; k++ {
		lp := tableLogP(k)
		if lp <= observed+slack {
			p += math.Exp(lp)
		}
	}
	if p > 1 {
		p = 1
	}
	return p
}

// oddsRatio computes the sample odds ratio, reported as the statistic for
// Fisher's exact test. Haldane correction avoids division by zero cells.
func oddsRatio(a, b, c, d int) float64 {
	if b == 0 || c == 0 || a == 0 || d == 0 {
		return (float64(a) + 0.5) * (float64(d) + 0.5) / ((float64(b) + 0.5) * (float64(c) + 0.5))
	}
	return float64(a) * float64(d) / (float64(b) * float64(c))
}
