package analyze

import "math"

// chiSquaredPValue1DF returns the upper-tail probability of a chi-squared
// variate with one degree of freedom. With 1 df the statistic is the square
// of a standard normal, so the survival function reduces to erfc.
func chiSquaredPValue1DF(x float64) float64 {
	if x <= 0 {
		return 1
	}
	return math.Erfc(math.Sqrt(x / 2))
}

// studentTTwoSided returns the two-sided p-value of a Student t statistic
// with df degrees of freedom, via the regularized incomplete beta function:
// p = I_{df/(df+t^2)}(df/2, 1/2).
func studentTTwoSided(t, df float64) float64 {
	if df <= 0 || math.IsNaN(t) {
		return 1
	}
	x := df / (df + t*t)
	return regIncompleteBeta(df/2, 0.5, x)
}

// regIncompleteBeta computes the regularized incomplete beta function
// I_x(a, b) using the continued fraction expansion.
func regIncompleteBeta(a, b, x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}

	lbeta, _ := math.Lgamma(a + b)
	la, _ := math.Lgamma(a)
	lb, _ := math.Lgamma(b)
	front := math.Exp(lbeta - la - lb + a*math.Log(x) + b*math.Log(1-x))

	// The continued fraction converges rapidly for x < (a+1)/(a+b+2);
	// otherwise use the symmetry relation.
	if x > (a+1)/(a+b+2) {
		return 1 - regIncompleteBeta(b, a, 1-x)
	}
	return front * betaContinuedFraction(a, b, x) / a
}

// betaContinuedFraction evaluates the continued fraction for the incomplete
// beta function by the modified Lentz method.
func betaContinuedFraction(a, b, x float64) float64 {
	const (
		maxIterations = 200
		epsilon       = 3e-14
		tiny          = 1e-30
	)

	qab := a + b
	qap := a + 1
	qam := a - 1

	c := 1.0
	d := 1 - qab*x/qap
	if math.Abs(d) < tiny {
		d = tiny
	}
	d = 1 / d
	h := d

	for m := 1; m <= maxIterations; m++ {
		m2 := float64(2 * m)
		fm := float64(m)

		aa := fm * (b - fm) * x / ((qam + m2) * (a + m2))
		d = 1 + aa*d
		if math.Abs(d) < tiny {
			d = tiny
		}
		c = 1 + aa/c
		if math.Abs(c) < tiny {
			c = tiny
		}
		d = 1 / d
		h *= d * c

		aa = -(a + fm) * (qab + fm) * x / ((a + m2) * (qap + m2))
		d = 1 + aa*d
		if math.Abs(d) < tiny {
			d = tiny
		}
		c = 1 + aa/c
		if math.Abs(c) < tiny {
			c = tiny
		}
		d = 1 / d
		del := d * c
		h *= del

		if math.Abs(del-1) < epsilon {
			break
		}
	}
	return h
}

// logChoose returns log(n choose k) via lgamma.
func logChoose(n, k int) float64 {
	ln, _ := math.Lgamma(float64(n + 1))
	lk, _ := math.Lgamma(float64(k + 1))
	lnk, _ := math.Lgamma(float64(n - k + 1))
	return ln - lk - lnk
}
