package analyze

import (
	"math"

	"github.com/ppiankov/lacuna/internal/model"
)

// fitTrend runs ordinary least squares of bucket accuracy against position
// normalized to [0,1] and reports slope, intercept, R-squared and a two-sided
// p-value for slope != 0. Sums of squares are computed two-pass around the
// means, which stays stable when every bucket has near-identical accuracy.
func fitTrend(buckets []model.PositionBucket) model.TrendTest {
	n := len(buckets)
	if n < 2 {
		return model.TrendTest{PValue: 1}
	}

	minPos, maxPos := buckets[0].Position, buckets[0].Position
	for _, b := range buckets {
		if b.Position < minPos {
			minPos = b.Position
		}
		if b.Position > maxPos {
			maxPos = b.Position
		}
	}
	if minPos == maxPos {
		return model.TrendTest{PValue: 1}
	}

	span := float64(maxPos - minPos)
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, b := range buckets {
		xs[i] = float64(b.Position-minPos) / span
		ys[i] = b.Accuracy()
	}

	var meanX, meanY float64
	for i := range xs {
		meanX += xs[i]
		meanY += ys[i]
	}
	meanX /= float64(n)
	meanY /= float64(n)

	var sxx, sxy, syy float64
	for i := range xs {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		sxx += dx * dx
		sxy += dx * dy
		syy += dy * dy
	}
	if sxx == 0 {
		return model.TrendTest{PValue: 1}
	}

	slope := sxy / sxx
	intercept := meanY - slope*meanX

	var sse float64
	for i := range xs {
		resid := ys[i] - (intercept + slope*xs[i])
		sse += resid * resid
	}

	rSquared := 0.0
	if syy > 0 {
		rSquared = 1 - sse/syy
		if rSquared < 0 {
			rSquared = 0
		}
	}

	pValue := 1.0
	df := float64(n - 2)
	if df > 0 {
		if sse <= 0 {
			// Perfect fit: a nonzero slope is unambiguous, a zero slope is noise-free flat.
			if slope != 0 {
				pValue = 0
			}
		} else {
			se := math.Sqrt(sse / df / sxx)
			if se > 0 {
				pValue = studentTTwoSided(slope/se, df)
			}
		}
	}

	return model.TrendTest{
		Slope:       slope,
		Intercept:   intercept,
		RSquared:    rSquared,
		PValue:      pValue,
		Significant: pValue < 0.05,
	}
}
