package geology

// Curve is the quintic smoothstep t³(6t² − 15t + 10). It is monotonically
// increasing on [0, 1] with Curve(0) = 0 and Curve(1) = 1.
func Curve(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

// InverseCurve returns the t in [0, 1] with Curve(t) = y, found by
// bisection until the bracket is no wider than machine epsilon.
// y outside [0, 1] converges to the nearest end of the interval.
func InverseCurve(y float64) float64 {
	const eps = 2.220446049250313e-16

	low, high := 0.0, 1.0
	for high-low > eps {
		mid := (low + high) / 2
		if mid == low || mid == high {
			break
		}
		if Curve(mid) < y {
			low = mid
		} else {
			high = mid
		}
	}
	return (low + high) / 2
}

// LandBias converts a requested land ratio into the bias added to the
// plate/continent comparison. A ratio of 0.5 gives no bias; higher ratios
// give a negative bias, classifying fewer sites as ocean.
func LandBias(landRatio float64) float64 {
	return -(InverseCurve(landRatio) - 0.5)
}
