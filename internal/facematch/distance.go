// Package facematch scores probe face descriptors against the descriptors of
// registered users. Descriptor extraction itself happens in the browser; this
// package only implements the nearest-match decision.
package facematch

import "math"

// EuclideanDistance computes the euclidean (L2) distance between two
// descriptors. Returns +Inf for mismatched or empty inputs so that invalid
// pairs never pass a match threshold.
func EuclideanDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return math.Inf(1)
	}

	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
