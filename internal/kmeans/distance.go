package kmeans

import "math"

// DistanceFunc returns a non-negative distance between two equal-length vectors.
type DistanceFunc func(a, b []float64) float64

func SquaredEuclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

func Euclidean(a, b []float64) float64 {
	return math.Sqrt(SquaredEuclidean(a, b))
}

func Manhattan(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += math.Abs(a[i] - b[i])
	}
	return sum
}

// Cosine returns 1 - cos(a, b). Two zero vectors are at distance 0.
func Cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	denom := math.Sqrt(na) * math.Sqrt(nb)
	if denom < dot {
		denom = dot
	}
	if denom == 0 {
		if dot == 0 {
			return 0
		}
		return 1
	}
	return 1 - dot/denom
}
