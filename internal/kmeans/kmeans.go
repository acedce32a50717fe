package kmeans

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"slices"
)

var (
	// ErrNoSeeds is returned when no initial centers are given.
	ErrNoSeeds = errors.New("kmeans: no seeds")

	// ErrDimensionMismatch is returned when points and seeds differ in length.
	ErrDimensionMismatch = errors.New("kmeans: dimension mismatch")

	// ErrTooFewPoints is returned by RandomSeeds when k exceeds the number of points.
	ErrTooFewPoints = errors.New("kmeans: fewer points than centers")
)

// Defaults applied to a zero Config.
const (
	DefaultMaxIterations    = 10
	DefaultConvergenceDelta = 0.001
)

// Config controls a run.
type Config struct {
	// MaxIterations bounds the number of Lloyd iterations.
	MaxIterations int

	// ConvergenceDelta is the largest center movement, measured with Distance,
	// for which a cluster counts as converged.
	ConvergenceDelta float64

	// Distance measures point-to-center distance. Default: SquaredEuclidean.
	Distance DistanceFunc
}

// Cluster is the state of one cluster after the last iteration.
type Cluster struct {
	Center []float64
	// Radius is the per-dimension standard deviation of the assigned points.
	Radius []float64
	// Count is the number of points assigned in the last iteration.
	Count int64
	// Total accumulates Count over all iterations.
	Total     int64
	Converged bool
}

// Result is the outcome of Run.
type Result struct {
	Clusters    []Cluster
	Assignments []int
	Iterations  int
}

// Converged reports whether every cluster converged.
func (r *Result) Converged() bool {
	for _, c := range r.Clusters {
		if !c.Converged {
			return false
		}
	}
	return true
}

// Run clusters points starting from seeds until every center moves less than
// the convergence delta or the iteration limit is reached. Clusters that
// receive no points keep their previous center.
func Run(ctx context.Context, points, seeds [][]float64, cfg Config) (*Result, error) {
	if len(seeds) == 0 {
		return nil, ErrNoSeeds
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}
	if cfg.ConvergenceDelta <= 0 {
		cfg.ConvergenceDelta = DefaultConvergenceDelta
	}
	if cfg.Distance == nil {
		cfg.Distance = SquaredEuclidean
	}

	dim := len(seeds[0])
	for i, s := range seeds {
		if len(s) != dim {
			return nil, fmt.Errorf("%w: seed %d has %d dimensions, want %d", ErrDimensionMismatch, i, len(s), dim)
		}
	}
	for i, p := range points {
		if len(p) != dim {
			return nil, fmt.Errorf("%w: point %d has %d dimensions, want %d", ErrDimensionMismatch, i, len(p), dim)
		}
	}

	k := len(seeds)
	centers := make([][]float64, k)
	for j, s := range seeds {
		centers[j] = slices.Clone(s)
	}

	res := &Result{
		Clusters:    make([]Cluster, k),
		Assignments: make([]int, len(points)),
	}

	s1 := make([][]float64, k)
	s2 := make([][]float64, k)
	for j := range s1 {
		s1[j] = make([]float64, dim)
		s2[j] = make([]float64, dim)
	}
	counts := make([]int64, k)

	for iter := 0; iter < cfg.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for j := range counts {
			counts[j] = 0
			clear(s1[j])
			clear(s2[j])
		}

		for i, p := range points {
			j := Nearest(p, centers, cfg.Distance)
			res.Assignments[i] = j
			counts[j]++
			for d, x := range p {
				s1[j][d] += x
				s2[j][d] += x * x
			}
		}

		for j := range centers {
			c := &res.Clusters[j]
			center := centers[j]
			radius := make([]float64, dim)

			if n := float64(counts[j]); n > 0 {
				center = make([]float64, dim)
				for d := range center {
					mean := s1[j][d] / n
					center[d] = mean
					radius[d] = math.Sqrt(math.Max(0, s2[j][d]/n-mean*mean))
				}
			}

			c.Converged = cfg.Distance(centers[j], center) <= cfg.ConvergenceDelta
			c.Center = center
			c.Radius = radius
			c.Count = counts[j]
			c.Total += counts[j]
			centers[j] = center
		}

		res.Iterations = iter + 1
		if res.Converged() {
			break
		}
	}

	return res, nil
}

// Nearest returns the index of the center closest to p. Ties go to the lower index.
func Nearest(p []float64, centers [][]float64, dist DistanceFunc) int {
	best, bestDist := -1, math.Inf(1)
	for j, c := range centers {
		if d := dist(p, c); d < bestDist || best < 0 {
			best, bestDist = j, d
		}
	}
	return best
}

// RandomSeeds picks k distinct points as starting centers.
func RandomSeeds(points [][]float64, k int, rng *rand.Rand) ([][]float64, error) {
	if k <= 0 {
		return nil, ErrNoSeeds
	}
	if len(points) < k {
		return nil, fmt.Errorf("%w: %d points, %d centers", ErrTooFewPoints, len(points), k)
	}

	perm := rng.Perm(len(points))
	seeds := make([][]float64, k)
	for j := range seeds {
		seeds[j] = slices.Clone(points[perm[j]])
	}
	return seeds, nil
}
