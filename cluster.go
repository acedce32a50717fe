package vecseq

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/hupe1980/vecseq/cluster"
	"github.com/hupe1980/vecseq/internal/conv"
	"github.com/hupe1980/vecseq/internal/kmeans"
	"github.com/hupe1980/vecseq/internal/resource"
	"github.com/hupe1980/vecseq/vector"
	"github.com/hupe1980/vecseq/writable"
)

// Distance measure names accepted by ClusterConfig.Measure.
const (
	MeasureEuclidean        = "euclidean"
	MeasureSquaredEuclidean = "squared-euclidean"
	MeasureManhattan        = "manhattan"
	MeasureCosine           = "cosine"
)

type measure struct {
	distance kmeans.DistanceFunc
	class    string
}

var measures = map[string]measure{
	MeasureEuclidean:        {kmeans.Euclidean, cluster.EuclideanMeasure},
	MeasureSquaredEuclidean: {kmeans.SquaredEuclidean, cluster.SquaredEuclideanMeasure},
	MeasureManhattan:        {kmeans.Manhattan, cluster.ManhattanMeasure},
	MeasureCosine:           {kmeans.Cosine, cluster.CosineMeasure},
}

// ClusterConfig configures Cluster.
type ClusterConfig struct {
	// PointsPath is a Text/VectorWritable container of the points to cluster.
	PointsPath string
	// SeedsPath is a VectorWritable container of initial centers, e.g. the
	// output of Import. When empty, K points are drawn at random.
	SeedsPath string
	// OutputPath receives IntWritable/ClusterWritable entries.
	OutputPath string

	// K is the number of random seeds when SeedsPath is empty.
	K int
	// Seed seeds the random seed selection.
	Seed int64

	MaxIterations    int
	ConvergenceDelta float64
	// Measure is one of the Measure* names. Default: squared-euclidean.
	Measure string
}

// DefaultClusterConfig clusters the imported centroids seeded by themselves
// and writes the cluster container Dump reads by default.
func DefaultClusterConfig() ClusterConfig {
	return ClusterConfig{
		PointsPath:       DefaultOutputPath,
		SeedsPath:        DefaultOutputPath,
		OutputPath:       DefaultClusterPath,
		MaxIterations:    kmeans.DefaultMaxIterations,
		ConvergenceDelta: kmeans.DefaultConvergenceDelta,
		Measure:          MeasureSquaredEuclidean,
	}
}

// ClusterResult summarizes a clustering run.
type ClusterResult struct {
	Clusters   int
	Iterations int
	Converged  bool
}

// Cluster runs k-means over the points container and writes one k-means
// cluster per center to cfg.OutputPath. The output is discarded on failure.
func Cluster(ctx context.Context, cfg ClusterConfig, optFns ...Option) (res *ClusterResult, err error) {
	o := applyOptions(optFns)
	o.tagLogger(cfg.OutputPath)
	rc := o.controller()
	start := time.Now()
	res = &ClusterResult{}
	defer func() {
		o.metricsCollector.RecordCluster(res.Clusters, res.Iterations, time.Since(start), err)
		o.logger.LogCluster(ctx, cfg.OutputPath, res.Clusters, res.Iterations, res.Converged, err)
		if err != nil {
			res = nil
		}
	}()

	name := cfg.Measure
	if name == "" {
		name = MeasureSquaredEuclidean
	}
	m, ok := measures[name]
	if !ok {
		return res, fmt.Errorf("%w: %q", ErrUnknownMeasure, cfg.Measure)
	}

	points, err := readVectors(ctx, &o, rc, cfg.PointsPath)
	if err != nil {
		return res, err
	}

	var seeds [][]float64
	if cfg.SeedsPath != "" {
		seeds, err = readVectors(ctx, &o, rc, cfg.SeedsPath)
	} else {
		seeds, err = kmeans.RandomSeeds(points, cfg.K, rand.New(rand.NewSource(cfg.Seed))) //nolint:gosec
	}
	if err != nil {
		return res, err
	}

	km, err := kmeans.Run(ctx, points, seeds, kmeans.Config{
		MaxIterations:    cfg.MaxIterations,
		ConvergenceDelta: cfg.ConvergenceDelta,
		Distance:         m.distance,
	})
	if err != nil {
		return res, fmt.Errorf("vecseq: k-means: %w", err)
	}

	if err := writeClusters(ctx, &o, rc, cfg.OutputPath, km, m.class); err != nil {
		return res, err
	}

	res.Clusters = len(km.Clusters)
	res.Iterations = km.Iterations
	res.Converged = km.Converged()
	return res, nil
}

// readVectors loads every vector of a VectorWritable container as a dense slice.
func readVectors(ctx context.Context, o *options, rc *resource.Controller, path string) ([][]float64, error) {
	cr, err := openContainer(ctx, o, rc, path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cr.Close() }()

	if err := checkClasses(cr.Header(), "", vector.WritableClass); err != nil {
		return nil, err
	}

	var out [][]float64
	for {
		_, value, err := cr.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("vecseq: %s: entry %d: %w", path, len(out), err)
		}
		v := value.(*vector.Writable).Vector
		if v == nil {
			return nil, fmt.Errorf("vecseq: %s: entry %d: empty vector", path, len(out))
		}
		out = append(out, v.ToDense())
	}
}

func writeClusters(ctx context.Context, o *options, rc *resource.Controller, path string, km *kmeans.Result, measureClass string) error {
	cw, err := createContainer(ctx, o, rc, path, writable.IntWritableClass, cluster.WritableClass)
	if err != nil {
		return err
	}

	for j, c := range km.Clusters {
		id, err := conv.IntToInt32(j)
		if err != nil {
			_ = cw.Abort()
			return fmt.Errorf("vecseq: cluster %d: %w", j, err)
		}
		cl := &cluster.Cluster{
			Kind:              cluster.KindKluster,
			ID:                id,
			NumObservations:   c.Count,
			TotalObservations: c.Total,
			Center:            vector.NewDense(c.Center),
			Radius:            vector.NewDense(c.Radius),
			Measure:           measureClass,
			Converged:         c.Converged,
		}
		if err := cw.Append(writable.NewIntWritable(id), cluster.NewWritable(cl)); err != nil {
			_ = cw.Abort()
			return fmt.Errorf("vecseq: append cluster %d: %w", j, err)
		}
	}

	if err := cw.Close(); err != nil {
		return fmt.Errorf("vecseq: close %s: %w", path, err)
	}
	return nil
}
