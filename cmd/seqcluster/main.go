// Command seqcluster runs k-means over a VectorWritable container and writes
// the resulting clusters as (IntWritable, ClusterWritable) entries.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/hupe1980/vecseq"
)

var defaults = vecseq.DefaultClusterConfig()

var (
	points  = flag.String("points", defaults.PointsPath, "container of points to cluster")
	seeds   = flag.String("seeds", defaults.SeedsPath, "container of initial centers; empty draws -k random points")
	output  = flag.String("output", defaults.OutputPath, "cluster container location")
	k       = flag.Int("k", 0, "number of random centers when -seeds is empty")
	seed    = flag.Int64("seed", 1, "random seed for -k")
	maxIter = flag.Int("max-iter", defaults.MaxIterations, "iteration limit")
	delta   = flag.Float64("delta", defaults.ConvergenceDelta, "convergence delta")
	measure = flag.String("measure", defaults.Measure, "euclidean, squared-euclidean, manhattan or cosine")
)

func main() {
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := vecseq.Cluster(ctx, vecseq.ClusterConfig{
		PointsPath:       *points,
		SeedsPath:        *seeds,
		OutputPath:       *output,
		K:                *k,
		Seed:             *seed,
		MaxIterations:    *maxIter,
		ConvergenceDelta: *delta,
		Measure:          *measure,
	}, vecseq.WithLogLevel(slog.LevelInfo))
	if err != nil {
		fmt.Fprintf(os.Stderr, "seqcluster: %v\n", err)
		os.Exit(1)
	}
	if !res.Converged {
		fmt.Fprintf(os.Stderr, "seqcluster: not converged after %d iterations\n", res.Iterations)
	}
}
