// Package vecseq moves named vectors between CSV files and Hadoop
// SequenceFile containers in the layout Mahout reads and writes.
//
// # Pipelines
//
// Import parses a CSV of named vectors ("name,f1,...,fN", literal commas, no
// header) and writes one (Text, VectorWritable) entry per line. With Verify
// set it re-reads the container, prints every entry and checks it against the
// input:
//
//	res, err := vecseq.Import(ctx, vecseq.DefaultImportConfig(),
//	    vecseq.WithLogLevel(slog.LevelInfo),
//	)
//	// A , {1.0,2.0,3.0}
//
// Dump prints every entry of a container as "key , value". By default it
// expects the (IntWritable, ClusterWritable) output of clustering:
//
//	n, err := vecseq.Dump(ctx, vecseq.DefaultDumpConfig())
//	// 0 , CL-0{n=3 c=[1.000, 2.000] r=[0.100, 0.200]}
//
// Cluster runs k-means over a vector container, seeded from a second
// container, and writes the clusters Dump reads.
//
// # Locations
//
// Paths are local files unless they carry a scheme: s3://bucket/key uses the
// default AWS credential chain, minio://bucket/key reads its endpoint and
// credentials from the MINIO_* environment variables. WithStores replaces the
// store behind a scheme.
//
// # Errors
//
// Every pipeline stops at the first error. Input errors are
// *record.ParseError, container format errors come from package seqfile, and
// class mismatches are *TypeMismatchError.
package vecseq
