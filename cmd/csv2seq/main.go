// Command csv2seq converts a CSV of named vectors into a SequenceFile of
// (Text, VectorWritable) entries and, unless -verify=false, prints the
// container back as "name , {f1,...}" lines.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/hupe1980/vecseq"
	"github.com/hupe1980/vecseq/seqfile"
)

var (
	input       = flag.String("input", vecseq.DefaultInputPath, "CSV location (path, s3://bucket/key or minio://bucket/key)")
	output      = flag.String("output", vecseq.DefaultOutputPath, "container location")
	columns     = flag.Int("columns", vecseq.DefaultColumnCount, "fields per line: name plus features")
	verify      = flag.Bool("verify", true, "re-read and print the container after writing")
	strict      = flag.Bool("strict", false, "reject lines with more fields than -columns")
	compression = flag.String("compression", "none", "none, record or block")
	codecClass  = flag.String("codec", seqfile.DefaultCodecClass, "codec class for compressed containers")
	memoryLimit = flag.Int64("memory-limit", 0, "max bytes of buffered records (0 = unlimited)")
	ioLimit     = flag.Int64("io-limit", 0, "max container bytes per second (0 = unlimited)")
	logLevel    = flag.String("log-level", "warn", "debug, info, warn or error")
	jsonLog     = flag.Bool("json-log", false, "log as JSON")
)

func main() {
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "csv2seq: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	logger, err := newLogger(*logLevel, *jsonLog)
	if err != nil {
		return err
	}

	comp, err := seqfile.ParseCompressionType(*compression)
	if err != nil {
		return err
	}

	cfg := vecseq.ImportConfig{
		InputPath:   *input,
		OutputPath:  *output,
		ColumnCount: *columns,
		Verify:      *verify,
		Strict:      *strict,
		Compression: comp,
		Codec:       *codecClass,
	}

	_, err = vecseq.Import(ctx, cfg,
		vecseq.WithLogger(logger),
		vecseq.WithMemoryLimit(*memoryLimit),
		vecseq.WithIOLimit(*ioLimit),
	)
	return err
}

func newLogger(level string, json bool) (*vecseq.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid -log-level %q: %w", level, err)
	}
	if json {
		return vecseq.NewJSONLogger(lvl), nil
	}
	return vecseq.NewTextLogger(lvl), nil
}
