// Command seqdump prints every entry of a SequenceFile as "key , value".
// By default it reads the k-means cluster output.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/hupe1980/vecseq"
	"github.com/hupe1980/vecseq/codec"
)

var defaults = vecseq.DefaultDumpConfig()

var (
	input      = flag.String("input", defaults.InputPath, "container location (path, s3://bucket/key or minio://bucket/key)")
	keyClass   = flag.String("key-class", defaults.KeyClass, "required key class, empty accepts any")
	valueClass = flag.String("value-class", defaults.ValueClass, "required value class, empty accepts any")
	format     = flag.String("format", defaults.Format, "text or json")
	codecName  = flag.String("codec", codec.Default.Name(), "JSON encoder for -format json: go-json or json")
	verbose    = flag.Bool("v", false, "log the entry count to stderr")
)

func main() {
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "seqdump: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	c, err := resolveCodec(*codecName)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}

	_, err = vecseq.Dump(ctx, vecseq.DumpConfig{
		InputPath:  *input,
		KeyClass:   *keyClass,
		ValueClass: *valueClass,
		Format:     *format,
	}, vecseq.WithLogLevel(level), vecseq.WithCodec(c))
	return err
}

func resolveCodec(name string) (codec.Codec, error) {
	c, ok := codec.ByName(name)
	if !ok {
		return nil, fmt.Errorf("unknown -codec %q", name)
	}
	return c, nil
}
