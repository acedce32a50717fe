package vecseq

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/hupe1980/vecseq/cluster"
	"github.com/hupe1980/vecseq/codec"
	"github.com/hupe1980/vecseq/vector"
	"github.com/hupe1980/vecseq/writable"
)

// DefaultClusterPath is the container written by clustering and read by Dump.
const DefaultClusterPath = "/ZTE_Demo/cluster_raw"

// Dump output formats.
const (
	// FormatText prints "key , value" lines.
	FormatText = "text"
	// FormatJSON prints one {"key":...,"value":...} object per line.
	FormatJSON = "json"
)

// DumpConfig configures Dump.
type DumpConfig struct {
	InputPath string
	// KeyClass and ValueClass are the classes the container must declare.
	// Empty accepts any class.
	KeyClass   string
	ValueClass string
	// Format is FormatText (default) or FormatJSON.
	Format string
}

// DefaultDumpConfig returns the configuration for dumping cluster output.
func DefaultDumpConfig() DumpConfig {
	return DumpConfig{
		InputPath:  DefaultClusterPath,
		KeyClass:   writable.IntWritableClass,
		ValueClass: cluster.WritableClass,
		Format:     FormatText,
	}
}

// Dump prints every entry of the container at cfg.InputPath in container
// order and returns the number of entries printed.
func Dump(ctx context.Context, cfg DumpConfig, optFns ...Option) (n int64, err error) {
	o := applyOptions(optFns)
	o.tagLogger(cfg.InputPath)
	start := time.Now()
	defer func() {
		o.metricsCollector.RecordDump(n, time.Since(start), err)
		o.logger.LogDump(ctx, cfg.InputPath, n, err)
	}()

	emit, err := o.entryPrinter(cfg.Format)
	if err != nil {
		return 0, err
	}

	cr, err := openContainer(ctx, &o, o.controller(), cfg.InputPath)
	if err != nil {
		return 0, err
	}
	defer func() { _ = cr.Close() }()

	if err := checkClasses(cr.Header(), cfg.KeyClass, cfg.ValueClass); err != nil {
		return 0, err
	}

	out := bufio.NewWriter(o.stdout)
	defer func() {
		if ferr := out.Flush(); ferr != nil && err == nil {
			err = ferr
		}
	}()

	for {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		key, value, err := cr.Next()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, fmt.Errorf("vecseq: %s: entry %d: %w", cfg.InputPath, n, err)
		}
		if err := emit(out, key, value); err != nil {
			return n, err
		}
		n++
	}
}

type entryPrinter func(w *bufio.Writer, key, value writable.Writable) error

func (o *options) entryPrinter(format string) (entryPrinter, error) {
	switch format {
	case "", FormatText:
		return writeEntry, nil
	case FormatJSON:
		var enc *codec.LineEncoder
		return func(w *bufio.Writer, key, value writable.Writable) error {
			if enc == nil {
				enc = codec.NewLineEncoder(w, o.codec)
			}
			return enc.Encode(jsonEntry{Key: jsonValue(key), Value: jsonValue(value)})
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// writeEntry prints "key , value".
func writeEntry(w *bufio.Writer, key, value writable.Writable) error {
	_, _ = w.WriteString(key.String())
	_, _ = w.WriteString(" , ")
	_, _ = w.WriteString(value.String())
	return w.WriteByte('\n')
}

type jsonEntry struct {
	Key   any `json:"key"`
	Value any `json:"value"`
}

func jsonValue(w writable.Writable) any {
	switch v := w.(type) {
	case *writable.Text:
		return string(*v)
	case *writable.IntWritable:
		return int32(*v)
	case *writable.LongWritable:
		return int64(*v)
	case writable.NullWritable:
		return nil
	case *vector.Writable:
		return v.Vector
	case *cluster.Writable:
		return v.Cluster
	default:
		return w.String()
	}
}
