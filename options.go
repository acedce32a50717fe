package vecseq

import (
	"io"
	"log/slog"
	"os"

	"github.com/hupe1980/vecseq/blobstore"
	"github.com/hupe1980/vecseq/codec"
	"github.com/hupe1980/vecseq/internal/resource"
)

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	stores           map[string]blobstore.BlobStore
	stdout           io.Writer
	codec            codec.Codec
	memoryLimit      int64
	ioLimit          int64
}

// Option configures Import, Dump and Cluster.
type Option func(*options)

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := vecseq.NewJSONLogger(slog.LevelInfo)
//	_, err := vecseq.Import(ctx, cfg, vecseq.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector.
// Pass nil to disable metrics collection.
//
//	metrics := &vecseq.BasicMetricsCollector{}
//	_, _ = vecseq.Import(ctx, cfg, vecseq.WithMetricsCollector(metrics))
//	fmt.Println(metrics.GetStats().ImportRecords)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithStores overrides the blob store used per location scheme ("file",
// "s3", "minio"). Keys of locations with an overridden scheme are resolved
// against the given store.
func WithStores(stores map[string]blobstore.BlobStore) Option {
	return func(o *options) {
		for scheme, s := range stores {
			o.stores[scheme] = s
		}
	}
}

// WithStdout sets where entry lines are written. Default: os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(o *options) {
		o.stdout = w
	}
}

// WithCodec sets the JSON codec used for the json dump format.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		o.codec = c
	}
}

// WithMemoryLimit bounds the bytes of records buffered by Import. Exceeding
// it fails the import with ErrMemoryLimit. Zero means unlimited.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithIOLimit throttles container reads and writes to bytesPerSec.
// Zero means unlimited.
func WithIOLimit(bytesPerSec int64) Option {
	return func(o *options) {
		o.ioLimit = bytesPerSec
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		stores:           make(map[string]blobstore.BlobStore),
		stdout:           os.Stdout,
		codec:            codec.Default,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

func (o *options) controller() *resource.Controller {
	return resource.NewController(resource.Config{
		MemoryLimitBytes:   o.memoryLimit,
		IOLimitBytesPerSec: o.ioLimit,
	})
}
