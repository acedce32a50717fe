package vecseq

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/vecseq/blobstore"
	"github.com/hupe1980/vecseq/internal/conv"
	"github.com/hupe1980/vecseq/internal/resource"
	"github.com/hupe1980/vecseq/record"
	"github.com/hupe1980/vecseq/seqfile"
	"github.com/hupe1980/vecseq/vector"
	"github.com/hupe1980/vecseq/writable"
)

// Default locations and layout of the centroid import.
const (
	DefaultInputPath   = "/ZTE_Demo/SKM_Iterations/centroids.csv"
	DefaultOutputPath  = "/ZTE_Demo/SKM_Iterations/centroids"
	DefaultColumnCount = 4
)

// ImportConfig configures Import.
type ImportConfig struct {
	// InputPath is the CSV location.
	InputPath string
	// OutputPath is the container location. An existing container is replaced.
	OutputPath string
	// ColumnCount is the number of fields per line: a name plus
	// ColumnCount-1 features.
	ColumnCount int
	// Verify re-reads the container, prints every entry and compares it
	// with the input records.
	Verify bool
	// Strict rejects lines with more than ColumnCount fields.
	Strict bool

	Compression seqfile.CompressionType
	// Codec is the codec class for compressed containers.
	// Default: seqfile.DefaultCodecClass.
	Codec string
	// SyncMarker fixes the sync marker so that repeated imports produce
	// identical bytes. Default: random.
	SyncMarker *[seqfile.SyncSize]byte
}

// DefaultImportConfig returns the configuration of the centroid import.
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		InputPath:   DefaultInputPath,
		OutputPath:  DefaultOutputPath,
		ColumnCount: DefaultColumnCount,
		Verify:      true,
	}
}

// ImportResult summarizes a finished import.
type ImportResult struct {
	Records  int
	Verified bool
}

// Import parses the CSV at cfg.InputPath and writes one
// (Text(name), VectorWritable(NamedVector(features))) entry per line, in input
// order, to cfg.OutputPath.
//
// Parsing stops at the first bad line and nothing is written. A failure while
// writing leaves a truncated container behind.
func Import(ctx context.Context, cfg ImportConfig, optFns ...Option) (*ImportResult, error) {
	o := applyOptions(optFns)
	o.tagLogger(cfg.OutputPath)
	rc := o.controller()
	start := time.Now()

	records, reserved, err := readRecords(ctx, &o, rc, cfg)
	defer rc.ReleaseMemory(reserved)
	if err == nil {
		err = writeRecords(ctx, &o, rc, cfg, records)
	}
	o.metricsCollector.RecordImport(len(records), time.Since(start), err)
	o.logger.LogImport(ctx, cfg.InputPath, cfg.OutputPath, len(records), err)
	if err != nil {
		return nil, err
	}

	res := &ImportResult{Records: len(records)}
	if !cfg.Verify {
		return res, nil
	}

	start = time.Now()
	n, err := verify(ctx, &o, rc, cfg.OutputPath, records)
	o.metricsCollector.RecordVerify(n, time.Since(start), err)
	o.logger.LogVerify(ctx, cfg.OutputPath, n, err)
	if err != nil {
		return nil, err
	}
	res.Verified = true
	return res, nil
}

// readRecords parses the whole input, reserving memory for every record.
// The returned reservation must be released by the caller, also on error.
func readRecords(ctx context.Context, o *options, rc *resource.Controller, cfg ImportConfig) ([]record.Record, int64, error) {
	store, name, err := o.resolve(ctx, cfg.InputPath)
	if err != nil {
		return nil, 0, err
	}
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, 0, fmt.Errorf("vecseq: open %s: %w", cfg.InputPath, err)
	}
	defer func() { _ = blob.Close() }()

	body, err := blobstore.NewReader(ctx, blob)
	if err != nil {
		return nil, 0, fmt.Errorf("vecseq: read %s: %w", cfg.InputPath, err)
	}
	defer func() { _ = body.Close() }()

	var recOpts []record.Option
	if cfg.Strict {
		recOpts = append(recOpts, record.WithStrict())
	}
	rr, err := record.NewReader(resource.NewRateLimitedReader(ctx, body, rc), cfg.ColumnCount, recOpts...)
	if err != nil {
		return nil, 0, err
	}

	var (
		records  []record.Record
		reserved int64
	)
	for {
		rec, err := rr.Read()
		if errors.Is(err, io.EOF) {
			return records, reserved, nil
		}
		if err != nil {
			return nil, reserved, fmt.Errorf("vecseq: %s: %w", cfg.InputPath, err)
		}

		size := rec.Size()
		if err := rc.AcquireMemory(size); err != nil {
			return nil, reserved, fmt.Errorf("%w: line %d: %d of %d bytes in use: %w",
				ErrMemoryLimit, rr.Line(), rc.MemoryUsage(), rc.MemoryLimit(), err)
		}
		reserved += size
		records = append(records, rec)
	}
}

func writeRecords(ctx context.Context, o *options, rc *resource.Controller, cfg ImportConfig, records []record.Record) (err error) {
	var wopts []func(*seqfile.Options)
	if cfg.Compression != seqfile.CompressionNone {
		codecClass := cfg.Codec
		if codecClass == "" {
			codecClass = seqfile.DefaultCodecClass
		}
		wopts = append(wopts, seqfile.WithCompression(cfg.Compression, codecClass))
	}
	if cfg.SyncMarker != nil {
		wopts = append(wopts, seqfile.WithSyncMarker(*cfg.SyncMarker))
	}

	cw, err := createContainer(ctx, o, rc, cfg.OutputPath, writable.TextClass, vector.WritableClass, wopts...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := cw.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("vecseq: close %s: %w", cfg.OutputPath, cerr)
		}
	}()

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		key := writable.NewText(rec.Name)
		value := vector.NewWritable(vector.NewNamed(rec.Name, rec.Features))
		if err := cw.Append(key, value); err != nil {
			return fmt.Errorf("vecseq: append record %d (%q): %w", i+1, rec.Name, err)
		}
	}
	return nil
}

// verify prints every entry of the container and checks it against records.
func verify(ctx context.Context, o *options, rc *resource.Controller, path string, records []record.Record) (n int, err error) {
	cr, err := openContainer(ctx, o, rc, path)
	if err != nil {
		return 0, err
	}
	defer func() { _ = cr.Close() }()

	if err := checkClasses(cr.Header(), writable.TextClass, vector.WritableClass); err != nil {
		return 0, err
	}

	out := bufio.NewWriter(o.stdout)
	defer func() {
		if ferr := out.Flush(); ferr != nil && err == nil {
			err = ferr
		}
	}()

	seen := roaring.New()
	for {
		key, value, err := cr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return n, fmt.Errorf("vecseq: %s: entry %d: %w", path, n, err)
		}
		idx := n
		n++

		if err := writeEntry(out, key, value); err != nil {
			return n, err
		}

		if idx >= len(records) {
			return n, &VerificationError{Index: idx, Key: key.String(), Reason: "unexpected extra entry"}
		}
		rec := records[idx]
		if key.String() != rec.Name {
			return n, &VerificationError{Index: idx, Key: key.String(), Reason: fmt.Sprintf("key differs from record %q", rec.Name)}
		}
		v := value.(*vector.Writable).Vector
		if v == nil || v.Name != rec.Name || !sameFeatures(v.ToDense(), rec.Features) {
			return n, &VerificationError{Index: idx, Key: rec.Name, Reason: "vector differs from record"}
		}
		ord, err := conv.IntToUint32(idx)
		if err != nil {
			return n, fmt.Errorf("vecseq: %s: %w", path, err)
		}
		seen.Add(ord)
	}

	missing := roaring.New()
	missing.AddRange(0, uint64(len(records)))
	missing.AndNot(seen)
	if !missing.IsEmpty() {
		return n, &VerificationError{
			Index:   -1,
			Missing: missing.GetCardinality(),
			Reason: fmt.Sprintf("%d of %d records missing, first is line %d",
				missing.GetCardinality(), len(records), missing.Minimum()+1),
		}
	}
	return n, nil
}

func sameFeatures(a, b []float64) bool {
	return slices.EqualFunc(a, b, func(x, y float64) bool {
		return x == y || (math.IsNaN(x) && math.IsNaN(y))
	})
}
