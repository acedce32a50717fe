package vecseq

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/vecseq/blobstore"
	"github.com/hupe1980/vecseq/blobstore/minio"
	"github.com/hupe1980/vecseq/blobstore/s3"
)

// Location schemes.
const (
	SchemeFile  = "file"
	SchemeS3    = "s3"
	SchemeMinio = "minio"
)

// Location addresses a container or CSV file.
//
//	/ZTE_Demo/cluster_raw          local path
//	file:///ZTE_Demo/cluster_raw   local path
//	s3://bucket/ZTE_Demo/centroids AWS S3
//	minio://bucket/cluster_raw     MinIO, configured from MINIO_* variables
type Location struct {
	Scheme string
	// Bucket is empty for local files.
	Bucket string
	// Key is the file path or the object key within the bucket.
	Key string
}

// ParseLocation parses a plain path or a scheme-qualified URL.
func ParseLocation(s string) (Location, error) {
	scheme, rest, ok := strings.Cut(s, "://")
	if !ok {
		if s == "" {
			return Location{}, fmt.Errorf("%w: empty path", ErrInvalidLocation)
		}
		return Location{Scheme: SchemeFile, Key: s}, nil
	}

	switch scheme {
	case SchemeFile:
		if rest == "" {
			return Location{}, fmt.Errorf("%w: %q has no path", ErrInvalidLocation, s)
		}
		return Location{Scheme: SchemeFile, Key: rest}, nil
	case SchemeS3, SchemeMinio:
		bucket, key, _ := strings.Cut(rest, "/")
		if bucket == "" || key == "" {
			return Location{}, fmt.Errorf("%w: %q must be %s://bucket/key", ErrInvalidLocation, s, scheme)
		}
		return Location{Scheme: scheme, Bucket: bucket, Key: key}, nil
	default:
		return Location{}, fmt.Errorf("%w: %q", ErrUnsupportedScheme, scheme)
	}
}

func (l Location) String() string {
	switch l.Scheme {
	case SchemeFile:
		return l.Key
	default:
		return l.Scheme + "://" + l.Bucket + "/" + l.Key
	}
}

// store returns the blob store serving loc and the blob name within it.
func (o *options) store(ctx context.Context, loc Location) (blobstore.BlobStore, string, error) {
	if s, ok := o.stores[loc.Scheme]; ok {
		return s, loc.Key, nil
	}

	switch loc.Scheme {
	case SchemeFile:
		return blobstore.NewLocalStore(""), loc.Key, nil
	case SchemeS3:
		s, err := s3.New(ctx, loc.Bucket)
		if err != nil {
			return nil, "", fmt.Errorf("vecseq: s3 store: %w", err)
		}
		return s, loc.Key, nil
	case SchemeMinio:
		s, err := minio.NewFromEnv(loc.Bucket, "")
		if err != nil {
			return nil, "", fmt.Errorf("vecseq: minio store: %w", err)
		}
		return s, loc.Key, nil
	default:
		return nil, "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, loc.Scheme)
	}
}

// resolve parses a location string and returns its store and blob name.
func (o *options) resolve(ctx context.Context, path string) (blobstore.BlobStore, string, error) {
	loc, err := ParseLocation(path)
	if err != nil {
		return nil, "", err
	}
	return o.store(ctx, loc)
}

// tagLogger adds the parsed location of the container an operation works on
// to every log record. Unparsable paths are left to fail in resolve.
func (o *options) tagLogger(path string) {
	if loc, err := ParseLocation(path); err == nil {
		o.logger = o.logger.WithLocation(loc)
	}
}
