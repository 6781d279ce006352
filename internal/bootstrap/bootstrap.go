package bootstrap

import (
	"context"
	"time"

	minio "github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/givehub/opskit/internal/s3"
)

// Store is the slice of the object-store client the bootstrapper needs.
// s3.Provisioner satisfies it with the deployment region already bound.
type Store interface {
	ListBuckets(ctx context.Context) ([]minio.BucketInfo, error)
	BucketExists(ctx context.Context, name string) (bool, error)
	MakeBucket(ctx context.Context, name string) error
}

var _ Store = s3.Provisioner{}

// Outcome reports how EnsureBucket left a bucket.
type Outcome int

const (
	Created Outcome = iota
	AlreadyExists
)

func (o Outcome) String() string {
	if o == Created { return "created" }
	return "already exists"
}

// Defaults match the compose files that start the platform.
const (
	DefaultMaxRetries = 30
	DefaultRetryDelay = 2 * time.Second
)

// Options control a bootstrap run. Zero values fall back to the defaults.
type Options struct {
	MaxRetries int
	RetryDelay time.Duration
	Buckets    []string
}

func (o Options) withDefaults() Options {
	if o.MaxRetries < 1 {
		o.MaxRetries = DefaultMaxRetries
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = DefaultRetryDelay
	}
	if len(o.Buckets) == 0 {
		o.Buckets = s3.RequiredBuckets()
	}
	return o
}

// Summary tallies one bootstrap run.
type Summary struct {
	Created  []string
	Existing []string
	Failed   []string
}

// OK reports whether every bucket ended up present.
func (s Summary) OK() bool { return len(s.Failed) == 0 }

// WaitForStore probes the store with list-buckets until it answers, making up
// to maxRetries attempts delay apart. Every probe error counts as "not ready";
// the last one is returned once attempts run out.
func WaitForStore(ctx context.Context, store Store, maxRetries int, delay time.Duration, log *zap.Logger) error {
	if maxRetries < 1 {
		maxRetries = 1
	}
	var last error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		_, err := store.ListBuckets(ctx)
		if err == nil {
			log.Info("object store ready", zap.Int("attempt", attempt))
			return nil
		}
		last = err
		if attempt < maxRetries {
			log.Info("object store not ready yet",
				zap.Int("attempt", attempt),
				zap.Int("max_retries", maxRetries),
				zap.Duration("retry_in", delay))
			time.Sleep(delay)
		}
	}
	return errors.Wrapf(last, "object store not available after %d attempts", maxRetries)
}

// EnsureBucket makes sure the named bucket exists. Only a clean "not found"
// from the probe leads to creation; a probe error is returned as a failure
// since absence cannot be inferred from a failed check.
func EnsureBucket(ctx context.Context, store Store, name string) (Outcome, error) {
	exists, err := store.BucketExists(ctx, name)
	if err != nil {
		return 0, errors.Wrapf(err, "check bucket %s", name)
	}
	if exists {
		return AlreadyExists, nil
	}
	if err := store.MakeBucket(ctx, name); err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "BucketAlreadyOwnedByYou" || resp.Code == "BucketAlreadyExists" {
			// Lost a create race; the bucket is there either way.
			return AlreadyExists, nil
		}
		return 0, errors.Wrapf(err, "create bucket %s", name)
	}
	return Created, nil
}

// Run waits for the store, then walks the bucket list ensuring each one. A
// bucket failure is recorded and the walk continues; only an unreachable
// store aborts the run before any ensure happens.
func Run(ctx context.Context, store Store, opts Options, log *zap.Logger) (Summary, error) {
	opts = opts.withDefaults()

	var sum Summary
	if err := WaitForStore(ctx, store, opts.MaxRetries, opts.RetryDelay, log); err != nil {
		return sum, err
	}
	for _, name := range opts.Buckets {
		outcome, err := EnsureBucket(ctx, store, name)
		if err != nil {
			log.Error("bucket failed", zap.String("bucket", name), zap.Error(err))
			sum.Failed = append(sum.Failed, name)
			continue
		}
		log.Info("bucket "+outcome.String(), zap.String("bucket", name))
		if outcome == Created {
			sum.Created = append(sum.Created, name)
		} else {
			sum.Existing = append(sum.Existing, name)
		}
	}
	return sum, nil
}
