package s3

import (
	"context"
	"net/url"
	"strings"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"

	"github.com/givehub/opskit/internal/config"
)

// Client wraps the minio SDK client together with the region buckets are
// created in.
type Client struct {
	mc     *minio.Client
	region string
}

func normalizeEndpoint(endpoint string, useSSL bool) (host string, secure bool) {
	secure = useSSL
	if endpoint == "" {
		return "", secure
	}
	// If endpoint contains scheme, parse and strip it; prefer scheme over useSSL flag
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		if u, err := url.Parse(endpoint); err == nil {
			if u.Scheme == "https" {
				secure = true
			} else if u.Scheme == "http" {
				secure = false
			}
			// Keep host:port as endpoint for minio.New
			return u.Host, secure
		}
	}
	return endpoint, secure
}

// New builds a client from the store configuration. Construction only
// validates the endpoint; no connection is made until the first call.
func New(cfg config.StoreConfig) (*Client, error) {
	endpoint, secure := normalizeEndpoint(cfg.Endpoint, cfg.UseSSL)
	opts := &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
		Region: cfg.Region,
	}
	// minio-go v7 automatically handles path-style for custom endpoints (MinIO/MCG).
	// For AWS, virtual-hosted style is used by default.
	mc, err := minio.New(endpoint, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "object store client for %s", endpoint)
	}
	return &Client{mc: mc, region: cfg.Region}, nil
}

func (c *Client) ListBuckets(ctx context.Context) ([]minio.BucketInfo, error) {
	return c.mc.ListBuckets(ctx)
}

// BucketExists reports whether the bucket exists. A definitive "no" is
// (false, nil); transport or permission problems come back as errors and must
// not be read as absence.
func (c *Client) BucketExists(ctx context.Context, name string) (bool, error) {
	return c.mc.BucketExists(ctx, name)
}

func (c *Client) MakeBucket(ctx context.Context, name, region string) error {
	return c.mc.MakeBucket(ctx, name, minio.MakeBucketOptions{Region: region})
}

func (c *Client) ListObjects(ctx context.Context, bucket, prefix string, recursive bool) ([]minio.ObjectInfo, error) {
	var out []minio.ObjectInfo
	for obj := range c.mc.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: recursive}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		out = append(out, obj)
	}
	return out, nil
}

// Provisioner exposes the client with the configured region bound into bucket
// creation, which is the surface the bucket bootstrapper works against.
type Provisioner struct {
	*Client
}

func (c *Client) Provisioner() Provisioner { return Provisioner{c} }

func (p Provisioner) MakeBucket(ctx context.Context, name string) error {
	return p.Client.MakeBucket(ctx, name, p.region)
}
