package transport

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Opener opens s3://bucket/key URIs through an S3-compatible endpoint.
// Clients are cached per endpoint and credential set.
type S3Opener struct {
	mu      sync.Mutex
	clients map[string]*minio.Client
}

type s3Stream struct {
	*minio.Object
	size int64
}

func (s *s3Stream) Size() int64 { return s.size }

// Open implements Opener.
func (o *S3Opener) Open(ctx context.Context, uri string, opts Options) (Stream, error) {
	client, bucket, key, err := o.target(uri, opts)
	if err != nil {
		return nil, err
	}

	object, err := client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}

	// GetObject is lazy; Stat forces the request so a missing key fails here
	// rather than on the first read.
	info, err := object.Stat()
	if err != nil {
		object.Close()
		return nil, err
	}
	return &s3Stream{Object: object, size: info.Size}, nil
}

// Stat implements Opener.
func (o *S3Opener) Stat(ctx context.Context, uri string, opts Options) (Info, error) {
	client, bucket, key, err := o.target(uri, opts)
	if err != nil {
		return Info{}, err
	}
	info, err := client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return Info{}, err
	}
	return Info{Size: info.Size, ModTime: info.LastModified}, nil
}

func (o *S3Opener) target(uri string, opts Options) (*minio.Client, string, string, error) {
	bucket, key, err := splitS3URI(uri)
	if err != nil {
		return nil, "", "", err
	}
	client, err := o.client(opts)
	if err != nil {
		return nil, "", "", err
	}
	return client, bucket, key, nil
}

func (o *S3Opener) client(opts Options) (*minio.Client, error) {
	endpoint := opts.Get(OptS3Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3: %s option is required", OptS3Endpoint)
	}
	accessKey := opts.Get(OptS3AccessKey)
	secretKey := opts.Get(OptS3SecretKey)
	region := opts.Get(OptS3Region)
	useSSL := opts.Bool(OptS3UseSSL, true)

	secretSum := sha256.Sum256([]byte(secretKey))
	cacheKey := fmt.Sprintf("%s|%s|%x|%s|%t", endpoint, accessKey, secretSum, region, useSSL)

	o.mu.Lock()
	defer o.mu.Unlock()
	if c, ok := o.clients[cacheKey]; ok {
		return c, nil
	}

	c, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("s3: create client for %s: %w", endpoint, err)
	}
	if o.clients == nil {
		o.clients = make(map[string]*minio.Client)
	}
	o.clients[cacheKey] = c
	return c, nil
}

// splitS3URI splits s3://bucket/key into its bucket and object key.
func splitS3URI(uri string) (string, string, error) {
	rest, ok := strings.CutPrefix(uri, "s3://")
	if !ok {
		if len(uri) > 5 && strings.EqualFold(uri[:5], "s3://") {
			rest = uri[5:]
		} else {
			return "", "", fmt.Errorf("s3: not an s3 URI: %s", uri)
		}
	}
	bucket, key, _ := strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3: URI needs a bucket and a key: %s", uri)
	}
	return bucket, key, nil
}
