package media

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/kiranshivaraju/radassist/internal/config"
	"github.com/kiranshivaraju/radassist/pkg/models"
)

var (
	ErrObjectNotFound = errors.New("media object not found")
	ErrObjectTooLarge = errors.New("media object exceeds size limit")
	ErrNoObjectStore  = errors.New("object references require an object store")
)

// Source fetches previously uploaded media by object key.
type Source interface {
	Fetch(ctx context.Context, key string) (string, error)
}

// MinioSource reads uploaded media from a MinIO / S3 bucket.
type MinioSource struct {
	client   *minio.Client
	bucket   string
	maxBytes int64
}

// NewMinioSource connects to the bucket named in cfg and checks it exists.
func NewMinioSource(ctx context.Context, cfg config.MinioConfig) (*MinioSource, error) {
	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %q does not exist", cfg.Bucket)
	}

	return &MinioSource{client: cli, bucket: cfg.Bucket, maxBytes: cfg.MaxObjectBytes}, nil
}

// Fetch downloads the object and returns it as a data URI using the stored content type.
func (s *MinioSource) Fetch(ctx context.Context, key string) (string, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return "", classifyObjectError(key, err)
	}
	defer obj.Close()

	info, err := obj.Stat()
	if err != nil {
		return "", classifyObjectError(key, err)
	}
	if s.maxBytes > 0 && info.Size > s.maxBytes {
		return "", fmt.Errorf("%w: %s is %d bytes", ErrObjectTooLarge, key, info.Size)
	}

	data, err := io.ReadAll(obj)
	if err != nil {
		return "", fmt.Errorf("read object %s: %w", key, err)
	}
	return Encode(info.ContentType, data), nil
}

func classifyObjectError(key string, err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, key)
	}
	return fmt.Errorf("fetch object %s: %w", key, err)
}

// ItemRef is one entry of an analyze request: an inline data URI or an object key.
type ItemRef struct {
	DataURI   string `json:"data_uri,omitempty"`
	ObjectKey string `json:"object_key,omitempty"`
}

// Resolve turns refs into MediaItems, preserving order. src may be nil when no object store is configured.
func Resolve(ctx context.Context, src Source, refs []ItemRef) ([]models.MediaItem, error) {
	items := make([]models.MediaItem, 0, len(refs))
	for i, ref := range refs {
		uri := ref.DataURI
		if uri == "" && ref.ObjectKey != "" {
			if src == nil {
				return nil, ErrNoObjectStore
			}
			fetched, err := src.Fetch(ctx, ref.ObjectKey)
			if err != nil {
				return nil, err
			}
			uri = fetched
		}
		item, err := Parse(uri)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

var _ Source = (*MinioSource)(nil)
