package refdocs

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/minio/minio-go/v7"

	"github.com/ymori/visafaq/internal/domain/generation"
)

// BucketLoader assembles the reference blob from an S3-compatible bucket.
type BucketLoader struct {
	client *minio.Client
	bucket string
	prefix string
	logger *slog.Logger
}

// NewBucketLoader constructs a loader over the given bucket and key prefix.
func NewBucketLoader(client *minio.Client, bucket, prefix string, logger *slog.Logger) *BucketLoader {
	return &BucketLoader{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger.With("component", "refdocs.bucket"),
	}
}

func (l *BucketLoader) Load(ctx context.Context) (string, error) {
	var names []string
	for object := range l.client.ListObjects(ctx, l.bucket, minio.ListObjectsOptions{Prefix: l.prefix, Recursive: true}) {
		if object.Err != nil {
			return "", object.Err
		}
		if supported(object.Key) {
			names = append(names, object.Key)
		}
	}
	sort.Strings(names)

	var docs []document
	for _, key := range names {
		data, err := l.fetch(ctx, key)
		if err != nil {
			l.logger.Warn("reference object unreadable", "key", key, "error", err)
			continue
		}
		text, err := extractText(key, data)
		if err != nil {
			l.logger.Warn("reference object skipped", "key", key, "error", err)
			continue
		}
		docs = append(docs, document{name: displayName(key, l.prefix), text: text})
	}
	return assemble(docs), nil
}

func (l *BucketLoader) fetch(ctx context.Context, key string) ([]byte, error) {
	object, err := l.client.GetObject(ctx, l.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer object.Close()
	return io.ReadAll(object)
}

func displayName(key, prefix string) string {
	return strings.TrimPrefix(strings.TrimPrefix(key, prefix), "/")
}

var _ generation.ReferenceLoader = (*BucketLoader)(nil)
