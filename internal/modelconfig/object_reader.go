package modelconfig

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/icanbwell/language-model-gateway/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"
)

// ObjectReader loads model definitions from an S3-compatible object store.
type ObjectReader struct {
	client *minio.Client
}

// NewObjectReader builds a reader against the configured object store endpoint.
func NewObjectReader(cfg config.ObjectStoreConfig) (*ObjectReader, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("modelconfig: object store endpoint is not configured")
	}
	options := &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	}
	client, err := minio.New(endpoint, options)
	if err != nil {
		return nil, fmt.Errorf("modelconfig: failed to create object store client: %w", err)
	}
	return &ObjectReader{client: client}, nil
}

// ReadModelConfigs lists *.json objects under an s3://bucket/prefix URL and
// parses each one as a model definition.
func (r *ObjectReader) ReadModelConfigs(ctx context.Context, s3URL string) ([]ChatModelConfig, error) {
	bucket, prefix, err := splitS3URL(s3URL)
	if err != nil {
		return nil, err
	}

	var configs []ChatModelConfig
	objectCh := r.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})
	for object := range objectCh {
		if object.Err != nil {
			return nil, fmt.Errorf("modelconfig: failed to list s3 objects: %w", object.Err)
		}
		if !strings.HasSuffix(strings.ToLower(object.Key), ".json") {
			continue
		}
		cfg, errRead := r.readObject(ctx, bucket, object.Key)
		if errRead != nil {
			log.Warnf("modelconfig: skipping s3://%s/%s: %v", bucket, object.Key, errRead)
			continue
		}
		configs = append(configs, *cfg)
	}
	return configs, nil
}

func (r *ObjectReader) readObject(ctx context.Context, bucket, key string) (*ChatModelConfig, error) {
	object, err := r.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = object.Close() }()

	data, err := io.ReadAll(object)
	if err != nil {
		return nil, err
	}
	return parseModelConfig(data, key)
}

// splitS3URL splits "s3://bucket/prefix" into bucket and prefix.
func splitS3URL(s3URL string) (bucket string, prefix string, err error) {
	trimmed := strings.TrimPrefix(s3URL, "s3://")
	if trimmed == s3URL || trimmed == "" {
		return "", "", fmt.Errorf("modelconfig: invalid s3 url %q", s3URL)
	}
	parts := strings.SplitN(trimmed, "/", 2)
	bucket = parts[0]
	if len(parts) == 2 {
		prefix = parts[1]
	}
	if bucket == "" {
		return "", "", fmt.Errorf("modelconfig: invalid s3 url %q", s3URL)
	}
	return bucket, prefix, nil
}
