// Package storage publishes leaderboard exports to S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"

	"pullupboard/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gosimple/slug"
)

// ErrExportDisabled is returned when no bucket is configured
var ErrExportDisabled = errors.New("snapshot export not configured")

// ObjectPutter is the subset of the S3 client the exporter needs
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// NewS3Client builds a client for the configured endpoint, e.g. Cloudflare R2
func NewS3Client(ctx context.Context, cfg config.SnapshotConfig) (*s3.Client, error) {
	if !cfg.ExportEnabled() {
		return nil, ErrExportDisabled
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.AccessKeySecret, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load object storage config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// Exporter writes JSON documents under a key prefix in one bucket
type Exporter struct {
	client ObjectPutter
	bucket string
	prefix string
}

// NewExporter creates a new exporter
func NewExporter(client ObjectPutter, bucket, prefix string) *Exporter {
	return &Exporter{client: client, bucket: bucket, prefix: prefix}
}

// LatestKey is the object key of the full leaderboard export
func (e *Exporter) LatestKey() string {
	return path.Join(e.prefix, "latest.json")
}

// ClubKey is the object key of one club's export; the club name is slugged
func (e *Exporter) ClubKey(club string) string {
	s := slug.Make(club)
	if s == "" {
		s = "unnamed"
	}
	return path.Join(e.prefix, "clubs", s+".json")
}

// PutJSON encodes v and uploads it under key
func (e *Exporter) PutJSON(ctx context.Context, key string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	_, err = e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(e.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(body),
		ContentType:  aws.String("application/json"),
		CacheControl: aws.String("public, max-age=60"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}
