// Package publish uploads finished distributions to S3-compatible storage.
package publish

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/wwscc/distbuilder/internal/config"
	derrors "github.com/wwscc/distbuilder/internal/errors"
	"github.com/wwscc/distbuilder/internal/logfields"
	"github.com/wwscc/distbuilder/internal/retry"
)

// objectClient is the subset of *minio.Client used for uploads.
type objectClient interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	FPutObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// S3Publisher uploads files into one bucket under an optional key prefix.
type S3Publisher struct {
	client objectClient
	bucket string
	prefix string
	region string
	policy retry.Policy

	mu    sync.Mutex
	ready bool // bucket known to exist; failures are not cached
}

// NewS3Publisher builds a publisher from the publish config block.
func NewS3Publisher(cfg *config.PublishConfig) (*S3Publisher, error) {
	if cfg == nil {
		return nil, derrors.ValidationFailed("publish", "not configured")
	}
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, derrors.ValidationFailed("publish.endpoint", "required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, derrors.ValidationFailed("publish", "DISTBUILDER_S3_ACCESS_KEY and DISTBUILDER_S3_SECRET_KEY are required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, derrors.Wrap(err, derrors.CategoryConfig, derrors.SeverityFatal, "init s3 client")
	}
	return newS3Publisher(client, cfg, region), nil
}

func newS3Publisher(client objectClient, cfg *config.PublishConfig, region string) *S3Publisher {
	return &S3Publisher{
		client: client,
		bucket: strings.TrimSpace(cfg.Bucket),
		prefix: strings.Trim(strings.TrimSpace(cfg.Prefix), "/"),
		region: region,
		policy: retry.FromConfig(cfg.Retry),
	}
}

func (s *S3Publisher) ensureBucket(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready {
		return nil
	}
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
			return err
		}
	}
	s.ready = true
	return nil
}

// Key returns the object key for a local file.
func (s *S3Publisher) Key(localPath string) string {
	name := filepath.Base(localPath)
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

// Publish uploads localPath and returns its s3:// location. Transient
// failures of the bucket check and the upload are retried with the
// configured policy.
func (s *S3Publisher) Publish(ctx context.Context, localPath string) (string, error) {
	key := s.Key(localPath)
	location := "s3://" + s.bucket + "/" + key
	_, err := s.policy.Do(ctx, "publish", func(ctx context.Context) error {
		if err := s.ensureBucket(ctx); err != nil {
			return classify(s.bucket, fmt.Errorf("ensure bucket: %w", err))
		}
		info, err := s.client.FPutObject(ctx, s.bucket, key, localPath, minio.PutObjectOptions{
			ContentType: contentType(localPath),
		})
		if err != nil {
			return classify(location, err)
		}
		slog.Info("Published artifact", logfields.URL(location), logfields.Bytes(info.Size))
		return nil
	})
	if err != nil {
		return "", err
	}
	return location, nil
}

func contentType(p string) string {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".zip":
		return "application/zip"
	case ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}

// classify marks authorization and missing-resource failures permanent;
// everything else is treated as transient.
func classify(target string, err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch", "NoSuchBucket", "InvalidBucketName":
		return derrors.Wrap(err, derrors.CategoryNetwork, derrors.SeverityWarning, "publish rejected").
			WithContext("target", target)
	}
	return derrors.PublishFailed(target, err)
}
