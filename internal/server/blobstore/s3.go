package blobstore

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vkarpenko/drivespace/internal/common"
)

var tracer = otel.Tracer("drivespace-blobstore")

// Options configures the S3-compatible backend.
type Options struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	// BaseEndpoint overrides the AWS endpoint for S3-compatible stores
	// (MinIO and friends). Empty means real AWS.
	BaseEndpoint string
}

// S3Store implements Store against an S3-compatible object store. The
// client and presign client are built once at construction and injected
// where needed; there are no package-level singletons.
type S3Store struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
}

func NewS3Store(ctx context.Context, opts Options) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKeyID, opts.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(opts.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  opts.Bucket,
	}, nil
}

func (s *S3Store) Put(ctx context.Context, key, contentType string) error {
	ctx, span := tracer.Start(ctx, "blobstore.put",
		trace.WithAttributes(attribute.String("object_key", key)))
	defer span.End()

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		span.RecordError(err)
		return fmt.Errorf("%w: put %s: %v", common.ErrStorageUnavailable, key, err)
	}
	return nil
}

func (s *S3Store) PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error) {
	ctx, span := tracer.Start(ctx, "blobstore.presign_put",
		trace.WithAttributes(attribute.String("object_key", key)))
	defer span.End()

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	req, err := s.presign.PresignPutObject(ctx, input, s3.WithPresignExpires(ttl))
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("%w: presign put %s: %v", common.ErrStorageUnavailable, key, err)
	}
	return req.URL, nil
}

func (s *S3Store) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	ctx, span := tracer.Start(ctx, "blobstore.presign_get",
		trace.WithAttributes(attribute.String("object_key", key)))
	defer span.End()

	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("%w: presign get %s: %v", common.ErrStorageUnavailable, key, err)
	}
	return req.URL, nil
}

func (s *S3Store) Copy(ctx context.Context, src, dst string) error {
	ctx, span := tracer.Start(ctx, "blobstore.copy",
		trace.WithAttributes(
			attribute.String("source_key", src),
			attribute.String("dest_key", dst),
		))
	defer span.End()

	_, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(s.bucket),
		CopySource: aws.String(s.bucket + "/" + src),
		Key:        aws.String(dst),
	})
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("%w: copy %s -> %s: %v", common.ErrStorageUnavailable, src, dst, err)
	}
	return nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	ctx, span := tracer.Start(ctx, "blobstore.delete",
		trace.WithAttributes(attribute.String("object_key", key)))
	defer span.End()

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("%w: delete %s: %v", common.ErrStorageUnavailable, key, err)
	}
	return nil
}

func (s *S3Store) ListPrefix(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	ctx, span := tracer.Start(ctx, "blobstore.list_prefix",
		trace.WithAttributes(attribute.String("prefix", prefix)))
	defer span.End()

	var result []ObjectInfo

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("%w: list %s: %v", common.ErrStorageUnavailable, prefix, err)
		}
		for _, obj := range page.Contents {
			result = append(result, ObjectInfo{
				Key:  aws.ToString(obj.Key),
				Size: aws.ToInt64(obj.Size),
			})
		}
	}

	span.SetAttributes(attribute.Int("object_count", len(result)))
	return result, nil
}
