package reliability

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"

	"github.com/apexsim/paddock/internal/config"
)

// S3Client wraps the object store that holds backup archives. It talks
// to AWS S3 by default; setting BACKUP_S3_ENDPOINT points it at any
// S3-compatible store (Cloudflare R2, MinIO) instead.
type S3Client struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	log      zerolog.Logger
}

// NewS3Client creates a client from the backup configuration
func NewS3Client(cfg *config.BackupConfig, log zerolog.Logger) (*S3Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load s3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			// R2 and MinIO resolve buckets by path, not subdomain
			o.UsePathStyle = true
		}
	})

	return &S3Client{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   cfg.Bucket,
		log:      log.With().Str("service", "s3_client").Logger(),
	}, nil
}

// Upload streams an object into the bucket
func (c *S3Client) Upload(ctx context.Context, key string, body io.Reader, size int64) error {
	_, err := c.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
		Body:   body,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}

	c.log.Debug().
		Str("key", key).
		Int64("size_bytes", size).
		Msg("Object uploaded")

	return nil
}

// List returns every object under the given key prefix
func (c *S3Client) List(ctx context.Context, prefix string) ([]types.Object, error) {
	var objects []types.Object

	paginator := s3.NewListObjectsV2Paginator(c.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(c.bucket),
		Prefix: aws.String(prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		objects = append(objects, page.Contents...)
	}

	return objects, nil
}

// Delete removes an object from the bucket
func (c *S3Client) Delete(ctx context.Context, key string) error {
	_, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}

	return nil
}
