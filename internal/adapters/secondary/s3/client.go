package s3

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"template-registry-service/internal/core/ports/output"
)

type Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
}

// Client talks to an S3-compatible store (MinIO included, via a custom
// endpoint with path-style addressing).
type Client struct {
	client  *awss3.Client
	presign *awss3.PresignClient
}

var _ ports.ObjectStore = (*Client)(nil)

func NewClient(conf *Config) (*Client, error) {
	if conf == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if conf.AccessKeyID == "" || conf.SecretAccessKey == "" {
		return nil, fmt.Errorf("missing required configuration: accessKeyID and secretAccessKey are required")
	}

	creds := aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(
		conf.AccessKeyID,
		conf.SecretAccessKey,
		"",
	))

	opts := awss3.Options{
		Region:           conf.Region,
		Credentials:      creds,
		UsePathStyle:     conf.UsePathStyle,
		RetryMode:        aws.RetryModeAdaptive,
		RetryMaxAttempts: 3,
	}
	if conf.Endpoint != "" {
		opts.BaseEndpoint = aws.String(conf.Endpoint)
	}
	client := awss3.New(opts)

	return &Client{
		client:  client,
		presign: awss3.NewPresignClient(client),
	}, nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (c *Client) EnsureBucket(ctx context.Context, bucket string) error {
	_, err := c.client.HeadBucket(ctx, &awss3.HeadBucketInput{
		Bucket: aws.String(bucket),
	})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	if !errors.As(err, &notFound) {
		return fmt.Errorf("head bucket %s: %w", bucket, err)
	}

	_, err = c.client.CreateBucket(ctx, &awss3.CreateBucketInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		var owned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &owned) {
			return nil
		}
		return fmt.Errorf("create bucket %s: %w", bucket, err)
	}
	return nil
}

// PresignUpload returns a time-limited PUT URL scoped to the key and content
// type.
func (c *Client) PresignUpload(ctx context.Context, bucket, key string, expiry time.Duration, contentType string) (string, error) {
	input := &awss3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	req, err := c.presign.PresignPutObject(ctx, input, awss3.WithPresignExpires(expiry))
	if err != nil {
		return "", fmt.Errorf("presign put object %s/%s: %w", bucket, key, err)
	}
	return req.URL, nil
}

func (c *Client) ListKeys(ctx context.Context, bucket, prefix string) ([]string, error) {
	var keys []string
	paginator := awss3.NewListObjectsV2Paginator(c.client, &awss3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list objects %s/%s: %w", bucket, prefix, err)
		}
		for _, obj := range page.Contents {
			if obj.Key != nil {
				keys = append(keys, *obj.Key)
			}
		}
	}
	return keys, nil
}

func (c *Client) DeleteKey(ctx context.Context, bucket, key string) error {
	_, err := c.client.DeleteObject(ctx, &awss3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s/%s: %w", bucket, key, err)
	}
	return nil
}

// DeleteKeysByPrefix lists and deletes sequentially. This path is not latency
// critical.
func (c *Client) DeleteKeysByPrefix(ctx context.Context, bucket, prefix string) error {
	keys, err := c.ListKeys(ctx, bucket, prefix)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := c.DeleteKey(ctx, bucket, key); err != nil {
			return err
		}
	}
	return nil
}
