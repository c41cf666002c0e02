package ticketpdf

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Publisher ships a finished archive somewhere durable and returns where it
// went.
type Publisher interface {
	Publish(ctx context.Context, archivePath string) (string, error)
}

// s3PutAPI is the slice of the S3 client the publisher uses.
type s3PutAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Compile-time interface checks
var (
	_ Publisher = (*S3Publisher)(nil)
	_ s3PutAPI  = (*s3.Client)(nil)
)

// S3Options configures an S3Publisher. It works with any S3-compatible
// store (AWS S3, MinIO, ...).
type S3Options struct {
	Bucket       string
	Endpoint     string // empty = AWS default resolution
	Region       string // empty = us-east-1
	AccessKey    string // empty = default credential chain
	SecretKey    string
	KeyPrefix    string
	UsePathStyle bool
}

// S3Publisher uploads archives to a bucket.
type S3Publisher struct {
	client s3PutAPI
	bucket string
	prefix string
}

// NewS3Publisher builds an S3 client from opts.
func NewS3Publisher(ctx context.Context, opts S3Options) (*S3Publisher, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("%w: bucket is required", ErrPublish)
	}

	region := opts.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: loading AWS config: %v", ErrPublish, err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = opts.UsePathStyle
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	})

	return newS3Publisher(client, opts.Bucket, opts.KeyPrefix), nil
}

func newS3Publisher(client s3PutAPI, bucket, prefix string) *S3Publisher {
	return &S3Publisher{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// Key returns the object key for an archive file.
func (p *S3Publisher) Key(archivePath string) string {
	return path.Join(p.prefix, filepath.Base(archivePath))
}

// Publish uploads archivePath and returns its s3:// location.
func (p *S3Publisher) Publish(ctx context.Context, archivePath string) (string, error) {
	f, err := os.Open(archivePath) // #nosec G304 -- archive path built by the consolidator
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPublish, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPublish, err)
	}

	key := p.Key(archivePath)
	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String(contentTypeFor(archivePath)),
	})
	if err != nil {
		return "", fmt.Errorf("%w: uploading %s: %w", ErrPublish, key, err)
	}
	return "s3://" + p.bucket + "/" + key, nil
}

func contentTypeFor(name string) string {
	switch filepath.Ext(name) {
	case ".zst":
		return "application/zstd"
	case ".gz":
		return "application/gzip"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
