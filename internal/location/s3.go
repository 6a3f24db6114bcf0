package location

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dmitrijs2005/subcontrol/internal/common"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) objectAPI {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Config describes an S3-compatible bucket. An empty BaseEndpoint uses
// the AWS default; set it for MinIO and similar servers.
type S3Config struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
	Prefix       string
	Timeout      time.Duration
}

// S3Bucket is a configured bucket that hands out destinations and sources.
type S3Bucket struct {
	api     objectAPI
	bucket  string
	prefix  string
	timeout time.Duration
}

func NewS3Bucket(ctx context.Context, cfg S3Config) (*S3Bucket, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket is not configured")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	api := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
			// MinIO and most self-hosted servers want path-style addressing
			o.UsePathStyle = true
		}
	})

	return &S3Bucket{api: api, bucket: cfg.Bucket, prefix: cfg.Prefix, timeout: cfg.Timeout}, nil
}

func (b *S3Bucket) key(name string) string {
	if b.prefix == "" {
		return name
	}
	return path.Join(b.prefix, name)
}

func (b *S3Bucket) uri(key string) string {
	return "s3://" + b.bucket + "/" + key
}

func (b *S3Bucket) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if b.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, b.timeout)
}

// Destination returns a destination writing under the bucket prefix.
func (b *S3Bucket) Destination() *S3Destination {
	return &S3Destination{bucket: b}
}

// Source returns a source for name under the bucket prefix.
func (b *S3Bucket) Source(name string) *S3Source {
	return &S3Source{bucket: b, name: name}
}

type S3Destination struct {
	bucket *S3Bucket
}

func (d *S3Destination) Write(ctx context.Context, name string, data []byte) (Handle, error) {
	if err := checkName(name); err != nil {
		return Handle{}, err
	}

	ctx, cancel := d.bucket.withTimeout(ctx)
	defer cancel()

	key := d.bucket.key(name)
	_, err := d.bucket.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(d.bucket.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("application/octet-stream"),
	})
	if err != nil {
		return Handle{}, fmt.Errorf("put %s: %w", d.bucket.uri(key), err)
	}
	return Handle{Name: name, URI: d.bucket.uri(key)}, nil
}

type S3Source struct {
	bucket *S3Bucket
	name   string
}

func (s *S3Source) Name() string {
	return path.Base(s.name)
}

func (s *S3Source) Read(ctx context.Context) ([]byte, error) {
	ctx, cancel := s.bucket.withTimeout(ctx)
	defer cancel()

	key := s.bucket.key(s.name)
	out, err := s.bucket.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("%s: %w", s.bucket.uri(key), common.ErrorNotFound)
		}
		return nil, fmt.Errorf("get %s: %w", s.bucket.uri(key), err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.bucket.uri(key), err)
	}
	return data, nil
}
