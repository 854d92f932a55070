package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/travelbook/story-api/internal/core/domain"
)

// S3Config describes the bucket images are stored in. Endpoint is optional and
// points the client at an S3-compatible server such as MinIO.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Prefix    string
}

type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store keeps images as objects in an S3 bucket.
type S3Store struct {
	client s3API
	bucket string
	prefix string
}

// NewS3Store builds an S3 client from cfg. Static credentials are used when
// an access key is configured, otherwise the default AWS credential chain.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Store(client, cfg.Bucket, cfg.Prefix), nil
}

func newS3Store(client s3API, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix}
}

func (s *S3Store) key(filename string) string {
	return s.prefix + filepath.Base(filename)
}

// Save uploads r. Non-seekable readers are buffered so the SDK can compute
// the payload checksum.
func (s *S3Store) Save(ctx context.Context, filename string, r io.Reader) error {
	body, ok := r.(io.ReadSeeker)
	if !ok {
		buf, err := io.ReadAll(r)
		if err != nil {
			return fmt.Errorf("save image: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(filename)),
		Body:   body,
	}
	if ct := mime.TypeByExtension(filepath.Ext(filename)); ct != "" {
		in.ContentType = aws.String(ct)
	}

	if _, err := s.client.PutObject(ctx, in); err != nil {
		return fmt.Errorf("save image: %w", err)
	}
	return nil
}

func (s *S3Store) Open(ctx context.Context, filename string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(filename)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrImageNotFound
		}
		return nil, fmt.Errorf("open image: %w", err)
	}
	return out.Body, nil
}

// Delete removes the object. S3 deletes are idempotent, so existence is
// checked first to report domain.ErrImageNotFound.
func (s *S3Store) Delete(ctx context.Context, filename string) error {
	key := aws.String(s.key(filename))

	if _, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: aws.String(s.bucket), Key: key}); err != nil {
		if isNotFound(err) {
			return domain.ErrImageNotFound
		}
		return fmt.Errorf("delete image: %w", err)
	}

	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: aws.String(s.bucket), Key: key}); err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}

func isNotFound(err error) bool {
	var nf *types.NotFound
	var nsk *types.NoSuchKey
	if errors.As(err, &nf) || errors.As(err, &nsk) {
		return true
	}
	var re *awshttp.ResponseError
	return errors.As(err, &re) && re.HTTPStatusCode() == http.StatusNotFound
}
