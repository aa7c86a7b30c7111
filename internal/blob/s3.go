package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Environment variables read by S3ConfigFromEnv. Credentials fall back to
// the AWS default chain when the key pair is unset.
const (
	EnvS3Region          = "PKMN_S3_REGION"
	EnvS3Endpoint        = "PKMN_S3_ENDPOINT"
	EnvS3PathStyle       = "PKMN_S3_PATH_STYLE"
	EnvS3AccessKeyID     = "PKMN_S3_ACCESS_KEY_ID"
	EnvS3SecretAccessKey = "PKMN_S3_SECRET_ACCESS_KEY"
)

const defaultS3Region = "us-east-1"

// S3Config holds the parameters of one bucket.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string // optional, for MinIO and other S3-compatible servers
	PathStyle       bool
	AccessKeyID     string
	SecretAccessKey string
}

// S3ConfigFromEnv builds the configuration of bucket from the process
// environment.
func S3ConfigFromEnv(bucket string) S3Config {
	return S3Config{
		Bucket:          bucket,
		Region:          os.Getenv(EnvS3Region),
		Endpoint:        os.Getenv(EnvS3Endpoint),
		PathStyle:       strings.EqualFold(os.Getenv(EnvS3PathStyle), "true"),
		AccessKeyID:     os.Getenv(EnvS3AccessKeyID),
		SecretAccessKey: os.Getenv(EnvS3SecretAccessKey),
	}
}

// s3API is the subset of *s3.Client the store uses.
type s3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store keeps blobs as objects of a single bucket.
type S3Store struct {
	client s3API
	bucket string
}

// NewS3 creates a store for cfg.Bucket.
func NewS3(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("%w: s3 bucket required", ErrInvalidKey)
	}
	region := cfg.Region
	if region == "" {
		region = defaultS3Region
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &S3Store{client: client, bucket: cfg.Bucket}, nil
}

func (s *S3Store) Driver() Driver { return DriverS3 }

// Bucket returns the bucket the store writes to.
func (s *S3Store) Bucket() string { return s.bucket }

func (s *S3Store) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(s.bucket), Key: aws.String(key)})
	if err != nil {
		var nsk *s3types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("%w: s3://%s/%s", ErrNotFound, s.bucket, key)
		}
		return nil, fmt.Errorf("getting s3://%s/%s: %w", s.bucket, key, err)
	}
	defer out.Body.Close()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("reading s3://%s/%s: %w", s.bucket, key, err)
	}
	return data, nil
}

func (s *S3Store) Put(ctx context.Context, key string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("application/octet-stream"),
	})
	if err != nil {
		return fmt.Errorf("putting s3://%s/%s: %w", s.bucket, key, err)
	}
	return nil
}
