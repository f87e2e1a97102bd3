package blob

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

// PutObjectAPI is the slice of the S3 client the uploader needs
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3ClientConfig describes an S3 compatible endpoint such as MinIO
type S3ClientConfig struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// NewS3Client builds an S3 client. Static credentials are used when an
// access key is given, otherwise the default AWS credential chain.
func NewS3Client(ctx context.Context, cfg S3ClientConfig) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load AWS config")
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// S3Config contains configuration for the S3 uploader
type S3Config struct {
	Client PutObjectAPI
	Bucket string
	// PublicBaseURL prefixes returned URLs, e.g. https://cdn.example.com
	PublicBaseURL string
}

// Validate validates the S3Config
func (cfg *S3Config) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()
	if cfg.Client == nil {
		vb.RequiredField("client")
	}
	if cfg.Bucket == "" {
		vb.RequiredField("bucket")
	}
	if cfg.PublicBaseURL == "" {
		vb.RequiredField("public_base_url")
	}
	return vb.Build()
}

type s3Uploader struct {
	client  PutObjectAPI
	bucket  string
	baseURL string
}

// NewS3 creates an uploader writing to an S3 bucket
func NewS3(cfg *S3Config) (Uploader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &s3Uploader{
		client:  cfg.Client,
		bucket:  cfg.Bucket,
		baseURL: cfg.PublicBaseURL,
	}, nil
}

func (u *s3Uploader) Upload(ctx context.Context, input UploadInput) (*UploadOutput, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(input.Key),
		Body:        bytes.NewReader(input.Data),
		ContentType: aws.String(input.ContentType),
	})
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to upload image").
			WithMeta("key", input.Key)
	}

	slog.DebugContext(ctx, "uploaded image",
		"bucket", u.bucket,
		"key", input.Key,
		"bytes", len(input.Data))

	return &UploadOutput{URL: PublicURL(u.baseURL, u.bucket, input.Key)}, nil
}
