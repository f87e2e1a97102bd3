package blob

import (
	"context"
	"log/slog"
	"net/url"

	"cloud.google.com/go/storage"

	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

const gcsPublicHost = "https://storage.googleapis.com"

// GCSConfig contains configuration for the Cloud Storage uploader
type GCSConfig struct {
	Client *storage.Client
	Bucket string
}

// Validate validates the GCSConfig
func (cfg *GCSConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	if cfg.Bucket == "" {
		return errors.InvalidArgument("bucket cannot be empty")
	}
	return nil
}

type gcsUploader struct {
	client *storage.Client
	bucket string
}

// NewGCS creates an uploader writing to a Cloud Storage bucket
func NewGCS(cfg *GCSConfig) (Uploader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &gcsUploader{client: cfg.Client, bucket: cfg.Bucket}, nil
}

func (g *gcsUploader) Upload(ctx context.Context, input UploadInput) (*UploadOutput, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	w := g.client.Bucket(g.bucket).Object(input.Key).NewWriter(ctx)
	w.ContentType = input.ContentType

	if _, err := w.Write(input.Data); err != nil {
		_ = w.Close()
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to write image").
			WithMeta("key", input.Key)
	}
	if err := w.Close(); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to finish image upload").
			WithMeta("key", input.Key)
	}

	slog.DebugContext(ctx, "uploaded image",
		"bucket", g.bucket,
		"key", input.Key,
		"bytes", len(input.Data))

	return &UploadOutput{URL: PublicURL(gcsPublicHost, g.bucket, input.Key)}, nil
}

// PublicURL joins host, bucket and key into a path-style object URL
func PublicURL(host, bucket, key string) string {
	u, err := url.JoinPath(host, bucket, key)
	if err != nil {
		return host + "/" + bucket + "/" + key
	}
	return u
}

func validateInput(input UploadInput) error {
	vb := errors.NewValidationBuilder()
	if input.Key == "" {
		vb.RequiredField("key")
	}
	if len(input.Data) == 0 {
		vb.RequiredField("data")
	}
	return vb.Build()
}
