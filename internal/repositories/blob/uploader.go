// Package blob stores character and companion images
package blob

//go:generate mockgen -destination=mock/mock_uploader.go -package=blobmock github.com/KirkDiggler/rpg-sheet/internal/repositories/blob Uploader

import (
	"context"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/core"
)

// Uploader stores an image and returns a stable retrieval URL
type Uploader interface {
	// Upload writes Data under Key, replacing any existing object
	// Returns errors.InvalidArgument for an empty key or payload
	// Returns errors.Unavailable when the backend cannot be reached
	Upload(ctx context.Context, input UploadInput) (*UploadOutput, error)
}

// UploadInput defines the input for uploading an image
type UploadInput struct {
	Key         string
	Data        []byte
	ContentType string
}

// UploadOutput defines the output for uploading an image
type UploadOutput struct {
	URL string
}

const imagesPrefix = "images"

// ImageKey builds the object key for an owner's entity image. Nested
// entities extend the path, so a companion image lives under its character:
//
//	images/{owner}/character/{id}
//	images/{owner}/character/{id}/companion/{id}
func ImageKey(owner string, entities ...core.Entity) string {
	parts := []string{imagesPrefix, owner}
	for _, e := range entities {
		parts = append(parts, e.GetType(), e.GetID())
	}
	return strings.Join(parts, "/")
}
