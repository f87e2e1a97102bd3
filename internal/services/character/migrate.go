package character

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/repositories/blob"
)

// Migrate copies local records into the owner's remote store.
//
// A local record is written only when it is strictly newer than the remote
// copy or no remote copy exists. Inline images are uploaded first and
// replaced by their URL; an image whose upload fails is dropped and the
// record still migrates. Afterwards the local slot is cleared, even when
// some records failed, so the next sign-in does not offer them again. The
// IDs of failed records are returned in FailedIDs.
func (p *Persistence) Migrate(ctx context.Context, input *MigrateInput) (*MigrateOutput, error) {
	owner := ""
	if input != nil {
		owner = input.Owner
	}
	if owner == "" {
		owner = p.identity.Current().UID
	}
	if owner == "" {
		return nil, errors.FailedPrecondition("migration requires a signed-in identity")
	}
	if p.remote == nil {
		return nil, errors.FailedPrecondition("no remote store is configured")
	}

	remote, err := p.remote(owner)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open remote store")
	}

	locals, err := p.local.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read local characters")
	}

	out := &MigrateOutput{Total: len(locals)}
	if len(locals) == 0 {
		return out, nil
	}

	for _, char := range locals {
		logger := slog.With("character_id", char.ID)

		existing, err := remote.Get(ctx, char.ID)
		switch {
		case err == nil && existing.LastUpdated >= char.LastUpdated:
			logger.DebugContext(ctx, "remote copy is newer, skipping",
				"local_updated", char.LastUpdated,
				"remote_updated", existing.LastUpdated)
			out.Skipped++
			continue
		case err != nil && !errors.IsNotFound(err):
			logger.ErrorContext(ctx, "failed to read remote copy",
				"error", err.Error())
			out.fail(char.ID)
			continue
		}

		out.ImagesDropped += p.uploadImages(ctx, owner, char)

		if err := remote.Put(ctx, char); err != nil {
			logger.ErrorContext(ctx, "failed to write character remotely",
				"error", err.Error())
			out.fail(char.ID)
			continue
		}
		out.Migrated++
	}

	if err := p.local.DeleteAll(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to clear migrated local characters",
			"error", err.Error())
	}

	if out.Failed > 0 {
		slog.WarnContext(ctx, "some characters were not migrated",
			"owner", owner,
			"failed_ids", out.FailedIDs)
	}

	return out, nil
}

func (o *MigrateOutput) fail(id string) {
	o.Failed++
	o.FailedIDs = append(o.FailedIDs, id)
}

// uploadImages replaces inline images on the character and its companions
// with uploaded URLs. Returns how many images were dropped.
func (p *Persistence) uploadImages(ctx context.Context, owner string, char *dnd5e.Character) int {
	dropped := 0

	if url, ok := p.uploadImage(ctx, char.ImageURL, blob.ImageKey(owner, char)); ok {
		char.ImageURL = url
	} else {
		char.ImageURL = ""
		dropped++
	}

	for i := range char.Companions {
		companion := &char.Companions[i]
		key := blob.ImageKey(owner, char, companion)
		if url, ok := p.uploadImage(ctx, companion.ImageURL, key); ok {
			companion.ImageURL = url
		} else {
			companion.ImageURL = ""
			dropped++
		}
	}

	return dropped
}

// uploadImage returns the reference to keep for image. Non-inline values are
// kept as they are; inline ones are uploaded. ok is false when the image
// must be dropped.
func (p *Persistence) uploadImage(ctx context.Context, image, key string) (string, bool) {
	if !blob.IsDataURL(image) {
		return image, true
	}

	if p.uploader == nil {
		slog.WarnContext(ctx, "no image storage configured, dropping inline image",
			"key", key)
		return "", false
	}

	data, contentType, err := blob.ParseDataURL(image)
	if err != nil {
		slog.WarnContext(ctx, "dropping malformed inline image",
			"key", key,
			"error", err.Error())
		return "", false
	}

	out, err := p.uploader.Upload(ctx, blob.UploadInput{
		Key:         key,
		Data:        data,
		ContentType: contentType,
	})
	if err != nil {
		slog.WarnContext(ctx, "image upload failed, dropping image",
			"key", key,
			"error", err.Error())
		return "", false
	}

	return out.URL, true
}
