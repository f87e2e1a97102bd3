// Package character defines the persistence and synchronization service for
// character records.
package character

//go:generate mockgen -destination=mock/mock_service.go -package=charactermock github.com/KirkDiggler/rpg-sheet/internal/services/character Service

import (
	"context"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
)

// Service makes character CRUD agnostic to which store is active. A signed
// in identity with a configured remote uses the remote store; anything else
// uses the local slot.
type Service interface {
	// CreateDefault returns a new record with a temporary ID. Nothing is
	// persisted until Save.
	CreateDefault(ctx context.Context, input *CreateDefaultInput) (*CreateDefaultOutput, error)

	// Get returns one healed record
	// Returns errors.NotFound if the character doesn't exist
	Get(ctx context.Context, input *GetInput) (*GetOutput, error)

	// List returns every healed record of the current identity
	List(ctx context.Context, input *ListInput) (*ListOutput, error)

	// Subscribe streams the full list on every change until cancelled
	Subscribe(ctx context.Context, input *SubscribeInput) (*SubscribeOutput, error)

	// Save stamps LastUpdated and upserts the record
	Save(ctx context.Context, input *SaveInput) (*SaveOutput, error)

	// Delete removes a record; missing IDs are a no-op
	Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error)

	// Migrate moves local records to the remote store of a signed-in owner
	// using last-write-wins on LastUpdated
	Migrate(ctx context.Context, input *MigrateInput) (*MigrateOutput, error)

	// Export serializes every record plus settings into one document
	Export(ctx context.Context, input *ExportInput) (*ExportOutput, error)

	// Import validates a document then replaces the active store's contents
	// Returns errors.InvalidArgument before any write when malformed
	Import(ctx context.Context, input *ImportInput) (*ImportOutput, error)

	// ClearAll deletes every record in the active store
	ClearAll(ctx context.Context, input *ClearAllInput) (*ClearAllOutput, error)
}

// CreateDefaultInput defines the request for a new default record
type CreateDefaultInput struct{}

// CreateDefaultOutput defines the response for a new default record
type CreateDefaultOutput struct {
	Character *dnd5e.Character
}

// GetInput defines the request for getting a character
type GetInput struct {
	ID string
}

// GetOutput defines the response for getting a character
type GetOutput struct {
	Character *dnd5e.Character
}

// ListInput defines the request for listing characters
type ListInput struct{}

// ListOutput defines the response for listing characters
type ListOutput struct {
	Characters []*dnd5e.Character
}

// SubscribeInput defines the request for a change subscription
type SubscribeInput struct {
	OnChange func([]*dnd5e.Character)
}

// SubscribeOutput holds the function that releases the subscription
type SubscribeOutput struct {
	Cancel func()
}

// SaveInput defines the request for saving a character. Partial records
// are healed before they are written.
type SaveInput struct {
	Character *dnd5e.Character
}

// SaveOutput contains the record as stored, including the new timestamp
type SaveOutput struct {
	Character *dnd5e.Character
}

// DeleteInput defines the request for deleting a character
type DeleteInput struct {
	ID string
}

// DeleteOutput defines the response for deleting a character
type DeleteOutput struct{}

// MigrateInput defines the request for migrating local records. Owner
// defaults to the current identity.
type MigrateInput struct {
	Owner string
}

// MigrateOutput reports what happened to each local record
type MigrateOutput struct {
	// Total is the number of local records considered
	Total int
	// Migrated records were written remotely
	Migrated int
	// Skipped records lost to a newer or equal remote copy
	Skipped int
	// Failed records could not be written remotely. The local slot is
	// cleared regardless, so FailedIDs is the caller's only record of them.
	Failed    int
	FailedIDs []string
	// ImagesDropped counts inline images whose upload failed
	ImagesDropped int
}

// ExportInput defines the request for exporting. Settings are carried
// through untouched.
type ExportInput struct {
	Settings map[string]any
}

// ExportOutput contains the export document and its JSON encoding
type ExportOutput struct {
	Document *ExportDocument
	Data     []byte
}

// ImportInput defines the request for importing an export document
type ImportInput struct {
	Data []byte
}

// ImportOutput defines the response for importing
type ImportOutput struct {
	Imported int
	Settings map[string]any
}

// ClearAllInput defines the request for clearing the active store
type ClearAllInput struct{}

// ClearAllOutput defines the response for clearing the active store
type ClearAllOutput struct{}
