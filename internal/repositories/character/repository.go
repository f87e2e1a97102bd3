// Package character provides the stores character records persist to
package character

//go:generate mockgen -destination=mock/mock_store.go -package=charactermock github.com/KirkDiggler/rpg-sheet/internal/repositories/character Store

import (
	"context"
	"sort"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
)

// Store persists the characters of one owner. Remote stores are keyed by
// the signed-in identity; the local store holds records for anonymous use.
// Every record returned has been healed to the current schema.
type Store interface {
	// Get retrieves a character by ID
	// Returns errors.NotFound if the character doesn't exist
	Get(ctx context.Context, id string) (*dnd5e.Character, error)

	// List returns every character, most recently updated first
	List(ctx context.Context) ([]*dnd5e.Character, error)

	// Put inserts or replaces the character with the same ID
	// Returns errors.InvalidArgument for a nil record or empty ID
	Put(ctx context.Context, char *dnd5e.Character) error

	// Delete removes a character. Deleting a missing ID is a no-op.
	Delete(ctx context.Context, id string) error

	// ReplaceAll deletes every character then writes chars
	ReplaceAll(ctx context.Context, chars []*dnd5e.Character) error

	// DeleteAll removes every character
	DeleteAll(ctx context.Context) error

	// Subscribe delivers the full list once immediately and again after
	// every change. Call cancel to release the listener.
	Subscribe(ctx context.Context, fn func([]*dnd5e.Character)) (cancel func(), err error)
}

const (
	errCharacterNil     = "character cannot be nil"
	errCharacterIDEmpty = "character ID cannot be empty"
	errOwnerEmpty       = "owner cannot be empty"
)

// sortCharacters orders by LastUpdated descending, then ID for stability
func sortCharacters(chars []*dnd5e.Character) {
	sort.SliceStable(chars, func(i, j int) bool {
		if chars[i].LastUpdated != chars[j].LastUpdated {
			return chars[i].LastUpdated > chars[j].LastUpdated
		}
		return chars[i].ID < chars[j].ID
	})
}
