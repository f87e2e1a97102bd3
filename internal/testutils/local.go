package testutils

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	character "github.com/KirkDiggler/rpg-sheet/internal/repositories/character"
	"github.com/KirkDiggler/rpg-sheet/internal/repositories/localslot"
)

// CreateTestLocalSlot opens a sqlite slot in a temp dir, closed with the test
func CreateTestLocalSlot(t *testing.T, maxBytes int) *localslot.SQLite {
	t.Helper()

	slot, err := localslot.Open(context.Background(), &localslot.Config{
		Path:     filepath.Join(t.TempDir(), "local.db"),
		MaxBytes: maxBytes,
	})
	require.NoError(t, err, "failed to open local slot")

	t.Cleanup(func() {
		_ = slot.Close()
	})

	return slot
}

// CreateTestLocalStore returns a local character store over a temp slot
func CreateTestLocalStore(t *testing.T) (character.Store, *localslot.SQLite) {
	t.Helper()

	slot := CreateTestLocalSlot(t, 0)
	store, err := character.NewLocal(&character.LocalConfig{Slot: slot})
	require.NoError(t, err, "failed to create local store")

	return store, slot
}
