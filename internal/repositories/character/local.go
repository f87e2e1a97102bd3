package character

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/repositories/localslot"
)

// LocalSlotKey is the slot holding the JSON array of local characters
const LocalSlotKey = "dnd-characters"

// localStore keeps every character in one slot, read and written wholesale.
//
// Failures follow on-device storage semantics: a write that fails is logged
// and dropped with the stored array left intact, and a corrupt or unreadable
// slot reads as empty. Neither surfaces to the caller.
type localStore struct {
	slot localslot.Slot

	// writeMu covers each read-modify-write of the slot
	writeMu sync.Mutex

	mu        sync.Mutex
	listeners map[int]func([]*dnd5e.Character)
	nextID    int
}

// LocalConfig contains configuration for the local character store
type LocalConfig struct {
	Slot localslot.Slot
}

// Validate validates the LocalConfig
func (cfg *LocalConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Slot == nil {
		return errors.InvalidArgument("slot cannot be nil")
	}
	return nil
}

// NewLocal creates a store over the on-device slot
func NewLocal(cfg *LocalConfig) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &localStore{
		slot:      cfg.Slot,
		listeners: make(map[int]func([]*dnd5e.Character)),
	}, nil
}

// read loads the array; problems are logged and yield an empty list
func (l *localStore) read(ctx context.Context) []*dnd5e.Character {
	data, ok, err := l.slot.Get(ctx, LocalSlotKey)
	if err != nil {
		slog.ErrorContext(ctx, "failed to read local characters",
			"key", LocalSlotKey,
			"error", err.Error())
		return []*dnd5e.Character{}
	}
	if !ok || len(data) == 0 {
		return []*dnd5e.Character{}
	}

	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		slog.ErrorContext(ctx, "local characters are corrupt, treating as empty",
			"key", LocalSlotKey,
			"error", err.Error())
		return []*dnd5e.Character{}
	}

	chars := make([]*dnd5e.Character, 0, len(raw))
	for i, entry := range raw {
		if entry == nil {
			continue
		}
		char, err := dnd5e.HealMap(entry)
		if err != nil {
			slog.WarnContext(ctx, "skipping unreadable local character",
				"index", i,
				"error", err.Error())
			continue
		}
		chars = append(chars, char)
	}

	return chars
}

// write stores the array; a failure is logged and the prior value kept.
// Reports whether the slot changed.
func (l *localStore) write(ctx context.Context, chars []*dnd5e.Character) bool {
	data, err := json.Marshal(chars)
	if err != nil {
		slog.ErrorContext(ctx, "failed to encode local characters",
			"error", err.Error())
		return false
	}

	if err := l.slot.Set(ctx, LocalSlotKey, data); err != nil {
		slog.ErrorContext(ctx, "failed to write local characters",
			"key", LocalSlotKey,
			"bytes", len(data),
			"error", err.Error())
		return false
	}
	return true
}

// modify runs fn over the stored array under writeMu and writes the result
// when fn returns true. Listeners are told after the lock is released.
func (l *localStore) modify(ctx context.Context, fn func([]*dnd5e.Character) ([]*dnd5e.Character, bool)) {
	l.writeMu.Lock()
	next, changed := fn(l.read(ctx))
	written := changed && l.write(ctx, next)
	l.writeMu.Unlock()

	if written {
		l.notify(ctx)
	}
}

func (l *localStore) Get(ctx context.Context, id string) (*dnd5e.Character, error) {
	if id == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	for _, char := range l.read(ctx) {
		if char.ID == id {
			return char, nil
		}
	}

	return nil, errors.NotFoundf("character with ID %s not found", id).
		WithMeta("character_id", id)
}

func (l *localStore) List(ctx context.Context) ([]*dnd5e.Character, error) {
	chars := l.read(ctx)
	sortCharacters(chars)
	return chars, nil
}

func (l *localStore) Put(ctx context.Context, char *dnd5e.Character) error {
	if char == nil {
		return errors.InvalidArgument(errCharacterNil)
	}
	if char.ID == "" {
		return errors.InvalidArgument(errCharacterIDEmpty)
	}

	l.modify(ctx, func(chars []*dnd5e.Character) ([]*dnd5e.Character, bool) {
		for i := range chars {
			if chars[i].ID == char.ID {
				chars[i] = char
				return chars, true
			}
		}
		return append(chars, char), true
	})
	return nil
}

func (l *localStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.InvalidArgument(errCharacterIDEmpty)
	}

	l.modify(ctx, func(chars []*dnd5e.Character) ([]*dnd5e.Character, bool) {
		kept := make([]*dnd5e.Character, 0, len(chars))
		for _, char := range chars {
			if char.ID != id {
				kept = append(kept, char)
			}
		}
		return kept, len(kept) != len(chars)
	})
	return nil
}

func (l *localStore) ReplaceAll(ctx context.Context, chars []*dnd5e.Character) error {
	for _, char := range chars {
		if char == nil || char.ID == "" {
			return errors.InvalidArgument(errCharacterIDEmpty)
		}
	}
	if chars == nil {
		chars = []*dnd5e.Character{}
	}

	l.modify(ctx, func([]*dnd5e.Character) ([]*dnd5e.Character, bool) {
		return chars, true
	})
	return nil
}

func (l *localStore) DeleteAll(ctx context.Context) error {
	l.writeMu.Lock()
	err := l.slot.Remove(ctx, LocalSlotKey)
	l.writeMu.Unlock()
	if err != nil {
		slog.ErrorContext(ctx, "failed to clear local characters",
			"key", LocalSlotKey,
			"error", err.Error())
		return nil
	}

	l.notify(ctx)
	return nil
}

// Subscribe delivers the current list now and after every local write made
// through this store.
func (l *localStore) Subscribe(ctx context.Context, fn func([]*dnd5e.Character)) (func(), error) {
	if fn == nil {
		return nil, errors.InvalidArgument("listener cannot be nil")
	}

	l.mu.Lock()
	id := l.nextID
	l.nextID++
	l.listeners[id] = fn
	l.mu.Unlock()

	chars, _ := l.List(ctx)
	fn(chars)

	return func() {
		l.mu.Lock()
		delete(l.listeners, id)
		l.mu.Unlock()
	}, nil
}

func (l *localStore) notify(ctx context.Context) {
	l.mu.Lock()
	if len(l.listeners) == 0 {
		l.mu.Unlock()
		return
	}
	fns := make([]func([]*dnd5e.Character), 0, len(l.listeners))
	for _, fn := range l.listeners {
		fns = append(fns, fn)
	}
	l.mu.Unlock()

	chars, _ := l.List(ctx)
	for _, fn := range fns {
		fn(chars)
	}
}
