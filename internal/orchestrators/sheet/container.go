// Package sheet owns the character being edited. Every change goes through
// Update, which re-derives the computed sheet, tells listeners and schedules
// an autosave.
package sheet

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/KirkDiggler/rpg-sheet/internal/engine"
	"github.com/KirkDiggler/rpg-sheet/internal/engine/stats"
	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/pkg/debounce"
	"github.com/KirkDiggler/rpg-sheet/internal/services/character"
)

// DefaultAutosaveDelay is the quiet period before an edit burst is saved
const DefaultAutosaveDelay = 2 * time.Second

// Mutation changes the character in place. Returning an error discards
// the change.
type Mutation func(c *dnd5e.Character) error

// State is a snapshot of the container. Callers own the returned values.
type State struct {
	Character *dnd5e.Character
	Sheet     stats.Sheet
	// Dirty is true while an edit has not been saved
	Dirty bool
}

// Listener receives the state after every change
type Listener func(State)

// Config holds the dependencies for the sheet container
type Config struct {
	Engine    engine.Engine
	Service   character.Service
	Character *dnd5e.Character
	// AutosaveDelay is the debounce quiet period, DefaultAutosaveDelay when 0
	AutosaveDelay time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()

	if c.Engine == nil {
		vb.RequiredField("Engine")
	}
	if c.Service == nil {
		vb.RequiredField("Service")
	}
	if c.Character == nil {
		vb.RequiredField("Character")
	}
	if c.AutosaveDelay < 0 {
		vb.Field("AutosaveDelay", "must not be negative")
	}

	return vb.Build()
}

// Container holds one character and its derived sheet
type Container struct {
	engine   engine.Engine
	service  character.Service
	autosave *debounce.Debouncer

	// updateMu serializes Update so each mutation sees the previous commit
	updateMu sync.Mutex
	// saveMu serializes saves so a later save reuses the ID the earlier
	// one adopted and never lands before it
	saveMu sync.Mutex

	mu        sync.Mutex
	char      *dnd5e.Character
	sheet     stats.Sheet
	revision  uint64
	saved     uint64
	closed    bool
	nextID    int
	listeners map[int]Listener
}

// New creates a container for cfg.Character and derives its sheet.
// The container keeps its own copy of the character.
func New(ctx context.Context, cfg *Config) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	delay := cfg.AutosaveDelay
	if delay == 0 {
		delay = DefaultAutosaveDelay
	}

	char := cfg.Character.Clone()
	out, err := cfg.Engine.CalculateSheet(ctx, &engine.CalculateSheetInput{Character: char})
	if err != nil {
		return nil, errors.Wrap(err, "failed to calculate sheet")
	}

	return &Container{
		engine:    cfg.Engine,
		service:   cfg.Service,
		autosave:  debounce.New(delay),
		char:      char,
		sheet:     out.Sheet,
		listeners: make(map[int]Listener),
	}, nil
}

// State returns a snapshot of the current character and sheet
func (c *Container) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Container) stateLocked() State {
	return State{
		Character: c.char.Clone(),
		Sheet:     c.sheet,
		Dirty:     c.revision != c.saved,
	}
}

// Subscribe registers fn for every later change. fn runs on the goroutine
// that made the change and must not call Update.
func (c *Container) Subscribe(fn Listener) (cancel func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.listeners[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

// Update applies m to a copy of the character, re-derives the sheet and
// commits both only when every step succeeds. A committed change schedules
// an autosave.
func (c *Container) Update(ctx context.Context, m Mutation) (State, error) {
	if m == nil {
		return State{}, errors.InvalidArgument("mutation is required")
	}

	c.updateMu.Lock()
	defer c.updateMu.Unlock()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return State{}, errors.FailedPrecondition("sheet is closed")
	}
	next := c.char.Clone()
	c.mu.Unlock()

	if err := m(next); err != nil {
		return State{}, err
	}

	return c.commit(ctx, next)
}

// SpendHitDie rolls one hit die through the engine and heals the character
func (c *Container) SpendHitDie(ctx context.Context) (*engine.SpendHitDieOutput, State, error) {
	var rolled *engine.SpendHitDieOutput
	state, err := c.Update(ctx, func(char *dnd5e.Character) error {
		out, err := c.engine.SpendHitDie(ctx, &engine.SpendHitDieInput{Character: char})
		if err != nil {
			return err
		}
		rolled = out
		return nil
	})
	if err != nil {
		return nil, State{}, err
	}
	return rolled, state, nil
}

func (c *Container) commit(ctx context.Context, next *dnd5e.Character) (State, error) {
	out, err := c.engine.CalculateSheet(ctx, &engine.CalculateSheetInput{Character: next})
	if err != nil {
		return State{}, errors.Wrap(err, "failed to calculate sheet")
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return State{}, errors.FailedPrecondition("sheet is closed")
	}
	c.char = next
	c.sheet = out.Sheet
	c.revision++
	state := c.stateLocked()
	listeners := c.listenersLocked()
	c.mu.Unlock()

	c.autosave.Trigger(func() {
		if err := c.save(context.Background()); err != nil {
			slog.Error("autosave failed",
				"character_id", state.Character.ID,
				"error", err.Error())
		}
	})

	for _, fn := range listeners {
		fn(state)
	}

	return state, nil
}

func (c *Container) listenersLocked() []Listener {
	fns := make([]Listener, 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	return fns
}

// save writes the latest state. The stored ID and timestamp are copied back
// so later saves keep the same record, but edits made while the save was in
// flight stay dirty.
func (c *Container) save(ctx context.Context) error {
	c.saveMu.Lock()
	defer c.saveMu.Unlock()

	c.mu.Lock()
	if c.revision == c.saved {
		c.mu.Unlock()
		return nil
	}
	snapshot := c.char.Clone()
	revision := c.revision
	c.mu.Unlock()

	out, err := c.service.Save(ctx, &character.SaveInput{Character: snapshot})
	if err != nil {
		return errors.Wrap(err, "failed to save character")
	}

	c.mu.Lock()
	if c.char.ID == snapshot.ID {
		c.char.ID = out.Character.ID
		c.char.LastUpdated = out.Character.LastUpdated
	}
	if revision > c.saved {
		c.saved = revision
	}
	state := c.stateLocked()
	listeners := c.listenersLocked()
	c.mu.Unlock()

	slog.DebugContext(ctx, "saved sheet",
		"character_id", out.Character.ID,
		"revision", revision)

	for _, fn := range listeners {
		fn(state)
	}
	return nil
}

// Flush saves a pending edit now instead of waiting for the quiet period.
// It is a no-op when nothing is unsaved.
func (c *Container) Flush(ctx context.Context) error {
	c.autosave.Cancel()

	c.mu.Lock()
	dirty := c.revision != c.saved
	c.mu.Unlock()

	if !dirty {
		return nil
	}
	return c.save(ctx)
}

// Close stops the container. A pending autosave is dropped, not run; call
// Flush first to keep the last edits.
func (c *Container) Close() {
	c.autosave.Cancel()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.listeners = make(map[int]Listener)
}
