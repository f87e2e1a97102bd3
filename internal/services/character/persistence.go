package character

import (
	"context"
	"log/slog"
	"sync"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-sheet/internal/pkg/idgen"
	charrepo "github.com/KirkDiggler/rpg-sheet/internal/repositories/character"
	"github.com/KirkDiggler/rpg-sheet/internal/repositories/blob"
	"github.com/KirkDiggler/rpg-sheet/internal/services/identity"
)

// RemoteFactory opens the remote store of an owner
type RemoteFactory func(owner string) (charrepo.Store, error)

// Config contains the dependencies of the persistence service
type Config struct {
	// Local is the on-device store, always required
	Local charrepo.Store
	// Remote is nil when no remote backend is configured
	Remote RemoteFactory
	// Identity defaults to a permanently anonymous provider
	Identity identity.Provider
	// Uploader receives inline images during migration; nil drops them
	Uploader blob.Uploader
	Clock    clock.Clock
	// IDGen issues permanent IDs for records saved with a temporary one
	IDGen idgen.Generator
	// TempIDGen issues IDs for unsaved records
	TempIDGen idgen.Generator
	// MigrateOnSignIn runs Migrate whenever an identity signs in
	MigrateOnSignIn bool
}

// Validate validates the Config
func (cfg *Config) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()
	if cfg.Local == nil {
		vb.RequiredField("local")
	}
	return vb.Build()
}

// Persistence implements Service over a local store and an optional
// per-owner remote store.
type Persistence struct {
	local     charrepo.Store
	remote    RemoteFactory
	identity  identity.Provider
	uploader  blob.Uploader
	clock     clock.Clock
	idGen     idgen.Generator
	tempIDGen idgen.Generator

	unsubscribe func()

	// stamps are issued under mu so two saves never share a timestamp
	mu        sync.Mutex
	lastStamp int64
}

var _ Service = (*Persistence)(nil)

// NewService creates the persistence service
func NewService(cfg *Config) (*Persistence, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Persistence{
		local:     cfg.Local,
		remote:    cfg.Remote,
		identity:  cfg.Identity,
		uploader:  cfg.Uploader,
		clock:     cfg.Clock,
		idGen:     cfg.IDGen,
		tempIDGen: cfg.TempIDGen,
	}

	if p.identity == nil {
		p.identity = identity.NewStatic(identity.Anonymous)
	}
	if p.clock == nil {
		p.clock = clock.New()
	}
	if p.idGen == nil {
		p.idGen = idgen.NewUUID("")
	}
	if p.tempIDGen == nil {
		p.tempIDGen = idgen.NewTemporary()
	}

	if cfg.MigrateOnSignIn {
		p.unsubscribe = p.identity.Subscribe(p.onIdentityChange)
	}

	return p, nil
}

// Close stops reacting to identity changes
func (p *Persistence) Close() {
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
}

func (p *Persistence) onIdentityChange(ctx context.Context, previous, current identity.Identity) {
	if current.IsAnonymous() || !previous.IsAnonymous() {
		return
	}

	out, err := p.Migrate(ctx, &MigrateInput{Owner: current.UID})
	if err != nil {
		slog.ErrorContext(ctx, "migration after sign-in failed",
			"error", err.Error())
		return
	}

	slog.InfoContext(ctx, "migrated local characters after sign-in",
		"total", out.Total,
		"migrated", out.Migrated,
		"skipped", out.Skipped,
		"failed", out.Failed,
		"images_dropped", out.ImagesDropped)
}

// activeStore picks the store for the current identity. Selection never
// fails: an unusable remote falls back to local.
func (p *Persistence) activeStore(ctx context.Context) charrepo.Store {
	current := p.identity.Current()
	if current.IsAnonymous() || p.remote == nil {
		return p.local
	}

	store, err := p.remote(current.UID)
	if err != nil {
		slog.WarnContext(ctx, "remote store unavailable, using local",
			"error", err.Error())
		return p.local
	}
	return store
}

// stamp returns a timestamp newer than both the clock and previous
func (p *Persistence) stamp(previous int64) int64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	next := max(clock.Millis(p.clock), previous+1, p.lastStamp+1)
	p.lastStamp = next
	return next
}

// CreateDefault returns a new unsaved record with a temporary ID
func (p *Persistence) CreateDefault(_ context.Context, _ *CreateDefaultInput) (*CreateDefaultOutput, error) {
	return &CreateDefaultOutput{
		Character: dnd5e.NewCharacter(p.tempIDGen.Generate(), clock.Millis(p.clock)),
	}, nil
}

// Get returns one healed record from the active store
func (p *Persistence) Get(ctx context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil || input.ID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}

	char, err := p.activeStore(ctx).Get(ctx, input.ID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get character %s", input.ID)
	}

	return &GetOutput{Character: char}, nil
}

// List returns every record in the active store
func (p *Persistence) List(ctx context.Context, _ *ListInput) (*ListOutput, error) {
	chars, err := p.activeStore(ctx).List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list characters")
	}

	return &ListOutput{Characters: chars}, nil
}

// Subscribe streams the active store's list until cancelled. The store is
// chosen once; callers resubscribe after an identity change.
func (p *Persistence) Subscribe(ctx context.Context, input *SubscribeInput) (*SubscribeOutput, error) {
	if input == nil || input.OnChange == nil {
		return nil, errors.InvalidArgument("change listener is required")
	}

	cancel, err := p.activeStore(ctx).Subscribe(ctx, input.OnChange)
	if err != nil {
		return nil, errors.Wrap(err, "failed to subscribe to characters")
	}

	return &SubscribeOutput{Cancel: cancel}, nil
}

// Save heals, stamps and upserts the record. A record still carrying a
// temporary ID is given a permanent one.
func (p *Persistence) Save(ctx context.Context, input *SaveInput) (*SaveOutput, error) {
	if input == nil || input.Character == nil {
		return nil, errors.InvalidArgument("character is required")
	}

	char, err := dnd5e.HealCharacter(input.Character)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to normalize character")
	}

	if char.ID == "" || idgen.IsTemporary(char.ID) {
		char.ID = p.idGen.Generate()
	}
	char.LastUpdated = p.stamp(input.Character.LastUpdated)

	if err := p.activeStore(ctx).Put(ctx, char); err != nil {
		return nil, errors.Wrapf(err, "failed to save character %s", char.ID)
	}

	slog.DebugContext(ctx, "saved character",
		"character_id", char.ID,
		"last_updated", char.LastUpdated)

	return &SaveOutput{Character: char}, nil
}

// Delete removes a record from the active store
func (p *Persistence) Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if input == nil || input.ID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}

	if err := p.activeStore(ctx).Delete(ctx, input.ID); err != nil {
		return nil, errors.Wrapf(err, "failed to delete character %s", input.ID)
	}

	return &DeleteOutput{}, nil
}

// ClearAll deletes every record in the active store
func (p *Persistence) ClearAll(ctx context.Context, _ *ClearAllInput) (*ClearAllOutput, error) {
	if err := p.activeStore(ctx).DeleteAll(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to clear characters")
	}

	slog.InfoContext(ctx, "cleared all characters")
	return &ClearAllOutput{}, nil
}
