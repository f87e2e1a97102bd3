package character

import (
	"context"
	"log/slog"
	"sync"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

const (
	usersCollection      = "users"
	charactersCollection = "characters"
)

type firestoreStore struct {
	client *firestore.Client
	owner  string
}

// FirestoreConfig contains configuration for the Firestore character store
type FirestoreConfig struct {
	Client *firestore.Client
	Owner  string
}

// Validate validates the FirestoreConfig
func (cfg *FirestoreConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	if cfg.Owner == "" {
		return errors.InvalidArgument(errOwnerEmpty)
	}
	return nil
}

// NewFirestore creates a store over users/{owner}/characters
func NewFirestore(cfg *FirestoreConfig) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &firestoreStore{
		client: cfg.Client,
		owner:  cfg.Owner,
	}, nil
}

// CharacterPath returns the document path of a character for an owner
func CharacterPath(owner, id string) string {
	return usersCollection + "/" + owner + "/" + charactersCollection + "/" + id
}

func (f *firestoreStore) collection() *firestore.CollectionRef {
	return f.client.Collection(usersCollection).Doc(f.owner).Collection(charactersCollection)
}

func (f *firestoreStore) Get(ctx context.Context, id string) (*dnd5e.Character, error) {
	if id == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	snap, err := f.collection().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFoundf("character with ID %s not found", id).
				WithMeta("character_id", id)
		}
		return nil, errors.Wrapf(errors.FromGRPCError(err), "failed to get character %s", id)
	}

	return decodeDocument(snap)
}

func (f *firestoreStore) List(ctx context.Context) ([]*dnd5e.Character, error) {
	iter := f.collection().Documents(ctx)
	defer iter.Stop()

	var docs []*firestore.DocumentSnapshot
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.FromGRPCError(err), "failed to list characters")
		}
		docs = append(docs, doc)
	}

	return decodeDocuments(ctx, docs), nil
}

func (f *firestoreStore) Put(ctx context.Context, char *dnd5e.Character) error {
	if char == nil {
		return errors.InvalidArgument(errCharacterNil)
	}
	if char.ID == "" {
		return errors.InvalidArgument(errCharacterIDEmpty)
	}

	tree, err := dnd5e.ToTree(char)
	if err != nil {
		return errors.Wrapf(err, "failed to encode character %s", char.ID)
	}

	if _, err := f.collection().Doc(char.ID).Set(ctx, tree); err != nil {
		return errors.Wrapf(errors.FromGRPCError(err), "failed to save character %s", char.ID)
	}

	return nil
}

// Delete succeeds for missing documents, which Firestore already allows
func (f *firestoreStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.InvalidArgument(errCharacterIDEmpty)
	}

	if _, err := f.collection().Doc(id).Delete(ctx); err != nil {
		return errors.Wrapf(errors.FromGRPCError(err), "failed to delete character %s", id)
	}

	return nil
}

func (f *firestoreStore) ReplaceAll(ctx context.Context, chars []*dnd5e.Character) error {
	trees := make(map[string]map[string]any, len(chars))
	for _, char := range chars {
		if char == nil || char.ID == "" {
			return errors.InvalidArgument(errCharacterIDEmpty)
		}
		tree, err := dnd5e.ToTree(char)
		if err != nil {
			return errors.Wrapf(err, "failed to encode character %s", char.ID)
		}
		trees[char.ID] = tree
	}

	if err := f.DeleteAll(ctx); err != nil {
		return err
	}
	if len(trees) == 0 {
		return nil
	}

	bw := f.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(trees))
	for id, tree := range trees {
		job, err := bw.Set(f.collection().Doc(id), tree)
		if err != nil {
			bw.End()
			return errors.Wrapf(err, "failed to queue character %s", id)
		}
		jobs = append(jobs, job)
	}
	bw.End()

	return collectJobErrors(jobs, "failed to write characters")
}

func (f *firestoreStore) DeleteAll(ctx context.Context) error {
	refs, err := f.collection().DocumentRefs(ctx).GetAll()
	if err != nil {
		return errors.Wrap(errors.FromGRPCError(err), "failed to list character documents")
	}
	if len(refs) == 0 {
		return nil
	}

	bw := f.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(refs))
	for _, ref := range refs {
		job, err := bw.Delete(ref)
		if err != nil {
			bw.End()
			return errors.Wrapf(err, "failed to queue delete of %s", ref.ID)
		}
		jobs = append(jobs, job)
	}
	bw.End()

	return collectJobErrors(jobs, "failed to delete characters")
}

func (f *firestoreStore) Subscribe(ctx context.Context, fn func([]*dnd5e.Character)) (func(), error) {
	if fn == nil {
		return nil, errors.InvalidArgument("listener cannot be nil")
	}

	subCtx, cancel := context.WithCancel(ctx)
	it := f.collection().Snapshots(subCtx)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			snap, err := it.Next()
			if err != nil {
				if code := status.Code(err); code != codes.Canceled && subCtx.Err() == nil {
					slog.ErrorContext(subCtx, "character subscription ended",
						"owner", f.owner,
						"error", err.Error())
				}
				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				slog.ErrorContext(subCtx, "failed to read character snapshot",
					"owner", f.owner,
					"error", err.Error())
				continue
			}
			fn(decodeDocuments(subCtx, docs))
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			it.Stop()
			wg.Wait()
		})
	}, nil
}

func decodeDocument(snap *firestore.DocumentSnapshot) (*dnd5e.Character, error) {
	data := snap.Data()
	if data == nil {
		return nil, errors.NotFoundf("character with ID %s not found", snap.Ref.ID)
	}

	// The document id is authoritative
	data["id"] = snap.Ref.ID

	char, err := dnd5e.HealMap(data)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "failed to decode character")
	}
	return char, nil
}

// decodeDocuments skips documents that cannot be decoded so one bad record
// does not hide the rest.
func decodeDocuments(ctx context.Context, docs []*firestore.DocumentSnapshot) []*dnd5e.Character {
	chars := make([]*dnd5e.Character, 0, len(docs))
	for _, doc := range docs {
		char, err := decodeDocument(doc)
		if err != nil {
			slog.WarnContext(ctx, "skipping unreadable character document",
				"document_id", doc.Ref.ID,
				"error", err.Error())
			continue
		}
		chars = append(chars, char)
	}
	sortCharacters(chars)
	return chars
}

func collectJobErrors(jobs []*firestore.BulkWriterJob, message string) error {
	var errs []error
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			errs = append(errs, errors.FromGRPCError(err))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.Wrap(errors.Join(errs...), message)
}
