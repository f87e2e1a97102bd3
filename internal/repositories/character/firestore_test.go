package character_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	character "github.com/KirkDiggler/rpg-sheet/internal/repositories/character"
)

const firestoreTestProject = "rpg-sheet-test"

func TestCharacterPath(t *testing.T) {
	assert.Equal(t, "users/uid-1/characters/char-9", character.CharacterPath("uid-1", "char-9"))
}

func TestNewFirestore_Validation(t *testing.T) {
	_, err := character.NewFirestore(nil)
	assert.True(t, errors.IsInvalidArgument(err))

	_, err = character.NewFirestore(&character.FirestoreConfig{Owner: "uid-1"})
	assert.True(t, errors.IsInvalidArgument(err))
}

// FirestoreStoreTestSuite runs against the Firestore emulator. Each test
// writes under its own owner so tests never see each other's documents.
type FirestoreStoreTestSuite struct {
	suite.Suite
	ctx    context.Context
	client *firestore.Client
	owner  string
	store  character.Store
}

func TestFirestoreStoreSuite(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	suite.Run(t, new(FirestoreStoreTestSuite))
}

func (s *FirestoreStoreTestSuite) SetupSuite() {
	s.ctx = context.Background()
	client, err := firestore.NewClient(s.ctx, firestoreTestProject)
	s.Require().NoError(err)
	s.client = client
}

func (s *FirestoreStoreTestSuite) TearDownSuite() {
	if s.client != nil {
		s.Require().NoError(s.client.Close())
	}
}

func (s *FirestoreStoreTestSuite) SetupTest() {
	s.owner = "owner-" + uuid.NewString()
	store, err := character.NewFirestore(&character.FirestoreConfig{
		Client: s.client,
		Owner:  s.owner,
	})
	s.Require().NoError(err)
	s.store = store
}

func (s *FirestoreStoreTestSuite) TestPutThenGet() {
	char := dnd5e.NewCharacter(testCharID, 1234)
	char.Name = "Mira"
	char.Level = 4

	s.Require().NoError(s.store.Put(s.ctx, char))

	got, err := s.store.Get(s.ctx, testCharID)
	s.Require().NoError(err)
	s.Equal(testCharID, got.ID)
	s.Equal("Mira", got.Name)
	s.Equal(4, got.Level)
	s.Equal(int64(1234), got.LastUpdated)
	s.Len(got.Skills, len(char.Skills))
}

func (s *FirestoreStoreTestSuite) TestGet_NotFound() {
	_, err := s.store.Get(s.ctx, "missing")
	s.True(errors.IsNotFound(err))
	s.Equal("missing", errors.GetMeta(err)["character_id"])

	_, err = s.store.Get(s.ctx, "")
	s.True(errors.IsInvalidArgument(err))
}

func (s *FirestoreStoreTestSuite) TestGet_DocumentIDIsAuthoritative() {
	_, err := s.client.Doc(character.CharacterPath(s.owner, "real-id")).Set(s.ctx, map[string]any{
		"id":   "stale-id",
		"name": "Renamed Doc",
	})
	s.Require().NoError(err)

	got, err := s.store.Get(s.ctx, "real-id")
	s.Require().NoError(err)
	s.Equal("real-id", got.ID)
	s.Equal("Renamed Doc", got.Name)
	s.Equal(dnd5e.MinLevel, got.Level, "missing fields are healed")
}

func (s *FirestoreStoreTestSuite) TestList_SortedAndSkipsCorrupt() {
	s.Require().NoError(s.store.Put(s.ctx, dnd5e.NewCharacter("a", 100)))
	s.Require().NoError(s.store.Put(s.ctx, dnd5e.NewCharacter("b", 300)))

	_, err := s.client.Doc(character.CharacterPath(s.owner, "bad")).Set(s.ctx, map[string]any{
		"level": "very high",
	})
	s.Require().NoError(err)

	chars, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(chars, 2)
	s.Equal("b", chars[0].ID)
	s.Equal("a", chars[1].ID)

	_, err = s.store.Get(s.ctx, "bad")
	s.Equal(errors.CodeDataLoss, errors.GetCode(err))
}

func (s *FirestoreStoreTestSuite) TestList_ScopedToOwner() {
	other, err := character.NewFirestore(&character.FirestoreConfig{
		Client: s.client,
		Owner:  s.owner + "-other",
	})
	s.Require().NoError(err)
	s.Require().NoError(other.Put(s.ctx, dnd5e.NewCharacter("theirs", 1)))

	chars, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Empty(chars)
}

func (s *FirestoreStoreTestSuite) TestDelete() {
	s.Require().NoError(s.store.Put(s.ctx, dnd5e.NewCharacter(testCharID, 1)))
	s.Require().NoError(s.store.Delete(s.ctx, testCharID))

	_, err := s.store.Get(s.ctx, testCharID)
	s.True(errors.IsNotFound(err))

	s.Require().NoError(s.store.Delete(s.ctx, testCharID), "missing id is a no-op")
	s.True(errors.IsInvalidArgument(s.store.Delete(s.ctx, "")))
}

func (s *FirestoreStoreTestSuite) TestReplaceAllAndDeleteAll() {
	s.Require().NoError(s.store.Put(s.ctx, dnd5e.NewCharacter("old", 1)))

	s.Require().NoError(s.store.ReplaceAll(s.ctx, []*dnd5e.Character{
		dnd5e.NewCharacter("new-1", 2),
		dnd5e.NewCharacter("new-2", 3),
	}))

	chars, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(chars, 2)
	s.Equal("new-2", chars[0].ID)
	s.Equal("new-1", chars[1].ID)

	_, err = s.store.Get(s.ctx, "old")
	s.True(errors.IsNotFound(err))

	s.Require().NoError(s.store.DeleteAll(s.ctx))
	chars, err = s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Empty(chars)

	s.Require().NoError(s.store.DeleteAll(s.ctx), "clearing an empty collection is a no-op")
	s.True(errors.IsInvalidArgument(s.store.ReplaceAll(s.ctx, []*dnd5e.Character{{}})))
}

func (s *FirestoreStoreTestSuite) TestSubscribe() {
	var (
		mu    sync.Mutex
		views [][]*dnd5e.Character
	)
	cancel, err := s.store.Subscribe(s.ctx, func(chars []*dnd5e.Character) {
		mu.Lock()
		defer mu.Unlock()
		views = append(views, chars)
	})
	s.Require().NoError(err)
	defer cancel()

	s.Eventually(func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(views) >= 1
	}, 5*time.Second, 20*time.Millisecond, "initial snapshot delivered")

	s.Require().NoError(s.store.Put(s.ctx, dnd5e.NewCharacter(testCharID, 1)))

	s.Eventually(func() bool {
		mu.Lock()
		defer mu.Unlock()
		last := views[len(views)-1]
		return len(last) == 1 && last[0].ID == testCharID
	}, 5*time.Second, 20*time.Millisecond, "change delivered")

	cancel()
	cancel()

	mu.Lock()
	count := len(views)
	mu.Unlock()

	s.Require().NoError(s.store.Put(s.ctx, dnd5e.NewCharacter("after-cancel", 2)))
	time.Sleep(200 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	s.Equal(count, len(views), "no delivery after cancel")

	_, err = s.store.Subscribe(s.ctx, nil)
	s.True(errors.IsInvalidArgument(err))
}
