package character_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/redis"
	character "github.com/KirkDiggler/rpg-sheet/internal/repositories/character"
	"github.com/KirkDiggler/rpg-sheet/internal/testutils"
)

const (
	testOwner    = "user_456"
	testCharID   = "char_123"
	testCharKey  = "character:user_456:char_123"
	testIndexKey = "character:owner:user_456"
)

type RedisStoreTestSuite struct {
	suite.Suite
	client  redis.Client
	mr      *miniredis.Miniredis
	cleanup func()
	store   character.Store
	ctx     context.Context
}

func (s *RedisStoreTestSuite) SetupTest() {
	s.client, s.mr, s.cleanup = testutils.CreateTestRedisServer(s.T(), nil)
	store, err := character.NewRedis(&character.RedisConfig{
		Client: s.client,
		Owner:  testOwner,
	})
	s.Require().NoError(err)
	s.store = store
	s.ctx = context.Background()
}

func (s *RedisStoreTestSuite) TearDownTest() {
	s.cleanup()
}

func TestRedisStoreSuite(t *testing.T) {
	suite.Run(t, new(RedisStoreTestSuite))
}

func (s *RedisStoreTestSuite) TestNewRedis_Validation() {
	_, err := character.NewRedis(nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = character.NewRedis(&character.RedisConfig{Client: s.client})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RedisStoreTestSuite) TestPutThenGet() {
	char := dnd5e.NewCharacter(testCharID, 1000)
	char.Name = "Thorin Oakenshield"

	s.Require().NoError(s.store.Put(s.ctx, char))

	s.True(s.mr.Exists(testCharKey))
	members, err := s.mr.Members(testIndexKey)
	s.Require().NoError(err)
	s.Equal([]string{testCharID}, members)

	got, err := s.store.Get(s.ctx, testCharID)
	s.Require().NoError(err)
	s.Equal(char, got)
}

func (s *RedisStoreTestSuite) TestGet_NotFound() {
	_, err := s.store.Get(s.ctx, "missing")
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
	s.Equal("missing", errors.GetMeta(err)["character_id"])
}

func (s *RedisStoreTestSuite) TestGet_HealsOldRecord() {
	old := map[string]any{"id": testCharID, "name": "Old", "level": 3}
	data, err := json.Marshal(old)
	s.Require().NoError(err)
	s.Require().NoError(s.mr.Set(testCharKey, string(data)))

	got, err := s.store.Get(s.ctx, testCharID)
	s.Require().NoError(err)
	s.Equal("Old", got.Name)
	s.Equal(3, got.Level)
	s.Equal(10, got.UnarmoredDefense.Base)
	s.Len(got.Skills, len(dnd5e.StandardSkills()))
}

func (s *RedisStoreTestSuite) TestList_SortedAndCleansIndex() {
	s.Require().NoError(s.store.Put(s.ctx, dnd5e.NewCharacter("a", 100)))
	s.Require().NoError(s.store.Put(s.ctx, dnd5e.NewCharacter("b", 300)))
	s.Require().NoError(s.store.Put(s.ctx, dnd5e.NewCharacter("c", 200)))
	_, err := s.mr.SAdd(testIndexKey, "ghost")
	s.Require().NoError(err)

	chars, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(chars, 3)
	s.Equal("b", chars[0].ID)
	s.Equal("c", chars[1].ID)
	s.Equal("a", chars[2].ID)

	isMember, err := s.mr.SIsMember(testIndexKey, "ghost")
	s.Require().NoError(err)
	s.False(isMember)
}

func (s *RedisStoreTestSuite) TestList_SkipsUndecodable() {
	s.Require().NoError(s.store.Put(s.ctx, dnd5e.NewCharacter("good", 100)))
	s.Require().NoError(s.mr.Set("character:user_456:bad", "{not json"))
	_, err := s.mr.SAdd(testIndexKey, "bad")
	s.Require().NoError(err)

	chars, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(chars, 1)
	s.Equal("good", chars[0].ID)

	_, err = s.store.Get(s.ctx, "bad")
	s.Equal(errors.CodeDataLoss, errors.GetCode(err))
}

func (s *RedisStoreTestSuite) TestList_ScopedToOwner() {
	other, err := character.NewRedis(&character.RedisConfig{Client: s.client, Owner: "someone_else"})
	s.Require().NoError(err)
	s.Require().NoError(other.Put(s.ctx, dnd5e.NewCharacter("theirs", 1)))

	chars, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Empty(chars)
}

func (s *RedisStoreTestSuite) TestDelete() {
	s.Require().NoError(s.store.Put(s.ctx, dnd5e.NewCharacter(testCharID, 1)))
	s.Require().NoError(s.store.Delete(s.ctx, testCharID))
	s.False(s.mr.Exists(testCharKey))

	s.Require().NoError(s.store.Delete(s.ctx, testCharID), "missing id is a no-op")
	s.True(errors.IsInvalidArgument(s.store.Delete(s.ctx, "")))
}

func (s *RedisStoreTestSuite) TestReplaceAllAndDeleteAll() {
	s.Require().NoError(s.store.Put(s.ctx, dnd5e.NewCharacter("old", 1)))

	s.Require().NoError(s.store.ReplaceAll(s.ctx, []*dnd5e.Character{
		dnd5e.NewCharacter("new-1", 2),
		dnd5e.NewCharacter("new-2", 3),
	}))

	chars, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(chars, 2)
	s.Equal("new-2", chars[0].ID)

	_, err = s.store.Get(s.ctx, "old")
	s.True(errors.IsNotFound(err))

	s.Require().NoError(s.store.DeleteAll(s.ctx))
	chars, err = s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Empty(chars)
}

func (s *RedisStoreTestSuite) TestPut_Validation() {
	s.True(errors.IsInvalidArgument(s.store.Put(s.ctx, nil)))
	s.True(errors.IsInvalidArgument(s.store.Put(s.ctx, &dnd5e.Character{})))
	s.True(errors.IsInvalidArgument(s.store.ReplaceAll(s.ctx, []*dnd5e.Character{{}})))
}

func (s *RedisStoreTestSuite) TestSubscribe() {
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
		return len(views) == 1
	}, time.Second, 10*time.Millisecond, "initial list delivered")

	s.Require().NoError(s.store.Put(s.ctx, dnd5e.NewCharacter(testCharID, 1)))

	s.Eventually(func() bool {
		mu.Lock()
		defer mu.Unlock()
		last := views[len(views)-1]
		return len(last) == 1 && last[0].ID == testCharID
	}, time.Second, 10*time.Millisecond, "change delivered")

	cancel()
	cancel()

	mu.Lock()
	count := len(views)
	mu.Unlock()

	s.Require().NoError(s.store.Put(s.ctx, dnd5e.NewCharacter("after-cancel", 2)))
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	s.Equal(count, len(views), "no delivery after cancel")
}
