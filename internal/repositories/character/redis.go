package character

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	redisclient "github.com/KirkDiggler/rpg-sheet/internal/redis"
)

const (
	characterKeyPrefix = "character:"
	ownerIndexPrefix   = "character:owner:"
	changesPrefix      = "character:changes:"
)

type redisStore struct {
	client redisclient.Client
	owner  string
}

// RedisConfig contains configuration for the Redis character store
type RedisConfig struct {
	Client redisclient.Client
	Owner  string
}

// Validate validates the RedisConfig
func (cfg *RedisConfig) Validate() error {
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

// NewRedis creates a Redis-backed store scoped to one owner
func NewRedis(cfg *RedisConfig) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &redisStore{
		client: cfg.Client,
		owner:  cfg.Owner,
	}, nil
}

func (r *redisStore) characterKey(id string) string {
	return characterKeyPrefix + r.owner + ":" + id
}

func (r *redisStore) indexKey() string {
	return ownerIndexPrefix + r.owner
}

func (r *redisStore) changesChannel() string {
	return changesPrefix + r.owner
}

func (r *redisStore) Get(ctx context.Context, id string) (*dnd5e.Character, error) {
	if id == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	result, err := r.client.Get(ctx, r.characterKey(id)).Result()
	if err != nil {
		if errors.Is(err, redisclient.Nil) {
			return nil, errors.NotFoundf("character with ID %s not found", id).
				WithMeta("character_id", id)
		}
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to get character")
	}

	char, err := dnd5e.Decode([]byte(result))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "failed to decode character")
	}

	return char, nil
}

func (r *redisStore) List(ctx context.Context) ([]*dnd5e.Character, error) {
	indexKey := r.indexKey()

	ids, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		slog.ErrorContext(ctx, "failed to get character IDs from Redis",
			"index_key", indexKey,
			"error", err.Error())
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to list characters")
	}

	characters := make([]*dnd5e.Character, 0, len(ids))
	for _, id := range ids {
		char, err := r.Get(ctx, id)
		if err != nil {
			// Index entries can outlive their record after a partial failure
			if errors.IsNotFound(err) {
				slog.WarnContext(ctx, "character not found, cleaning up index",
					"character_id", id,
					"index_key", indexKey)
				r.client.SRem(ctx, indexKey, id)
				continue
			}
			if errors.GetCode(err) == errors.CodeDataLoss {
				slog.ErrorContext(ctx, "skipping undecodable character",
					"character_id", id,
					"error", err.Error())
				continue
			}
			return nil, err
		}
		characters = append(characters, char)
	}

	sortCharacters(characters)

	slog.DebugContext(ctx, "listed characters",
		"owner", r.owner,
		"count", len(characters))

	return characters, nil
}

func (r *redisStore) Put(ctx context.Context, char *dnd5e.Character) error {
	if char == nil {
		return errors.InvalidArgument(errCharacterNil)
	}
	if char.ID == "" {
		return errors.InvalidArgument(errCharacterIDEmpty)
	}

	data, err := json.Marshal(char)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal character %s", char.ID)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.characterKey(char.ID), data, 0)
	pipe.SAdd(ctx, r.indexKey(), char.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return errors.WrapWithCode(err, errors.CodeUnavailable, "failed to save character")
	}

	r.notify(ctx)
	return nil
}

func (r *redisStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.InvalidArgument(errCharacterIDEmpty)
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.characterKey(id))
	pipe.SRem(ctx, r.indexKey(), id)

	if _, err := pipe.Exec(ctx); err != nil {
		return errors.WrapWithCode(err, errors.CodeUnavailable, "failed to delete character")
	}

	r.notify(ctx)
	return nil
}

func (r *redisStore) ReplaceAll(ctx context.Context, chars []*dnd5e.Character) error {
	payloads := make(map[string][]byte, len(chars))
	for _, char := range chars {
		if char == nil || char.ID == "" {
			return errors.InvalidArgument(errCharacterIDEmpty)
		}
		data, err := json.Marshal(char)
		if err != nil {
			return errors.Wrapf(err, "failed to marshal character %s", char.ID)
		}
		payloads[char.ID] = data
	}

	existing, err := r.client.SMembers(ctx, r.indexKey()).Result()
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeUnavailable, "failed to read character index")
	}

	pipe := r.client.TxPipeline()
	for _, id := range existing {
		pipe.Del(ctx, r.characterKey(id))
	}
	pipe.Del(ctx, r.indexKey())
	for id, data := range payloads {
		pipe.Set(ctx, r.characterKey(id), data, 0)
		pipe.SAdd(ctx, r.indexKey(), id)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return errors.WrapWithCode(err, errors.CodeUnavailable, "failed to replace characters")
	}

	r.notify(ctx)
	return nil
}

func (r *redisStore) DeleteAll(ctx context.Context) error {
	return r.ReplaceAll(ctx, nil)
}

// notify publishes a change marker. Subscribers re-read the full list, so
// the payload carries nothing and a lost publish only delays the next view.
func (r *redisStore) notify(ctx context.Context) {
	if err := r.client.Publish(ctx, r.changesChannel(), "changed").Err(); err != nil {
		slog.WarnContext(ctx, "failed to publish character change",
			"owner", r.owner,
			"error", err.Error())
	}
}

func (r *redisStore) Subscribe(ctx context.Context, fn func([]*dnd5e.Character)) (func(), error) {
	if fn == nil {
		return nil, errors.InvalidArgument("listener cannot be nil")
	}

	subCtx, cancel := context.WithCancel(ctx)
	pubsub := r.client.Subscribe(subCtx, r.changesChannel())

	// Wait for the subscription to be confirmed so no change is missed
	// between the initial list and the first message.
	if _, err := pubsub.Receive(subCtx); err != nil {
		cancel()
		_ = pubsub.Close()
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to subscribe to character changes")
	}

	deliver := func() {
		chars, err := r.List(subCtx)
		if err != nil {
			if subCtx.Err() == nil {
				slog.ErrorContext(subCtx, "failed to refresh characters for subscriber",
					"owner", r.owner,
					"error", err.Error())
			}
			return
		}
		fn(chars)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		deliver()

		messages := pubsub.Channel()
		for {
			select {
			case <-subCtx.Done():
				return
			case _, ok := <-messages:
				if !ok {
					return
				}
				deliver()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			_ = pubsub.Close()
			wg.Wait()
		})
	}, nil
}
