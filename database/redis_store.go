package database

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rpupo63/travel-planner/errs"
	"github.com/rpupo63/travel-planner/models"
)

const (
	draftKeyPrefix   = "travel:draft:"   // travel:draft:{draft_id}
	artworkKeyPrefix = "travel:artwork:" // travel:artwork:{artwork_id}
)

// RedisStore keeps drafts as JSON values whose expiry is the key TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Drafts() DraftRepo      { return redisDrafts{s} }
func (s *RedisStore) Artworks() ArtworkCache { return redisArtworks{s} }
func (s *RedisStore) Name() string           { return "redis" }

func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return errs.NewDatabaseError("ping", "redis", err)
	}
	return nil
}

// PurgeExpired is a no-op: Redis evicts expired keys itself.
func (s *RedisStore) PurgeExpired(context.Context, time.Time) (int, error) {
	return 0, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func draftKey(id string) string {
	return draftKeyPrefix + id
}

func artworkKey(id int) string {
	return artworkKeyPrefix + strconv.Itoa(id)
}

type redisDrafts struct {
	s *RedisStore
}

func (r redisDrafts) FindByID(ctx context.Context, id string) (*models.TripDraft, error) {
	data, err := r.s.client.Get(ctx, draftKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errs.NewNotFound("draft")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "draft", err)
	}

	var draft models.TripDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, errs.NewJSONUnmarshalError("find draft", err)
	}
	if draft.Artworks == nil {
		draft.Artworks = []models.ArtworkResult{}
	}
	return &draft, nil
}

func (r redisDrafts) Save(ctx context.Context, draft *models.TripDraft) error {
	if err := validateDraftID(draft.ID); err != nil {
		return err
	}
	draft.UpdatedAt = time.Now()

	data, err := json.Marshal(draft)
	if err != nil {
		return errs.NewJSONMarshalError("save draft", err)
	}
	if err := r.s.client.Set(ctx, draftKey(draft.ID), data, r.s.ttl).Err(); err != nil {
		return errs.NewDatabaseError("save", "draft", err)
	}
	return nil
}

func (r redisDrafts) Delete(ctx context.Context, id string) error {
	if err := r.s.client.Del(ctx, draftKey(id)).Err(); err != nil {
		return errs.NewDatabaseError("delete", "draft", err)
	}
	return nil
}

type redisArtworks struct {
	s *RedisStore
}

func (c redisArtworks) Put(ctx context.Context, artworks []models.ArtworkResult) error {
	if len(artworks) == 0 {
		return nil
	}

	pipe := c.s.client.Pipeline()
	for _, a := range artworks {
		data, err := json.Marshal(a)
		if err != nil {
			return errs.NewJSONMarshalError("cache artwork", err)
		}
		pipe.Set(ctx, artworkKey(a.ID), data, c.s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return errs.NewDatabaseError("cache", "artwork", err)
	}
	return nil
}

func (c redisArtworks) Get(ctx context.Context, id int) (*models.ArtworkResult, error) {
	data, err := c.s.client.Get(ctx, artworkKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errs.NewNotFound("artwork")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "artwork", err)
	}

	var artwork models.ArtworkResult
	if err := json.Unmarshal(data, &artwork); err != nil {
		return nil, errs.NewJSONUnmarshalError("find artwork", err)
	}
	return &artwork, nil
}
