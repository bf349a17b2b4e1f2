package sessionRepo

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"

	"agendai/models"
)

const sessionKeyPrefix = "chat:session:"

type redisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore returns a SessionStore backed by Redis, so
// conversations survive process restarts. Sessions are stored as JSON
// without expiry.
func NewRedisSessionStore(client *redis.Client) SessionStore {
	return &redisSessionStore{client: client}
}

func (s *redisSessionStore) Get(ctx context.Context, senderID string) (models.Session, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+senderID).Result()
	if err == redis.Nil {
		return models.NewSession(), nil
	}
	if err != nil {
		return models.Session{}, err
	}
	var sess models.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return models.Session{}, err
	}
	return sess, nil
}

func (s *redisSessionStore) Set(ctx context.Context, senderID string, sess models.Session) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKeyPrefix+senderID, b, 0).Err()
}

func (s *redisSessionStore) Reset(ctx context.Context, senderID string) error {
	return s.client.Del(ctx, sessionKeyPrefix+senderID).Err()
}
