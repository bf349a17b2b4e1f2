package credentialRepo

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"

	"agendai/models"
)

const credentialKeyPrefix = "calendar:cred:"

type redisCredentialStore struct {
	client *redis.Client
}

// NewRedisCredentialStore returns a CredentialStore backed by Redis.
// Credentials are stored as JSON without expiry; token refresh is
// handled by the OAuth client, not the store.
func NewRedisCredentialStore(client *redis.Client) CredentialStore {
	return &redisCredentialStore{client: client}
}

func (s *redisCredentialStore) Put(ctx context.Context, entityID string, cred models.Credential) error {
	b, err := json.Marshal(cred)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, credentialKeyPrefix+entityID, b, 0).Err()
}

func (s *redisCredentialStore) Get(ctx context.Context, entityID string) (models.Credential, bool, error) {
	data, err := s.client.Get(ctx, credentialKeyPrefix+entityID).Result()
	if err == redis.Nil {
		return models.Credential{}, false, nil
	}
	if err != nil {
		return models.Credential{}, false, err
	}
	var cred models.Credential
	if err := json.Unmarshal([]byte(data), &cred); err != nil {
		return models.Credential{}, false, err
	}
	return cred, true, nil
}
