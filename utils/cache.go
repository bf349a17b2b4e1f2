// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"agendai/config"
)

var (
	// SessionCacheClient backs the Redis session store.
	SessionCacheClient *redis.Client
	// CredentialCacheClient backs the Redis credential store.
	CredentialCacheClient *redis.Client
)

// InitSessionCache initializes the Redis client for conversation sessions
// (using DB from AppConfig).
func InitSessionCache() {
	SessionCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSessionDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := SessionCacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Sessions): %v", err)
	}
}

// GetSessionCacheClient returns the Redis client for sessions.
func GetSessionCacheClient() *redis.Client {
	if SessionCacheClient == nil {
		InitSessionCache()
	}
	return SessionCacheClient
}

// InitCredentialCache initializes the Redis client for calendar credentials
// (using DB from AppConfig).
func InitCredentialCache() {
	CredentialCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCredentialDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := CredentialCacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Credentials): %v", err)
	}
}

// GetCredentialCacheClient returns the Redis client for credentials.
func GetCredentialCacheClient() *redis.Client {
	if CredentialCacheClient == nil {
		InitCredentialCache()
	}
	return CredentialCacheClient
}
