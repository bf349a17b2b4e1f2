package credentialRepo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agendai/models"
)

func TestMemoryCredentialStorePutGet(t *testing.T) {
	store := NewMemoryCredentialStore()
	ctx := context.Background()

	_, ok, err := store.Get(ctx, models.DefaultEntityID)
	require.NoError(t, err)
	assert.False(t, ok)

	cred := models.Credential{
		EntityID:     models.DefaultEntityID,
		AccessToken:  "ya29.first",
		RefreshToken: "1//refresh",
		Expiry:       time.Now().Add(time.Hour),
	}
	require.NoError(t, store.Put(ctx, models.DefaultEntityID, cred))

	got, ok, err := store.Get(ctx, models.DefaultEntityID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, cred, got)
}

func TestMemoryCredentialStoreOverwrite(t *testing.T) {
	store := NewMemoryCredentialStore()
	ctx := context.Background()

	first := models.Credential{EntityID: "default", AccessToken: "ya29.first", RefreshToken: "1//r1"}
	require.NoError(t, store.Put(ctx, "default", first))

	// Re-authorization without a refresh token replaces the record
	// entirely, it does not merge with the old one.
	second := models.Credential{EntityID: "default", AccessToken: "ya29.second"}
	require.NoError(t, store.Put(ctx, "default", second))

	got, ok, err := store.Get(ctx, "default")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "ya29.second", got.AccessToken)
	assert.Empty(t, got.RefreshToken)
}

func TestMemoryCredentialStoreEntitiesIndependent(t *testing.T) {
	store := NewMemoryCredentialStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "clinic-a", models.Credential{EntityID: "clinic-a", AccessToken: "a"}))
	require.NoError(t, store.Put(ctx, "clinic-b", models.Credential{EntityID: "clinic-b", AccessToken: "b"}))

	a, ok, err := store.Get(ctx, "clinic-a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a", a.AccessToken)

	b, ok, err := store.Get(ctx, "clinic-b")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "b", b.AccessToken)
}
