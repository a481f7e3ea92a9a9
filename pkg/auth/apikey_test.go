package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIKeyManager_Generate(t *testing.T) {
	manager := NewAPIKeyManager()

	key, err := manager.Generate("user123", "ci key", nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key.Key, "fk_"))
	assert.Equal(t, "user123", key.UserID)
	assert.Equal(t, "ci key", key.Name)
	assert.False(t, key.Revoked)
}

func TestAPIKeyManager_Verify(t *testing.T) {
	manager := NewAPIKeyManager()

	key, err := manager.Generate("user123", "ci key", nil)
	require.NoError(t, err)

	verified, err := manager.Verify(key.Key)
	require.NoError(t, err)
	assert.Equal(t, "user123", verified.UserID)

	_, err = manager.Verify("fk_nonexistent")
	assert.Error(t, err)
}

func TestAPIKeyManager_Verify_Expired(t *testing.T) {
	manager := NewAPIKeyManager()

	expired := time.Now().Add(-time.Hour)
	key, err := manager.Generate("user123", "old key", &expired)
	require.NoError(t, err)

	_, err = manager.Verify(key.Key)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func TestAPIKeyManager_Revoke(t *testing.T) {
	manager := NewAPIKeyManager()

	key, err := manager.Generate("user123", "ci key", nil)
	require.NoError(t, err)

	require.NoError(t, manager.Revoke(key.Key))

	_, err = manager.Verify(key.Key)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "revoked")

	assert.Error(t, manager.Revoke("fk_nonexistent"))
}

func TestAPIKeyManager_Delete(t *testing.T) {
	manager := NewAPIKeyManager()

	key, err := manager.Generate("user123", "ci key", nil)
	require.NoError(t, err)

	require.NoError(t, manager.Delete(key.Key))
	_, err = manager.Verify(key.Key)
	assert.Error(t, err)
}

func TestAPIKeyManager_ListAndCount(t *testing.T) {
	manager := NewAPIKeyManager()

	k1, err := manager.Generate("alice", "key one", nil)
	require.NoError(t, err)
	_, err = manager.Generate("alice", "key two", nil)
	require.NoError(t, err)
	_, err = manager.Generate("bob", "bob key", nil)
	require.NoError(t, err)

	assert.Len(t, manager.List("alice"), 2)
	assert.Len(t, manager.List("bob"), 1)
	assert.Equal(t, 3, manager.Count())

	require.NoError(t, manager.Revoke(k1.Key))
	assert.Equal(t, 2, manager.Count())
}
