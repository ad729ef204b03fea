package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/aura/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore implementation
// adheres to the defined interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Create and Load", func(t *testing.T) {
		created, err := store.Create(ctx, sessionID)
		require.NoError(t, err, "Create should not return error")
		assert.Equal(t, sessionID, created.ID)
		assert.Empty(t, created.Results)
		assert.Empty(t, created.Log)

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, sessionID, loaded.ID)
	})

	t.Run("Save and Load", func(t *testing.T) {
		session, err := store.Create(ctx, sessionID)
		require.NoError(t, err)
		session.CurrentElementID = "weight1"
		session.Results["is_fortwo"] = "нет"
		session.Append("нет", "Какой у вас вес?")

		require.NoError(t, store.Save(ctx, session))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "weight1", loaded.CurrentElementID)
		assert.Equal(t, "нет", loaded.Results["is_fortwo"])
		require.Len(t, loaded.Log, 1)
		assert.Equal(t, "Какой у вас вес?", loaded.Log[0].Alice)
	})

	t.Run("Load returns isolated copy", func(t *testing.T) {
		session, err := store.Create(ctx, sessionID)
		require.NoError(t, err)
		require.NoError(t, store.Save(ctx, session))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		loaded.Results["soft"] = "мягкий"

		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		_, leaked := again.Results["soft"]
		assert.False(t, leaked, "mutating a loaded session must not change the store without Save")
	})

	t.Run("Create replaces existing", func(t *testing.T) {
		session, err := store.Create(ctx, sessionID)
		require.NoError(t, err)
		session.Results["weight1"] = 80
		require.NoError(t, store.Save(ctx, session))

		fresh, err := store.Create(ctx, sessionID)
		require.NoError(t, err)
		assert.Empty(t, fresh.Results)

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Empty(t, loaded.Results)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		_, err := store.Create(ctx, sessionID)
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")

		assert.NoError(t, store.Delete(ctx, sessionID), "Deleting a missing session is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_, _ = store.Create(ctx, id1)
		_, _ = store.Create(ctx, id2)

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
