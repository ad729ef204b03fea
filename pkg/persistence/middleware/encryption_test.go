package middleware_test

import (
	"context"
	"crypto/rand"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/aura/pkg/adapters/memory"
	"github.com/aretw0/aura/pkg/domain"
	"github.com/aretw0/aura/pkg/persistence/middleware"
	"github.com/aretw0/aura/pkg/ports"
)

func generateKey(t *testing.T) []byte {
	t.Helper()
	k := make([]byte, 32)
	_, err := io.ReadFull(rand.Reader, k)
	require.NoError(t, err)
	return k
}

func encrypted(t *testing.T, next ports.SessionStore, cfg middleware.EncryptionConfig) ports.SessionStore {
	t.Helper()
	mw, err := middleware.NewEncryptionMiddleware(cfg)
	require.NoError(t, err)
	return middleware.Chain(next, mw)
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	ports.RunSessionStoreContract(t, encrypted(t, memory.NewStore(), middleware.EncryptionConfig{ActiveKey: generateKey(t)}))
}

func TestEncryptionMiddleware_HidesAnswersAndTranscript(t *testing.T) {
	underlying := memory.NewStore()
	store := encrypted(t, underlying, middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	ctx := context.Background()

	session := domain.NewSession("u1")
	session.CurrentElementID = "sent"
	session.Results["ask_phone"] = "+7 900 123-45-67"
	session.Append("+7 900 123-45-67", "Я передала ваш номер менеджеру.")
	require.NoError(t, store.Save(ctx, session))

	raw, err := underlying.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "sent", raw.CurrentElementID, "routing data stays readable")
	assert.NotContains(t, raw.Results, "ask_phone")
	assert.Contains(t, raw.Results, "__encrypted__")
	assert.Empty(t, raw.Log)

	loaded, err := store.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "+7 900 123-45-67", loaded.Results["ask_phone"])
	require.Len(t, loaded.Log, 1)
	assert.Equal(t, "+7 900 123-45-67", loaded.Log[0].User)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlying := memory.NewStore()
	oldKey, newKey := generateKey(t), generateKey(t)
	ctx := context.Background()

	before := encrypted(t, underlying, middleware.EncryptionConfig{ActiveKey: oldKey})
	s := domain.NewSession("u1")
	s.Results["soft"] = "жесткий"
	require.NoError(t, before.Save(ctx, s))

	rotated := encrypted(t, underlying, middleware.EncryptionConfig{ActiveKey: newKey, FallbackKeys: [][]byte{oldKey}})
	loaded, err := rotated.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "жесткий", loaded.Results["soft"])

	withoutOld := encrypted(t, underlying, middleware.EncryptionConfig{ActiveKey: newKey})
	_, err = withoutOld.Load(ctx, "u1")
	assert.ErrorContains(t, err, "failed to decrypt session")
}

func TestEncryptionMiddleware_RejectsPlainSessions(t *testing.T) {
	underlying := memory.NewStore()
	ctx := context.Background()
	_, err := underlying.Create(ctx, "plain")
	require.NoError(t, err)

	store := encrypted(t, underlying, middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	_, err = store.Load(ctx, "plain")
	assert.ErrorContains(t, err, "missing encrypted data envelope")

	_, err = store.Load(ctx, "absent")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestNewEncryptionMiddleware_KeySize(t *testing.T) {
	_, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short")})
	assert.ErrorIs(t, err, middleware.ErrKeySize)

	_, err = middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    generateKey(t),
		FallbackKeys: [][]byte{[]byte("short")},
	})
	assert.ErrorIs(t, err, middleware.ErrKeySize)
}
