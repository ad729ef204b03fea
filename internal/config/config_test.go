package config_test

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/aura/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.False(t, cfg.Debug)
	assert.Equal(t, config.StoreMemory, cfg.Store)
	assert.Equal(t, 465, cfg.SMTPPort)
	assert.Equal(t, 20*time.Second, cfg.SMTPTimeout)
	assert.Equal(t, 24*time.Hour, cfg.RedisTTL)
	assert.Equal(t, config.PolicyRestart, cfg.UnknownSession)
	assert.False(t, cfg.SMTPEnabled())
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DEBUG", "true")
	t.Setenv("SMTP_SERVER", "smtp.example.com")
	t.Setenv("SMTP_LOGIN", "bot@example.com")
	t.Setenv("TO_MAIL", "manager@example.com")
	t.Setenv("SMTP_TIMEOUT", "5s")
	t.Setenv("STORE", "redis")

	cfg, err := config.Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.True(t, cfg.Debug)
	assert.True(t, cfg.SMTPEnabled())
	assert.Equal(t, "manager@example.com", cfg.ToMail)
	assert.Equal(t, 5*time.Second, cfg.SMTPTimeout)
	assert.Equal(t, config.StoreRedis, cfg.Store)
}

func TestLoad_FileAndFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aura.yaml")
	require.NoError(t, os.WriteFile(path, []byte("PORT: 7000\nLOG_LEVEL: debug\nREDIS_TTL: 1h\n"), 0o600))

	cfg, err := config.Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, time.Hour, cfg.RedisTTL)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("port", 8080, "")
	flags.Bool("debug", false, "")
	require.NoError(t, flags.Parse([]string{"--port", "7100"}))

	cfg, err = config.Load(path, flags)
	require.NoError(t, err)
	assert.Equal(t, 7100, cfg.Port, "flags win over the file")
	assert.False(t, cfg.Debug)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Setenv("STORE", "postgres")
	t.Setenv("UNKNOWN_SESSION", "ignore")
	t.Setenv("SMTP_SERVER", "smtp.example.com")

	_, err := config.Load("", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE")
	assert.Contains(t, err.Error(), "UNKNOWN_SESSION")
	assert.Contains(t, err.Error(), "TO_MAIL is required")
	assert.Contains(t, err.Error(), "FROM_EMAIL or SMTP_LOGIN")
}

func TestEncryptionKeys(t *testing.T) {
	key := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{7}, 32))

	cfg := &config.Config{}
	active, fallback, err := cfg.EncryptionKeys()
	require.NoError(t, err)
	assert.Nil(t, active)
	assert.Nil(t, fallback)

	cfg = &config.Config{SessionKey: key, SessionPreviousKey: key}
	active, fallback, err = cfg.EncryptionKeys()
	require.NoError(t, err)
	assert.Len(t, active, 32)
	assert.Len(t, fallback, 1)

	cfg = &config.Config{SessionKey: base64.StdEncoding.EncodeToString([]byte("short"))}
	_, _, err = cfg.EncryptionKeys()
	assert.ErrorContains(t, err, "32 bytes")

	cfg = &config.Config{SessionPreviousKey: key}
	_, _, err = cfg.EncryptionKeys()
	assert.ErrorContains(t, err, "requires SESSION_KEY")
}
