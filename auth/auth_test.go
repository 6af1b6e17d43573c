package auth

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"taskdeck/config"
	"taskdeck/log"
)

func TestMain(m *testing.M) {
	log.Initialize(false)
	code := m.Run()
	log.Close()
	os.Exit(code)
}

func TestTokenLifecycle(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg := config.DefaultConfig()

	assert.False(t, HasToken(cfg))

	// Logout without a token is not an error.
	assert.NoError(t, Logout(cfg))

	token := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(time.Hour),
	}
	require.NoError(t, saveToken(cfg.TokenPath(), token))
	assert.True(t, HasToken(cfg))

	// The token must be owner-only.
	info, err := os.Stat(cfg.TokenPath())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, err := os.ReadFile(cfg.TokenPath())
	require.NoError(t, err)
	var loaded oauth2.Token
	require.NoError(t, json.Unmarshal(data, &loaded))
	assert.Equal(t, "refresh", loaded.RefreshToken)

	require.NoError(t, Logout(cfg))
	assert.False(t, HasToken(cfg))
}

func TestRandomState(t *testing.T) {
	a, err := randomState()
	require.NoError(t, err)
	b, err := randomState()
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}
