package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loginPayload = `{"success":true,"data":{"user":{"id":"u1","username":"admin","email":"admin@labis.local","role":"ADMIN","isActive":true},"accessToken":"access-1","refreshToken":"refresh-1","expiresIn":900}}`

func readSessionBlob(t *testing.T, dir string) persistedSession {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join(dir, AuthStorageFile))
	require.NoError(t, err)

	var blob persistedSession
	require.NoError(t, json.Unmarshal(raw, &blob))
	return blob
}

func TestLoginCommitsSessionAtomically(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(loginPayload))
	}))
	defer server.Close()

	dir := t.TempDir()
	c := New(server.URL)
	store := NewSessionStore(c, dir)

	// Every observed snapshot must be all-or-nothing: either fully signed
	// in or fully signed out, never tokens without a user
	store.Subscribe(func(snap SessionSnapshot) {
		if snap.AccessToken != "" {
			assert.NotNil(t, snap.User, "token visible without user")
			assert.True(t, snap.IsAuthenticated)
		}
	})

	require.NoError(t, store.Login(context.Background(), "admin", "admin@123456"))

	snap := store.Snapshot()
	assert.Equal(t, "admin", snap.User.Username)
	assert.Equal(t, "access-1", snap.AccessToken)
	assert.Equal(t, "refresh-1", snap.RefreshToken)
	assert.True(t, snap.IsAuthenticated)
	assert.False(t, snap.IsLoading)

	blob := readSessionBlob(t, dir)
	assert.Equal(t, "access-1", blob.State.AccessToken)
	assert.True(t, blob.State.IsAuthenticated)
}

func TestLoginFailureLeavesSessionSignedOut(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"error":"Invalid username/email or password"}`))
	}))
	defer server.Close()

	store := NewSessionStore(New(server.URL), t.TempDir())

	err := store.Login(context.Background(), "admin", "wrong")
	require.Error(t, err)
	assert.EqualError(t, err, "Invalid username/email or password")

	snap := store.Snapshot()
	assert.False(t, snap.IsAuthenticated)
	assert.False(t, snap.IsLoading, "loading resets after a failed login")
	assert.Nil(t, snap.User)
}

func TestLogoutClearsSessionEvenWhenServerFails(t *testing.T) {
	login := true
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if login {
			login = false
			_, _ = w.Write([]byte(loginPayload))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"error":"boom"}`))
	}))
	defer server.Close()

	dir := t.TempDir()
	c := New(server.URL)
	store := NewSessionStore(c, dir)

	require.NoError(t, store.Login(context.Background(), "admin", "admin@123456"))

	err := store.Logout(context.Background())
	assert.Error(t, err, "the server failure is reported")

	snap := store.Snapshot()
	assert.False(t, snap.IsAuthenticated)
	assert.Nil(t, snap.User)
	assert.Empty(t, snap.AccessToken)
	assert.Empty(t, c.AccessToken(), "the gateway token is gone too")

	blob := readSessionBlob(t, dir)
	assert.False(t, blob.State.IsAuthenticated)
	assert.Empty(t, blob.State.AccessToken)
}

func TestPersistedBlobCarriesDurableFieldsOnly(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(loginPayload))
	}))
	defer server.Close()

	dir := t.TempDir()
	store := NewSessionStore(New(server.URL), dir)
	require.NoError(t, store.Login(context.Background(), "admin", "admin@123456"))

	raw, err := os.ReadFile(filepath.Join(dir, AuthStorageFile))
	require.NoError(t, err)

	var generic map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &generic))
	state := generic["state"].(map[string]interface{})
	_, hasLoading := state["isLoading"]
	assert.False(t, hasLoading, "loading is transient")
	_, hasInitialized := state["isInitialized"]
	assert.True(t, hasInitialized, "the initialized flag is part of the blob")
}

func TestInitializeRestoresValidSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/profile", r.URL.Path)
		require.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":"u1","username":"admin","role":"ADMIN","isActive":true}}`))
	}))
	defer server.Close()

	dir := t.TempDir()

	// Seed a persisted session from a previous run
	first := NewSessionStore(New(server.URL), dir)
	first.mu.Lock()
	first.user = &User{ID: "u1", Username: "admin"}
	first.accessToken = "access-1"
	first.refreshToken = "refresh-1"
	first.isAuthenticated = true
	first.persistLocked()
	first.mu.Unlock()

	c := New(server.URL)
	store := NewSessionStore(c, dir)
	store.Initialize(context.Background())

	snap := store.Snapshot()
	assert.True(t, snap.IsInitialized)
	assert.True(t, snap.IsAuthenticated)
	assert.Equal(t, "admin", snap.User.Username)
	assert.Equal(t, "access-1", c.AccessToken())

	blob := readSessionBlob(t, dir)
	assert.True(t, blob.State.IsInitialized, "the finished bootstrap is persisted")
}

func TestInitializeFailsClosedOnDeadSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"error":"Invalid access token"}`))
	}))
	defer server.Close()

	dir := t.TempDir()

	seed := NewSessionStore(New(server.URL), dir)
	seed.mu.Lock()
	seed.user = &User{ID: "u1", Username: "admin"}
	seed.accessToken = "dead"
	seed.refreshToken = "also-dead"
	seed.isAuthenticated = true
	seed.persistLocked()
	seed.mu.Unlock()

	c := New(server.URL)
	store := NewSessionStore(c, dir)
	store.Initialize(context.Background())

	snap := store.Snapshot()
	assert.True(t, snap.IsInitialized, "initialization completes either way")
	assert.False(t, snap.IsAuthenticated, "an unverifiable session is no session")
	assert.Nil(t, snap.User)
	assert.Empty(t, c.AccessToken())

	blob := readSessionBlob(t, dir)
	assert.False(t, blob.State.IsAuthenticated, "the dead session is purged from disk")
}

func TestInitializeWithNoPersistedState(t *testing.T) {
	store := NewSessionStore(New("http://localhost:1"), t.TempDir())
	store.Initialize(context.Background())

	snap := store.Snapshot()
	assert.True(t, snap.IsInitialized)
	assert.False(t, snap.IsAuthenticated)
}

func TestInitializeMigratesLegacyStateFiles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer legacy-access", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":"u1","username":"legacy","role":"USER","isActive":true}}`))
	}))
	defer server.Close()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, legacyTokenFile), []byte("legacy-access"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, legacyRefreshTokenFile), []byte("legacy-refresh"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, legacyUserFile), []byte(`{"id":"u1","username":"legacy"}`), 0o600))

	store := NewSessionStore(New(server.URL), dir)
	store.Initialize(context.Background())

	snap := store.Snapshot()
	assert.True(t, snap.IsAuthenticated)
	assert.Equal(t, "legacy", snap.User.Username)

	// The raw key files are gone; only the blob remains
	_, err := os.Stat(filepath.Join(dir, legacyTokenFile))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, legacyRefreshTokenFile))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, legacyUserFile))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, AuthStorageFile))
	assert.NoError(t, err)
}

func TestMigrationNeverClobbersExistingBlob(t *testing.T) {
	dir := t.TempDir()

	seed := NewSessionStore(New("http://localhost:1"), dir)
	seed.mu.Lock()
	seed.accessToken = "blob-access"
	seed.isAuthenticated = true
	seed.persistLocked()
	seed.mu.Unlock()

	require.NoError(t, os.WriteFile(filepath.Join(dir, legacyTokenFile), []byte("legacy-access"), 0o600))

	store := NewSessionStore(New("http://localhost:1"), dir)
	store.migrateLegacyState()

	blob := readSessionBlob(t, dir)
	assert.Equal(t, "blob-access", blob.State.AccessToken, "blob state wins over legacy keys")

	_, err := os.Stat(filepath.Join(dir, legacyTokenFile))
	assert.True(t, os.IsNotExist(err), "legacy files are still cleaned up")
}
