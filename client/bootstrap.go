package client

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
)

// Legacy state files from before the single-blob format. Found keys are
// folded into the blob once, then removed.
const (
	legacyTokenFile        = "auth-token"
	legacyRefreshTokenFile = "auth-refresh-token"
	legacyUserFile         = "auth-user"
)

// Initialize restores the session from disk and validates it against the
// server. Any failure along the way leaves the store signed out: an
// unverifiable session is treated as no session. The store always ends up
// initialized, so guards stop showing the checking state.
func (s *SessionStore) Initialize(ctx context.Context) {
	defer func() {
		s.mu.Lock()
		s.isInitialized = true
		s.isLoading = false
		s.persistLocked()
		snap := s.snapshotLocked()
		subs := append([]func(SessionSnapshot){}, s.subscribers...)
		s.mu.Unlock()
		notify(subs, snap)
	}()

	s.migrateLegacyState()

	blob, err := s.loadPersisted()
	if err != nil || !blob.State.IsAuthenticated || blob.State.AccessToken == "" {
		s.clearSilently()
		return
	}

	// Tentatively install the persisted pair, then prove it still works
	s.client.SetTokens(blob.State.AccessToken, blob.State.RefreshToken)

	user, err := s.client.Profile(ctx)
	if err != nil {
		// Profile retries once through a token refresh; an error here
		// means the session is truly dead
		s.clearSilently()
		return
	}

	s.mu.Lock()
	s.user = user
	// The client may have rotated the pair while validating
	s.accessToken = s.client.AccessToken()
	s.refreshToken = s.client.currentRefreshToken()
	s.isAuthenticated = true
	s.persistLocked()
	s.mu.Unlock()
}

// migrateLegacyState folds pre-blob state files into the blob format.
// Runs once; the legacy files are removed afterwards.
func (s *SessionStore) migrateLegacyState() {
	dir := filepath.Dir(s.path)

	tokenPath := filepath.Join(dir, legacyTokenFile)
	refreshPath := filepath.Join(dir, legacyRefreshTokenFile)
	userPath := filepath.Join(dir, legacyUserFile)

	token, err := os.ReadFile(tokenPath)
	if err != nil || len(token) == 0 {
		return
	}

	// Never clobber an existing blob with legacy state
	if _, err := os.Stat(s.path); err == nil {
		s.removeLegacyFiles(tokenPath, refreshPath, userPath)
		return
	}

	var blob persistedSession
	blob.State.AccessToken = string(token)
	blob.State.IsAuthenticated = true

	if refresh, err := os.ReadFile(refreshPath); err == nil {
		blob.State.RefreshToken = string(refresh)
	}
	if rawUser, err := os.ReadFile(userPath); err == nil {
		var user User
		if err := json.Unmarshal(rawUser, &user); err == nil {
			blob.State.User = &user
		}
	}

	if raw, err := json.MarshalIndent(blob, "", "  "); err == nil {
		_ = os.WriteFile(s.path, raw, 0o600)
	}

	s.removeLegacyFiles(tokenPath, refreshPath, userPath)
}

func (s *SessionStore) removeLegacyFiles(paths ...string) {
	for _, p := range paths {
		_ = os.Remove(p)
	}
}

// clearSilently resets to signed-out without notifying subscribers; the
// deferred initialization notification covers it
func (s *SessionStore) clearSilently() {
	s.client.ClearTokens()

	s.mu.Lock()
	s.user = nil
	s.accessToken = ""
	s.refreshToken = ""
	s.isAuthenticated = false
	s.persistLocked()
	s.mu.Unlock()
}
