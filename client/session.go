package client

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// AuthStorageFile is the session blob inside the state directory
const AuthStorageFile = "auth-storage.json"

// SessionSnapshot is an immutable view of the session state
type SessionSnapshot struct {
	User            *User
	AccessToken     string
	RefreshToken    string
	IsAuthenticated bool
	IsLoading       bool
	IsInitialized   bool
}

// persistedSession is the on-disk shape. Only isLoading is transient;
// everything else survives a restart (the bootstrapper recomputes
// isInitialized anyway).
type persistedSession struct {
	State struct {
		User            *User  `json:"user"`
		AccessToken     string `json:"accessToken"`
		RefreshToken    string `json:"refreshToken"`
		IsAuthenticated bool   `json:"isAuthenticated"`
		IsInitialized   bool   `json:"isInitialized"`
	} `json:"state"`
	Version int `json:"version"`
}

// SessionStore owns the login session: who is signed in, the token pair,
// and the loading/initialized flags the access guard reads. Login and
// logout update every field in one step, so observers never see a
// half-updated session.
type SessionStore struct {
	client *Client
	path   string

	mu              sync.RWMutex
	user            *User
	accessToken     string
	refreshToken    string
	isAuthenticated bool
	isLoading       bool
	isInitialized   bool
	subscribers     []func(SessionSnapshot)
}

// NewSessionStore creates a session store persisting under dir. The client
// is hooked so transparently rotated tokens are persisted too.
func NewSessionStore(c *Client, dir string) *SessionStore {
	s := &SessionStore{
		client: c,
		path:   filepath.Join(dir, AuthStorageFile),
	}

	c.OnTokensRotated(func(accessToken, refreshToken string) {
		s.mu.Lock()
		s.accessToken = accessToken
		s.refreshToken = refreshToken
		s.persistLocked()
		snap := s.snapshotLocked()
		subs := append([]func(SessionSnapshot){}, s.subscribers...)
		s.mu.Unlock()
		notify(subs, snap)
	})

	return s
}

// Subscribe registers a callback invoked on every state change
func (s *SessionStore) Subscribe(fn func(SessionSnapshot)) {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.mu.Unlock()
}

// Snapshot returns the current session state
func (s *SessionStore) Snapshot() SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Login authenticates and commits the whole session in one step
func (s *SessionStore) Login(ctx context.Context, usernameOrEmail, password string) error {
	s.setLoading(true)

	result, err := s.client.Login(ctx, usernameOrEmail, password)
	if err != nil {
		s.setLoading(false)
		return err
	}

	s.commit(result)
	return nil
}

// HisLogin runs the HIS-first login flow and commits the local session
func (s *SessionStore) HisLogin(ctx context.Context, username, password string) (*HisToken, error) {
	s.setLoading(true)

	result, err := s.client.HisDirectLogin(ctx, username, password)
	if err != nil {
		s.setLoading(false)
		return nil, err
	}

	s.commit(result.Auth)
	return result.HisToken, nil
}

// Logout revokes the session and clears all local state. The clear happens
// even when the server is unreachable.
func (s *SessionStore) Logout(ctx context.Context) error {
	err := s.client.Logout(ctx)

	s.mu.Lock()
	s.user = nil
	s.accessToken = ""
	s.refreshToken = ""
	s.isAuthenticated = false
	s.isLoading = false
	s.persistLocked()
	snap := s.snapshotLocked()
	subs := append([]func(SessionSnapshot){}, s.subscribers...)
	s.mu.Unlock()
	notify(subs, snap)

	return err
}

// commit installs a fresh auth result atomically
func (s *SessionStore) commit(result *AuthResult) {
	s.mu.Lock()
	s.user = result.User
	s.accessToken = result.AccessToken
	s.refreshToken = result.RefreshToken
	s.isAuthenticated = true
	s.isLoading = false
	s.persistLocked()
	snap := s.snapshotLocked()
	subs := append([]func(SessionSnapshot){}, s.subscribers...)
	s.mu.Unlock()
	notify(subs, snap)
}

func (s *SessionStore) setLoading(loading bool) {
	s.mu.Lock()
	s.isLoading = loading
	snap := s.snapshotLocked()
	subs := append([]func(SessionSnapshot){}, s.subscribers...)
	s.mu.Unlock()
	notify(subs, snap)
}

func (s *SessionStore) snapshotLocked() SessionSnapshot {
	return SessionSnapshot{
		User:            s.user,
		AccessToken:     s.accessToken,
		RefreshToken:    s.refreshToken,
		IsAuthenticated: s.isAuthenticated,
		IsLoading:       s.isLoading,
		IsInitialized:   s.isInitialized,
	}
}

// persistLocked writes the session blob. Callers hold the lock.
func (s *SessionStore) persistLocked() {
	var blob persistedSession
	blob.State.User = s.user
	blob.State.AccessToken = s.accessToken
	blob.State.RefreshToken = s.refreshToken
	blob.State.IsAuthenticated = s.isAuthenticated
	blob.State.IsInitialized = s.isInitialized

	raw, err := json.MarshalIndent(blob, "", "  ")
	if err != nil {
		return
	}
	_ = os.MkdirAll(filepath.Dir(s.path), 0o755)
	_ = os.WriteFile(s.path, raw, 0o600)
}

// loadPersisted reads the session blob from disk
func (s *SessionStore) loadPersisted() (*persistedSession, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}

	var blob persistedSession
	if err := json.Unmarshal(raw, &blob); err != nil {
		return nil, err
	}
	return &blob, nil
}

func notify(subs []func(SessionSnapshot), snap SessionSnapshot) {
	for _, fn := range subs {
		fn(snap)
	}
}
