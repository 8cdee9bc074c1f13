package client

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// HisStorageFile is the HIS session blob inside the state directory
const HisStorageFile = "his-storage.json"

// DefaultHisPollInterval is how often the HIS token status is refreshed
const DefaultHisPollInterval = 60 * time.Second

// HisSnapshot is an immutable view of the HIS session state
type HisSnapshot struct {
	Token     *HisToken
	Status    *HisTokenStatus
	LastError string
}

// persistedHis is the on-disk shape of the HIS store
type persistedHis struct {
	State struct {
		Token *HisToken `json:"token"`
	} `json:"state"`
	Version int `json:"version"`
}

// HisStore tracks the external HIS session alongside the local one. It
// persists the held token and polls its status so expiry warnings surface
// before the token dies.
type HisStore struct {
	client *Client
	path   string

	mu          sync.RWMutex
	token       *HisToken
	status      *HisTokenStatus
	lastError   string
	subscribers []func(HisSnapshot)
}

// NewHisStore creates an HIS store persisting under dir
func NewHisStore(c *Client, dir string) *HisStore {
	return &HisStore{
		client: c,
		path:   filepath.Join(dir, HisStorageFile),
	}
}

// Subscribe registers a callback invoked on every state change
func (h *HisStore) Subscribe(fn func(HisSnapshot)) {
	h.mu.Lock()
	h.subscribers = append(h.subscribers, fn)
	h.mu.Unlock()
}

// Snapshot returns the current HIS session state
func (h *HisStore) Snapshot() HisSnapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return HisSnapshot{Token: h.token, Status: h.status, LastError: h.lastError}
}

// Restore loads the persisted HIS token from disk
func (h *HisStore) Restore() {
	raw, err := os.ReadFile(h.path)
	if err != nil {
		return
	}

	var blob persistedHis
	if err := json.Unmarshal(raw, &blob); err != nil || blob.State.Token == nil {
		return
	}

	h.set(blob.State.Token, nil, "")
}

// Login opens an HIS session with the current user's stored credentials
func (h *HisStore) Login(ctx context.Context) error {
	token, err := h.client.HisLogin(ctx)
	if err != nil {
		h.setError(err)
		return err
	}

	h.set(token, nil, "")
	return nil
}

// Renew exchanges the renew code for a fresh token
func (h *HisStore) Renew(ctx context.Context) error {
	token, err := h.client.HisRenewToken(ctx)
	if err != nil {
		h.setError(err)
		return err
	}

	h.set(token, nil, "")
	return nil
}

// RefreshStatus polls the server for the token's expiry bookkeeping
func (h *HisStore) RefreshStatus(ctx context.Context) (*HisTokenStatus, error) {
	status, err := h.client.HisTokenStatus(ctx)
	if err != nil {
		if IsNotFound(err) {
			// No stored session anymore; drop ours too
			h.set(nil, nil, "")
			return nil, err
		}
		h.setError(err)
		return nil, err
	}

	h.mu.Lock()
	h.status = status
	h.lastError = ""
	h.persistLocked()
	snap := HisSnapshot{Token: h.token, Status: h.status}
	subs := append([]func(HisSnapshot){}, h.subscribers...)
	h.mu.Unlock()
	hisNotify(subs, snap)

	return status, nil
}

// Logout closes the HIS session and clears local state regardless of the
// server outcome
func (h *HisStore) Logout(ctx context.Context) error {
	var err error
	h.mu.RLock()
	token := h.token
	h.mu.RUnlock()

	if token != nil {
		err = h.client.HisLogout(ctx, token.UserLoginName)
	}

	h.set(nil, nil, "")
	return err
}

// StartPolling refreshes the token status on an interval until the context
// is cancelled. An interval <= 0 uses the default minute.
func (h *HisStore) StartPolling(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultHisPollInterval
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				h.mu.RLock()
				hasToken := h.token != nil
				h.mu.RUnlock()
				if hasToken {
					_, _ = h.RefreshStatus(ctx)
				}
			}
		}
	}()
}

func (h *HisStore) set(token *HisToken, status *HisTokenStatus, lastError string) {
	h.mu.Lock()
	h.token = token
	h.status = status
	h.lastError = lastError
	h.persistLocked()
	snap := HisSnapshot{Token: h.token, Status: h.status, LastError: h.lastError}
	subs := append([]func(HisSnapshot){}, h.subscribers...)
	h.mu.Unlock()
	hisNotify(subs, snap)
}

func (h *HisStore) setError(err error) {
	h.mu.Lock()
	h.lastError = err.Error()
	snap := HisSnapshot{Token: h.token, Status: h.status, LastError: h.lastError}
	subs := append([]func(HisSnapshot){}, h.subscribers...)
	h.mu.Unlock()
	hisNotify(subs, snap)
}

// persistLocked writes the HIS blob. Callers hold the lock.
func (h *HisStore) persistLocked() {
	var blob persistedHis
	blob.State.Token = h.token

	raw, err := json.MarshalIndent(blob, "", "  ")
	if err != nil {
		return
	}
	_ = os.MkdirAll(filepath.Dir(h.path), 0o755)
	_ = os.WriteFile(h.path, raw, 0o600)
}

func hisNotify(subs []func(HisSnapshot), snap HisSnapshot) {
	for _, fn := range subs {
		fn(snap)
	}
}
