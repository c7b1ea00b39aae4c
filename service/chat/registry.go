package chat

import (
	"sync"
)

type RegisterStatus string

const (
	StatusRegistered  RegisterStatus = "registered"
	StatusReconnected RegisterStatus = "reconnected"
)

type presenceEntry struct {
	client  *Client
	profile map[string]any
}

// Registry is the process-wide presence table: at most one entry per
// userId, pointing at the most recently registered connection.
// Identity is caller-supplied and trusted; the auth layer upstream is
// expected to have validated it.
type Registry struct {
	mu     sync.RWMutex
	byUser map[string]*presenceEntry // userId -> entry
	byConn map[string]string         // connId -> userId
}

func NewRegistry() *Registry {
	return &Registry{
		byUser: make(map[string]*presenceEntry),
		byConn: make(map[string]string),
	}
}

// Register binds userID to c, overwriting any previous binding
// (last-registration-wins reconnect semantics). The replaced client,
// if any, is returned so the caller can close it.
func (r *Registry) Register(userID string, profile map[string]any, c *Client) (RegisterStatus, *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	status := StatusRegistered
	var replaced *Client
	if old, ok := r.byUser[userID]; ok {
		status = StatusReconnected
		if old.client != nil && old.client.ConnID != c.ConnID {
			replaced = old.client
			delete(r.byConn, old.client.ConnID)
		}
	}

	r.byUser[userID] = &presenceEntry{client: c, profile: profile}
	r.byConn[c.ConnID] = userID
	return status, replaced
}

// Lookup resolves the acting identity of a connection.
func (r *Registry) Lookup(connID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byConn[connID]
	return u, ok
}

// Profile returns the registration blob for userID.
func (r *Registry) Profile(userID string) (map[string]any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byUser[userID]
	if !ok {
		return nil, false
	}
	return e.profile, true
}

func (r *Registry) IsOnline(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byUser[userID]
	return ok
}

// ClientOf returns the live connection for userID.
func (r *Registry) ClientOf(userID string) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byUser[userID]
	if !ok {
		return nil, false
	}
	return e.client, true
}

// Remove drops the entry owned by connID. A stale disconnect (the
// user already re-registered on another connection) is a no-op, so a
// reconnect can never be evicted by its predecessor's teardown.
func (r *Registry) Remove(connID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok := r.byConn[connID]
	if !ok {
		return "", false
	}
	delete(r.byConn, connID)
	if e, ok := r.byUser[userID]; ok && e.client != nil && e.client.ConnID == connID {
		delete(r.byUser, userID)
		return userID, true
	}
	return "", false
}

// OnlineCount is for debugging/statistics only.
func (r *Registry) OnlineCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser)
}
