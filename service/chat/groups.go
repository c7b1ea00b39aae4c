package chat

import (
	"sync"

	"Projease/tools/errs"
)

// Groups maps a group id to the set of connections currently subscribed
// to its broadcast channel. Volatile: rebuilt from join events after a
// restart, pruned as members disconnect.
type Groups struct {
	mu      sync.RWMutex
	byGroup map[string]map[string]*Client // groupId -> connId -> client
}

func NewGroups() *Groups {
	return &Groups{byGroup: make(map[string]map[string]*Client)}
}

// Join adds c to the group's member set. A second join reports
// ErrAlreadyJoined and changes nothing; callers treat it as an
// idempotent success with a different acknowledgment.
func (g *Groups) Join(groupID string, c *Client) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	m := g.byGroup[groupID]
	if m == nil {
		m = make(map[string]*Client)
		g.byGroup[groupID] = m
	}
	if _, ok := m[c.ConnID]; ok {
		return errs.ErrAlreadyJoined.Wrap()
	}
	m[c.ConnID] = c
	return nil
}

// LeaveAll removes the connection from every group, pruning groups whose
// member set becomes empty. Returns the ids of the groups left.
func (g *Groups) LeaveAll(connID string) []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	var left []string
	for gid, m := range g.byGroup {
		if _, ok := m[connID]; !ok {
			continue
		}
		delete(m, connID)
		left = append(left, gid)
		if len(m) == 0 {
			delete(g.byGroup, gid)
		}
	}
	return left
}

// MembersOf returns a snapshot of the group's connections for fan-out.
// The snapshot may go stale immediately; broadcasting to a since-
// vanished member is tolerated downstream.
func (g *Groups) MembersOf(groupID string) []*Client {
	g.mu.RLock()
	defer g.mu.RUnlock()
	m := g.byGroup[groupID]
	if len(m) == 0 {
		return nil
	}
	out := make([]*Client, 0, len(m))
	for _, c := range m {
		out = append(out, c)
	}
	return out
}

// MemberCount reports the size of a group's member set.
func (g *Groups) MemberCount(groupID string) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.byGroup[groupID])
}
