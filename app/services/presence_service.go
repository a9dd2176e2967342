package services

import "sync"

// PresenceRegistry tracks which users currently have live socket
// connections. It is process-local state owned by the socket handler;
// in a multi-node deployment presence is node-local.
type PresenceRegistry struct {
	mu    sync.RWMutex
	conns map[string]map[string]struct{}
}

// NewPresenceRegistry creates an empty presence registry
func NewPresenceRegistry() *PresenceRegistry {
	return &PresenceRegistry{
		conns: make(map[string]map[string]struct{}),
	}
}

// Add registers a live connection for a user. Returns true when this is
// the user's first live connection (the online transition).
func (p *PresenceRegistry) Add(userID, socketID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	set, ok := p.conns[userID]
	if !ok {
		set = make(map[string]struct{})
		p.conns[userID] = set
	}
	set[socketID] = struct{}{}
	return !ok
}

// Remove unregisters a connection for a user. Returns true when this was
// the user's last live connection (the offline transition).
func (p *PresenceRegistry) Remove(userID, socketID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	set, ok := p.conns[userID]
	if !ok {
		return false
	}
	delete(set, socketID)
	if len(set) == 0 {
		delete(p.conns, userID)
		return true
	}
	return false
}

// IsOnline reports whether the user has at least one live connection
func (p *PresenceRegistry) IsOnline(userID string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return len(p.conns[userID]) > 0
}

// Connections returns the socket ids currently registered for a user
func (p *PresenceRegistry) Connections(userID string) []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	set := p.conns[userID]
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}

// FilterOnline returns the subset of the given users that are present
func (p *PresenceRegistry) FilterOnline(userIDs []string) []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	online := []string{}
	seen := make(map[string]struct{})
	for _, id := range userIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if len(p.conns[id]) > 0 {
			online = append(online, id)
		}
	}
	return online
}

// OnlineCount returns the number of distinct users currently online
func (p *PresenceRegistry) OnlineCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return len(p.conns)
}
