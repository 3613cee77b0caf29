package eventlog

import (
	"context"
	"sync"

	"cultivation-world-simulator/world"
)

// MemStore is the in-process default Store, suitable for single-run
// simulations and tests. Events are kept per-agent, oldest first.
type MemStore struct {
	mu     sync.Mutex
	events map[world.AgentID][]world.Event
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{events: make(map[world.AgentID][]world.Event)}
}

// Append implements Store.
func (m *MemStore) Append(_ context.Context, agentID world.AgentID, e world.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[agentID] = append(m.events[agentID], e)
	return nil
}

// Query implements Store, filtering by major/minor and bounding the result
// to the most recent q.Limit matches.
func (m *MemStore) Query(_ context.Context, agentID world.AgentID, q Query) ([]world.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	all := m.events[agentID]
	matched := make([]world.Event, 0, len(all))
	for _, e := range all {
		if q.MajorOnly && !e.IsMajor {
			continue
		}
		if q.MinorOnly && e.IsMajor {
			continue
		}
		matched = append(matched, e)
	}
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[len(matched)-q.Limit:]
	}
	out := make([]world.Event, len(matched))
	copy(out, matched)
	return out, nil
}
