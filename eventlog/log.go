// Package eventlog provides durable, queryable storage for world.Event
// records beyond each agent's in-memory EventRing (spec §4.10 "Durable
// event log"). It layers append, per-agent query, and duplicate
// suppression on top of world.Event without world importing back into
// eventlog, matching the one-directional dependency the base data package
// requires (spec §9 "Cyclic references").
package eventlog

import (
	"context"

	"cultivation-world-simulator/simerr"
	"cultivation-world-simulator/world"
)

// Store is the durable backend an Log writes through to. The default
// in-memory implementation satisfies every caller in tests and
// single-process runs; eventlog/redisstore backs it with one Redis list per
// agent for a durable deployment (spec §6 "events_db").
type Store interface {
	Append(ctx context.Context, agentID world.AgentID, e world.Event) error
	Query(ctx context.Context, agentID world.AgentID, q Query) ([]world.Event, error)
}

// Query filters a per-agent event read.
type Query struct {
	MajorOnly bool
	MinorOnly bool
	Limit     int // 0 means the Log's default bound
}

// Log is the façade agentrt and mutual use to append and read durable
// history, with duplicate suppression applied before every Append.
type Log struct {
	store       Store
	defaultCap  int
	dedupWindow int
	dedup       *dedupWindow
}

// New returns a Log backed by store. defaultLimit bounds Query results when
// a caller passes Query.Limit == 0; dedupWindow bounds how many recent
// dedup keys are retained for duplicate suppression.
func New(store Store, defaultLimit, dedupWindow int) *Log {
	return &Log{store: store, defaultCap: defaultLimit, dedup: newDedupWindow(dedupWindow)}
}

// Append records e for agentID, skipping silently (not an error) if an
// identical event (same month_stamp, content, related agents) was already
// recorded, to keep re-dispatched LLM side effects from duplicating
// narration (spec §4.10).
func (l *Log) Append(ctx context.Context, agentID world.AgentID, e world.Event) error {
	key := dedupKey(e)
	if l.dedup.seenBefore(key) {
		return nil
	}
	if err := l.store.Append(ctx, agentID, e); err != nil {
		return simerr.WithKindCause(simerr.ErrSaveLoad, "append event", err)
	}
	return nil
}

// AppendToAgents writes e into every listed agent's history, applying the
// duplicate-suppression check exactly once for the whole event rather
// than once per recipient (spec §4.4 "a helper pushes the event to
// initiator's sidebar once and writes history for both sides"; spec §9
// "the scope is per event-log operation", not per agent).
func (l *Log) AppendToAgents(ctx context.Context, agentIDs []world.AgentID, e world.Event) error {
	key := dedupKey(e)
	if l.dedup.seenBefore(key) {
		return nil
	}
	for _, id := range agentIDs {
		if err := l.store.Append(ctx, id, e); err != nil {
			return simerr.WithKindCause(simerr.ErrSaveLoad, "append event", err)
		}
	}
	return nil
}

// Query reads agentID's durable history, applying q.Limit or the Log's
// default bound if q.Limit is zero.
func (l *Log) Query(ctx context.Context, agentID world.AgentID, q Query) ([]world.Event, error) {
	if q.Limit == 0 {
		q.Limit = l.defaultCap
	}
	events, err := l.store.Query(ctx, agentID, q)
	if err != nil {
		return nil, simerr.WithKindCause(simerr.ErrSaveLoad, "query events", err)
	}
	return events, nil
}
