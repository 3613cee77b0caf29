// Package redisstore backs eventlog.Store with Redis, so durable event
// history survives process restarts in a deployed simulator (spec §6
// "events_db"). Each agent's history is a Redis list of JSON-encoded
// world.Event records, addressed the same way the teacher's registry
// package keys its Redis mappings (registry/result_stream.go).
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"

	"cultivation-world-simulator/eventlog"
	"cultivation-world-simulator/world"

	"github.com/redis/go-redis/v9"
)

// Store is a Redis-backed eventlog.Store.
type Store struct {
	rdb    *redis.Client
	prefix string
}

// New returns a Store writing keys under prefix (e.g. "sim:events:"),
// defaulting to "eventlog:" if prefix is empty.
func New(rdb *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = "eventlog:"
	}
	return &Store{rdb: rdb, prefix: prefix}
}

func (s *Store) key(agentID world.AgentID) string {
	return fmt.Sprintf("%s%s", s.prefix, agentID)
}

// Append implements eventlog.Store.
func (s *Store) Append(ctx context.Context, agentID world.AgentID, e world.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := s.rdb.RPush(ctx, s.key(agentID), payload).Err(); err != nil {
		return fmt.Errorf("rpush event: %w", err)
	}
	return nil
}

// Query implements eventlog.Store, fetching the full list and filtering
// client-side; per-agent histories are small enough (bounded by the
// simulation's run length) that this avoids maintaining separate
// major/minor Redis keys.
func (s *Store) Query(ctx context.Context, agentID world.AgentID, q eventlog.Query) ([]world.Event, error) {
	raw, err := s.rdb.LRange(ctx, s.key(agentID), 0, -1).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("lrange events: %w", err)
	}

	matched := make([]world.Event, 0, len(raw))
	for _, r := range raw {
		var e world.Event
		if err := json.Unmarshal([]byte(r), &e); err != nil {
			return nil, fmt.Errorf("unmarshal event: %w", err)
		}
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
	return matched, nil
}
