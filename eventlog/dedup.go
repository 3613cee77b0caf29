package eventlog

import (
	"fmt"
	"sort"
	"strings"

	"cultivation-world-simulator/world"
)

// dedupKey builds the composite key two identical events share: the month
// they were produced, their content, and their related agents (order
// independent), per spec §4.10 "duplicate suppression".
func dedupKey(e world.Event) string {
	ids := make([]string, len(e.RelatedAgentIDs))
	for i, id := range e.RelatedAgentIDs {
		ids[i] = string(id)
	}
	sort.Strings(ids)
	return fmt.Sprintf("%d|%s|%s", e.MonthStamp, e.Content, strings.Join(ids, ","))
}

// dedupWindow is a small bounded FIFO set of recently-seen dedup keys.
// Not a generic LRU: the key itself already bounds recency (month_stamp),
// so a plain FIFO-eviction set is sufficient and avoids pulling in a
// general-purpose cache library for a single composite-key membership
// check (see DESIGN.md).
type dedupWindow struct {
	capacity int
	order    []string
	seen     map[string]struct{}
}

func newDedupWindow(capacity int) *dedupWindow {
	if capacity <= 0 {
		capacity = 1
	}
	return &dedupWindow{capacity: capacity, seen: make(map[string]struct{}, capacity)}
}

// seenBefore reports whether key was already recorded, recording it if not.
func (d *dedupWindow) seenBefore(key string) bool {
	if _, ok := d.seen[key]; ok {
		return true
	}
	d.seen[key] = struct{}{}
	d.order = append(d.order, key)
	if len(d.order) > d.capacity {
		evict := d.order[0]
		d.order = d.order[1:]
		delete(d.seen, evict)
	}
	return false
}
