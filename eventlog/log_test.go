package eventlog

import (
	"context"
	"testing"

	"cultivation-world-simulator/world"

	"github.com/stretchr/testify/require"
)

func TestAppendDeduplicatesIdenticalEvents(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	log := New(store, 50, 100)

	agent := world.NewAgentID()
	e := world.Event{MonthStamp: 12, Content: "survived a beast tide", RelatedAgentIDs: []world.AgentID{agent}}

	require.NoError(t, log.Append(ctx, agent, e))
	require.NoError(t, log.Append(ctx, agent, e))

	got, err := log.Query(ctx, agent, Query{})
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestQueryFiltersMajorMinor(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	log := New(store, 50, 100)

	agent := world.NewAgentID()
	require.NoError(t, log.Append(ctx, agent, world.Event{MonthStamp: 1, Content: "minor skirmish"}))
	require.NoError(t, log.Append(ctx, agent, world.Event{MonthStamp: 2, Content: "broke through to Foundation", IsMajor: true}))

	major, err := log.Query(ctx, agent, Query{MajorOnly: true})
	require.NoError(t, err)
	require.Len(t, major, 1)
	require.True(t, major[0].IsMajor)

	minor, err := log.Query(ctx, agent, Query{MinorOnly: true})
	require.NoError(t, err)
	require.Len(t, minor, 1)
	require.False(t, minor[0].IsMajor)
}

func TestQueryRespectsLimit(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	log := New(store, 50, 100)

	agent := world.NewAgentID()
	for i := 0; i < 5; i++ {
		require.NoError(t, log.Append(ctx, agent, world.Event{MonthStamp: i, Content: "event"}))
	}

	got, err := log.Query(ctx, agent, Query{Limit: 2})
	require.NoError(t, err)
	require.Len(t, got, 2)
}
