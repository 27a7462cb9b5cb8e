package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RSAC-Labs/Quantickle-sub006/internal/neo4j"
)

func searchColumns() []string {
	return []string{"node", "graphs"}
}

func TestFindByNodeLabels_MatchesLabelAndID(t *testing.T) {
	rows := [][]any{
		{map[string]any{"id": "X::n1", "label": "Alice"}, []any{"X"}},
		{map[string]any{"id": "Y::Alice", "title": "unrelated"}, []any{"Y"}},
		{map[string]any{"id": "Z::n9", "label": "Bob"}, []any{"Z"}},
	}
	mock := &mockTransport{results: [][]neo4j.Result{{neo4j.NewResult(searchColumns(), rows)}}}

	matches, err := newTestEngine(mock).FindByNodeLabels(context.Background(), testCreds(), []string{"alice"})
	require.NoError(t, err)

	require.Len(t, matches, 1)
	assert.Equal(t, "alice", matches[0].Label)
	assert.Equal(t, []string{"X", "Y"}, matches[0].Graphs)
}

func TestFindByNodeLabels_ArrayValuesAndMultipleLabels(t *testing.T) {
	rows := [][]any{
		{map[string]any{"id": "X::n1", "labels": []any{"Bob", "Carol"}}, []any{"X"}},
		{map[string]any{"id": "Y::n2", "nodeType": "carol"}, []any{"Y"}},
	}
	mock := &mockTransport{results: [][]neo4j.Result{{neo4j.NewResult(searchColumns(), rows)}}}

	matches, err := newTestEngine(mock).FindByNodeLabels(context.Background(), testCreds(),
		[]string{"Carol", "Dave"})
	require.NoError(t, err)

	require.Len(t, matches, 2)
	assert.Equal(t, "Carol", matches[0].Label)
	assert.Equal(t, []string{"X", "Y"}, matches[0].Graphs)
	assert.Equal(t, "Dave", matches[1].Label)
	assert.Empty(t, matches[1].Graphs)
}

func TestFindByNodeLabels_NonLabelKeysIgnored(t *testing.T) {
	rows := [][]any{
		{map[string]any{"id": "X::n1", "description": "Alice"}, []any{"X"}},
	}
	mock := &mockTransport{results: [][]neo4j.Result{{neo4j.NewResult(searchColumns(), rows)}}}

	matches, err := newTestEngine(mock).FindByNodeLabels(context.Background(), testCreds(), []string{"Alice"})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Empty(t, matches[0].Graphs)
}

func TestFindByNodeLabels_EmptyInputShortCircuits(t *testing.T) {
	mock := &mockTransport{}
	matches, err := newTestEngine(mock).FindByNodeLabels(context.Background(), testCreds(),
		[]string{"", "  "})
	require.NoError(t, err)
	assert.Nil(t, matches)
	assert.Empty(t, mock.batches)
}

func TestNormalizeLabels(t *testing.T) {
	got := normalizeLabels([]string{" Alice ", "alice", "", "Bob", "ALICE"})
	assert.Equal(t, []string{"Alice", "Bob"}, got)
}
