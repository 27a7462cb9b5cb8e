// Package graph defines the client-side property-graph model and the pure
// transforms applied at the store boundary: the graph-scoped identifier
// codec, the property sanitizer/decoder, and the fallback save-timestamp
// resolver.
package graph

import "time"

// Properties is a free-form property bag attached to graphs, nodes, and edges.
type Properties map[string]any

// Node is a property bag identified within one graph by ID.
// The stored (global) identifier is derived via EncodeNodeID.
type Node struct {
	ID         string     `json:"id"`
	Properties Properties `json:"properties,omitempty"`
}

// Edge is a directed relation between two nodes of the same graph.
// ID defaults to "<source>-<target>" when empty.
type Edge struct {
	ID         string     `json:"id,omitempty"`
	Source     string     `json:"source"`
	Target     string     `json:"target"`
	Properties Properties `json:"properties,omitempty"`
}

// Graph is the named, versioned aggregate the engine synchronizes.
// SaveSequence is bumped by the store on every save and is only a list()
// tiebreaker, not a lost-update guard.
type Graph struct {
	// Title and ID are alternate name sources supplied by some callers;
	// ResolveName picks the first non-empty of Title, Name, ID.
	Title string `json:"title,omitempty"`
	ID    string `json:"id,omitempty"`

	Name         string     `json:"name"`
	SavedAt      string     `json:"savedAt,omitempty"`
	SaveSequence int64      `json:"saveSequence,omitempty"`
	Metadata     Properties `json:"metadata,omitempty"`
	Nodes        []Node     `json:"nodes,omitempty"`
	Edges        []Edge     `json:"edges,omitempty"`

	// RootNodes is a snapshot of member node property bags returned by
	// list(); it feeds the fallback timestamp resolver and is never saved.
	RootNodes []Properties `json:"rootNodes,omitempty"`
}

// ResolveName returns the graph's effective name: the first non-empty of
// Title, Name, ID. An empty result selects the engine's reduced raw-upsert
// save mode.
func (g Graph) ResolveName() string {
	for _, candidate := range []string{g.Title, g.Name, g.ID} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

// EdgeID returns the edge's upsert key, applying the source-target default.
func (e Edge) EdgeID() string {
	if e.ID != "" {
		return e.ID
	}
	return e.Source + "-" + e.Target
}

// SavedAtLayout is the stored ISO-8601 timestamp layout (millisecond
// precision, UTC).
const SavedAtLayout = "2006-01-02T15:04:05.000Z"

// FormatSavedAt renders t in the stored timestamp layout.
func FormatSavedAt(t time.Time) string {
	return t.UTC().Format(SavedAtLayout)
}
