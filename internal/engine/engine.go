// Package engine orchestrates graph synchronization against the store's
// transactional endpoint. Each public operation assembles one ordered
// statement batch and submits it in a single request: either every
// statement lands or none do. The engine keeps no state between calls and
// holds no locks; concurrent saves of the same graph name must be
// serialized by the caller.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/RSAC-Labs/Quantickle-sub006/internal/graph"
	"github.com/RSAC-Labs/Quantickle-sub006/internal/neo4j"
	"github.com/RSAC-Labs/Quantickle-sub006/internal/types"
)

// Transport executes one statement batch against the store.
// *neo4j.Client satisfies this; tests substitute a recording mock.
type Transport interface {
	Execute(ctx context.Context, creds neo4j.Credentials, statements []neo4j.Statement) ([]neo4j.Result, error)
}

// Engine implements save, get, list, delete, and the cross-graph label
// search. Safe for concurrent use.
type Engine struct {
	transport Transport
	logger    *slog.Logger
	now       func() time.Time
}

// New creates an Engine over the given transport. A nil logger falls back
// to slog.Default().
func New(transport Transport, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		transport: transport,
		logger:    logger,
		now:       time.Now,
	}
}

// Save reconciles the submitted snapshot with the store. The graph is
// upserted, its membership set rebuilt, submitted nodes and edges upserted
// by id, and anything absent from the payload pruned — all in one atomic
// batch. Snapshots with no resolvable name degrade to a raw upsert with no
// membership bookkeeping and no pruning.
func (e *Engine) Save(ctx context.Context, creds neo4j.Credentials, g graph.Graph) error {
	opID := uuid.NewString()
	graphName := g.ResolveName()

	var statements []neo4j.Statement
	if graphName == "" {
		statements = rawSaveStatements(g)
		e.logger.Warn("graph has no resolvable name, saving without membership bookkeeping",
			"op_id", opID,
			"nodes", len(g.Nodes),
			"edges", len(g.Edges))
	} else {
		statements = saveStatements(g, graphName, graph.FormatSavedAt(e.now()))
	}

	e.logger.Debug("executing save batch",
		"op_id", opID,
		"graph", graphName,
		"statements", len(statements))

	if _, err := e.transport.Execute(ctx, creds, statements); err != nil {
		return types.WrapError(types.GRAPH_SAVE_FAILED,
			fmt.Sprintf("failed to save graph %q", graphName), err)
	}
	return nil
}

// Get fetches a graph, its member nodes, and the relations between member
// nodes, decoding every id and property bag. A name with no stored graph
// yields an empty graph, not an error.
func (e *Engine) Get(ctx context.Context, creds neo4j.Credentials, graphName string) (graph.Graph, error) {
	results, err := e.transport.Execute(ctx, creds, getStatements(graphName))
	if err != nil {
		return graph.Graph{}, types.WrapError(types.GRAPH_GET_FAILED,
			fmt.Sprintf("failed to fetch graph %q", graphName), err)
	}
	if len(results) == 0 || len(results[0].Rows) == 0 {
		return graph.Graph{Name: graphName}, nil
	}

	r := results[0]
	g := graph.Graph{
		Name:         graphName,
		SavedAt:      r.StringAt(0, "savedAt"),
		SaveSequence: r.Int64At(0, "saveSequence"),
	}
	if meta, ok := r.Get(0, "metadata"); ok && meta != nil {
		if m, ok := graph.DecodeValue(meta).(map[string]any); ok {
			g.Metadata = m
		}
	}

	for _, raw := range r.SliceAt(0, "nodes") {
		bag, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		g.Nodes = append(g.Nodes, decodeNode(graphName, bag))
	}

	for _, raw := range r.SliceAt(0, "edges") {
		bag, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if edge, ok := decodeEdge(graphName, bag); ok {
			g.Edges = append(g.Edges, edge)
		}
	}

	return g, nil
}

// List returns every graph's header (name, savedAt, saveSequence, metadata)
// plus a member-node snapshot. Graphs missing savedAt get a fallback value
// mined from their metadata and snapshot; recovered values are persisted in
// the same call (best effort) so the heuristic runs at most once per stale
// record. Results are sorted client-side because fallback values computed
// post-query are not reflected in store-side ordering.
func (e *Engine) List(ctx context.Context, creds neo4j.Credentials) ([]graph.Graph, error) {
	opID := uuid.NewString()
	results, err := e.transport.Execute(ctx, creds, listStatements())
	if err != nil {
		return nil, types.WrapError(types.GRAPH_LIST_FAILED, "failed to list graphs", err)
	}

	var graphs []graph.Graph
	var writeBacks []neo4j.Statement
	if len(results) > 0 {
		r := results[0]
		for i := range r.Rows {
			g := graph.Graph{
				Name:         r.StringAt(i, "name"),
				SavedAt:      r.StringAt(i, "savedAt"),
				SaveSequence: r.Int64At(i, "saveSequence"),
			}
			if meta, ok := r.Get(i, "metadata"); ok && meta != nil {
				if m, ok := graph.DecodeValue(meta).(map[string]any); ok {
					g.Metadata = m
				}
			}
			for _, raw := range r.SliceAt(i, "rootNodes") {
				if bag, ok := raw.(map[string]any); ok {
					g.RootNodes = append(g.RootNodes, graph.DecodeProperties(bag))
				}
			}

			if g.SavedAt == "" {
				if ts, ok := graph.ResolveFallbackSavedAt(g.Metadata, g.RootNodes); ok {
					g.SavedAt = graph.FormatSavedAt(ts)
					writeBacks = append(writeBacks, persistSavedAtStatement(g.Name, g.SavedAt))
				}
			}
			graphs = append(graphs, g)
		}
	}

	if len(writeBacks) > 0 {
		e.logger.Debug("persisting fallback timestamps",
			"op_id", opID,
			"graphs", len(writeBacks))
		if _, err := e.transport.Execute(ctx, creds, writeBacks); err != nil {
			// Only future sort stability is affected, not this result.
			e.logger.Warn("failed to persist fallback timestamps",
				"op_id", opID,
				"graphs", len(writeBacks),
				"error", err)
		}
	}

	sortGraphs(graphs)
	return graphs, nil
}

// Delete removes a graph: relations and nodes belonging exclusively to it,
// the graph entity itself, and any id-namespaced leftover with no remaining
// membership. Nodes shared with other graphs survive. Deleting a graph that
// does not exist is a no-op.
func (e *Engine) Delete(ctx context.Context, creds neo4j.Credentials, graphName string) error {
	if _, err := e.transport.Execute(ctx, creds, deleteStatements(graphName)); err != nil {
		return types.WrapError(types.GRAPH_DELETE_FAILED,
			fmt.Sprintf("failed to delete graph %q", graphName), err)
	}
	return nil
}

func decodeNode(graphName string, bag map[string]any) graph.Node {
	props := graph.DecodeProperties(bag)
	id, _ := props["id"].(string)
	delete(props, "id")
	if owner, ok := props["graph"].(string); ok && owner == graphName {
		delete(props, "graph")
	}
	return graph.Node{
		ID:         graph.DecodeNodeID(graphName, id),
		Properties: props,
	}
}

func decodeEdge(graphName string, bag map[string]any) (graph.Edge, bool) {
	source, _ := bag["source"].(string)
	target, _ := bag["target"].(string)
	if source == "" || target == "" {
		// collect() over an unmatched OPTIONAL MATCH leaves a map of nulls.
		return graph.Edge{}, false
	}
	var props graph.Properties
	if rawProps, ok := bag["properties"].(map[string]any); ok {
		props = graph.DecodeProperties(rawProps)
		delete(props, "id")
		if owner, ok := props["graph"].(string); ok && owner == graphName {
			delete(props, "graph")
		}
	}
	id, _ := bag["id"].(string)
	return graph.Edge{
		ID:         graph.DecodeNodeID(graphName, id),
		Source:     graph.DecodeNodeID(graphName, source),
		Target:     graph.DecodeNodeID(graphName, target),
		Properties: props,
	}, true
}

// sortGraphs orders by savedAt desc, saveSequence desc, name asc. Stored
// timestamps share one ISO layout, so lexicographic comparison is
// chronological; graphs with no savedAt sort last.
func sortGraphs(graphs []graph.Graph) {
	sort.SliceStable(graphs, func(i, j int) bool {
		a, b := graphs[i], graphs[j]
		if a.SavedAt != b.SavedAt {
			if a.SavedAt == "" {
				return false
			}
			if b.SavedAt == "" {
				return true
			}
			return a.SavedAt > b.SavedAt
		}
		if a.SaveSequence != b.SaveSequence {
			return a.SaveSequence > b.SaveSequence
		}
		return a.Name < b.Name
	})
}
