package engine

import (
	"github.com/RSAC-Labs/Quantickle-sub006/internal/graph"
	"github.com/RSAC-Labs/Quantickle-sub006/internal/neo4j"
)

// Store vocabulary: label Graph for the graph root, label Node for the
// generic graph-owned node, relationship MEMBER_OF for membership and LINK
// for the general relation. Both relationship types carry an `id` property
// used as the upsert key.

// saveStatements builds the ordered statement batch for one save. Statement
// order is the only concurrency control available: wipe stale relations,
// sever memberships, sweep orphans, upsert the graph, upsert nodes and
// memberships, upsert edges, then prune anything absent from the payload.
func saveStatements(g graph.Graph, graphName, savedAt string) []neo4j.Statement {
	nodeIDs := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		nodeIDs[i] = graph.EncodeNodeID(graphName, n.ID)
	}
	edgeIDs := make([]string, len(g.Edges))
	for i, e := range g.Edges {
		edgeIDs[i] = graph.EncodeNodeID(graphName, e.EdgeID())
	}

	statements := []neo4j.Statement{
		// Relations between members are rebuilt below, so none with stale
		// properties may survive. Both endpoints must be members: relations
		// another graph created to a shared node are left alone.
		{
			Statement: `MATCH (g:Graph {id: $graph})<-[:MEMBER_OF]-(:Node)-[r:LINK]-(:Node)-[:MEMBER_OF]->(g)
DELETE r`,
			Parameters: map[string]any{"graph": graphName},
		},
		// Membership is fully rebuilt, not patched.
		{
			Statement: `MATCH (:Graph {id: $graph})<-[m:MEMBER_OF]-(:Node)
DELETE m`,
			Parameters: map[string]any{"graph": graphName},
		},
		// Global orphan sweep. Ids in the payload are exempt so that a
		// resubmitted node keeps properties it does not resubmit.
		{
			Statement: `MATCH (n:Node)
WHERE NOT (n)-[:MEMBER_OF]->(:Graph) AND NOT n.id IN $keep
DETACH DELETE n`,
			Parameters: map[string]any{"keep": anySlice(nodeIDs)},
		},
		// saveSequence increments store-side inside the upsert, so
		// concurrent savers never observe the same value.
		{
			Statement: `MERGE (g:Graph {id: $graph})
SET g.name = $graph,
    g.metadata = $metadata,
    g.savedAt = $savedAt,
    g.saveSequence = coalesce(g.saveSequence, 0) + 1`,
			Parameters: map[string]any{
				"graph":    graphName,
				"metadata": graph.SanitizeValue(map[string]any(g.Metadata)),
				"savedAt":  savedAt,
			},
		},
	}

	for i, n := range g.Nodes {
		props := graph.SanitizeProperties(n.Properties)
		props["id"] = nodeIDs[i]
		props["graph"] = graphName
		statements = append(statements, neo4j.Statement{
			Statement: `MERGE (n:Node {id: $id})
SET n += $props
WITH n
MATCH (g:Graph {id: $graph})
MERGE (n)-[m:MEMBER_OF]->(g)
SET m.id = $id`,
			Parameters: map[string]any{
				"id":    nodeIDs[i],
				"graph": graphName,
				"props": map[string]any(props),
			},
		})
	}

	for i, e := range g.Edges {
		props := graph.SanitizeProperties(e.Properties)
		props["id"] = edgeIDs[i]
		props["graph"] = graphName
		statements = append(statements, neo4j.Statement{
			Statement: `MATCH (a:Node {id: $source}), (b:Node {id: $target})
MERGE (a)-[r:LINK {id: $id}]->(b)
SET r += $props`,
			Parameters: map[string]any{
				"id":     edgeIDs[i],
				"source": graph.EncodeNodeID(graphName, e.Source),
				"target": graph.EncodeNodeID(graphName, e.Target),
				"props":  map[string]any(props),
			},
		})
	}

	statements = append(statements,
		// Prune relations whose id is absent from the submitted edge set.
		neo4j.Statement{
			Statement: `MATCH (g:Graph {id: $graph})<-[:MEMBER_OF]-(:Node)-[r:LINK]-(:Node)-[:MEMBER_OF]->(g)
WHERE NOT r.id IN $keep
DELETE r`,
			Parameters: map[string]any{"graph": graphName, "keep": anySlice(edgeIDs)},
		},
		// Sever membership for nodes absent from the submitted node set,
		// deleting outright any left with zero memberships anywhere.
		neo4j.Statement{
			Statement: `MATCH (g:Graph {id: $graph})<-[m:MEMBER_OF]-(n:Node)
WHERE NOT n.id IN $keep
DELETE m
WITH n
WHERE NOT (n)-[:MEMBER_OF]->(:Graph)
DETACH DELETE n`,
			Parameters: map[string]any{"graph": graphName, "keep": anySlice(nodeIDs)},
		},
	)

	return statements
}

// rawSaveStatements is the reduced-functionality mode for snapshots with no
// resolvable graph name: plain upserts by id, no membership bookkeeping, no
// pruning.
func rawSaveStatements(g graph.Graph) []neo4j.Statement {
	statements := make([]neo4j.Statement, 0, len(g.Nodes)+len(g.Edges))
	for _, n := range g.Nodes {
		props := graph.SanitizeProperties(n.Properties)
		props["id"] = n.ID
		statements = append(statements, neo4j.Statement{
			Statement: `MERGE (n:Node {id: $id})
SET n += $props`,
			Parameters: map[string]any{"id": n.ID, "props": map[string]any(props)},
		})
	}
	for _, e := range g.Edges {
		props := graph.SanitizeProperties(e.Properties)
		props["id"] = e.EdgeID()
		statements = append(statements, neo4j.Statement{
			Statement: `MATCH (a:Node {id: $source}), (b:Node {id: $target})
MERGE (a)-[r:LINK {id: $id}]->(b)
SET r += $props`,
			Parameters: map[string]any{
				"id":     e.EdgeID(),
				"source": e.Source,
				"target": e.Target,
				"props":  map[string]any(props),
			},
		})
	}
	return statements
}

func getStatements(graphName string) []neo4j.Statement {
	return []neo4j.Statement{{
		Statement: `MATCH (g:Graph {id: $graph})
OPTIONAL MATCH (g)<-[:MEMBER_OF]-(n:Node)
WITH g, collect(properties(n)) AS nodes
OPTIONAL MATCH (g)<-[:MEMBER_OF]-(a:Node)-[r:LINK]->(b:Node)-[:MEMBER_OF]->(g)
RETURN g.name AS name, g.savedAt AS savedAt, g.saveSequence AS saveSequence,
       g.metadata AS metadata, nodes,
       collect({id: r.id, source: a.id, target: b.id, properties: properties(r)}) AS edges`,
		Parameters: map[string]any{"graph": graphName},
	}}
}

func listStatements() []neo4j.Statement {
	return []neo4j.Statement{{
		Statement: `MATCH (g:Graph)
OPTIONAL MATCH (g)<-[:MEMBER_OF]-(n:Node)
RETURN g.name AS name, g.savedAt AS savedAt, g.saveSequence AS saveSequence,
       g.metadata AS metadata, collect(properties(n)) AS rootNodes`,
	}}
}

func persistSavedAtStatement(graphName, savedAt string) neo4j.Statement {
	return neo4j.Statement{
		Statement:  `MATCH (g:Graph {id: $graph}) SET g.savedAt = $savedAt`,
		Parameters: map[string]any{"graph": graphName, "savedAt": savedAt},
	}
}

func deleteStatements(graphName string) []neo4j.Statement {
	return []neo4j.Statement{
		// Nodes belonging exclusively to this graph go away with their
		// relations; nodes also linked elsewhere are preserved.
		{
			Statement: `MATCH (g:Graph {id: $graph})<-[:MEMBER_OF]-(n:Node)
WHERE size([(n)-[:MEMBER_OF]->(o:Graph) WHERE o.id <> $graph | o]) = 0
DETACH DELETE n`,
			Parameters: map[string]any{"graph": graphName},
		},
		{
			Statement:  `MATCH (g:Graph {id: $graph}) DETACH DELETE g`,
			Parameters: map[string]any{"graph": graphName},
		},
		// Sweep id-namespaced leftovers with no remaining membership.
		{
			Statement: `MATCH (n:Node)
WHERE n.id STARTS WITH $prefix AND NOT (n)-[:MEMBER_OF]->(:Graph)
DETACH DELETE n`,
			Parameters: map[string]any{"prefix": graphName + graph.IDSeparator},
		},
	}
}

func searchStatements() []neo4j.Statement {
	return []neo4j.Statement{{
		Statement: `MATCH (n:Node)-[:MEMBER_OF]->(g:Graph)
RETURN properties(n) AS node, collect(DISTINCT g.name) AS graphs`,
	}}
}

func anySlice(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
