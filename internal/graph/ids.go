package graph

import "strings"

// IDSeparator joins the graph name and the local node id into the globally
// unique stored id. Graph names containing the separator are not valid.
const IDSeparator = "::"

// EncodeNodeID maps a graph-scoped local id to the globally unique stored id.
func EncodeNodeID(graphName, localID string) string {
	return graphName + IDSeparator + localID
}

// DecodeNodeID strips the graph-name prefix from a stored id. Ids that were
// never encoded (legacy or cross-graph data) are returned unchanged.
func DecodeNodeID(graphName, globalID string) string {
	return strings.TrimPrefix(globalID, graphName+IDSeparator)
}
