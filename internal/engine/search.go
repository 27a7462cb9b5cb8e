package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/RSAC-Labs/Quantickle-sub006/internal/graph"
	"github.com/RSAC-Labs/Quantickle-sub006/internal/neo4j"
	"github.com/RSAC-Labs/Quantickle-sub006/internal/types"
)

// LabelMatch groups the graphs containing a node matching one queried label.
type LabelMatch struct {
	Label  string   `json:"label"`
	Graphs []string `json:"graphs"`
}

// labelLikeKeyParts marks property keys whose values are treated as node
// labels during search.
var labelLikeKeyParts = []string{"label", "name", "title", "type", "tag"}

// FindByNodeLabels searches every node across all graphs for
// case-insensitive matches of each queried label against the node's id or
// any label-like scalar/array property value, and groups the matching graph
// names per label. Input labels are trimmed and deduplicated; empties are
// dropped.
func (e *Engine) FindByNodeLabels(ctx context.Context, creds neo4j.Credentials, labels []string) ([]LabelMatch, error) {
	queried := normalizeLabels(labels)
	if len(queried) == 0 {
		return nil, nil
	}

	results, err := e.transport.Execute(ctx, creds, searchStatements())
	if err != nil {
		return nil, types.WrapError(types.GRAPH_SEARCH_FAILED, "failed to search node labels", err)
	}

	matched := make(map[string]map[string]struct{}, len(queried))
	for _, label := range queried {
		matched[label] = make(map[string]struct{})
	}

	if len(results) > 0 {
		r := results[0]
		for i := range r.Rows {
			bag := r.MapAt(i, "node")
			if bag == nil {
				continue
			}
			graphNames := stringSlice(r.SliceAt(i, "graphs"))
			candidates := labelCandidates(bag, graphNames)
			for _, label := range queried {
				if containsFold(candidates, label) {
					for _, gn := range graphNames {
						matched[label][gn] = struct{}{}
					}
				}
			}
		}
	}

	out := make([]LabelMatch, 0, len(queried))
	for _, label := range queried {
		graphs := make([]string, 0, len(matched[label]))
		for gn := range matched[label] {
			graphs = append(graphs, gn)
		}
		sort.Strings(graphs)
		out = append(out, LabelMatch{Label: label, Graphs: graphs})
	}
	return out, nil
}

// normalizeLabels trims, stringifies, drops empties, and dedupes while
// preserving first-seen order.
func normalizeLabels(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		trimmed := strings.TrimSpace(l)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}

// labelCandidates collects the comparable strings of one node: its stored
// id, the id decoded against each graph the node belongs to, and every
// scalar or array element under a label-like key.
func labelCandidates(bag map[string]any, graphNames []string) []string {
	decoded := graph.DecodeProperties(bag)

	var candidates []string
	if id, ok := bag["id"].(string); ok && id != "" {
		candidates = append(candidates, id)
		for _, gn := range graphNames {
			candidates = append(candidates, graph.DecodeNodeID(gn, id))
		}
	}

	for key, value := range decoded {
		if key == "id" || !keyMatchesLabel(key) {
			continue
		}
		switch v := value.(type) {
		case []any:
			for _, el := range v {
				candidates = append(candidates, stringify(el))
			}
		case map[string]any:
			// Nested objects are not label values.
		default:
			candidates = append(candidates, stringify(v))
		}
	}
	return candidates
}

func keyMatchesLabel(key string) bool {
	lower := strings.ToLower(key)
	for _, part := range labelLikeKeyParts {
		if strings.Contains(lower, part) {
			return true
		}
	}
	return false
}

func stringify(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func containsFold(candidates []string, label string) bool {
	for _, c := range candidates {
		if c != "" && strings.EqualFold(c, label) {
			return true
		}
	}
	return false
}

func stringSlice(in []any) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
