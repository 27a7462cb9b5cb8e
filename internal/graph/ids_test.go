package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeNodeID(t *testing.T) {
	assert.Equal(t, "G1::a", EncodeNodeID("G1", "a"))
	assert.Equal(t, "::a", EncodeNodeID("", "a"))
}

func TestDecodeNodeID(t *testing.T) {
	tests := []struct {
		name     string
		graph    string
		globalID string
		want     string
	}{
		{
			name:     "strips own prefix",
			graph:    "G1",
			globalID: "G1::a",
			want:     "a",
		},
		{
			name:     "foreign prefix untouched",
			graph:    "G1",
			globalID: "G2::a",
			want:     "G2::a",
		},
		{
			name:     "legacy id untouched",
			graph:    "G1",
			globalID: "a",
			want:     "a",
		},
		{
			name:     "empty id",
			graph:    "G1",
			globalID: "",
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecodeNodeID(tt.graph, tt.globalID))
		})
	}
}

func TestNodeID_RoundTrip(t *testing.T) {
	graphs := []string{"G1", "my graph", "graph-with-dashes", "日本語"}
	locals := []string{"a", "node:1", "x-y", "", "G1::nested"}

	for _, g := range graphs {
		for _, local := range locals {
			assert.Equal(t, local, DecodeNodeID(g, EncodeNodeID(g, local)),
				"graph=%q local=%q", g, local)
		}
	}
}
