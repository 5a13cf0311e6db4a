package graphio

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/egonetlab/egonet/pkg/graph"
)

// LoadAdjacency reads a crawled adjacency listing: a JSON object mapping
// each user id (as a string key) to an array of friend ids.
func LoadAdjacency(path string) (graph.AdjacencyList, error) {
	data, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string][]int64
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &FormatError{Path: path, Cause: err}
	}

	adj := make(graph.AdjacencyList, len(raw))
	for key, friends := range raw {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, &FormatError{Path: path, Cause: fmt.Errorf("key %q is not a user id", key)}
		}
		adj[id] = friends
	}
	return adj, nil
}

// SaveAdjacency writes an adjacency listing in the same JSON object format
// the crawler produces.
func SaveAdjacency(path string, adj graph.AdjacencyList) error {
	raw := make(map[string][]int64, len(adj))
	for id, friends := range adj {
		if friends == nil {
			friends = []int64{}
		}
		raw[strconv.FormatInt(id, 10)] = friends
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return err
	}
	return WriteFile(path, data)
}
