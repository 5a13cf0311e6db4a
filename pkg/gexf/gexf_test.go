package gexf

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/egonetlab/egonet/pkg/graph"
)

func testModel(t *testing.T) *graph.Model {
	t.Helper()

	m, err := graph.Build(graph.AdjacencyList{
		1: {2, 3},
		2: {1, 3},
		3: {1, 2},
		4: {5, 6},
		5: {4, 6},
		6: {4, 5},
	})
	if err != nil {
		t.Fatalf("Failed to build model: %v", err)
	}
	return m
}

func TestEncodeBasicStructure(t *testing.T) {
	m := testModel(t)

	data, err := Encode(m, Options{Now: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	out := string(data)
	if !strings.HasPrefix(out, xml.Header) {
		t.Error("Expected XML header")
	}
	for _, want := range []string{
		`xmlns="http://www.gexf.net/1.2draft"`,
		`version="1.2"`,
		`defaultedgetype="undirected"`,
		`mode="static"`,
		`lastmodifieddate="2026-08-01"`,
		`<creator>egonet</creator>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %s", want)
		}
	}
}

func TestEncodeNodesAndEdges(t *testing.T) {
	m := testModel(t)

	data, err := Encode(m, Options{})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	out := string(data)

	if got := strings.Count(out, "<node "); got != 6 {
		t.Errorf("Expected 6 nodes, got %d", got)
	}
	// Each triangle has 3 undirected edges, deduplicated.
	if got := strings.Count(out, "<edge "); got != 6 {
		t.Errorf("Expected 6 edges, got %d", got)
	}

	if !strings.Contains(out, `<edge id="0" source="1" target="2">`) &&
		!strings.Contains(out, `<edge id="0" source="1" target="2"/>`) {
		t.Error("Expected first edge 1-2")
	}
}

func TestEncodeLabelsAndCommunities(t *testing.T) {
	m := testModel(t)

	data, err := Encode(m, Options{
		Names:       map[int64]string{1: "Alice", 2: "Bob"},
		Communities: [][]int64{{1, 2, 3}, {4, 5, 6}},
	})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	out := string(data)

	if !strings.Contains(out, `label="Alice"`) {
		t.Error("Expected Alice label")
	}
	// Unnamed vertices fall back to their id.
	if !strings.Contains(out, `label="4"`) {
		t.Error("Expected id fallback label")
	}
	if !strings.Contains(out, `title="community" type="integer"`) {
		t.Error("Expected community attribute declaration")
	}
	if !strings.Contains(out, `<attvalue for="0" value="1">`) &&
		!strings.Contains(out, `<attvalue for="0" value="1"/>`) {
		t.Error("Expected second community tag")
	}
}

func TestEncodeWithPositions(t *testing.T) {
	m := testModel(t)

	data, err := Encode(m, Options{
		Positions: map[int64]Position{
			1: {X: 10.5, Y: 20},
			2: {X: -3, Y: 0},
		},
	})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	out := string(data)

	if !strings.Contains(out, `xmlns:viz="http://www.gexf.net/1.2draft/viz"`) {
		t.Error("Expected viz namespace declaration")
	}
	if !strings.Contains(out, `<viz:position x="10.5" y="20" z="0">`) &&
		!strings.Contains(out, `<viz:position x="10.5" y="20" z="0"/>`) {
		t.Error("Expected a position element for vertex 1")
	}
	// Nodes without a position carry no viz element.
	if got := strings.Count(out, "<viz:position"); got != 2 {
		t.Errorf("Expected 2 position elements, got %d", got)
	}
}

func TestEncodeWithoutPositionsOmitsVizNamespace(t *testing.T) {
	m := testModel(t)

	data, err := Encode(m, Options{})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if strings.Contains(string(data), "viz") {
		t.Error("Expected no viz markup without positions")
	}
}

func TestEncodeWithoutCommunitiesOmitsAttributes(t *testing.T) {
	m := testModel(t)

	data, err := Encode(m, Options{})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if strings.Contains(string(data), "<attributes") {
		t.Error("Expected no attributes element without communities")
	}
}

func TestEncodeDeterministic(t *testing.T) {
	m := testModel(t)
	opts := Options{
		Names:       map[int64]string{1: "Alice"},
		Communities: [][]int64{{1, 2, 3}, {4, 5, 6}},
		Now:         time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}

	first, err := Encode(m, opts)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	second, err := Encode(m, opts)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if string(first) != string(second) {
		t.Error("Expected identical output across runs")
	}
}

func TestEncodeIsWellFormedXML(t *testing.T) {
	m := testModel(t)

	data, err := Encode(m, Options{Communities: [][]int64{{1, 2, 3}, {4, 5, 6}}})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	var parsed struct {
		XMLName xml.Name `xml:"gexf"`
		Graph   struct {
			Nodes []struct {
				ID string `xml:"id,attr"`
			} `xml:"nodes>node"`
			Edges []struct {
				Source string `xml:"source,attr"`
				Target string `xml:"target,attr"`
			} `xml:"edges>edge"`
		} `xml:"graph"`
	}
	if err := xml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Output is not well-formed XML: %v", err)
	}
	if len(parsed.Graph.Nodes) != 6 {
		t.Errorf("Expected 6 parsed nodes, got %d", len(parsed.Graph.Nodes))
	}
	if len(parsed.Graph.Edges) != 6 {
		t.Errorf("Expected 6 parsed edges, got %d", len(parsed.Graph.Edges))
	}
}

func TestWriteFile(t *testing.T) {
	m := testModel(t)
	path := filepath.Join(t.TempDir(), "graph.gexf")

	if err := WriteFile(path, m, Options{}); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), "<gexf") {
		t.Error("Expected GEXF content on disk")
	}
}
