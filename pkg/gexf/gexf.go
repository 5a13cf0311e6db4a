// Package gexf writes graphs in GEXF 1.2draft, the format graph tools like
// Gephi read. Exports are deterministic: nodes ascend by id and each
// undirected edge appears once.
package gexf

import (
	"encoding/xml"
	"sort"
	"strconv"
	"time"

	"github.com/egonetlab/egonet/pkg/graph"
	"github.com/egonetlab/egonet/pkg/graphio"
)

const (
	xmlns    = "http://www.gexf.net/1.2draft"
	xmlnsViz = "http://www.gexf.net/1.2draft/viz"
	version  = "1.2"
)

// communityAttrID is the GEXF attribute id of the community assignment.
const communityAttrID = "0"

type document struct {
	XMLName xml.Name  `xml:"gexf"`
	Xmlns   string    `xml:"xmlns,attr"`
	Viz     string    `xml:"xmlns:viz,attr,omitempty"`
	Version string    `xml:"version,attr"`
	Meta    meta      `xml:"meta"`
	Graph   graphElem `xml:"graph"`
}

type meta struct {
	LastModified string `xml:"lastmodifieddate,attr"`
	Creator      string `xml:"creator"`
}

type graphElem struct {
	EdgeType   string      `xml:"defaultedgetype,attr"`
	Mode       string      `xml:"mode,attr"`
	Attributes *attributes `xml:"attributes,omitempty"`
	Nodes      []node      `xml:"nodes>node"`
	Edges      []edge      `xml:"edges>edge"`
}

type attributes struct {
	Class string      `xml:"class,attr"`
	Attrs []attribute `xml:"attribute"`
}

type attribute struct {
	ID    string `xml:"id,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

type node struct {
	ID        string       `xml:"id,attr"`
	Label     string       `xml:"label,attr"`
	AttValues *attValues   `xml:"attvalues,omitempty"`
	Position  *vizPosition `xml:"viz:position,omitempty"`
}

type vizPosition struct {
	X float64 `xml:"x,attr"`
	Y float64 `xml:"y,attr"`
	Z float64 `xml:"z,attr"`
}

type attValues struct {
	Values []attValue `xml:"attvalue"`
}

type attValue struct {
	For   string `xml:"for,attr"`
	Value string `xml:"value,attr"`
}

type edge struct {
	ID     string `xml:"id,attr"`
	Source string `xml:"source,attr"`
	Target string `xml:"target,attr"`
}

// Position is a 2D node coordinate for the viz extension.
type Position struct {
	X float64
	Y float64
}

// Options controls an export.
type Options struct {
	// Names maps user ids to display labels; missing entries fall back to
	// the id itself
	Names map[int64]string
	// Communities, when set, tags every node with an integer community
	// attribute taken from its position in the slice
	Communities [][]int64
	// Positions, when set, embeds viz coordinates for nodes that have one
	Positions map[int64]Position
	// Creator names the producing tool in the meta element
	Creator string
	// Now stamps lastmodifieddate; zero means time.Now
	Now time.Time
}

// Encode renders the model as a GEXF document.
func Encode(m *graph.Model, opts Options) ([]byte, error) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	creator := opts.Creator
	if creator == "" {
		creator = "egonet"
	}

	var communityOf map[int64]int
	if opts.Communities != nil {
		communityOf = make(map[int64]int)
		for c, members := range opts.Communities {
			for _, id := range members {
				communityOf[id] = c
			}
		}
	}

	nodes := make([]node, 0, m.Size())
	for i := 0; i < m.Size(); i++ {
		id := m.ID(i)
		idStr := strconv.FormatInt(id, 10)

		label := opts.Names[id]
		if label == "" {
			label = idStr
		}

		n := node{ID: idStr, Label: label}
		if communityOf != nil {
			if c, ok := communityOf[id]; ok {
				n.AttValues = &attValues{Values: []attValue{{
					For:   communityAttrID,
					Value: strconv.Itoa(c),
				}}}
			}
		}
		if pos, ok := opts.Positions[id]; ok {
			n.Position = &vizPosition{X: pos.X, Y: pos.Y}
		}
		nodes = append(nodes, n)
	}

	type pair struct{ u, v int }
	pairs := make([]pair, 0, m.EdgeCount())
	for u := 0; u < m.Size(); u++ {
		for _, v := range m.Neighbors(u) {
			if u < v {
				pairs = append(pairs, pair{u, v})
			}
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].u != pairs[j].u {
			return pairs[i].u < pairs[j].u
		}
		return pairs[i].v < pairs[j].v
	})

	edges := make([]edge, len(pairs))
	for k, p := range pairs {
		edges[k] = edge{
			ID:     strconv.Itoa(k),
			Source: strconv.FormatInt(m.ID(p.u), 10),
			Target: strconv.FormatInt(m.ID(p.v), 10),
		}
	}

	doc := document{
		Xmlns:   xmlns,
		Version: version,
		Meta: meta{
			LastModified: now.Format("2006-01-02"),
			Creator:      creator,
		},
		Graph: graphElem{
			EdgeType: "undirected",
			Mode:     "static",
			Nodes:    nodes,
			Edges:    edges,
		},
	}
	if len(opts.Positions) > 0 {
		doc.Viz = xmlnsViz
	}
	if communityOf != nil {
		doc.Graph.Attributes = &attributes{
			Class: "node",
			Attrs: []attribute{{
				ID:    communityAttrID,
				Title: "community",
				Type:  "integer",
			}},
		}
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}

// WriteFile encodes the model and writes it to path.
func WriteFile(path string, m *graph.Model, opts Options) error {
	data, err := Encode(m, opts)
	if err != nil {
		return err
	}
	return graphio.WriteFile(path, data)
}
