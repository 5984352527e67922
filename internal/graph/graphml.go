package graph

import (
	"encoding/xml"
	"fmt"
	"io"
)

// GraphML export for tools like Gephi. Edge Type/Tags attributes travel as
// data keys; the document is the flat key/node/edge form the network page
// download produces.

type graphmlDoc struct {
	XMLName xml.Name     `xml:"graphml"`
	XMLNS   string       `xml:"xmlns,attr"`
	Keys    []graphmlKey `xml:"key"`
	Graph   graphmlGraph `xml:"graph"`
}

type graphmlKey struct {
	ID       string `xml:"id,attr"`
	For      string `xml:"for,attr"`
	AttrName string `xml:"attr.name,attr"`
	AttrType string `xml:"attr.type,attr"`
}

type graphmlGraph struct {
	EdgeDefault string        `xml:"edgedefault,attr"`
	Nodes       []graphmlNode `xml:"node"`
	Edges       []graphmlEdge `xml:"edge"`
}

type graphmlNode struct {
	ID string `xml:"id,attr"`
}

type graphmlEdge struct {
	Source string        `xml:"source,attr"`
	Target string        `xml:"target,attr"`
	Data   []graphmlData `xml:"data"`
}

type graphmlData struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

// WriteGraphML serializes the graph, nodes sorted by label and edges in
// record order.
func WriteGraphML(w io.Writer, g *Graph) error {
	edgeDefault := "undirected"
	if g.directed {
		edgeDefault = "directed"
	}

	doc := graphmlDoc{
		XMLNS: "http://graphml.graphdrawing.org/xmlns",
		Keys: []graphmlKey{
			{ID: "d0", For: "edge", AttrName: "Type", AttrType: "string"},
			{ID: "d1", For: "edge", AttrName: "Tags", AttrType: "string"},
		},
		Graph: graphmlGraph{EdgeDefault: edgeDefault},
	}

	for _, name := range g.Nodes() {
		doc.Graph.Nodes = append(doc.Graph.Nodes, graphmlNode{ID: name})
	}
	for _, rec := range g.records {
		edge := graphmlEdge{Source: rec.From, Target: rec.To}
		if rec.Type != "" {
			edge.Data = append(edge.Data, graphmlData{Key: "d0", Value: rec.Type})
		}
		if rec.Tags != "" {
			edge.Data = append(edge.Data, graphmlData{Key: "d1", Value: rec.Tags})
		}
		doc.Graph.Edges = append(doc.Graph.Edges, edge)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode graphml: %w", err)
	}
	return enc.Close()
}
