package graph

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"

	"github.com/OER-Club/CS39AE-Fall25/internal/edges"
)

// Graph is an edge-list graph with string node labels over gonum's simple
// graphs. Nodes come implicitly from edge endpoints; edge attributes
// (Type, Tags) stay on the originating records. An undirected view is
// always kept because measures and communities run on it, as the network
// pages do.
type Graph struct {
	directed  bool
	und       *simple.UndirectedGraph
	dir       *simple.DirectedGraph
	ids       map[string]int64
	names     map[int64]string
	records   []edges.Record
	edgeCount int
	nextID    int64
}

// Build constructs a graph from a filtered edge table. Duplicate structural
// edges collapse into one; self-loops keep their node and record but add no
// structural edge (gonum simple graphs reject them).
func Build(records []edges.Record, directed bool) *Graph {
	g := &Graph{
		directed: directed,
		und:      simple.NewUndirectedGraph(),
		ids:      make(map[string]int64),
		names:    make(map[int64]string),
	}
	if directed {
		g.dir = simple.NewDirectedGraph()
	}

	for _, rec := range records {
		f := g.ensure(rec.From)
		t := g.ensure(rec.To)
		g.records = append(g.records, rec)

		if f == t {
			continue
		}
		if !g.und.HasEdgeBetween(f, t) {
			g.und.SetEdge(g.und.NewEdge(simple.Node(f), simple.Node(t)))
		}
		if directed {
			if !g.dir.HasEdgeFromTo(f, t) {
				g.dir.SetEdge(g.dir.NewEdge(simple.Node(f), simple.Node(t)))
				g.edgeCount++
			}
		}
	}
	if !directed {
		g.edgeCount = g.und.Edges().Len()
	}
	return g
}

func (g *Graph) ensure(name string) int64 {
	if id, ok := g.ids[name]; ok {
		return id
	}
	id := g.nextID
	g.nextID++
	g.ids[name] = id
	g.names[id] = name
	g.und.AddNode(simple.Node(id))
	if g.dir != nil {
		g.dir.AddNode(simple.Node(id))
	}
	return id
}

func (g *Graph) Directed() bool { return g.directed }

func (g *Graph) NumNodes() int { return len(g.names) }

func (g *Graph) NumEdges() int { return g.edgeCount }

func (g *Graph) HasNode(name string) bool {
	_, ok := g.ids[name]
	return ok
}

// Nodes returns every node label once, sorted.
func (g *Graph) Nodes() []string {
	out := make([]string, 0, len(g.ids))
	for name := range g.ids {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Records returns the edge records the graph was built from, in input
// order.
func (g *Graph) Records() []edges.Record {
	out := make([]edges.Record, len(g.records))
	copy(out, g.records)
	return out
}

// Degree is the undirected degree (number of distinct neighbors).
func (g *Graph) Degree(name string) int {
	id, ok := g.ids[name]
	if !ok {
		return 0
	}
	return g.und.From(id).Len()
}
