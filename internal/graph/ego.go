package graph

import (
	"fmt"

	"github.com/OER-Club/CS39AE-Fall25/internal/edges"
)

// Ego returns the subgraph induced by the focus node's neighborhood up to
// the given hop radius. For directed graphs the frontier expands over both
// in- and out-neighbors each hop, matching the network page's combined
// neighborhood walk.
func (g *Graph) Ego(focus string, hops int) (*Graph, error) {
	focusID, ok := g.ids[focus]
	if !ok {
		return nil, fmt.Errorf("focus node %q not in graph", focus)
	}
	if hops < 1 {
		hops = 1
	}

	keep := map[int64]struct{}{focusID: {}}
	frontier := []int64{focusID}

	for hop := 0; hop < hops && len(frontier) > 0; hop++ {
		var next []int64
		for _, id := range frontier {
			// The undirected view's neighbors are exactly the union of
			// predecessors and successors.
			it := g.und.From(id)
			for it.Next() {
				nid := it.Node().ID()
				if _, seen := keep[nid]; !seen {
					keep[nid] = struct{}{}
					next = append(next, nid)
				}
			}
		}
		frontier = next
	}

	var sub []edges.Record
	for _, rec := range g.records {
		_, fromKept := keep[g.ids[rec.From]]
		_, toKept := keep[g.ids[rec.To]]
		if fromKept && toKept {
			sub = append(sub, rec)
		}
	}

	return Build(sub, g.directed), nil
}
