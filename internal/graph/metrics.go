package graph

import (
	"sort"

	"gonum.org/v1/gonum/graph/community"
	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/path"
)

// NodeMeasures carries the per-node scores shown in the measures table.
type NodeMeasures struct {
	Name        string  `json:"name"`
	Degree      int     `json:"degree"`
	Betweenness float64 `json:"betweenness"`
	Closeness   float64 `json:"closeness"`
	Community   int     `json:"community"`
}

type Analysis struct {
	Measures    []NodeMeasures `json:"measures"`
	Communities [][]string     `json:"communities"`
}

// Analyze computes degree, betweenness, closeness, and modularity
// communities on the undirected view. Degenerate graphs (no edges, or at
// most one node) bypass the library and get zero-valued centralities with
// a single trivial community.
func Analyze(g *Graph) *Analysis {
	names := g.Nodes()

	if g.NumEdges() == 0 || g.NumNodes() <= 1 {
		return degenerate(names, g)
	}

	// gonum sums over ordered pairs on an undirected graph, so dividing
	// by (n-1)(n-2) lands the scores in [0, 1].
	betweenness := network.Betweenness(g.und)
	n := g.NumNodes()
	scale := 0.0
	if n > 2 {
		scale = 1.0 / float64((n-1)*(n-2))
	}

	allPaths := path.DijkstraAllPaths(g.und)
	closeness := network.Closeness(g.und, allPaths)

	communityOf, groups := communities(g)

	measures := make([]NodeMeasures, 0, len(names))
	for _, name := range names {
		id := g.ids[name]
		measures = append(measures, NodeMeasures{
			Name:        name,
			Degree:      g.Degree(name),
			Betweenness: betweenness[id] * scale,
			Closeness:   closeness[id],
			Community:   communityOf[name],
		})
	}

	return &Analysis{Measures: measures, Communities: groups}
}

func degenerate(names []string, g *Graph) *Analysis {
	measures := make([]NodeMeasures, 0, len(names))
	for _, name := range names {
		measures = append(measures, NodeMeasures{Name: name, Degree: g.Degree(name)})
	}
	var groups [][]string
	if len(names) > 0 {
		trivial := make([]string, len(names))
		copy(trivial, names)
		groups = [][]string{trivial}
	}
	return &Analysis{Measures: measures, Communities: groups}
}

// communities runs gonum's modularity maximization and returns a stable
// node -> group assignment: groups ordered by size (largest first), ties
// broken by first member name, members sorted.
func communities(g *Graph) (map[string]int, [][]string) {
	reduced := community.Modularize(g.und, 1.0, nil)

	var groups [][]string
	for _, comm := range reduced.Communities() {
		members := make([]string, 0, len(comm))
		for _, node := range comm {
			members = append(members, g.names[node.ID()])
		}
		sort.Strings(members)
		groups = append(groups, members)
	}
	sort.Slice(groups, func(i, j int) bool {
		if len(groups[i]) != len(groups[j]) {
			return len(groups[i]) > len(groups[j])
		}
		return groups[i][0] < groups[j][0]
	})

	assignment := make(map[string]int)
	for i, members := range groups {
		for _, name := range members {
			assignment[name] = i
		}
	}
	return assignment, groups
}

// MostInfluential returns the node maximizing the chosen measure
// ("degree", "betweenness", or "closeness"), ties broken by name.
func (a *Analysis) MostInfluential(measure string) (NodeMeasures, bool) {
	if len(a.Measures) == 0 {
		return NodeMeasures{}, false
	}

	score := func(m NodeMeasures) float64 {
		switch measure {
		case "betweenness":
			return m.Betweenness
		case "closeness":
			return m.Closeness
		default:
			return float64(m.Degree)
		}
	}

	best := a.Measures[0]
	for _, m := range a.Measures[1:] {
		if score(m) > score(best) || (score(m) == score(best) && m.Name < best.Name) {
			best = m
		}
	}
	return best, true
}
