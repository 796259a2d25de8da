package engine

import (
	"sort"

	"github.com/JackaZhai/RailwaySystem/flow"
)

// segmentGraph is the directed adjacency structure the greedy walk runs on.
// Edge weight is the observed traversal count from->to.
type segmentGraph struct {
	nodes  []string
	edges  map[string]map[string]int
	indeg  map[string]int
	outdeg map[string]int
}

func buildSegmentGraph(segments []flow.SegmentRow) *segmentGraph {
	g := &segmentGraph{
		edges:  map[string]map[string]int{},
		indeg:  map[string]int{},
		outdeg: map[string]int{},
	}
	seen := map[string]struct{}{}
	addNode := func(id string) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			g.nodes = append(g.nodes, id)
		}
	}
	for _, s := range segments {
		if s.FromStationID == "" || s.ToStationID == "" {
			continue
		}
		addNode(s.FromStationID)
		addNode(s.ToStationID)
		succ := g.edges[s.FromStationID]
		if succ == nil {
			succ = map[string]int{}
			g.edges[s.FromStationID] = succ
		}
		if succ[s.ToStationID] == 0 {
			// first observation of this edge
			g.indeg[s.ToStationID]++
			g.outdeg[s.FromStationID]++
		}
		succ[s.ToStationID]++
	}
	sortStationIDs(g.nodes)
	return g
}

// startNode picks the walk origin: the smallest-id node with in-degree zero,
// or the smallest-id node overall when every node has an incoming edge.
func (g *segmentGraph) startNode() string {
	for _, id := range g.nodes {
		if g.indeg[id] == 0 {
			return id
		}
	}
	if len(g.nodes) > 0 {
		return g.nodes[0]
	}
	return ""
}

// BuildStationSequence reconstructs the ordered station list for one line
// from its unordered segment traversals. The walk greedily follows the
// heaviest unvisited edge, smaller station id winning weight ties; stations
// the walk never reaches (disconnected fragments in sparse data) are appended
// afterward in ascending id order so the result covers every known station
// exactly once. DirectionDown is the exact reverse of DirectionUp.
func BuildStationSequence(segments []flow.SegmentRow, direction flow.Direction) []string {
	g := buildSegmentGraph(segments)
	if len(g.nodes) == 0 {
		return []string{}
	}

	visited := map[string]struct{}{}
	seq := make([]string, 0, len(g.nodes))
	cur := g.startNode()
	for cur != "" {
		seq = append(seq, cur)
		visited[cur] = struct{}{}
		cur = g.nextUnvisited(cur, visited)
	}

	var rest []string
	for _, id := range g.nodes {
		if _, ok := visited[id]; !ok {
			rest = append(rest, id)
		}
	}
	sortStationIDs(rest)
	seq = append(seq, rest...)

	if direction == flow.DirectionDown {
		for i, j := 0, len(seq)-1; i < j; i, j = i+1, j-1 {
			seq[i], seq[j] = seq[j], seq[i]
		}
	}
	return seq
}

func (g *segmentGraph) nextUnvisited(from string, visited map[string]struct{}) string {
	succ := g.edges[from]
	if len(succ) == 0 {
		return ""
	}
	candidates := make([]string, 0, len(succ))
	for id := range succ {
		if _, ok := visited[id]; !ok {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	sort.Slice(candidates, func(i, j int) bool {
		wi, wj := succ[candidates[i]], succ[candidates[j]]
		if wi != wj {
			return wi > wj
		}
		return stationIDLess(candidates[i], candidates[j])
	})
	return candidates[0]
}

// SequenceFromRouteEdges materializes a stored station ordering, used when a
// line has no segment observations to reconstruct from. Entries are ordered
// by their sequence number; duplicates keep the first occurrence.
func SequenceFromRouteEdges(edges []flow.RouteStationEdge, direction flow.Direction) []string {
	sorted := make([]flow.RouteStationEdge, len(edges))
	copy(sorted, edges)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Sequence != sorted[j].Sequence {
			return sorted[i].Sequence < sorted[j].Sequence
		}
		return stationIDLess(sorted[i].StationID, sorted[j].StationID)
	})
	seen := map[string]struct{}{}
	seq := make([]string, 0, len(sorted))
	for _, e := range sorted {
		if e.StationID == "" {
			continue
		}
		if _, ok := seen[e.StationID]; ok {
			continue
		}
		seen[e.StationID] = struct{}{}
		seq = append(seq, e.StationID)
	}
	if direction == flow.DirectionDown {
		for i, j := 0, len(seq)-1; i < j; i, j = i+1, j-1 {
			seq[i], seq[j] = seq[j], seq[i]
		}
	}
	return seq
}
