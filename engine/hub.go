package engine

import (
	"sort"

	"github.com/JackaZhai/RailwaySystem/flow"
	"github.com/JackaZhai/RailwaySystem/report"
)

const (
	hubNodeLimit = 30
	hubEdgeLimit = 80
)

// BuildHubMetrics estimates station connectivity from the filtered segment
// graph. Degree is exact (in-degree + out-degree over distinct edges); the
// betweenness value is the degree normalized by the maximum degree and
// closeness is derived from it — both are proxies, not exact centrality, and
// are surfaced as such so consumers do not over-read them. Output is capped
// to the top 30 stations by degree and the top 80 edges by mean full rate.
func BuildHubMetrics(flows []flow.FlowRow, segments []flow.SegmentRow, spec flow.FilterSpec, resolver NameResolver) report.HubGraph {
	fr, skippedF := flow.FilterFlows(flows, spec)
	sr, skippedS := flow.FilterSegments(segments, spec)

	g := buildSegmentGraph(sr)

	volume := map[string]int{}
	for _, r := range fr {
		volume[r.StationID] += r.Boarded + r.Alighted
	}

	maxDegree := 0
	degrees := make(map[string]int, len(g.nodes))
	for _, id := range g.nodes {
		d := g.indeg[id] + g.outdeg[id]
		degrees[id] = d
		if d > maxDegree {
			maxDegree = d
		}
	}

	ids := make([]string, len(g.nodes))
	copy(ids, g.nodes)
	sort.Slice(ids, func(i, j int) bool {
		if degrees[ids[i]] != degrees[ids[j]] {
			return degrees[ids[i]] > degrees[ids[j]]
		}
		return stationIDLess(ids[i], ids[j])
	})
	if len(ids) > hubNodeLimit {
		ids = ids[:hubNodeLimit]
	}

	nodes := make([]report.HubNode, 0, len(ids))
	for _, id := range ids {
		betweenness := 0.0
		if maxDegree > 0 {
			betweenness = float64(degrees[id]) / float64(maxDegree)
		}
		closeness := 0.2 + betweenness
		if closeness > 1 {
			closeness = 1
		}
		nodes = append(nodes, report.HubNode{
			StationID:   id,
			Name:        resolveName(resolver, id, false),
			Degree:      degrees[id],
			Betweenness: round3(betweenness),
			Closeness:   round3(closeness),
			FlowVolume:  volume[id],
		})
	}

	type edgeKey struct{ from, to string }
	sums := map[edgeKey]float64{}
	counts := map[edgeKey]int{}
	for _, s := range sr {
		k := edgeKey{s.FromStationID, s.ToStationID}
		sums[k] += s.FullRate
		counts[k]++
	}
	keys := make([]edgeKey, 0, len(sums))
	maxRate := 0.0
	means := make(map[edgeKey]float64, len(sums))
	for k := range sums {
		m := sums[k] / float64(counts[k])
		means[k] = m
		if m > maxRate {
			maxRate = m
		}
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if means[keys[i]] != means[keys[j]] {
			return means[keys[i]] > means[keys[j]]
		}
		if keys[i].from != keys[j].from {
			return stationIDLess(keys[i].from, keys[j].from)
		}
		return stationIDLess(keys[i].to, keys[j].to)
	})
	if len(keys) > hubEdgeLimit {
		keys = keys[:hubEdgeLimit]
	}

	edges := make([]report.HubEdge, 0, len(keys))
	for _, k := range keys {
		weight := 0.0
		if maxRate > 0 {
			weight = means[k] / maxRate
		}
		edges = append(edges, report.HubEdge{
			FromStation: k.from,
			ToStation:   k.to,
			MeanRate:    round3(means[k]),
			Weight:      round3(weight),
		})
	}
	return report.HubGraph{Nodes: nodes, Edges: edges, SkippedRows: skippedF + skippedS}
}
