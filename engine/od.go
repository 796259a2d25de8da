package engine

import (
	"sort"

	"github.com/JackaZhai/RailwaySystem/flow"
	"github.com/JackaZhai/RailwaySystem/report"
)

// NameResolver supplies display names for presentation labels. It is never
// consulted for computation; an id with no known name resolves to itself.
type NameResolver interface {
	StationName(stationID string) string
	TelecodeName(telecode string) string
}

// tripEndpoints derives a trip's first and last station from its segment
// traversals: the from-station that never appears as a to-station starts the
// trip, and vice versa. Falls back to the first/last observed row when the
// traversals loop.
func tripEndpoints(segs []flow.SegmentRow) (string, string) {
	if len(segs) == 0 {
		return "", ""
	}
	froms := map[string]struct{}{}
	tos := map[string]struct{}{}
	for _, s := range segs {
		froms[s.FromStationID] = struct{}{}
		tos[s.ToStationID] = struct{}{}
	}
	start, end := segs[0].FromStationID, segs[len(segs)-1].ToStationID
	for f := range froms {
		if _, ok := tos[f]; !ok {
			start = f
			break
		}
	}
	for t := range tos {
		if _, ok := froms[t]; !ok {
			end = t
			break
		}
	}
	return start, end
}

// BuildODAlerts aggregates boarding volume per resolved origin-destination
// pair and flags the topN heaviest pairs, each with its load ratio against
// the maximum observed pair. When a row's telecodes are missing or identical
// the trip's segment endpoints stand in for origin and destination — an
// approximation for multi-leg journeys, kept as-is from the source model.
func BuildODAlerts(flows []flow.FlowRow, segments []flow.SegmentRow, spec flow.FilterSpec, topN int, resolver NameResolver) report.ODAlerts {
	fr, skippedF := flow.FilterFlows(flows, spec)
	sr, skippedS := flow.FilterSegments(segments, spec)
	if topN <= 0 {
		topN = 10
	}
	if topN > 50 {
		topN = 50
	}

	segsByTrip := map[string][]flow.SegmentRow{}
	for _, s := range sr {
		segsByTrip[s.TripKey()] = append(segsByTrip[s.TripKey()], s)
	}

	type pair struct{ origin, dest string }
	volumes := map[pair]int{}
	for _, r := range fr {
		var origin, dest string
		if r.OriginTelecode != "" && r.DestTelecode != "" && r.OriginTelecode != r.DestTelecode {
			origin = resolveName(resolver, r.OriginTelecode, true)
			dest = resolveName(resolver, r.DestTelecode, true)
		} else {
			startID, endID := tripEndpoints(segsByTrip[r.TripKey()])
			if startID == "" || endID == "" {
				continue
			}
			origin = resolveName(resolver, startID, false)
			dest = resolveName(resolver, endID, false)
		}
		if origin == "" || dest == "" || origin == dest {
			continue
		}
		volumes[pair{origin, dest}] += r.Boarded
	}

	pairs := make([]pair, 0, len(volumes))
	maxVolume := 0
	for p, v := range volumes {
		pairs = append(pairs, p)
		if v > maxVolume {
			maxVolume = v
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if volumes[pairs[i]] != volumes[pairs[j]] {
			return volumes[pairs[i]] > volumes[pairs[j]]
		}
		if pairs[i].origin != pairs[j].origin {
			return pairs[i].origin < pairs[j].origin
		}
		return pairs[i].dest < pairs[j].dest
	})
	if len(pairs) > topN {
		pairs = pairs[:topN]
	}

	alerts := make([]report.ODAlert, 0, len(pairs))
	for _, p := range pairs {
		ratio := 0.0
		if maxVolume > 0 {
			ratio = float64(volumes[p]) / float64(maxVolume)
		}
		alerts = append(alerts, report.ODAlert{
			Origin:      p.origin,
			Destination: p.dest,
			Volume:      volumes[p],
			LoadRatio:   round3(ratio),
			Level:       loadLevel(ratio),
		})
	}
	return report.ODAlerts{Alerts: alerts, SkippedRows: skippedF + skippedS}
}

func resolveName(resolver NameResolver, id string, telecode bool) string {
	if resolver == nil {
		return id
	}
	var name string
	if telecode {
		name = resolver.TelecodeName(id)
	} else {
		name = resolver.StationName(id)
	}
	if name == "" {
		return id
	}
	return name
}

func loadLevel(ratio float64) string {
	switch {
	case ratio >= 0.8:
		return "high"
	case ratio >= 0.5:
		return "medium"
	default:
		return "low"
	}
}
