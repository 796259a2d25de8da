package engine

import (
	"fmt"
	"hash/fnv"
	"sort"

	"github.com/JackaZhai/RailwaySystem/flow"
	"github.com/JackaZhai/RailwaySystem/report"
)

const suggestionStatusProposed = "proposed"

// suggestionID derives a stable id from the suggestion's identity tuple so
// repeated runs over identical filtered input produce identical ids.
func suggestionID(kind, lineID, target string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(kind + "|" + lineID + "|" + target))
	return fmt.Sprintf("sg-%08x", h.Sum32())
}

// BuildSuggestions runs the heuristic rule set over the filtered dataset and
// returns the concatenated, deterministically ordered recommendations:
// overloaded segments first (worst p95 leading), then idle lines, then the
// two best-connected hubs. Rules are independent; no rule suppresses
// another.
func BuildSuggestions(flows []flow.FlowRow, segments []flow.SegmentRow, spec flow.FilterSpec) []report.Suggestion {
	fr, _ := flow.FilterFlows(flows, spec)
	sr, _ := flow.FilterSegments(segments, spec)

	out := []report.Suggestion{}
	out = append(out, overloadedSegmentSuggestions(sr, spec)...)
	out = append(out, idleLineSuggestions(fr, spec)...)
	out = append(out, hubSuggestions(fr, sr, spec)...)
	return out
}

// FindSuggestion locates a suggestion by id in a generated list, supporting
// detail lookups that re-run the generator over the same filter.
func FindSuggestion(suggestions []report.Suggestion, id string) (report.Suggestion, bool) {
	for _, s := range suggestions {
		if s.ID == id {
			return s, true
		}
	}
	return report.Suggestion{}, false
}

func overloadedSegmentSuggestions(sr []flow.SegmentRow, spec flow.FilterSpec) []report.Suggestion {
	type key struct{ line, from, to string }
	rates := map[key][]float64{}
	hours := map[key][]int{}
	for _, s := range sr {
		k := key{s.LineID, s.FromStationID, s.ToStationID}
		rates[k] = append(rates[k], s.FullRate)
		if h, ok := flow.HourFromTimeKey(s.TripTime); ok {
			hours[k] = append(hours[k], h)
		}
	}

	type scored struct {
		key
		p95 float64
	}
	var over []scored
	for k, rs := range rates {
		p95 := percentile(rs, 95)
		if p95 > spec.Overload {
			over = append(over, scored{k, p95})
		}
	}
	sort.Slice(over, func(i, j int) bool {
		if over[i].p95 != over[j].p95 {
			return over[i].p95 > over[j].p95
		}
		if over[i].line != over[j].line {
			return over[i].line < over[j].line
		}
		if over[i].from != over[j].from {
			return stationIDLess(over[i].from, over[j].from)
		}
		return stationIDLess(over[i].to, over[j].to)
	})

	out := make([]report.Suggestion, 0, len(over))
	for _, s := range over {
		segment := s.from + "-" + s.to
		before := round3(s.p95)
		after := s.p95 - 0.15
		if after < 0.85 {
			after = 0.85
		}
		after = round3(after)
		dropPct := 0.0
		if before > 0 {
			dropPct = round1((before - after) / before * 100)
		}
		peak := modeInt(hours[s.key], 0)
		out = append(out, report.Suggestion{
			ID:         suggestionID(report.SuggestionAddTrips, s.line, segment),
			Type:       report.SuggestionAddTrips,
			LineID:     s.line,
			Segment:    segment,
			TimeWindow: fmt.Sprintf("%02d:00-%02d:59", peak, peak),
			Reason: fmt.Sprintf("segment %s p95 full rate %.2f exceeds overload threshold %.2f",
				segment, s.p95, spec.Overload),
			Confidence: report.ConfidenceHigh,
			Impact:     report.SuggestionImpact{P95Before: before, P95After: after, DropPct: dropPct},
			Cost:       report.SuggestionCost{ExtraTrips: 2, OpCostIndex: 3.0},
			Status:     suggestionStatusProposed,
		})
	}
	return out
}

func idleLineSuggestions(fr []flow.FlowRow, spec flow.FilterSpec) []report.Suggestion {
	occ := lineOccupancyRatios(fr)
	var idle []string
	for line, ratio := range occ {
		if ratio < spec.Idle {
			idle = append(idle, line)
		}
	}
	sort.Strings(idle)

	out := make([]report.Suggestion, 0, len(idle))
	for _, line := range idle {
		avg := round3(occ[line])
		out = append(out, report.Suggestion{
			ID:         suggestionID(report.SuggestionTimetable, line, ""),
			Type:       report.SuggestionTimetable,
			LineID:     line,
			TimeWindow: "all-day",
			Reason: fmt.Sprintf("line %s average occupancy %.2f is below idle threshold %.2f",
				line, occ[line], spec.Idle),
			Confidence: report.ConfidenceMedium,
			Impact:     report.SuggestionImpact{P95Before: avg, P95After: round3(avg + 0.1), DropPct: 0},
			Cost:       report.SuggestionCost{ExtraTrips: 0, OpCostIndex: 0.5},
			Status:     suggestionStatusProposed,
		})
	}
	return out
}

func hubSuggestions(fr []flow.FlowRow, sr []flow.SegmentRow, spec flow.FilterSpec) []report.Suggestion {
	g := buildSegmentGraph(sr)
	if len(g.nodes) == 0 {
		return nil
	}
	ids := make([]string, len(g.nodes))
	copy(ids, g.nodes)
	degree := func(id string) int { return g.indeg[id] + g.outdeg[id] }
	sort.Slice(ids, func(i, j int) bool {
		if degree(ids[i]) != degree(ids[j]) {
			return degree(ids[i]) > degree(ids[j])
		}
		return stationIDLess(ids[i], ids[j])
	})
	if len(ids) > 2 {
		ids = ids[:2]
	}

	lineByStation := map[string]string{}
	for _, s := range sr {
		if _, ok := lineByStation[s.FromStationID]; !ok {
			lineByStation[s.FromStationID] = s.LineID
		}
		if _, ok := lineByStation[s.ToStationID]; !ok {
			lineByStation[s.ToStationID] = s.LineID
		}
	}

	out := make([]report.Suggestion, 0, len(ids))
	for _, id := range ids {
		out = append(out, report.Suggestion{
			ID:         suggestionID(report.SuggestionHub, lineByStation[id], id),
			Type:       report.SuggestionHub,
			LineID:     lineByStation[id],
			StationID:  id,
			TimeWindow: "all-day",
			Reason: fmt.Sprintf("station %s is a top transfer hub (degree %d); review transfer capacity",
				id, degree(id)),
			Confidence: report.ConfidenceMedium,
			Impact:     report.SuggestionImpact{P95Before: 1.05, P95After: 0.95, DropPct: round1(0.10 / 1.05 * 100)},
			Cost:       report.SuggestionCost{ExtraTrips: 0, OpCostIndex: 2.0},
			Status:     suggestionStatusProposed,
		})
	}
	return out
}
