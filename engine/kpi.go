package engine

import (
	"math"
	"sort"

	"github.com/JackaZhai/RailwaySystem/flow"
	"github.com/JackaZhai/RailwaySystem/report"
)

// lineOccupancyRatios computes the mean (boarded+alighted)/capacity ratio per
// line, clamped into [0,1]. Outlier capacity data can push single rows past
// 1; the clamp keeps display values inside 0-100.
func lineOccupancyRatios(flows []flow.FlowRow) map[string]float64 {
	sums := map[string]float64{}
	counts := map[string]int{}
	for _, r := range flows {
		ratio := float64(r.Boarded+r.Alighted) / float64(r.EffectiveCapacity())
		sums[r.LineID] += clamp(ratio, 0, 1)
		counts[r.LineID]++
	}
	out := make(map[string]float64, len(sums))
	for line, sum := range sums {
		out[line] = sum / float64(counts[line])
	}
	return out
}

// lineP95Rates computes the 95th-percentile full rate per line.
func lineP95Rates(segments []flow.SegmentRow) map[string]float64 {
	byLine := map[string][]float64{}
	for _, s := range segments {
		byLine[s.LineID] = append(byLine[s.LineID], s.FullRate)
	}
	out := make(map[string]float64, len(byLine))
	for line, rates := range byLine {
		out[line] = percentile(rates, 95)
	}
	return out
}

func topSection(segments []flow.SegmentRow) *report.TopSection {
	type key struct{ line, from, to string }
	groups := map[key][]float64{}
	for _, s := range segments {
		k := key{s.LineID, s.FromStationID, s.ToStationID}
		groups[k] = append(groups[k], s.FullRate)
	}
	if len(groups) == 0 {
		return nil
	}
	keys := make([]key, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.line != b.line {
			return a.line < b.line
		}
		if a.from != b.from {
			return stationIDLess(a.from, b.from)
		}
		return stationIDLess(a.to, b.to)
	})
	var best *report.TopSection
	for _, k := range keys {
		p95 := percentile(groups[k], 95)
		if best == nil || p95 > best.P95Load {
			best = &report.TopSection{
				LineID:      k.line,
				FromStation: k.from,
				ToStation:   k.to,
				P95Load:     round3(p95),
			}
		}
	}
	return best
}

// peakHours ranks departure hours by the mean of per-line p95 full rates and
// returns the top three, smaller hour winning ties.
func peakHours(segments []flow.SegmentRow) []int {
	type key struct {
		line string
		hour int
	}
	groups := map[key][]float64{}
	for _, s := range segments {
		hour, ok := flow.HourFromTimeKey(s.TripTime)
		if !ok {
			continue
		}
		k := key{s.LineID, hour}
		groups[k] = append(groups[k], s.FullRate)
	}
	hourSums := map[int]float64{}
	hourCounts := map[int]int{}
	for k, rates := range groups {
		hourSums[k.hour] += percentile(rates, 95)
		hourCounts[k.hour]++
	}
	hours := make([]int, 0, len(hourSums))
	for h := range hourSums {
		hours = append(hours, h)
	}
	sort.Slice(hours, func(i, j int) bool {
		mi := hourSums[hours[i]] / float64(hourCounts[hours[i]])
		mj := hourSums[hours[j]] / float64(hourCounts[hours[j]])
		if mi != mj {
			return mi > mj
		}
		return hours[i] < hours[j]
	})
	if len(hours) > 3 {
		hours = hours[:3]
	}
	return hours
}

// ComputeKPI aggregates the filtered dataset into the fleet-level summary:
// per-line occupancy and p95 load, overload/idle line counts against the
// spec thresholds, the single most loaded section, the top three peak hours
// and the composite efficiency score.
func ComputeKPI(flows []flow.FlowRow, segments []flow.SegmentRow, spec flow.FilterSpec) report.KPISummary {
	fr, skippedF := flow.FilterFlows(flows, spec)
	sr, skippedS := flow.FilterSegments(segments, spec)

	occ := lineOccupancyRatios(fr)
	p95 := lineP95Rates(sr)

	summary := report.KPISummary{
		LineOccupancy: []report.LineOccupancy{},
		LineP95:       []report.LineP95{},
		PeakHours:     peakHours(sr),
		TopSection:    topSection(sr),
		SkippedRows:   skippedF + skippedS,
	}
	if summary.PeakHours == nil {
		summary.PeakHours = []int{}
	}

	lineSet := map[string]struct{}{}
	for line := range occ {
		lineSet[line] = struct{}{}
	}
	for line := range p95 {
		lineSet[line] = struct{}{}
	}
	lines := make([]string, 0, len(lineSet))
	for line := range lineSet {
		lines = append(lines, line)
	}
	sort.Strings(lines)

	occSum := 0.0
	for _, line := range lines {
		if ratio, ok := occ[line]; ok {
			pct := clamp(math.Round(ratio*100), 0, 100)
			occSum += pct
			summary.LineOccupancy = append(summary.LineOccupancy, report.LineOccupancy{LineID: line, Occupancy: pct})
			if ratio < spec.Idle {
				summary.IdleLineCount++
			}
		}
		if rate, ok := p95[line]; ok {
			summary.LineP95 = append(summary.LineP95, report.LineP95{LineID: line, P95Load: round3(rate)})
			if rate > spec.Overload {
				summary.OverloadLineCount++
			}
		}
	}

	if len(lines) > 0 {
		total := float64(len(lines))
		overloadedPct := float64(summary.OverloadLineCount) / total * 100
		idlePct := float64(summary.IdleLineCount) / total * 100
		avgOccPct := 0.0
		if len(summary.LineOccupancy) > 0 {
			avgOccPct = occSum / float64(len(summary.LineOccupancy))
		}
		summary.EfficiencyScore = round1(clamp(100-overloadedPct-idlePct+0.2*avgOccPct, 0, 100))
	}
	return summary
}
