package engine

import (
	"sort"

	"github.com/JackaZhai/RailwaySystem/flow"
	"github.com/JackaZhai/RailwaySystem/report"
)

// BuildHeatmap groups segment traversals into (line, departure-hour) cells.
// OverMinutes converts the overload observation count into minutes at the
// 5-minute sampling granularity of the source trip buckets.
func BuildHeatmap(segments []flow.SegmentRow, spec flow.FilterSpec) report.Heatmap {
	sr, skipped := flow.FilterSegments(segments, spec)
	type key struct {
		line string
		hour int
	}
	groups := map[key][]float64{}
	over := map[key]int{}
	for _, s := range sr {
		hour, ok := flow.HourFromTimeKey(s.TripTime)
		if !ok {
			skipped++
			continue
		}
		k := key{s.LineID, hour}
		groups[k] = append(groups[k], s.FullRate)
		if s.FullRate > spec.Overload {
			over[k]++
		}
	}
	keys := make([]key, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].line != keys[j].line {
			return keys[i].line < keys[j].line
		}
		return keys[i].hour < keys[j].hour
	})
	cells := make([]report.HeatmapCell, 0, len(keys))
	for _, k := range keys {
		rates := groups[k]
		cells = append(cells, report.HeatmapCell{
			LineID:      k.line,
			Hour:        k.hour,
			AvgLoad:     round3(mean(rates)),
			P95Load:     round3(percentile(rates, 95)),
			OverMinutes: over[k] * 5,
		})
	}
	return report.Heatmap{Cells: cells, SkippedRows: skipped}
}

// BuildTrend groups segment traversals into per-line daily series, dates
// ascending within each series.
func BuildTrend(segments []flow.SegmentRow, spec flow.FilterSpec) report.Trend {
	sr, skipped := flow.FilterSegments(segments, spec)
	type key struct{ line, date string }
	groups := map[key][]float64{}
	for _, s := range sr {
		k := key{s.LineID, s.Date}
		groups[k] = append(groups[k], s.FullRate)
	}
	byLine := map[string][]string{}
	for k := range groups {
		byLine[k.line] = append(byLine[k.line], k.date)
	}
	lines := make([]string, 0, len(byLine))
	for line := range byLine {
		lines = append(lines, line)
	}
	sort.Strings(lines)

	series := make([]report.TrendSeries, 0, len(lines))
	for _, line := range lines {
		dates := byLine[line]
		sort.Strings(dates)
		points := make([]report.TrendPoint, 0, len(dates))
		for _, date := range dates {
			rates := groups[key{line, date}]
			points = append(points, report.TrendPoint{
				Date:    date,
				AvgLoad: round3(mean(rates)),
				P95Load: round3(percentile(rates, 95)),
			})
		}
		series = append(series, report.TrendSeries{LineID: line, Points: points})
	}
	return report.Trend{Series: series, SkippedRows: skipped}
}

// BuildDensityRank ranks segments by passenger-km per km. The denominator is
// the summed traversal distance, so the ratio is the traversal-weighted mean
// load; pairs whose total distance is zero carry no usable signal and are
// excluded rather than divided.
func BuildDensityRank(segments []flow.SegmentRow, spec flow.FilterSpec) report.DensityRank {
	sr, skipped := flow.FilterSegments(segments, spec)
	type key struct{ line, from, to string }
	pkm := map[key]float64{}
	km := map[key]float64{}
	for _, s := range sr {
		k := key{s.LineID, s.FromStationID, s.ToStationID}
		pkm[k] += s.Load * s.Distance
		km[k] += s.Distance
	}
	entries := make([]report.DensityEntry, 0, len(pkm))
	for k, total := range pkm {
		if km[k] <= 0 {
			continue
		}
		entries = append(entries, report.DensityEntry{
			LineID:      k.line,
			FromStation: k.from,
			ToStation:   k.to,
			Density:     round3(total / km[k]),
			TotalPKM:    round1(total),
			TotalKM:     round1(km[k]),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Density != entries[j].Density {
			return entries[i].Density > entries[j].Density
		}
		if entries[i].LineID != entries[j].LineID {
			return entries[i].LineID < entries[j].LineID
		}
		if entries[i].FromStation != entries[j].FromStation {
			return stationIDLess(entries[i].FromStation, entries[j].FromStation)
		}
		return stationIDLess(entries[i].ToStation, entries[j].ToStation)
	})
	return report.DensityRank{Entries: entries, SkippedRows: skipped}
}

// BuildCorridor profiles each segment pair and recovers a representative
// peak hour by joining its trips back to the flow rows and taking the
// statistical mode of the joined departure hours (0 when nothing joins).
func BuildCorridor(flows []flow.FlowRow, segments []flow.SegmentRow, spec flow.FilterSpec) report.Corridor {
	fr, skippedF := flow.FilterFlows(flows, spec)
	sr, skippedS := flow.FilterSegments(segments, spec)

	hoursByTrip := map[string][]int{}
	for _, r := range fr {
		if hour, ok := flow.HourFromTimeKey(r.DepartureTime); ok {
			hoursByTrip[r.TripKey()] = append(hoursByTrip[r.TripKey()], hour)
		}
	}

	type key struct{ line, from, to string }
	rates := map[key][]float64{}
	hours := map[key][]int{}
	trips := map[key]map[string]struct{}{}
	for _, s := range sr {
		k := key{s.LineID, s.FromStationID, s.ToStationID}
		rates[k] = append(rates[k], s.FullRate)
		hours[k] = append(hours[k], hoursByTrip[s.TripKey()]...)
		if trips[k] == nil {
			trips[k] = map[string]struct{}{}
		}
		trips[k][s.TripKey()] = struct{}{}
	}

	entries := make([]report.CorridorEntry, 0, len(rates))
	for k, rs := range rates {
		entries = append(entries, report.CorridorEntry{
			LineID:      k.line,
			FromStation: k.from,
			ToStation:   k.to,
			AvgLoad:     round3(mean(rs)),
			P95Load:     round3(percentile(rs, 95)),
			PeakHour:    modeInt(hours[k], 0),
			Trips:       len(trips[k]),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].P95Load != entries[j].P95Load {
			return entries[i].P95Load > entries[j].P95Load
		}
		if entries[i].LineID != entries[j].LineID {
			return entries[i].LineID < entries[j].LineID
		}
		if entries[i].FromStation != entries[j].FromStation {
			return stationIDLess(entries[i].FromStation, entries[j].FromStation)
		}
		return stationIDLess(entries[i].ToStation, entries[j].ToStation)
	})
	return report.Corridor{Entries: entries, SkippedRows: skippedF + skippedS}
}

// BuildTripHeatmap places each trip traversal at its position along the
// reconstructed station sequence. Traversals whose endpoints are not
// adjacent in the sequence (skip-stop trips, noisy pairs) are dropped.
// Intended for a single-line filter; with several lines the sequence is
// reconstructed over the merged graph.
func BuildTripHeatmap(segments []flow.SegmentRow, spec flow.FilterSpec) report.TripHeatmap {
	sr, skipped := flow.FilterSegments(segments, spec)
	direction := spec.Direction
	if direction != flow.DirectionDown {
		direction = flow.DirectionUp
	}
	seq := BuildStationSequence(sr, direction)
	pos := make(map[string]int, len(seq))
	for i, id := range seq {
		pos[id] = i
	}

	cells := make([]report.TripHeatmapCell, 0, len(sr))
	for _, s := range sr {
		i, ok := pos[s.FromStationID]
		if !ok || i+1 >= len(seq) || seq[i+1] != s.ToStationID {
			continue
		}
		cells = append(cells, report.TripHeatmapCell{
			LineID:    s.LineID,
			TrainID:   s.TrainID,
			Date:      s.Date,
			TripTime:  s.TripTime,
			Position:  i,
			FullRate:  round3(s.FullRate),
			FromID:    s.FromStationID,
			ToStation: s.ToStationID,
		})
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Date != cells[j].Date {
			return cells[i].Date < cells[j].Date
		}
		if cells[i].TripTime != cells[j].TripTime {
			return cells[i].TripTime < cells[j].TripTime
		}
		if cells[i].TrainID != cells[j].TrainID {
			return cells[i].TrainID < cells[j].TrainID
		}
		return cells[i].Position < cells[j].Position
	})
	return report.TripHeatmap{Sequence: seq, Cells: cells, SkippedRows: skipped}
}

// BuildTimetableScatter groups flow rows by scheduled departure slot,
// earliest slot first.
func BuildTimetableScatter(flows []flow.FlowRow, spec flow.FilterSpec) report.TimetableScatter {
	fr, skipped := flow.FilterFlows(flows, spec)
	loads := map[string][]float64{}
	trips := map[string]map[string]struct{}{}
	for _, r := range fr {
		slot := flow.NormalizeTimeKey(r.DepartureTime)
		if slot == "" {
			skipped++
			continue
		}
		ratio := clamp(float64(r.Boarded+r.Alighted)/float64(r.EffectiveCapacity()), 0, 1)
		loads[slot] = append(loads[slot], ratio)
		if trips[slot] == nil {
			trips[slot] = map[string]struct{}{}
		}
		trips[slot][r.TripKey()] = struct{}{}
	}
	slots := make([]string, 0, len(loads))
	for slot := range loads {
		slots = append(slots, slot)
	}
	sort.Strings(slots)
	out := make([]report.TimetableSlot, 0, len(slots))
	for _, slot := range slots {
		out = append(out, report.TimetableSlot{
			Departure:   flow.FormatTimeKey(slot),
			AvgLoad:     round3(mean(loads[slot])),
			P95Load:     round3(percentile(loads[slot], 95)),
			SampleTrips: len(trips[slot]),
		})
	}
	return report.TimetableScatter{Slots: out, SkippedRows: skipped}
}
