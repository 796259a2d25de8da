package engine

import (
	"sort"
	"time"

	"github.com/JackaZhai/RailwaySystem/flow"
	"github.com/JackaZhai/RailwaySystem/report"
)

// observationTime combines a row's date and departure slot into a timestamp.
// Rows without a usable slot fall back to the arrival slot.
func observationTime(r flow.FlowRow) (time.Time, bool) {
	t, ok := flow.ParseDate(r.Date)
	if !ok {
		return time.Time{}, false
	}
	slot := flow.NormalizeTimeKey(r.DepartureTime)
	if slot == "" {
		slot = flow.NormalizeTimeKey(r.ArrivalTime)
	}
	if slot == "" {
		return time.Time{}, false
	}
	h := int(slot[0]-'0')*10 + int(slot[1]-'0')
	m := int(slot[2]-'0')*10 + int(slot[3]-'0')
	if h > 23 || m > 59 {
		return time.Time{}, false
	}
	return t.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute), true
}

// ComputeStationMetrics summarizes each station's observed activity: total
// boarded+alighted volume, mean headway between consecutive observations in
// minutes, and the hour with the highest summed volume. PeakHour is nil when
// no observation carries a usable time slot.
func ComputeStationMetrics(flows []flow.FlowRow, spec flow.FilterSpec, resolver NameResolver) report.StationMetrics {
	fr, skipped := flow.FilterFlows(flows, spec)

	totals := map[string]int{}
	times := map[string][]time.Time{}
	hourly := map[string]map[int]int{}
	for _, r := range fr {
		vol := r.Boarded + r.Alighted
		totals[r.StationID] += vol
		t, ok := observationTime(r)
		if !ok {
			continue
		}
		times[r.StationID] = append(times[r.StationID], t)
		if hourly[r.StationID] == nil {
			hourly[r.StationID] = map[int]int{}
		}
		hourly[r.StationID][t.Hour()] += vol
	}

	ids := make([]string, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	sortStationIDs(ids)

	stations := make([]report.StationMetric, 0, len(ids))
	for _, id := range ids {
		metric := report.StationMetric{
			StationID:       id,
			Name:            resolveName(resolver, id, false),
			TotalPassengers: totals[id],
		}
		if ts := times[id]; len(ts) > 1 {
			sort.Slice(ts, func(i, j int) bool { return ts[i].Before(ts[j]) })
			sum := 0.0
			for i := 1; i < len(ts); i++ {
				sum += ts[i].Sub(ts[i-1]).Minutes()
			}
			metric.AvgHeadwayMin = round1(sum / float64(len(ts)-1))
		}
		if buckets := hourly[id]; len(buckets) > 0 {
			bestHour, bestVol := 0, -1
			for h := 0; h < 24; h++ {
				if v, ok := buckets[h]; ok && v > bestVol {
					bestHour, bestVol = h, v
				}
			}
			peak := bestHour
			metric.PeakHour = &peak
		}
		stations = append(stations, metric)
	}
	return report.StationMetrics{Stations: stations, SkippedRows: skipped}
}

// peakWindow reports whether an hour falls inside the morning (07-09) or
// evening (16-19) peak.
func peakWindow(hour int) bool {
	return (hour >= 7 && hour <= 9) || (hour >= 16 && hour <= 19)
}

// ComputeLineLoads splits each line's mean boarded+alighted volume into
// overall, peak-window and off-peak figures.
func ComputeLineLoads(flows []flow.FlowRow, spec flow.FilterSpec) report.LineLoads {
	fr, skipped := flow.FilterFlows(flows, spec)

	type acc struct {
		sum, peakSum, offSum       float64
		count, peakCount, offCount int
	}
	byLine := map[string]*acc{}
	for _, r := range fr {
		a := byLine[r.LineID]
		if a == nil {
			a = &acc{}
			byLine[r.LineID] = a
		}
		vol := float64(r.Boarded + r.Alighted)
		a.sum += vol
		a.count++
		hour, ok := flow.HourFromTimeKey(r.DepartureTime)
		if !ok {
			continue
		}
		if peakWindow(hour) {
			a.peakSum += vol
			a.peakCount++
		} else {
			a.offSum += vol
			a.offCount++
		}
	}

	lines := make([]string, 0, len(byLine))
	for line := range byLine {
		lines = append(lines, line)
	}
	sort.Strings(lines)

	out := make([]report.LineLoad, 0, len(lines))
	for _, line := range lines {
		a := byLine[line]
		load := report.LineLoad{LineID: line}
		if a.count > 0 {
			load.AverageLoad = round1(a.sum / float64(a.count))
		}
		if a.peakCount > 0 {
			load.PeakLoad = round1(a.peakSum / float64(a.peakCount))
		}
		if a.offCount > 0 {
			load.OffPeakLoad = round1(a.offSum / float64(a.offCount))
		}
		out = append(out, load)
	}
	return report.LineLoads{Lines: out, SkippedRows: skipped}
}
