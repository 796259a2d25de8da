package flow

import "time"

// rowDateOK decides whether a parsed operation date passes the time-range and
// day-type parts of the filter. Both range ends are inclusive.
func rowDateOK(t time.Time, spec FilterSpec) bool {
	if spec.StartDate != "" {
		if start, ok := ParseDate(spec.StartDate); ok && t.Before(start) {
			return false
		}
	}
	if spec.EndDate != "" {
		if end, ok := ParseDate(spec.EndDate); ok && t.After(end) {
			return false
		}
	}
	switch spec.DayType {
	case DayTypeWorkday:
		return WeekdayIndex(t) <= 4
	case DayTypeWeekend:
		return WeekdayIndex(t) >= 5
	}
	return true
}

// FilterFlows applies spec to flow rows and returns the kept rows plus the
// number of rows dropped for unparsable dates. The input slice is never
// mutated. The direction field is a no-op here: flow rows carry no direction
// column, so orientation only matters to sequence-derived views.
func FilterFlows(rows []FlowRow, spec FilterSpec) ([]FlowRow, int) {
	lines := spec.lineSet()
	kept := make([]FlowRow, 0, len(rows))
	skipped := 0
	for _, r := range rows {
		if lines != nil {
			if _, ok := lines[r.LineID]; !ok {
				continue
			}
		}
		t, ok := ParseDate(r.Date)
		if !ok {
			skipped++
			continue
		}
		if !rowDateOK(t, spec) {
			continue
		}
		kept = append(kept, r)
	}
	return kept, skipped
}

// FilterSegments applies spec to segment rows, mirroring FilterFlows.
func FilterSegments(rows []SegmentRow, spec FilterSpec) ([]SegmentRow, int) {
	lines := spec.lineSet()
	kept := make([]SegmentRow, 0, len(rows))
	skipped := 0
	for _, r := range rows {
		if lines != nil {
			if _, ok := lines[r.LineID]; !ok {
				continue
			}
		}
		t, ok := ParseDate(r.Date)
		if !ok {
			skipped++
			continue
		}
		if !rowDateOK(t, spec) {
			continue
		}
		kept = append(kept, r)
	}
	return kept, skipped
}
