package flow

// Direction selects the traversal orientation of a line.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
	DirectionAll  Direction = "all"
)

// DayType restricts rows to workdays, weekends or both.
type DayType string

const (
	DayTypeWorkday DayType = "workday"
	DayTypeWeekend DayType = "weekend"
	DayTypeAll     DayType = "all"
)

// Thresholds holds the full-rate cutoffs used by the KPI aggregator and the
// suggestion rules.
type Thresholds struct {
	Overload float64
	Idle     float64
}

// DefaultThresholds returns the standard overload/idle cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{Overload: 1.0, Idle: 0.35}
}

// FilterSpec is the common filter applied to flow and segment rows before
// aggregation. Zero-value fields act as no-ops: an empty time bound leaves
// that end open, an empty line set keeps every line, DirectionAll and
// DayTypeAll keep everything.
type FilterSpec struct {
	StartDate string // inclusive, YYYY-MM-DD; empty = open
	EndDate   string // inclusive, YYYY-MM-DD; empty = open
	LineIDs   []string
	Direction Direction
	DayType   DayType
	Thresholds
}

// NewFilterSpec returns a FilterSpec that keeps everything, with default
// thresholds.
func NewFilterSpec() FilterSpec {
	return FilterSpec{
		Direction:  DirectionAll,
		DayType:    DayTypeAll,
		Thresholds: DefaultThresholds(),
	}
}

// lineSet materializes the line filter for membership tests.
func (f FilterSpec) lineSet() map[string]struct{} {
	if len(f.LineIDs) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(f.LineIDs))
	for _, id := range f.LineIDs {
		set[id] = struct{}{}
	}
	return set
}

// FlowRow is one passenger-flow observation: a train calling at a station on
// a date, with boarding/alighting counts. Departure and arrival are 4-digit
// HHMM slot keys as recorded at ingestion; Capacity of zero means unknown and
// is treated as 1 by consumers to keep ratios defined.
type FlowRow struct {
	LineID         string
	TrainID        string
	StationID      string
	Date           string // YYYY-MM-DD
	ArrivalTime    string // HHMM, may be empty
	DepartureTime  string // HHMM, may be empty
	Boarded        int
	Alighted       int
	Capacity       int
	OriginTelecode string
	DestTelecode   string
}

// TripKey identifies the trip this observation belongs to: one train's run
// on a line on a date, bucketed by departure slot.
func (r FlowRow) TripKey() string {
	return r.LineID + "|" + r.TrainID + "|" + r.Date + "|" + r.DepartureTime
}

// EffectiveCapacity returns the train capacity, defaulting to 1 when the
// source recorded zero so ratio math stays defined.
func (r FlowRow) EffectiveCapacity() int {
	if r.Capacity <= 0 {
		return 1
	}
	return r.Capacity
}

// SegmentRow is one directed station-to-station traversal by one trip.
// TripTime is the trip's departure slot key (HHMM) and groups the traversals
// of a single run.
type SegmentRow struct {
	LineID        string
	TrainID       string
	Date          string // YYYY-MM-DD
	TripTime      string // HHMM departure slot of the trip
	FromStationID string
	ToStationID   string
	Distance      float64 // km
	Load          float64 // onboard passengers
	FullRate      float64 // load / capacity
}

// TripKey identifies the trip this traversal belongs to.
func (r SegmentRow) TripKey() string {
	return r.LineID + "|" + r.TrainID + "|" + r.Date + "|" + r.TripTime
}

// RouteStationEdge is one entry of a line's stored station ordering, used to
// materialize a sequence when segment data cannot supply one.
type RouteStationEdge struct {
	LineID        string
	Sequence      int
	StationID     string
	PrevStationID string
	NextStationID string
}

// DailyTotal is one day's passenger total for the forecast series.
type DailyTotal struct {
	Date  string // YYYY-MM-DD
	Total float64
}
