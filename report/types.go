package report

// LineOccupancy is one line's average occupancy expressed 0-100.
type LineOccupancy struct {
	LineID    string  `json:"lineId"`
	Occupancy float64 `json:"occupancy"`
}

// LineP95 is one line's 95th-percentile full rate.
type LineP95 struct {
	LineID  string  `json:"lineId"`
	P95Load float64 `json:"p95Load"`
}

// TopSection identifies the segment with the highest p95 full rate.
type TopSection struct {
	LineID      string  `json:"lineId"`
	FromStation string  `json:"fromStation"`
	ToStation   string  `json:"toStation"`
	P95Load     float64 `json:"p95Load"`
}

// KPISummary bundles the scalar fleet-level metrics for a filtered dataset.
type KPISummary struct {
	LineOccupancy     []LineOccupancy `json:"lineOccupancy"`
	LineP95           []LineP95       `json:"lineP95"`
	OverloadLineCount int             `json:"overloadLineCount"`
	IdleLineCount     int             `json:"idleLineCount"`
	TopSection        *TopSection     `json:"topSection"`
	PeakHours         []int           `json:"peakHours"`
	EfficiencyScore   float64         `json:"efficiencyScore"`
	SkippedRows       int             `json:"skippedRows"`
}

// HeatmapCell is one (line, hour) bucket of the congestion heatmap.
type HeatmapCell struct {
	LineID      string  `json:"lineId"`
	Hour        int     `json:"hour"`
	AvgLoad     float64 `json:"avgLoad"`
	P95Load     float64 `json:"p95Load"`
	OverMinutes int     `json:"overMinutes"`
}

// Heatmap is the line-by-hour congestion view.
type Heatmap struct {
	Cells       []HeatmapCell `json:"cells"`
	SkippedRows int           `json:"skippedRows"`
}

// TrendPoint is one date's load observation for a line.
type TrendPoint struct {
	Date    string  `json:"date"`
	AvgLoad float64 `json:"avgLoad"`
	P95Load float64 `json:"p95Load"`
}

// TrendSeries is one line's daily load series, dates ascending.
type TrendSeries struct {
	LineID string       `json:"lineId"`
	Points []TrendPoint `json:"points"`
}

// Trend is the line-by-date view.
type Trend struct {
	Series      []TrendSeries `json:"series"`
	SkippedRows int           `json:"skippedRows"`
}

// DensityEntry ranks one segment pair by passenger-km per km.
type DensityEntry struct {
	LineID      string  `json:"lineId"`
	FromStation string  `json:"fromStation"`
	ToStation   string  `json:"toStation"`
	Density     float64 `json:"density"`
	TotalPKM    float64 `json:"totalPkm"`
	TotalKM     float64 `json:"totalKm"`
}

// DensityRank is the segment density ranking, densest first.
type DensityRank struct {
	Entries     []DensityEntry `json:"entries"`
	SkippedRows int            `json:"skippedRows"`
}

// CorridorEntry profiles one segment pair with its representative peak hour.
type CorridorEntry struct {
	LineID      string  `json:"lineId"`
	FromStation string  `json:"fromStation"`
	ToStation   string  `json:"toStation"`
	AvgLoad     float64 `json:"avgLoad"`
	P95Load     float64 `json:"p95Load"`
	PeakHour    int     `json:"peakHour"`
	Trips       int     `json:"trips"`
}

// Corridor is the segment load profile, highest p95 first.
type Corridor struct {
	Entries     []CorridorEntry `json:"entries"`
	SkippedRows int             `json:"skippedRows"`
}

// TripHeatmapCell places one trip traversal at its position along the
// reconstructed station sequence.
type TripHeatmapCell struct {
	LineID    string  `json:"lineId"`
	TrainID   string  `json:"trainId"`
	Date      string  `json:"date"`
	TripTime  string  `json:"tripTime"`
	Position  int     `json:"position"`
	FullRate  float64 `json:"fullRate"`
	FromID    string  `json:"fromStation"`
	ToStation string  `json:"toStation"`
}

// TripHeatmap is the per-trip, per-sequence-position load view.
type TripHeatmap struct {
	Sequence    []string          `json:"sequence"`
	Cells       []TripHeatmapCell `json:"cells"`
	SkippedRows int               `json:"skippedRows"`
}

// TimetableSlot summarizes all trips sharing a scheduled departure slot.
type TimetableSlot struct {
	Departure   string  `json:"departure"`
	AvgLoad     float64 `json:"avgLoad"`
	P95Load     float64 `json:"p95Load"`
	SampleTrips int     `json:"sampleTrips"`
}

// TimetableScatter is the departure-slot view, earliest slot first.
type TimetableScatter struct {
	Slots       []TimetableSlot `json:"slots"`
	SkippedRows int             `json:"skippedRows"`
}

// ODAlert flags a heavily used origin-destination pair.
type ODAlert struct {
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	Volume      int     `json:"volume"`
	LoadRatio   float64 `json:"loadRatio"`
	Level       string  `json:"level"`
}

// ODAlerts is the top-N origin-destination pairs by passenger volume.
type ODAlerts struct {
	Alerts      []ODAlert `json:"alerts"`
	SkippedRows int       `json:"skippedRows"`
}

// HubNode is one station of the hub graph. Betweenness and closeness are
// degree-derived proxies, not exact centrality; see engine.BuildHubMetrics.
type HubNode struct {
	StationID   string  `json:"stationId"`
	Name        string  `json:"name"`
	Degree      int     `json:"degree"`
	Betweenness float64 `json:"betweenness"`
	Closeness   float64 `json:"closeness"`
	FlowVolume  int     `json:"flowVolume"`
}

// HubEdge is one directed segment of the hub graph with normalized weight.
type HubEdge struct {
	FromStation string  `json:"fromStation"`
	ToStation   string  `json:"toStation"`
	MeanRate    float64 `json:"meanRate"`
	Weight      float64 `json:"weight"`
}

// HubGraph is the station connectivity view.
type HubGraph struct {
	Nodes       []HubNode `json:"nodes"`
	Edges       []HubEdge `json:"edges"`
	SkippedRows int       `json:"skippedRows"`
}

// Suggestion confidence levels.
const (
	ConfidenceLow    = "low"
	ConfidenceMedium = "medium"
	ConfidenceHigh   = "high"
)

// Suggestion types.
const (
	SuggestionAddTrips  = "addTrips"
	SuggestionTimetable = "timetable"
	SuggestionHub       = "hub"
)

// SuggestionImpact estimates the effect of applying a suggestion.
type SuggestionImpact struct {
	P95Before float64 `json:"p95Before"`
	P95After  float64 `json:"p95After"`
	DropPct   float64 `json:"dropPct"`
}

// SuggestionCost estimates the operational cost of a suggestion.
type SuggestionCost struct {
	ExtraTrips  int     `json:"extraTrips"`
	OpCostIndex float64 `json:"opCostIndex"`
}

// Suggestion is one ranked capacity-adjustment recommendation. The ID is
// deterministic for identical filtered input so detail lookups stay stable
// across repeated calls.
type Suggestion struct {
	ID         string           `json:"id"`
	Type       string           `json:"type"`
	LineID     string           `json:"lineId"`
	Segment    string           `json:"segment,omitempty"`
	StationID  string           `json:"stationId,omitempty"`
	TimeWindow string           `json:"timeWindow"`
	Reason     string           `json:"reason"`
	Confidence string           `json:"confidence"`
	Impact     SuggestionImpact `json:"impact"`
	Cost       SuggestionCost   `json:"cost"`
	Status     string           `json:"status"`
}

// ForecastPoint is one forecast day with its confidence band.
type ForecastPoint struct {
	Date       string   `json:"date"`
	Forecast   float64  `json:"forecast"`
	LowerBound float64  `json:"lowerBound"`
	UpperBound float64  `json:"upperBound"`
	Confidence float64  `json:"confidence"`
	Actual     *float64 `json:"actual,omitempty"`
}

// StationMetric summarizes one station's observed activity.
type StationMetric struct {
	StationID       string  `json:"stationId"`
	Name            string  `json:"name"`
	TotalPassengers int     `json:"totalPassengers"`
	AvgHeadwayMin   float64 `json:"avgHeadwayMin"`
	PeakHour        *int    `json:"peakHour"`
}

// StationMetrics is the per-station activity view.
type StationMetrics struct {
	Stations    []StationMetric `json:"stations"`
	SkippedRows int             `json:"skippedRows"`
}

// LineLoad summarizes one line's average, peak and off-peak load.
type LineLoad struct {
	LineID      string  `json:"lineId"`
	AverageLoad float64 `json:"averageLoad"`
	PeakLoad    float64 `json:"peakLoad"`
	OffPeakLoad float64 `json:"offPeakLoad"`
}

// LineLoads is the peak/off-peak load view.
type LineLoads struct {
	Lines       []LineLoad `json:"lines"`
	SkippedRows int        `json:"skippedRows"`
}
