package engine

import (
	"testing"

	"github.com/JackaZhai/RailwaySystem/flow"
)

type fakeResolver struct {
	stations  map[string]string
	telecodes map[string]string
}

func (f fakeResolver) StationName(id string) string  { return f.stations[id] }
func (f fakeResolver) TelecodeName(tc string) string { return f.telecodes[tc] }

func TestBuildODAlertsTelecodes(t *testing.T) {
	flows := []flow.FlowRow{
		{LineID: "1", TrainID: "G1", StationID: "10", Date: "2024-01-01", DepartureTime: "0800", Boarded: 100, Capacity: 200, OriginTelecode: "AAA", DestTelecode: "BBB"},
		{LineID: "1", TrainID: "G2", StationID: "10", Date: "2024-01-01", DepartureTime: "0900", Boarded: 60, Capacity: 200, OriginTelecode: "AAA", DestTelecode: "BBB"},
		{LineID: "1", TrainID: "G3", StationID: "10", Date: "2024-01-01", DepartureTime: "1000", Boarded: 40, Capacity: 200, OriginTelecode: "CCC", DestTelecode: "BBB"},
	}
	resolver := fakeResolver{telecodes: map[string]string{"AAA": "North", "BBB": "South", "CCC": "East"}}

	got := BuildODAlerts(flows, nil, flow.NewFilterSpec(), 10, resolver)
	if len(got.Alerts) != 2 {
		t.Fatalf("expected 2 pairs, got %+v", got.Alerts)
	}
	top := got.Alerts[0]
	if top.Origin != "North" || top.Destination != "South" || top.Volume != 160 {
		t.Fatalf("top pair = %+v", top)
	}
	if top.LoadRatio != 1 || top.Level != "high" {
		t.Errorf("top pair ratio/level = %v/%s, want 1/high", top.LoadRatio, top.Level)
	}
	// 40/160 = 0.25 -> low
	if got.Alerts[1].Level != "low" {
		t.Errorf("second pair level = %s, want low", got.Alerts[1].Level)
	}
}

func TestBuildODAlertsSegmentFallback(t *testing.T) {
	// no telecodes: origin and destination come from the trip's segment endpoints
	flows := []flow.FlowRow{
		{LineID: "1", TrainID: "G1", StationID: "10", Date: "2024-01-01", DepartureTime: "0800", Boarded: 50, Capacity: 200},
	}
	segments := []flow.SegmentRow{
		{LineID: "1", TrainID: "G1", Date: "2024-01-01", TripTime: "0800", FromStationID: "10", ToStationID: "11", FullRate: 0.5},
		{LineID: "1", TrainID: "G1", Date: "2024-01-01", TripTime: "0800", FromStationID: "11", ToStationID: "12", FullRate: 0.5},
	}
	got := BuildODAlerts(flows, segments, flow.NewFilterSpec(), 10, nil)
	if len(got.Alerts) != 1 {
		t.Fatalf("expected 1 pair, got %+v", got.Alerts)
	}
	if got.Alerts[0].Origin != "10" || got.Alerts[0].Destination != "12" {
		t.Errorf("endpoints = %s -> %s, want 10 -> 12", got.Alerts[0].Origin, got.Alerts[0].Destination)
	}
}

func TestBuildODAlertsTopNClamp(t *testing.T) {
	var flows []flow.FlowRow
	for i := 0; i < 5; i++ {
		flows = append(flows, flow.FlowRow{
			LineID: "1", TrainID: "G1", StationID: "10", Date: "2024-01-01", DepartureTime: "0800",
			Boarded: 10 + i, Capacity: 200,
			OriginTelecode: string(rune('A' + i)), DestTelecode: "Z",
		})
	}
	if got := BuildODAlerts(flows, nil, flow.NewFilterSpec(), 2, nil); len(got.Alerts) != 2 {
		t.Errorf("topN=2 returned %d alerts", len(got.Alerts))
	}
	// zero and negative fall back to the default of 10
	if got := BuildODAlerts(flows, nil, flow.NewFilterSpec(), 0, nil); len(got.Alerts) != 5 {
		t.Errorf("topN=0 returned %d alerts, want all 5", len(got.Alerts))
	}
}

func TestLoadLevel(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{1.0, "high"},
		{0.8, "high"},
		{0.79, "medium"},
		{0.5, "medium"},
		{0.49, "low"},
		{0, "low"},
	}
	for _, tt := range tests {
		if got := loadLevel(tt.ratio); got != tt.want {
			t.Errorf("loadLevel(%v) = %s, want %s", tt.ratio, got, tt.want)
		}
	}
}

func TestTripEndpoints(t *testing.T) {
	segs := []flow.SegmentRow{
		{FromStationID: "2", ToStationID: "3"},
		{FromStationID: "1", ToStationID: "2"},
		{FromStationID: "3", ToStationID: "4"},
	}
	start, end := tripEndpoints(segs)
	if start != "1" || end != "4" {
		t.Errorf("endpoints = (%s,%s), want (1,4)", start, end)
	}
	if s, e := tripEndpoints(nil); s != "" || e != "" {
		t.Errorf("empty trip endpoints = (%q,%q)", s, e)
	}
}
