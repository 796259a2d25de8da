package engine

import (
	"testing"

	"github.com/JackaZhai/RailwaySystem/flow"
	"github.com/JackaZhai/RailwaySystem/report"
)

func overloadedSegments() []flow.SegmentRow {
	return []flow.SegmentRow{
		{LineID: "1", TrainID: "G1", Date: "2024-01-01", TripTime: "0810", FromStationID: "10", ToStationID: "11", FullRate: 1.3},
		{LineID: "1", TrainID: "G2", Date: "2024-01-01", TripTime: "0840", FromStationID: "10", ToStationID: "11", FullRate: 1.2},
		{LineID: "1", TrainID: "G3", Date: "2024-01-01", TripTime: "1710", FromStationID: "10", ToStationID: "11", FullRate: 0.8},
	}
}

func TestBuildSuggestionsOverloadRule(t *testing.T) {
	got := BuildSuggestions(nil, overloadedSegments(), flow.NewFilterSpec())

	var addTrips []report.Suggestion
	for _, s := range got {
		if s.Type == report.SuggestionAddTrips {
			addTrips = append(addTrips, s)
		}
	}
	if len(addTrips) != 1 {
		t.Fatalf("expected 1 add-trips suggestion, got %+v", got)
	}
	s := addTrips[0]
	if s.LineID != "1" || s.Segment != "10-11" {
		t.Fatalf("unexpected target: %+v", s)
	}
	if s.TimeWindow != "08:00-08:59" {
		t.Errorf("timeWindow = %s, want the modal hour window 08:00-08:59", s.TimeWindow)
	}
	if s.Impact.P95After < 0.85 {
		t.Errorf("p95After = %v, must not drop below the 0.85 floor", s.Impact.P95After)
	}
	if s.Impact.P95After >= s.Impact.P95Before {
		t.Errorf("impact must show a drop: %+v", s.Impact)
	}
	if s.Confidence != report.ConfidenceHigh || s.Status != "proposed" {
		t.Errorf("confidence/status = %s/%s", s.Confidence, s.Status)
	}
	if s.Cost.ExtraTrips != 2 {
		t.Errorf("extraTrips = %d, want 2", s.Cost.ExtraTrips)
	}
}

func TestBuildSuggestionsIdleRule(t *testing.T) {
	flows := []flow.FlowRow{
		{LineID: "7", TrainID: "G7", StationID: "70", Date: "2024-01-01", DepartureTime: "0900", Boarded: 5, Alighted: 5, Capacity: 200},
	}
	got := BuildSuggestions(flows, nil, flow.NewFilterSpec())

	if len(got) != 1 || got[0].Type != report.SuggestionTimetable {
		t.Fatalf("expected a single timetable suggestion, got %+v", got)
	}
	if got[0].LineID != "7" || got[0].TimeWindow != "all-day" {
		t.Errorf("suggestion = %+v", got[0])
	}
	if got[0].Impact.P95After <= got[0].Impact.P95Before {
		t.Errorf("timetable tuning should raise utilization: %+v", got[0].Impact)
	}
}

func TestBuildSuggestionsHubRule(t *testing.T) {
	segments := []flow.SegmentRow{
		seg("1", "2"), seg("2", "3"), seg("4", "2"), seg("3", "5"),
	}
	got := BuildSuggestions(nil, segments, flow.NewFilterSpec())

	var hubs []report.Suggestion
	for _, s := range got {
		if s.Type == report.SuggestionHub {
			hubs = append(hubs, s)
		}
	}
	if len(hubs) != 2 {
		t.Fatalf("expected 2 hub suggestions, got %+v", hubs)
	}
	// station 2 has degree 3, station 3 degree 2
	if hubs[0].StationID != "2" || hubs[1].StationID != "3" {
		t.Errorf("hub targets = %s, %s, want 2 then 3", hubs[0].StationID, hubs[1].StationID)
	}
}

func TestSuggestionIDsStable(t *testing.T) {
	a := BuildSuggestions(nil, overloadedSegments(), flow.NewFilterSpec())
	b := BuildSuggestions(nil, overloadedSegments(), flow.NewFilterSpec())
	if len(a) == 0 || len(a) != len(b) {
		t.Fatalf("generator is not deterministic: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Fatalf("id changed between runs: %s vs %s", a[i].ID, b[i].ID)
		}
		if len(a[i].ID) != len("sg-")+8 {
			t.Errorf("unexpected id shape: %s", a[i].ID)
		}
	}
}

func TestFindSuggestion(t *testing.T) {
	list := BuildSuggestions(nil, overloadedSegments(), flow.NewFilterSpec())
	if len(list) == 0 {
		t.Fatal("need at least one suggestion")
	}
	got, ok := FindSuggestion(list, list[0].ID)
	if !ok || got.ID != list[0].ID {
		t.Fatalf("lookup failed for %s", list[0].ID)
	}
	if _, ok := FindSuggestion(list, "sg-ffffffff"); ok {
		t.Error("unknown id must not resolve")
	}
}
