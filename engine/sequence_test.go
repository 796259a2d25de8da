package engine

import (
	"reflect"
	"testing"

	"github.com/JackaZhai/RailwaySystem/flow"
)

func seg(from, to string) flow.SegmentRow {
	return flow.SegmentRow{LineID: "1", TrainID: "G1", Date: "2024-01-01", TripTime: "0800", FromStationID: from, ToStationID: to, FullRate: 0.5}
}

func repeat(s flow.SegmentRow, n int) []flow.SegmentRow {
	out := make([]flow.SegmentRow, n)
	for i := range out {
		out[i] = s
	}
	return out
}

func TestBuildStationSequenceGreedyWalk(t *testing.T) {
	// edge weights: 1->2 x3, 2->3 x1, 1->3 x5; start is 1 (in-degree 0),
	// heaviest successor of 1 is 3, then 2 is appended as unreached
	var segments []flow.SegmentRow
	segments = append(segments, repeat(seg("1", "2"), 3)...)
	segments = append(segments, repeat(seg("2", "3"), 1)...)
	segments = append(segments, repeat(seg("1", "3"), 5)...)

	got := BuildStationSequence(segments, flow.DirectionUp)
	want := []string{"1", "3", "2"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("sequence = %v, want %v", got, want)
	}
}

func TestBuildStationSequenceDeterministic(t *testing.T) {
	forward := []flow.SegmentRow{seg("5", "3"), seg("3", "8"), seg("8", "2"), seg("5", "3")}
	reversedInput := []flow.SegmentRow{forward[3], forward[2], forward[1], forward[0]}

	a := BuildStationSequence(forward, flow.DirectionUp)
	b := BuildStationSequence(reversedInput, flow.DirectionUp)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("input order changed the sequence: %v vs %v", a, b)
	}
}

func TestBuildStationSequenceReversal(t *testing.T) {
	segments := []flow.SegmentRow{seg("1", "2"), seg("2", "3"), seg("3", "4")}
	up := BuildStationSequence(segments, flow.DirectionUp)
	down := BuildStationSequence(segments, flow.DirectionDown)
	for i := range up {
		if up[i] != down[len(down)-1-i] {
			t.Fatalf("down is not the reverse of up: %v vs %v", up, down)
		}
	}
}

func TestBuildStationSequenceCompleteness(t *testing.T) {
	// 7<->9 is disconnected from the 1-2-3 chain
	segments := []flow.SegmentRow{seg("1", "2"), seg("2", "3"), seg("7", "9")}
	got := BuildStationSequence(segments, flow.DirectionUp)

	seen := map[string]int{}
	for _, id := range got {
		seen[id]++
	}
	for _, id := range []string{"1", "2", "3", "7", "9"} {
		if seen[id] != 1 {
			t.Fatalf("station %s appears %d times in %v", id, seen[id], got)
		}
	}
}

func TestBuildStationSequenceEdgeCases(t *testing.T) {
	if got := BuildStationSequence(nil, flow.DirectionUp); len(got) != 0 {
		t.Errorf("empty input should yield empty sequence, got %v", got)
	}
	single := []flow.SegmentRow{seg("4", "4")}
	if got := BuildStationSequence(single, flow.DirectionUp); len(got) != 1 || got[0] != "4" {
		t.Errorf("self-loop should yield single station, got %v", got)
	}
}

func TestSequenceFromRouteEdges(t *testing.T) {
	edges := []flow.RouteStationEdge{
		{LineID: "1", Sequence: 2, StationID: "30"},
		{LineID: "1", Sequence: 1, StationID: "20"},
		{LineID: "1", Sequence: 3, StationID: "40"},
		{LineID: "1", Sequence: 3, StationID: "40"}, // duplicate
	}
	got := SequenceFromRouteEdges(edges, flow.DirectionUp)
	want := []string{"20", "30", "40"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("sequence = %v, want %v", got, want)
	}
	down := SequenceFromRouteEdges(edges, flow.DirectionDown)
	if !reflect.DeepEqual(down, []string{"40", "30", "20"}) {
		t.Fatalf("down sequence = %v", down)
	}
}
