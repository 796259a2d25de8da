package engine

import (
	"testing"

	"github.com/JackaZhai/RailwaySystem/flow"
)

func flatHistory(start string, days int, total float64) []flow.DailyTotal {
	first, _ := flow.ParseDate(start)
	out := make([]flow.DailyTotal, days)
	for i := range out {
		out[i] = flow.DailyTotal{Date: first.AddDate(0, 0, i).Format("2006-01-02"), Total: total}
	}
	return out
}

func TestForecastEmptyHistory(t *testing.T) {
	if got := Forecast(nil, 7); len(got) != 0 {
		t.Fatalf("expected empty forecast, got %+v", got)
	}
	bad := []flow.DailyTotal{{Date: "not-a-date", Total: 100}}
	if got := Forecast(bad, 7); len(got) != 0 {
		t.Fatalf("unparsable history should yield empty forecast, got %+v", got)
	}
}

func TestForecastHorizonClamp(t *testing.T) {
	history := flatHistory("2024-01-01", 14, 1000)
	if got := Forecast(history, 0); len(got) != 1 {
		t.Errorf("horizon 0 should clamp to 1, got %d points", len(got))
	}
	if got := Forecast(history, 200); len(got) != 90 {
		t.Errorf("horizon 200 should clamp to 90, got %d points", len(got))
	}
	if got := Forecast(history, -3); len(got) != 1 {
		t.Errorf("negative horizon should clamp to 1, got %d points", len(got))
	}
}

func TestForecastFlatSeries(t *testing.T) {
	history := flatHistory("2024-01-01", 21, 1000)
	got := Forecast(history, 7)
	if len(got) != 7 {
		t.Fatalf("expected 7 points, got %d", len(got))
	}
	if got[0].Date != "2024-01-22" {
		t.Errorf("first forecast date = %s, want the day after history ends", got[0].Date)
	}
	for _, p := range got {
		if p.Forecast != 1000 {
			t.Errorf("flat history should forecast the level: %+v", p)
		}
		// zero spread collapses the interval onto the forecast
		if p.LowerBound != 1000 || p.UpperBound != 1000 {
			t.Errorf("bounds = [%v,%v], want [1000,1000]", p.LowerBound, p.UpperBound)
		}
		if p.Confidence != 0.9 {
			t.Errorf("zero-variance confidence = %v, want 0.9", p.Confidence)
		}
		if p.Actual != nil {
			t.Errorf("future date must not carry an actual: %+v", p)
		}
	}
}

func TestForecastBoundsOrderedAndNonNegative(t *testing.T) {
	history := []flow.DailyTotal{
		{Date: "2024-01-01", Total: 50},
		{Date: "2024-01-02", Total: 500},
		{Date: "2024-01-03", Total: 20},
		{Date: "2024-01-04", Total: 400},
		{Date: "2024-01-05", Total: 10},
	}
	got := Forecast(history, 30)
	for _, p := range got {
		if p.LowerBound < 0 {
			t.Fatalf("negative lower bound: %+v", p)
		}
		if !(p.LowerBound <= p.Forecast && p.Forecast <= p.UpperBound) {
			t.Fatalf("bounds do not bracket the forecast: %+v", p)
		}
		if p.Confidence < 0.65 || p.Confidence > 0.95 {
			t.Fatalf("confidence outside [0.65,0.95]: %+v", p)
		}
	}
}

func TestForecastWeekdaySeasonality(t *testing.T) {
	// four full weeks: Saturdays carry double the weekday volume
	first, _ := flow.ParseDate("2024-01-01") // a Monday
	var history []flow.DailyTotal
	for i := 0; i < 28; i++ {
		d := first.AddDate(0, 0, i)
		total := 1000.0
		if flow.WeekdayIndex(d) == 5 {
			total = 2000
		}
		history = append(history, flow.DailyTotal{Date: d.Format("2006-01-02"), Total: total})
	}
	got := Forecast(history, 7)
	if len(got) != 7 {
		t.Fatalf("expected 7 points, got %d", len(got))
	}
	var saturday, monday float64
	for i, p := range got {
		d := first.AddDate(0, 0, 28+i)
		switch flow.WeekdayIndex(d) {
		case 5:
			saturday = p.Forecast
		case 0:
			monday = p.Forecast
		}
	}
	if saturday <= monday {
		t.Fatalf("Saturday forecast %v should exceed Monday forecast %v", saturday, monday)
	}
}
