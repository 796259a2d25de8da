package engine

import (
	"sort"
	"time"

	"github.com/JackaZhai/RailwaySystem/flow"
	"github.com/JackaZhai/RailwaySystem/report"
)

const (
	forecastWindowDays = 14
	forecastMaxHorizon = 90
	// one-sided ~90% bound under a normal approximation
	forecastZ = 1.64
)

type forecastDay struct {
	date  time.Time
	total float64
}

// Forecast produces a day-ahead demand forecast from a historical daily
// total series. The trailing 14-day window supplies the level, spread and
// linear trend; per-weekday means over the whole history supply weekly
// seasonality. Horizon is clamped into [1,90]; empty history yields an empty
// result. When the series already contains a total for a forecast date it is
// attached for comparison without altering the forecast itself.
func Forecast(series []flow.DailyTotal, horizonDays int) []report.ForecastPoint {
	days := make([]forecastDay, 0, len(series))
	actuals := map[string]float64{}
	for _, d := range series {
		t, ok := flow.ParseDate(d.Date)
		if !ok {
			continue
		}
		days = append(days, forecastDay{date: t, total: d.Total})
		actuals[t.Format("2006-01-02")] = d.Total
	}
	if len(days) == 0 {
		return []report.ForecastPoint{}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].date.Before(days[j].date) })

	if horizonDays < 1 {
		horizonDays = 1
	}
	if horizonDays > forecastMaxHorizon {
		horizonDays = forecastMaxHorizon
	}

	window := days
	if len(window) > forecastWindowDays {
		window = window[len(window)-forecastWindowDays:]
	}
	windowTotals := make([]float64, len(window))
	for i, d := range window {
		windowTotals[i] = d.total
	}
	windowMean := mean(windowTotals)
	stdev := popStdDev(windowTotals)
	slope := olsSlope(windowTotals)

	weekdaySums := map[int]float64{}
	weekdayCounts := map[int]int{}
	for _, d := range days {
		wd := flow.WeekdayIndex(d.date)
		weekdaySums[wd] += d.total
		weekdayCounts[wd]++
	}

	cv := 0.0
	if windowMean > 0 {
		cv = stdev / windowMean
	}
	confidence := clamp(0.9-cv*0.5, 0.65, 0.95)

	last := days[len(days)-1].date
	points := make([]report.ForecastPoint, 0, horizonDays)
	for i := 1; i <= horizonDays; i++ {
		date := last.AddDate(0, 0, i)
		base := windowMean
		if n := weekdayCounts[flow.WeekdayIndex(date)]; n > 0 {
			base = weekdaySums[flow.WeekdayIndex(date)] / float64(n)
		}
		forecast := base + slope*float64(i)
		if forecast < 0 {
			forecast = 0
		}
		lower := forecast - forecastZ*stdev
		if lower < 0 {
			lower = 0
		}
		upper := forecast + forecastZ*stdev
		if upper < lower {
			upper = lower
		}
		point := report.ForecastPoint{
			Date:       date.Format("2006-01-02"),
			Forecast:   round1(forecast),
			LowerBound: round1(lower),
			UpperBound: round1(upper),
			Confidence: round3(confidence),
		}
		if actual, ok := actuals[point.Date]; ok {
			a := actual
			point.Actual = &a
		}
		points = append(points, point)
	}
	return points
}
