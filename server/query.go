package server

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/JackaZhai/RailwaySystem/config"
	"github.com/JackaZhai/RailwaySystem/flow"
)

type QueryError struct{ Msg string }

func (e *QueryError) Error() string { return e.Msg }

// parseFilterSpec validates the common query parameters and builds the
// filter passed to every engine call. Unknown values fail fast here; the
// engine itself never rejects input.
func parseFilterSpec(q url.Values, defaults config.EngineConfig) (flow.FilterSpec, error) {
	spec := flow.NewFilterSpec()
	spec.Overload = defaults.OverloadThreshold
	spec.Idle = defaults.IdleThreshold

	if v := strings.TrimSpace(q.Get("start")); v != "" {
		if _, ok := flow.ParseDate(v); !ok {
			return spec, &QueryError{Msg: "start must be a date (YYYY-MM-DD): " + v}
		}
		spec.StartDate = v
	}
	if v := strings.TrimSpace(q.Get("end")); v != "" {
		if _, ok := flow.ParseDate(v); !ok {
			return spec, &QueryError{Msg: "end must be a date (YYYY-MM-DD): " + v}
		}
		spec.EndDate = v
	}
	if v := strings.TrimSpace(q.Get("lines")); v != "" {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				spec.LineIDs = append(spec.LineIDs, id)
			}
		}
	}
	switch d := flow.Direction(strings.ToLower(strings.TrimSpace(q.Get("direction")))); d {
	case "":
	case flow.DirectionUp, flow.DirectionDown, flow.DirectionAll:
		spec.Direction = d
	default:
		return spec, &QueryError{Msg: "direction must be up, down or all"}
	}
	switch d := flow.DayType(strings.ToLower(strings.TrimSpace(q.Get("dayType")))); d {
	case "":
	case flow.DayTypeWorkday, flow.DayTypeWeekend, flow.DayTypeAll:
		spec.DayType = d
	default:
		return spec, &QueryError{Msg: "dayType must be workday, weekend or all"}
	}
	if v := strings.TrimSpace(q.Get("overload")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return spec, &QueryError{Msg: "overload must be a non-negative number"}
		}
		spec.Overload = f
	}
	if v := strings.TrimSpace(q.Get("idle")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return spec, &QueryError{Msg: "idle must be a non-negative number"}
		}
		spec.Idle = f
	}
	return spec, nil
}

// parsePositiveInt reads an optional positive integer parameter, returning
// the fallback when absent.
func parsePositiveInt(q url.Values, name string, fallback int) (int, error) {
	v := strings.TrimSpace(q.Get(name))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, &QueryError{Msg: name + " must be a positive integer"}
	}
	return n, nil
}

func errorPayload(msg string) []byte {
	b, _ := json.Marshal(map[string]string{"error": msg})
	return b
}
