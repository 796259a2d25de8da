package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/JackaZhai/RailwaySystem/engine"
	"github.com/JackaZhai/RailwaySystem/flow"
)

type healthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(healthResponse{Status: "ok"})
}

// view wraps a handler with content type, metrics and error classification.
func (s *Server) view(name string, h func(w http.ResponseWriter, r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		start := time.Now()
		err := h(w, r)
		if s.collector != nil {
			s.collector.Requests.WithLabelValues(name).Inc()
			s.collector.RequestDuration.Observe(time.Since(start).Seconds())
			if err != nil {
				s.collector.RequestErrs.WithLabelValues(name).Inc()
			}
		}
		if err == nil {
			return
		}
		var qe *QueryError
		if errors.As(err, &qe) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write(errorPayload(qe.Msg))
			return
		}
		log.Printf("%s request failed: %v", name, err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write(errorPayload("internal error"))
	}
}

func (s *Server) writeResult(w http.ResponseWriter, result any, skipped int) error {
	if s.collector != nil && skipped > 0 {
		s.collector.RowsSkipped.Add(float64(skipped))
	}
	return json.NewEncoder(w).Encode(result)
}

func (s *Server) handleKPI(w http.ResponseWriter, r *http.Request) error {
	spec, err := parseFilterSpec(r.URL.Query(), s.cfg.Engine)
	if err != nil {
		return err
	}
	flows, err := s.source.Flows(r.Context(), spec)
	if err != nil {
		return err
	}
	segments, err := s.source.Segments(r.Context(), spec)
	if err != nil {
		return err
	}
	result := engine.ComputeKPI(flows, segments, spec)
	return s.writeResult(w, result, result.SkippedRows)
}

func (s *Server) handleHeatmap(w http.ResponseWriter, r *http.Request) error {
	spec, err := parseFilterSpec(r.URL.Query(), s.cfg.Engine)
	if err != nil {
		return err
	}
	segments, err := s.source.Segments(r.Context(), spec)
	if err != nil {
		return err
	}
	result := engine.BuildHeatmap(segments, spec)
	return s.writeResult(w, result, result.SkippedRows)
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) error {
	spec, err := parseFilterSpec(r.URL.Query(), s.cfg.Engine)
	if err != nil {
		return err
	}
	segments, err := s.source.Segments(r.Context(), spec)
	if err != nil {
		return err
	}
	result := engine.BuildTrend(segments, spec)
	return s.writeResult(w, result, result.SkippedRows)
}

func (s *Server) handleDensity(w http.ResponseWriter, r *http.Request) error {
	spec, err := parseFilterSpec(r.URL.Query(), s.cfg.Engine)
	if err != nil {
		return err
	}
	segments, err := s.source.Segments(r.Context(), spec)
	if err != nil {
		return err
	}
	result := engine.BuildDensityRank(segments, spec)
	return s.writeResult(w, result, result.SkippedRows)
}

func (s *Server) handleCorridor(w http.ResponseWriter, r *http.Request) error {
	spec, err := parseFilterSpec(r.URL.Query(), s.cfg.Engine)
	if err != nil {
		return err
	}
	flows, err := s.source.Flows(r.Context(), spec)
	if err != nil {
		return err
	}
	segments, err := s.source.Segments(r.Context(), spec)
	if err != nil {
		return err
	}
	result := engine.BuildCorridor(flows, segments, spec)
	return s.writeResult(w, result, result.SkippedRows)
}

func (s *Server) handleTripHeatmap(w http.ResponseWriter, r *http.Request) error {
	spec, err := parseFilterSpec(r.URL.Query(), s.cfg.Engine)
	if err != nil {
		return err
	}
	segments, err := s.source.Segments(r.Context(), spec)
	if err != nil {
		return err
	}
	result := engine.BuildTripHeatmap(segments, spec)
	return s.writeResult(w, result, result.SkippedRows)
}

func (s *Server) handleTimetable(w http.ResponseWriter, r *http.Request) error {
	spec, err := parseFilterSpec(r.URL.Query(), s.cfg.Engine)
	if err != nil {
		return err
	}
	flows, err := s.source.Flows(r.Context(), spec)
	if err != nil {
		return err
	}
	result := engine.BuildTimetableScatter(flows, spec)
	return s.writeResult(w, result, result.SkippedRows)
}

func (s *Server) handleODAlerts(w http.ResponseWriter, r *http.Request) error {
	spec, err := parseFilterSpec(r.URL.Query(), s.cfg.Engine)
	if err != nil {
		return err
	}
	topN, err := parsePositiveInt(r.URL.Query(), "top", s.cfg.Engine.ODAlertTopN)
	if err != nil {
		return err
	}
	flows, err := s.source.Flows(r.Context(), spec)
	if err != nil {
		return err
	}
	segments, err := s.source.Segments(r.Context(), spec)
	if err != nil {
		return err
	}
	result := engine.BuildODAlerts(flows, segments, spec, topN, s.resolver)
	if s.alerts != nil {
		for _, a := range result.Alerts {
			if a.Level == "high" {
				if err := s.alerts.PublishODAlert(a); err != nil {
					log.Printf("publish od alert: %v", err)
				}
			}
		}
	}
	return s.writeResult(w, result, result.SkippedRows)
}

func (s *Server) handleHubMetrics(w http.ResponseWriter, r *http.Request) error {
	spec, err := parseFilterSpec(r.URL.Query(), s.cfg.Engine)
	if err != nil {
		return err
	}
	flows, err := s.source.Flows(r.Context(), spec)
	if err != nil {
		return err
	}
	segments, err := s.source.Segments(r.Context(), spec)
	if err != nil {
		return err
	}
	result := engine.BuildHubMetrics(flows, segments, spec, s.resolver)
	return s.writeResult(w, result, result.SkippedRows)
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) error {
	spec, err := parseFilterSpec(r.URL.Query(), s.cfg.Engine)
	if err != nil {
		return err
	}
	flows, err := s.source.Flows(r.Context(), spec)
	if err != nil {
		return err
	}
	segments, err := s.source.Segments(r.Context(), spec)
	if err != nil {
		return err
	}
	suggestions := engine.BuildSuggestions(flows, segments, spec)

	// detail lookup re-runs the generator; ids are deterministic
	if id := r.URL.Query().Get("id"); id != "" {
		suggestion, ok := engine.FindSuggestion(suggestions, id)
		if !ok {
			return &QueryError{Msg: "no such suggestion: " + id}
		}
		return s.writeResult(w, suggestion, 0)
	}

	if s.alerts != nil {
		for _, suggestion := range suggestions {
			if err := s.alerts.PublishSuggestion(suggestion); err != nil {
				log.Printf("publish suggestion: %v", err)
			}
		}
	}
	return s.writeResult(w, suggestions, 0)
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) error {
	days, err := parsePositiveInt(r.URL.Query(), "days", 7)
	if err != nil {
		return err
	}
	series, err := s.source.DailyTotals(r.Context(), r.URL.Query().Get("line"))
	if err != nil {
		return err
	}
	return s.writeResult(w, engine.Forecast(series, days), 0)
}

func (s *Server) handleSequence(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()
	lineID := q.Get("line")
	if lineID == "" {
		return &QueryError{Msg: "line is required"}
	}
	spec, err := parseFilterSpec(q, s.cfg.Engine)
	if err != nil {
		return err
	}
	spec.LineIDs = []string{lineID}
	direction := spec.Direction
	if direction != flow.DirectionDown {
		direction = flow.DirectionUp
	}
	segments, err := s.source.Segments(r.Context(), spec)
	if err != nil {
		return err
	}
	filtered, skipped := flow.FilterSegments(segments, spec)
	seq := engine.BuildStationSequence(filtered, direction)
	if len(seq) == 0 {
		// no observations; fall back to the stored ordering
		edges, err := s.source.RouteEdges(r.Context(), lineID)
		if err != nil {
			return err
		}
		seq = engine.SequenceFromRouteEdges(edges, direction)
	}
	return s.writeResult(w, map[string]any{"lineId": lineID, "direction": string(direction), "stations": seq}, skipped)
}

func (s *Server) handleStationMetrics(w http.ResponseWriter, r *http.Request) error {
	spec, err := parseFilterSpec(r.URL.Query(), s.cfg.Engine)
	if err != nil {
		return err
	}
	flows, err := s.source.Flows(r.Context(), spec)
	if err != nil {
		return err
	}
	result := engine.ComputeStationMetrics(flows, spec, s.resolver)
	return s.writeResult(w, result, result.SkippedRows)
}

func (s *Server) handleLineLoads(w http.ResponseWriter, r *http.Request) error {
	spec, err := parseFilterSpec(r.URL.Query(), s.cfg.Engine)
	if err != nil {
		return err
	}
	flows, err := s.source.Flows(r.Context(), spec)
	if err != nil {
		return err
	}
	result := engine.ComputeLineLoads(flows, spec)
	return s.writeResult(w, result, result.SkippedRows)
}
