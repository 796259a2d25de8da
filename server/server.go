package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/JackaZhai/RailwaySystem/config"
	"github.com/JackaZhai/RailwaySystem/engine"
	"github.com/JackaZhai/RailwaySystem/flow"
	"github.com/JackaZhai/RailwaySystem/metrics"
	"github.com/JackaZhai/RailwaySystem/publisher"
)

// Source is the row collaborator the handlers read snapshots from.
type Source interface {
	Flows(ctx context.Context, spec flow.FilterSpec) ([]flow.FlowRow, error)
	Segments(ctx context.Context, spec flow.FilterSpec) ([]flow.SegmentRow, error)
	RouteEdges(ctx context.Context, lineID string) ([]flow.RouteStationEdge, error)
	DailyTotals(ctx context.Context, lineID string) ([]flow.DailyTotal, error)
}

// Server wires the engine to HTTP.
type Server struct {
	cfg       config.AppConfig
	source    Source
	resolver  engine.NameResolver
	collector *metrics.Collector
	alerts    *publisher.AlertPublisher
	cache     *responseCache

	httpSrv *http.Server
}

const responseCacheTTL = 30 * time.Second

func New(cfg config.AppConfig, source Source, resolver engine.NameResolver, collector *metrics.Collector, alerts *publisher.AlertPublisher) *Server {
	return &Server{
		cfg:       cfg,
		source:    source,
		resolver:  resolver,
		collector: collector,
		alerts:    alerts,
		cache:     newResponseCache(responseCacheTTL),
	}
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/kpi", s.cachedView("kpi", s.handleKPI))
	mux.HandleFunc("/api/heatmap", s.cachedView("heatmap", s.handleHeatmap))
	mux.HandleFunc("/api/trend", s.cachedView("trend", s.handleTrend))
	mux.HandleFunc("/api/density", s.cachedView("density", s.handleDensity))
	mux.HandleFunc("/api/corridor", s.cachedView("corridor", s.handleCorridor))
	mux.HandleFunc("/api/trip-heatmap", s.cachedView("trip-heatmap", s.handleTripHeatmap))
	mux.HandleFunc("/api/timetable", s.cachedView("timetable", s.handleTimetable))
	mux.HandleFunc("/api/od-alerts", s.view("od-alerts", s.handleODAlerts))
	mux.HandleFunc("/api/hub-metrics", s.cachedView("hub-metrics", s.handleHubMetrics))
	mux.HandleFunc("/api/suggestions", s.view("suggestions", s.handleSuggestions))
	mux.HandleFunc("/api/forecast", s.cachedView("forecast", s.handleForecast))
	mux.HandleFunc("/api/sequence", s.cachedView("sequence", s.handleSequence))
	mux.HandleFunc("/api/station-metrics", s.cachedView("station-metrics", s.handleStationMetrics))
	mux.HandleFunc("/api/line-loads", s.cachedView("line-loads", s.handleLineLoads))
	return mux
}

// Start begins serving in the background.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.cfg.Server.Port)
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()
	log.Printf("server listening on %s", addr)
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}
