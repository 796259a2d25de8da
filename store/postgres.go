package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/JackaZhai/RailwaySystem/flow"
)

// Store reads flow, segment and route rows from Postgres.
type Store struct {
	db *sql.DB

	mu            sync.RWMutex
	stationNames  map[string]string // station_id -> display name
	telecodeNames map[string]string // telecode -> display name
}

// Open connects to Postgres through the pgx stdlib driver.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return &Store{
		db:            db,
		stationNames:  map[string]string{},
		telecodeNames: map[string]string{},
	}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error { return s.db.Close() }

// filterClause pushes the line and date parts of a FilterSpec into SQL. The
// engine re-applies the full filter; the pushdown just bounds the scan.
func filterClause(spec flow.FilterSpec, dateCol string) (string, []any) {
	var conds []string
	var args []any
	if len(spec.LineIDs) > 0 {
		args = append(args, pqArray(spec.LineIDs))
		conds = append(conds, fmt.Sprintf("line_id = ANY($%d)", len(args)))
	}
	if spec.StartDate != "" {
		args = append(args, spec.StartDate)
		conds = append(conds, fmt.Sprintf("%s >= $%d", dateCol, len(args)))
	}
	if spec.EndDate != "" {
		args = append(args, spec.EndDate)
		conds = append(conds, fmt.Sprintf("%s <= $%d", dateCol, len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// Flows returns passenger-flow rows for the given filter.
func (s *Store) Flows(ctx context.Context, spec flow.FilterSpec) ([]flow.FlowRow, error) {
	where, args := filterClause(spec, "operation_date")
	q := `SELECT line_id, train_id, station_id, operation_date,
	COALESCE(arrival_time, ''), COALESCE(departure_time, ''),
	COALESCE(boarded, 0), COALESCE(alighted, 0), COALESCE(capacity, 0),
	COALESCE(origin_telecode, ''), COALESCE(destination_telecode, '')
	FROM flow_records` + where
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query flow_records: %w", err)
	}
	defer rows.Close()

	var out []flow.FlowRow
	for rows.Next() {
		var r flow.FlowRow
		if err := rows.Scan(&r.LineID, &r.TrainID, &r.StationID, &r.Date,
			&r.ArrivalTime, &r.DepartureTime, &r.Boarded, &r.Alighted,
			&r.Capacity, &r.OriginTelecode, &r.DestTelecode); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Segments returns segment traversal rows for the given filter.
func (s *Store) Segments(ctx context.Context, spec flow.FilterSpec) ([]flow.SegmentRow, error) {
	where, args := filterClause(spec, "operation_date")
	q := `SELECT line_id, train_id, operation_date, COALESCE(trip_time, ''),
	from_station_id, to_station_id,
	COALESCE(segment_distance, 0), COALESCE(segment_load, 0), COALESCE(full_rate, 0)
	FROM segment_records` + where
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query segment_records: %w", err)
	}
	defer rows.Close()

	var out []flow.SegmentRow
	for rows.Next() {
		var r flow.SegmentRow
		if err := rows.Scan(&r.LineID, &r.TrainID, &r.Date, &r.TripTime,
			&r.FromStationID, &r.ToStationID, &r.Distance, &r.Load, &r.FullRate); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// RouteEdges returns the stored station ordering for a line.
func (s *Store) RouteEdges(ctx context.Context, lineID string) ([]flow.RouteStationEdge, error) {
	q := `SELECT line_id, sequence, station_id,
	COALESCE(prev_station_id, ''), COALESCE(next_station_id, '')
	FROM route_stations WHERE line_id = $1 ORDER BY sequence`
	rows, err := s.db.QueryContext(ctx, q, lineID)
	if err != nil {
		return nil, fmt.Errorf("query route_stations: %w", err)
	}
	defer rows.Close()

	var out []flow.RouteStationEdge
	for rows.Next() {
		var e flow.RouteStationEdge
		if err := rows.Scan(&e.LineID, &e.Sequence, &e.StationID, &e.PrevStationID, &e.NextStationID); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// DailyTotals returns the historical daily passenger totals for the forecast
// series, optionally restricted to one line.
func (s *Store) DailyTotals(ctx context.Context, lineID string) ([]flow.DailyTotal, error) {
	q := `SELECT operation_date, SUM(COALESCE(boarded,0) + COALESCE(alighted,0))::float8
	FROM flow_records`
	var args []any
	if lineID != "" {
		q += ` WHERE line_id = $1`
		args = append(args, lineID)
	}
	q += ` GROUP BY operation_date ORDER BY operation_date`
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query daily totals: %w", err)
	}
	defer rows.Close()

	var out []flow.DailyTotal
	for rows.Next() {
		var d flow.DailyTotal
		if err := rows.Scan(&d.Date, &d.Total); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// LoadNames caches station display names and telecodes for label lookups.
func (s *Store) LoadNames(ctx context.Context) error {
	q := `SELECT station_id, COALESCE(name, ''), COALESCE(telecode, '') FROM stations`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return fmt.Errorf("query stations: %w", err)
	}
	defer rows.Close()

	stations := map[string]string{}
	telecodes := map[string]string{}
	for rows.Next() {
		var id, name, telecode string
		if err := rows.Scan(&id, &name, &telecode); err != nil {
			return err
		}
		if name != "" {
			stations[id] = name
			if telecode != "" {
				telecodes[telecode] = name
			}
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.stationNames = stations
	s.telecodeNames = telecodes
	s.mu.Unlock()
	return nil
}

// StationName resolves a station id to its display name; unknown ids come
// back empty so callers fall back to the id itself.
func (s *Store) StationName(stationID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stationNames[stationID]
}

// TelecodeName resolves a telecode to a station display name.
func (s *Store) TelecodeName(telecode string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.telecodeNames[telecode]
}

func pqArray(a []string) any { return a }
