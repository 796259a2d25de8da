package server

import (
	"net/url"
	"reflect"
	"testing"

	"github.com/JackaZhai/RailwaySystem/config"
	"github.com/JackaZhai/RailwaySystem/flow"
)

func engineDefaults() config.EngineConfig {
	return config.EngineConfig{OverloadThreshold: 1.0, IdleThreshold: 0.35, ODAlertTopN: 10}
}

func TestParseFilterSpec(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr bool
		check   func(t *testing.T, spec flow.FilterSpec)
	}{
		{
			name:  "empty query uses defaults",
			query: "",
			check: func(t *testing.T, spec flow.FilterSpec) {
				if spec.Overload != 1.0 || spec.Idle != 0.35 {
					t.Errorf("thresholds = %v/%v", spec.Overload, spec.Idle)
				}
				if spec.Direction != flow.DirectionAll || spec.DayType != flow.DayTypeAll {
					t.Errorf("enums = %s/%s", spec.Direction, spec.DayType)
				}
			},
		},
		{
			name:  "dates and lines",
			query: "start=2024-01-01&end=2024-01-31&lines=1,%202,,3",
			check: func(t *testing.T, spec flow.FilterSpec) {
				if spec.StartDate != "2024-01-01" || spec.EndDate != "2024-01-31" {
					t.Errorf("dates = %s..%s", spec.StartDate, spec.EndDate)
				}
				if !reflect.DeepEqual(spec.LineIDs, []string{"1", "2", "3"}) {
					t.Errorf("lineIDs = %v", spec.LineIDs)
				}
			},
		},
		{
			name:  "direction and dayType case-insensitive",
			query: "direction=Down&dayType=WORKDAY",
			check: func(t *testing.T, spec flow.FilterSpec) {
				if spec.Direction != flow.DirectionDown || spec.DayType != flow.DayTypeWorkday {
					t.Errorf("enums = %s/%s", spec.Direction, spec.DayType)
				}
			},
		},
		{
			name:  "threshold overrides",
			query: "overload=1.2&idle=0.2",
			check: func(t *testing.T, spec flow.FilterSpec) {
				if spec.Overload != 1.2 || spec.Idle != 0.2 {
					t.Errorf("thresholds = %v/%v", spec.Overload, spec.Idle)
				}
			},
		},
		{name: "bad start date", query: "start=yesterday", wantErr: true},
		{name: "bad end date", query: "end=2024-13-99x", wantErr: true},
		{name: "bad direction", query: "direction=sideways", wantErr: true},
		{name: "bad dayType", query: "dayType=holiday", wantErr: true},
		{name: "negative overload", query: "overload=-1", wantErr: true},
		{name: "non-numeric idle", query: "idle=low", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("bad test query: %v", err)
			}
			spec, err := parseFilterSpec(q, engineDefaults())
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if _, ok := err.(*QueryError); !ok {
					t.Fatalf("expected *QueryError, got %T", err)
				}
				return
			}
			if tt.check != nil {
				tt.check(t, spec)
			}
		})
	}
}

func TestParsePositiveInt(t *testing.T) {
	q := url.Values{"days": {"14"}, "zero": {"0"}, "junk": {"soon"}}
	if n, err := parsePositiveInt(q, "days", 7); err != nil || n != 14 {
		t.Errorf("days = (%d,%v), want (14,nil)", n, err)
	}
	if n, err := parsePositiveInt(q, "missing", 7); err != nil || n != 7 {
		t.Errorf("missing = (%d,%v), want fallback 7", n, err)
	}
	if _, err := parsePositiveInt(q, "zero", 7); err == nil {
		t.Error("zero must be rejected")
	}
	if _, err := parsePositiveInt(q, "junk", 7); err == nil {
		t.Error("non-numeric must be rejected")
	}
}
