package flow

import (
	"strings"
	"time"
)

var dateLayouts = []string{"2006-01-02", "2006/01/02", "20060102"}

// ParseDate parses an operation date in any of the layouts seen in source
// data (YYYY-MM-DD, YYYY/MM/DD, YYYYMMDD).
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// WeekdayIndex returns the ISO-style weekday of a date, Monday=0 .. Sunday=6.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// NormalizeTimeKey zero-pads a departure slot to the canonical 4-digit HHMM
// form. Returns "" when the input cannot be a slot key.
func NormalizeTimeKey(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ":", "")
	if s == "" || len(s) > 4 {
		return ""
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return ""
		}
	}
	for len(s) < 4 {
		s = "0" + s
	}
	return s
}

// HourFromTimeKey extracts the hour (0-23) from a 4-digit HHMM slot key.
func HourFromTimeKey(s string) (int, bool) {
	key := NormalizeTimeKey(s)
	if key == "" {
		return 0, false
	}
	h := int(key[0]-'0')*10 + int(key[1]-'0')
	if h > 23 {
		return 0, false
	}
	return h, true
}

// FormatTimeKey renders a slot key as HH:MM for display. Invalid keys come
// back unchanged.
func FormatTimeKey(s string) string {
	key := NormalizeTimeKey(s)
	if key == "" {
		return s
	}
	return key[:2] + ":" + key[2:]
}
