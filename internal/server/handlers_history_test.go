package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// TestParseTimeRangeDefault verifies the default window is the last 30
// days.
func TestParseTimeRangeDefault(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/workouts", nil)
	start, end, err := parseTimeRange(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	window := end.Sub(start)
	if window < 29*24*time.Hour || window > 31*24*time.Hour {
		t.Errorf("default window = %v, want ~30 days", window)
	}
}

// TestParseTimeRangeDateOnly verifies date-only params parse and the
// end date covers the whole day.
func TestParseTimeRangeDateOnly(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/workouts?start=2026-08-01&end=2026-08-15", nil)
	start, end, err := parseTimeRange(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.Day() != 1 {
		t.Errorf("start day = %d, want 1", start.Day())
	}
	// End of day: the 15th is included
	if end.Day() != 16 {
		t.Errorf("end day = %d, want 16 (exclusive end of the 15th)", end.Day())
	}
}

// TestParseTimeRangeRFC3339 verifies full timestamps are accepted as-is.
func TestParseTimeRangeRFC3339(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/workouts?start=2026-08-01T10:00:00Z&end=2026-08-01T18:30:00Z", nil)
	start, end, err := parseTimeRange(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.Hour() != 10 || end.Hour() != 18 {
		t.Errorf("hours = %d/%d, want 10/18", start.Hour(), end.Hour())
	}
}

// TestParseTimeRangeInvalid verifies garbage params produce an error.
func TestParseTimeRangeInvalid(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/workouts?start=notadate", nil)
	if _, _, err := parseTimeRange(req); err == nil {
		t.Fatal("expected error for invalid start")
	}
}

// TestGetWorkoutInvalidID verifies a malformed workout id is rejected
// before touching the database.
func TestGetWorkoutInvalidID(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/workouts/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	// No db configured, so the nil-db guard fires first; either way the
	// request must not 200.
	if rec.Code == http.StatusOK {
		t.Errorf("status = %d, want non-200", rec.Code)
	}
}
