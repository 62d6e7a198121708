package timezones_test

import (
	"testing"
	"time"

	"github.com/aman124598/TeacherHQ/internal/app/system/timezones"
)

func TestValid(t *testing.T) {
	if !timezones.Valid("Asia/Kolkata") {
		t.Error("Asia/Kolkata should be valid")
	}
	if !timezones.Valid("UTC") {
		t.Error("UTC should be valid")
	}
	if timezones.Valid("") {
		t.Error("empty ID should be invalid")
	}
	if timezones.Valid("Mars/Olympus_Mons") {
		t.Error("unknown zone should be invalid")
	}
}

func TestResolve_FallsBackToUTC(t *testing.T) {
	if loc := timezones.Resolve(""); loc != time.UTC {
		t.Errorf("empty zone: got %v, want UTC", loc)
	}
	if loc := timezones.Resolve("Not/A_Zone"); loc != time.UTC {
		t.Errorf("unknown zone: got %v, want UTC", loc)
	}
	if loc := timezones.Resolve("Asia/Kolkata"); loc.String() != "Asia/Kolkata" {
		t.Errorf("got %v, want Asia/Kolkata", loc)
	}
}

func TestDateKey_UsesZone(t *testing.T) {
	// 2024-03-01 20:00 UTC is 01:30 on the 2nd in Kolkata (UTC+5:30) but
	// still the 1st in New York.
	instant := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)

	if got := timezones.DateKey(instant, time.UTC); got != "2024-03-01" {
		t.Errorf("UTC date key: got %q", got)
	}
	if got := timezones.DateKey(instant, timezones.Resolve("Asia/Kolkata")); got != "2024-03-02" {
		t.Errorf("Kolkata date key: got %q", got)
	}
	if got := timezones.DateKey(instant, timezones.Resolve("America/New_York")); got != "2024-03-01" {
		t.Errorf("New York date key: got %q", got)
	}
	if got := timezones.DateKey(instant, nil); got != "2024-03-01" {
		t.Errorf("nil zone should fall back to UTC: got %q", got)
	}
}

func TestTimeIn_DisplayFormat(t *testing.T) {
	instant := time.Date(2024, 3, 1, 8, 45, 0, 0, time.UTC)
	if got := timezones.TimeIn(instant, time.UTC); got != "8:45:00 AM" {
		t.Errorf("TimeIn: got %q, want %q", got, "8:45:00 AM")
	}
}

func TestGroups_CoverAllZones(t *testing.T) {
	total := 0
	for _, g := range timezones.Groups() {
		if g.Region == "" {
			t.Error("group with empty region")
		}
		total += len(g.Zones)
	}
	if total != len(timezones.All()) {
		t.Errorf("groups contain %d zones, curated list has %d", total, len(timezones.All()))
	}
}
