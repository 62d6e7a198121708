// Package timezones holds the curated list of IANA zones offered in the
// organization forms and derives attendance date keys from instants.
//
// Attendance date keys always come from the organization's configured zone
// (UTC when unset) so a teacher marking near midnight is credited to the
// organization's calendar day, not the device's.
package timezones

import (
	"sort"
	"time"
)

// DateKeyLayout is the calendar-day key format used by attendance records
// and activity entries.
const DateKeyLayout = "2006-01-02"

// TimeInLayout is the display-only time-of-day format stored alongside a
// record. Never used for logic.
const TimeInLayout = "3:04:05 PM"

type Zone struct {
	ID     string
	Label  string
	Region string
}

type ZoneGroup struct {
	Region string
	Zones  []Zone
}

// curated is the list offered in the organization forms. It covers the
// regions the app is deployed in; extend as organizations come on board.
var curated = []Zone{
	{ID: "Asia/Kolkata", Label: "India Standard Time (Kolkata)", Region: "Asia"},
	{ID: "Asia/Dubai", Label: "Gulf Standard Time (Dubai)", Region: "Asia"},
	{ID: "Asia/Singapore", Label: "Singapore Time", Region: "Asia"},
	{ID: "Asia/Tokyo", Label: "Japan Standard Time", Region: "Asia"},
	{ID: "Europe/London", Label: "UK Time (London)", Region: "Europe"},
	{ID: "Europe/Paris", Label: "Central European Time (Paris)", Region: "Europe"},
	{ID: "Europe/Berlin", Label: "Central European Time (Berlin)", Region: "Europe"},
	{ID: "America/New_York", Label: "US Eastern Time", Region: "America"},
	{ID: "America/Chicago", Label: "US Central Time", Region: "America"},
	{ID: "America/Denver", Label: "US Mountain Time", Region: "America"},
	{ID: "America/Los_Angeles", Label: "US Pacific Time", Region: "America"},
	{ID: "Australia/Sydney", Label: "Australian Eastern Time (Sydney)", Region: "Australia"},
	{ID: "UTC", Label: "Coordinated Universal Time", Region: "Other"},
}

var byID = func() map[string]Zone {
	m := make(map[string]Zone, len(curated))
	for _, z := range curated {
		m[z.ID] = z
	}
	return m
}()

// All returns the curated list of zones in a stable order.
func All() []Zone {
	out := make([]Zone, len(curated))
	copy(out, curated)
	return out
}

// Valid reports whether the given ID exists in the curated list.
func Valid(id string) bool {
	_, ok := byID[id]
	return ok
}

// Label returns the human-friendly label for an ID, or the ID itself if
// not found.
func Label(id string) string {
	if z, ok := byID[id]; ok && z.Label != "" {
		return z.Label
	}
	return id
}

// Groups returns the curated zones grouped by region for form dropdowns.
func Groups() []ZoneGroup {
	byRegion := make(map[string][]Zone)
	for _, z := range curated {
		byRegion[z.Region] = append(byRegion[z.Region], z)
	}

	regions := make([]string, 0, len(byRegion))
	for region := range byRegion {
		regions = append(regions, region)
	}
	sort.Strings(regions)

	groups := make([]ZoneGroup, 0, len(regions))
	for _, region := range regions {
		groups = append(groups, ZoneGroup{Region: region, Zones: byRegion[region]})
	}
	return groups
}

// Resolve loads the *time.Location for an organization's configured zone.
// An empty or unknown ID resolves to UTC so date keys stay deterministic
// rather than following whatever wall clock the server happens to run on.
func Resolve(id string) *time.Location {
	if id == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(id)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DateKey returns the YYYY-MM-DD calendar-day key for an instant in the
// given zone.
func DateKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateKeyLayout)
}

// TimeIn returns the display-only localized time-of-day string for an
// instant in the given zone.
func TimeIn(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(TimeInLayout)
}
