// Package inputval validates user-supplied form and API input before it
// reaches the stores.
package inputval

import (
	"regexp"
	"strconv"
	"strings"
)

// MaxRadiusMeters caps the configurable geofence radius. Anything larger
// than this stops being a campus geofence.
const MaxRadiusMeters = 100_000

// emailRe is deliberately strict about dots and spaces; it accepts
// single-label domains for dev/test environments.
var emailRe = regexp.MustCompile(`^[a-zA-Z0-9_%+\-]+(\.[a-zA-Z0-9_%+\-]+)*@[a-zA-Z0-9\-]+(\.[a-zA-Z0-9\-]+)*$`)

// IsValidEmail reports whether s looks like a plain addr-spec email.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	return emailRe.MatchString(s)
}

// ParseCoordinate parses a form latitude/longitude value. Empty input is
// reported separately from malformed input via the ok flag plus err.
func ParseCoordinate(s string) (val float64, ok bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, nil
	}
	v, perr := strconv.ParseFloat(s, 64)
	if perr != nil {
		return 0, false, perr
	}
	return v, true, nil
}

// ParseRadius parses a radius form value in meters. Empty input returns
// (0, false, nil) so callers can apply the default.
func ParseRadius(s string) (val float64, ok bool, err error) {
	v, ok, err := ParseCoordinate(s)
	if err != nil || !ok {
		return 0, ok, err
	}
	return v, true, nil
}

// ValidRadius reports whether a parsed radius is usable as a geofence.
func ValidRadius(v float64) bool {
	return v > 0 && v <= MaxRadiusMeters
}

// ValidRole reports whether the given role is one the app recognizes.
func ValidRole(role string) bool {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "admin", "teacher":
		return true
	}
	return false
}

// ValidDateKey reports whether s is a YYYY-MM-DD calendar date string.
var dateKeyRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func ValidDateKey(s string) bool {
	return dateKeyRe.MatchString(s)
}
