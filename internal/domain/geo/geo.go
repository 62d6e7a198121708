// Package geo evaluates a reported position against an organization's
// registered location. It is pure computation with no I/O, safe for
// concurrent use.
package geo

import (
	"errors"
	"fmt"
	"math"
)

// EarthRadiusMeters is the mean Earth radius used by the haversine formula.
const EarthRadiusMeters = 6371000.0

// ErrInvalidCoordinate is returned when a latitude or longitude is
// non-finite or outside the valid WGS84 range.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// GeoPoint is a geographic coordinate in decimal degrees (WGS84).
type GeoPoint struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
}

// Validate checks that the point is finite and within
// |latitude| <= 90, |longitude| <= 180.
func (p GeoPoint) Validate() error {
	if math.IsNaN(p.Latitude) || math.IsInf(p.Latitude, 0) ||
		math.IsNaN(p.Longitude) || math.IsInf(p.Longitude, 0) {
		return fmt.Errorf("%w: coordinates must be finite numbers", ErrInvalidCoordinate)
	}
	if p.Latitude < -90 || p.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v out of range [-90, 90]", ErrInvalidCoordinate, p.Latitude)
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v out of range [-180, 180]", ErrInvalidCoordinate, p.Longitude)
	}
	return nil
}

// Evaluation is the result of classifying a user position against a
// reference position and radius.
type Evaluation struct {
	DistanceMeters float64
	WithinRange    bool
}

// Evaluate computes the great-circle distance between user and ref using
// the haversine formula and reports whether it falls within radiusMeters.
//
// The comparison uses the unrounded distance; round only for display.
func Evaluate(user, ref GeoPoint, radiusMeters float64) (Evaluation, error) {
	if err := user.Validate(); err != nil {
		return Evaluation{}, fmt.Errorf("user position: %w", err)
	}
	if err := ref.Validate(); err != nil {
		return Evaluation{}, fmt.Errorf("reference position: %w", err)
	}
	if radiusMeters < 0 || math.IsNaN(radiusMeters) {
		return Evaluation{}, fmt.Errorf("%w: radius %v must be >= 0", ErrInvalidCoordinate, radiusMeters)
	}

	d := Distance(user, ref)
	return Evaluation{
		DistanceMeters: d,
		WithinRange:    d <= radiusMeters,
	}, nil
}

// Distance returns the haversine great-circle distance in meters between
// two points. Inputs are assumed valid; equal points yield exactly 0.
func Distance(a, b GeoPoint) float64 {
	lat1 := radians(a.Latitude)
	lat2 := radians(b.Latitude)
	dLat := radians(b.Latitude - a.Latitude)
	dLon := radians(b.Longitude - a.Longitude)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon

	// Floating-point error can push h a hair past 1 for antipodal points,
	// which would make Sqrt(1-h) NaN.
	if h > 1 {
		h = 1
	}
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusMeters * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
