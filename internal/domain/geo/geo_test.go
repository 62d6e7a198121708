package geo_test

import (
	"errors"
	"math"
	"testing"

	"github.com/aman124598/TeacherHQ/internal/domain/geo"
)

// campus is the default registered location used throughout the app.
var campus = geo.GeoPoint{Latitude: 13.072204074042398, Longitude: 77.50754474895987}

func TestEvaluate_ZeroDistance(t *testing.T) {
	for _, radius := range []float64{0, 1, 700} {
		ev, err := geo.Evaluate(campus, campus, radius)
		if err != nil {
			t.Fatalf("Evaluate failed: %v", err)
		}
		if ev.DistanceMeters != 0 {
			t.Errorf("radius %v: distance = %v, want 0", radius, ev.DistanceMeters)
		}
		if !ev.WithinRange {
			t.Errorf("radius %v: WithinRange = false, want true", radius)
		}
	}
}

func TestEvaluate_Symmetry(t *testing.T) {
	points := []geo.GeoPoint{
		{Latitude: 13.0722, Longitude: 77.5075},
		{Latitude: 13.0800, Longitude: 77.5100},
		{Latitude: -33.8688, Longitude: 151.2093},
		{Latitude: 51.5074, Longitude: -0.1278},
		{Latitude: 0, Longitude: 0},
		{Latitude: 90, Longitude: 0},
	}

	for i, a := range points {
		for j, b := range points {
			ab, err := geo.Evaluate(a, b, 700)
			if err != nil {
				t.Fatalf("Evaluate(%d,%d): %v", i, j, err)
			}
			ba, err := geo.Evaluate(b, a, 700)
			if err != nil {
				t.Fatalf("Evaluate(%d,%d): %v", j, i, err)
			}
			if ab.DistanceMeters != ba.DistanceMeters {
				t.Errorf("distance(%d,%d)=%v but distance(%d,%d)=%v",
					i, j, ab.DistanceMeters, j, i, ba.DistanceMeters)
			}
		}
	}
}

func TestEvaluate_Boundary(t *testing.T) {
	// A point north of campus. One degree of latitude is ~111.19 km with
	// the 6371 km sphere, so pick an offset that lands near 700 m.
	near := geo.GeoPoint{Latitude: campus.Latitude + 0.006, Longitude: campus.Longitude}
	ev, err := geo.Evaluate(near, campus, 700)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if ev.DistanceMeters < 600 || ev.DistanceMeters > 700 {
		t.Fatalf("expected ~667m, got %v", ev.DistanceMeters)
	}

	// Exactly at the radius (within floating-point tolerance) is in range.
	at, err := geo.Evaluate(near, campus, ev.DistanceMeters)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if !at.WithinRange {
		t.Error("point at exactly the radius should be within range")
	}

	// Just past the radius is out of range.
	past, err := geo.Evaluate(near, campus, ev.DistanceMeters-0.001)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if past.WithinRange {
		t.Error("point past the radius should be out of range")
	}
}

func TestEvaluate_OutOfRangePoint(t *testing.T) {
	// ~2km north of campus against the default 700m radius.
	far := geo.GeoPoint{Latitude: campus.Latitude + 0.018, Longitude: campus.Longitude}
	ev, err := geo.Evaluate(far, campus, 700)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if ev.WithinRange {
		t.Errorf("point %vm away should be out of the 700m radius", ev.DistanceMeters)
	}
	if ev.DistanceMeters < 1500 || ev.DistanceMeters > 2500 {
		t.Errorf("expected ~2000m, got %v", ev.DistanceMeters)
	}
}

func TestEvaluate_Antipodal(t *testing.T) {
	a := geo.GeoPoint{Latitude: 0, Longitude: 0}
	b := geo.GeoPoint{Latitude: 0, Longitude: 180}

	ev, err := geo.Evaluate(a, b, 700)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if math.IsNaN(ev.DistanceMeters) {
		t.Fatal("antipodal distance must not be NaN")
	}
	// Half the Earth's circumference on a 6371km sphere.
	want := math.Pi * geo.EarthRadiusMeters
	if math.Abs(ev.DistanceMeters-want) > 1 {
		t.Errorf("antipodal distance = %v, want ~%v", ev.DistanceMeters, want)
	}
}

func TestEvaluate_KnownDistance(t *testing.T) {
	// London to Paris is roughly 344 km.
	london := geo.GeoPoint{Latitude: 51.5074, Longitude: -0.1278}
	paris := geo.GeoPoint{Latitude: 48.8566, Longitude: 2.3522}

	ev, err := geo.Evaluate(london, paris, 700)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if ev.DistanceMeters < 330_000 || ev.DistanceMeters > 355_000 {
		t.Errorf("London-Paris = %v m, want ~344km", ev.DistanceMeters)
	}
	if ev.WithinRange {
		t.Error("London is not within 700m of Paris")
	}
}

func TestEvaluate_InvalidInputs(t *testing.T) {
	tests := []struct {
		name   string
		user   geo.GeoPoint
		ref    geo.GeoPoint
		radius float64
	}{
		{"latitude too high", geo.GeoPoint{Latitude: 90.1}, campus, 700},
		{"latitude too low", geo.GeoPoint{Latitude: -91}, campus, 700},
		{"longitude too high", geo.GeoPoint{Longitude: 180.5}, campus, 700},
		{"longitude too low", geo.GeoPoint{Longitude: -181}, campus, 700},
		{"NaN latitude", geo.GeoPoint{Latitude: math.NaN()}, campus, 700},
		{"infinite longitude", geo.GeoPoint{Longitude: math.Inf(1)}, campus, 700},
		{"bad reference", campus, geo.GeoPoint{Latitude: 100}, 700},
		{"negative radius", campus, campus, -1},
		{"NaN radius", campus, campus, math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := geo.Evaluate(tt.user, tt.ref, tt.radius)
			if !errors.Is(err, geo.ErrInvalidCoordinate) {
				t.Errorf("expected ErrInvalidCoordinate, got %v", err)
			}
		})
	}
}
