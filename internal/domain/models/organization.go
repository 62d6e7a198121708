package models

import (
	"time"

	"github.com/aman124598/TeacherHQ/internal/domain/geo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultRadiusMeters is the geofence radius applied when an organization
// has not configured its own.
const DefaultRadiusMeters = 700

// OrganizationSettings holds per-organization feature toggles.
type OrganizationSettings struct {
	// LocationVerification gates attendance marking on the geofence check.
	// When false, attendance can be marked without a reported position.
	LocationVerification bool `bson:"location_verification"`
}

// Organization includes case/diacritic-insensitive fields for search/sort.
//
// Location and RadiusMeters define the geofence teachers must be inside to
// mark attendance. TimeZone is the IANA zone used to derive attendance
// date keys.
type Organization struct {
	ID           primitive.ObjectID   `bson:"_id"`
	Name         string               `bson:"name"`
	NameCI       string               `bson:"name_ci"` // ← always stored
	City         string               `bson:"city"`
	CityCI       string               `bson:"city_ci"` // ← always stored
	State        string               `bson:"state"`
	StateCI      string               `bson:"state_ci"` // ← always stored
	TimeZone     string               `bson:"time_zone"`
	ContactInfo  string               `bson:"contact_info"`
	Location     *geo.GeoPoint        `bson:"location,omitempty"`
	RadiusMeters float64              `bson:"radius_meters"`
	Settings     OrganizationSettings `bson:"settings"`
	Status       string               `bson:"status"`
	CreatedAt    time.Time            `bson:"created_at"`
	UpdatedAt    time.Time            `bson:"updated_at"`
}
