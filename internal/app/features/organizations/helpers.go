// internal/app/features/organizations/helpers.go
package organizations

import (
	"context"
	"strings"

	"github.com/aman124598/TeacherHQ/internal/app/system/inputval"
	"github.com/aman124598/TeacherHQ/internal/domain/geo"
	"github.com/aman124598/TeacherHQ/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// aggregator is a minimal interface satisfied by *mongo.Database.
// It lets us unit-test countByOrg with a fake.
type aggregator interface {
	Collection(name string, opts ...*options.CollectionOptions) *mongo.Collection
}

// countByOrg computes per-organization counts from a collection.
//
//	coll  – collection name (e.g. "users")
//	match – base match filter (e.g. {"role":"teacher","organization_id":{"$in": ids}})
func countByOrg(ctx context.Context, db aggregator, coll string, match bson.M) (map[primitive.ObjectID]int64, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$organization_id"},
			{Key: "n", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cur, err := db.Collection(coll).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make(map[primitive.ObjectID]int64)
	for cur.Next(ctx) {
		var row struct {
			ID primitive.ObjectID `bson:"_id"`
			N  int64              `bson:"n"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out[row.ID] = row.N
	}
	return out, cur.Err()
}

// parseGeofenceForm reads the optional campus location fields from a
// posted form. Latitude and longitude must be supplied together; an
// empty pair means "no geofence".
func parseGeofenceForm(r interface{ FormValue(string) string }) (location *geo.GeoPoint, radius float64, errMsg string) {
	latRaw := strings.TrimSpace(r.FormValue("latitude"))
	lngRaw := strings.TrimSpace(r.FormValue("longitude"))
	radRaw := strings.TrimSpace(r.FormValue("radius_meters"))

	lat, latSet, err := inputval.ParseCoordinate(latRaw)
	if err != nil {
		return nil, 0, "Latitude must be a number."
	}
	lng, lngSet, err := inputval.ParseCoordinate(lngRaw)
	if err != nil {
		return nil, 0, "Longitude must be a number."
	}
	if latSet != lngSet {
		return nil, 0, "Latitude and longitude must be provided together."
	}

	radius, radSet, err := inputval.ParseRadius(radRaw)
	if err != nil {
		return nil, 0, "Radius must be a number of meters."
	}
	if !radSet {
		radius = models.DefaultRadiusMeters
	} else if !inputval.ValidRadius(radius) {
		return nil, 0, "Radius must be a positive number of meters."
	}

	if !latSet {
		return nil, radius, ""
	}

	point := geo.GeoPoint{Latitude: lat, Longitude: lng}
	if err := point.Validate(); err != nil {
		return nil, 0, "The campus coordinates are not a valid location."
	}
	return &point, radius, ""
}
