package metricsstore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Counts is the set of global totals used by the admin dashboard.
// Intentionally tolerant: on error a counter stays 0.
type Counts struct {
	Organizations int64
	Teachers      int64
	Admins        int64
}

// OrgCounts holds per-organization totals for the admin dashboard.
type OrgCounts struct {
	Teachers    int64
	MarkedToday int64
	OpenTasks   int64
	Notices     int64
}

// FetchDashboardCounts returns the high-level counts used by dashboards.
func FetchDashboardCounts(ctx context.Context, db *mongo.Database) Counts {
	var out Counts

	if n, err := db.Collection("organizations").CountDocuments(ctx, bson.M{}); err == nil {
		out.Organizations = n
	}
	if n, err := db.Collection("users").CountDocuments(ctx, bson.M{"role": "teacher"}); err == nil {
		out.Teachers = n
	}
	if n, err := db.Collection("users").CountDocuments(ctx, bson.M{"role": "admin"}); err == nil {
		out.Admins = n
	}

	return out
}

// FetchOrgCounts returns per-organization totals. dateKey is the calendar day
// (YYYY-MM-DD, in the organization's zone) used for the marked-today count.
func FetchOrgCounts(ctx context.Context, db *mongo.Database, orgID primitive.ObjectID, dateKey string) OrgCounts {
	var out OrgCounts

	if n, err := db.Collection("users").CountDocuments(ctx, bson.M{
		"role":            "teacher",
		"organization_id": orgID,
	}); err == nil {
		out.Teachers = n
	}
	if n, err := db.Collection("attendance").CountDocuments(ctx, bson.M{
		"organization_id": orgID,
		"records.date":    dateKey,
	}); err == nil {
		out.MarkedToday = n
	}
	if n, err := db.Collection("tasks").CountDocuments(ctx, bson.M{
		"organization_id": orgID,
		"done":            false,
	}); err == nil {
		out.OpenTasks = n
	}
	if n, err := db.Collection("notices").CountDocuments(ctx, bson.M{
		"organization_id": orgID,
	}); err == nil {
		out.Notices = n
	}

	return out
}
