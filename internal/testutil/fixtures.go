package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/aman124598/TeacherHQ/internal/domain/geo"
	"github.com/aman124598/TeacherHQ/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CampusLocation is a reference point usable as an organization location
// in geofence tests.
func CampusLocation() geo.GeoPoint {
	return geo.GeoPoint{Latitude: 13.072204, Longitude: 77.507545}
}

// CreateOrganization creates a test organization with a campus location,
// the default radius, and location verification enabled.
func (f *Fixtures) CreateOrganization(ctx context.Context, name string) models.Organization {
	f.t.Helper()
	loc := CampusLocation()
	return f.CreateOrganizationWithLocation(ctx, name, &loc, models.DefaultRadiusMeters)
}

// CreateOrganizationWithLocation creates a test organization with an
// explicit campus location and radius. Pass nil for an organization with
// no configured location.
func (f *Fixtures) CreateOrganizationWithLocation(ctx context.Context, name string, location *geo.GeoPoint, radiusMeters float64) models.Organization {
	f.t.Helper()

	now := time.Now().UTC()
	org := models.Organization{
		ID:           primitive.NewObjectID(),
		Name:         name,
		NameCI:       text.Fold(name),
		City:         "Bengaluru",
		CityCI:       text.Fold("Bengaluru"),
		State:        "KA",
		StateCI:      text.Fold("KA"),
		TimeZone:     "Asia/Kolkata",
		Location:     location,
		RadiusMeters: radiusMeters,
		Settings:     models.OrganizationSettings{LocationVerification: location != nil},
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := f.db.Collection("organizations").InsertOne(ctx, org)
	if err != nil {
		f.t.Fatalf("failed to create test organization: %v", err)
	}

	return org
}

// CreateUser creates a test user with the given parameters.
// For teachers, orgID must be provided.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, role string, orgID *primitive.ObjectID) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:             primitive.NewObjectID(),
		FullName:       fullName,
		FullNameCI:     text.Fold(fullName),
		Email:          email,
		EmailCI:        text.Fold(email),
		AuthMethod:     "internal",
		Role:           role,
		Status:         "active",
		OrganizationID: orgID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	_, err := f.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateAdmin creates a test admin user.
func (f *Fixtures) CreateAdmin(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, "admin", nil)
}

// CreateTeacher creates a test teacher in the given organization.
func (f *Fixtures) CreateTeacher(ctx context.Context, fullName, email string, orgID primitive.ObjectID) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, "teacher", &orgID)
}

// CreateTeacherWithPassword creates a test teacher with a bcrypt password
// hash so login flows can be exercised end to end.
func (f *Fixtures) CreateTeacherWithPassword(ctx context.Context, fullName, email, password string, orgID primitive.ObjectID) models.User {
	f.t.Helper()

	user := f.CreateUser(ctx, fullName, email, "teacher", &orgID)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		f.t.Fatalf("failed to hash test password: %v", err)
	}
	_, err = f.db.Collection("users").UpdateByID(ctx, user.ID, bson.M{
		"$set": bson.M{"password_hash": string(hash)},
	})
	if err != nil {
		f.t.Fatalf("failed to set test password: %v", err)
	}
	user.PasswordHash = string(hash)
	return user
}

// CreateDisabledUser creates a test user with disabled status.
func (f *Fixtures) CreateDisabledUser(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Email:      email,
		EmailCI:    text.Fold(email),
		AuthMethod: "internal",
		Role:       "teacher",
		Status:     "disabled",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := f.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		f.t.Fatalf("failed to create disabled test user: %v", err)
	}

	return user
}

// CreateTask creates an open test task for an organization.
func (f *Fixtures) CreateTask(ctx context.Context, orgID, createdBy primitive.ObjectID, title string) models.Task {
	f.t.Helper()

	now := time.Now().UTC()
	task := models.Task{
		ID:             primitive.NewObjectID(),
		OrganizationID: orgID,
		Title:          title,
		CreatedBy:      createdBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	_, err := f.db.Collection("tasks").InsertOne(ctx, task)
	if err != nil {
		f.t.Fatalf("failed to create test task: %v", err)
	}

	return task
}

// CreateNotice creates a test notice dated today (UTC) for an organization.
func (f *Fixtures) CreateNotice(ctx context.Context, orgID, createdBy primitive.ObjectID, title, body string) models.Notice {
	f.t.Helper()

	now := time.Now().UTC()
	notice := models.Notice{
		ID:             primitive.NewObjectID(),
		OrganizationID: orgID,
		Title:          title,
		Body:           body,
		Date:           now.Format("2006-01-02"),
		CreatedBy:      createdBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	_, err := f.db.Collection("notices").InsertOne(ctx, notice)
	if err != nil {
		f.t.Fatalf("failed to create test notice: %v", err)
	}

	return notice
}
