package organizationstore_test

import (
	"errors"
	"testing"

	organizationstore "github.com/aman124598/TeacherHQ/internal/app/store/organizations"
	"github.com/aman124598/TeacherHQ/internal/domain/geo"
	"github.com/aman124598/TeacherHQ/internal/domain/models"
	"github.com/aman124598/TeacherHQ/internal/testutil"
	"github.com/dalemusser/waffle/pantry/text"
)

func TestCreate_AppliesDefaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organizationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org, err := store.Create(ctx, models.Organization{
		Name:     "Green Valley School",
		City:     "Bengaluru",
		State:    "KA",
		TimeZone: "Asia/Kolkata",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if org.Status != "active" {
		t.Errorf("Status: got %q, want active", org.Status)
	}
	if org.RadiusMeters != models.DefaultRadiusMeters {
		t.Errorf("RadiusMeters: got %v, want %v", org.RadiusMeters, models.DefaultRadiusMeters)
	}
	if org.NameCI != text.Fold("Green Valley School") {
		t.Errorf("NameCI: got %q", org.NameCI)
	}
}

func TestCreate_DuplicateName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organizationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes failed: %v", err)
	}

	if _, err := store.Create(ctx, models.Organization{Name: "Dup School"}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err := store.Create(ctx, models.Organization{Name: "DUP School"})
	if !errors.Is(err, organizationstore.ErrDuplicateOrganization) {
		t.Fatalf("got %v, want ErrDuplicateOrganization", err)
	}
}

func TestSetGeofence(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organizationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org, err := store.Create(ctx, models.Organization{Name: "Fence School"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	loc := testutil.CampusLocation()
	if err := store.SetGeofence(ctx, org.ID, &loc, 500, true); err != nil {
		t.Fatalf("SetGeofence failed: %v", err)
	}

	got, err := store.GetByID(ctx, org.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Location == nil || got.Location.Latitude != loc.Latitude {
		t.Errorf("Location: %+v", got.Location)
	}
	if got.RadiusMeters != 500 {
		t.Errorf("RadiusMeters: got %v, want 500", got.RadiusMeters)
	}
	if !got.Settings.LocationVerification {
		t.Error("LocationVerification not enabled")
	}
}

func TestSetGeofence_ClearDisablesVerification(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organizationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	loc := testutil.CampusLocation()
	org, err := store.Create(ctx, models.Organization{
		Name:         "Clear School",
		Location:     &loc,
		RadiusMeters: 700,
		Settings:     models.OrganizationSettings{LocationVerification: true},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// verify=true is ignored when the location is cleared
	if err := store.SetGeofence(ctx, org.ID, nil, 700, true); err != nil {
		t.Fatalf("SetGeofence failed: %v", err)
	}

	got, err := store.GetByID(ctx, org.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Location != nil {
		t.Errorf("Location not cleared: %+v", got.Location)
	}
	if got.Settings.LocationVerification {
		t.Error("LocationVerification still enabled after clearing location")
	}
}

func TestSetGeofence_RejectsInvalidCoordinate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organizationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org, err := store.Create(ctx, models.Organization{Name: "Bad Coord School"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	bad := geo.GeoPoint{Latitude: 95, Longitude: 0}
	err = store.SetGeofence(ctx, org.ID, &bad, 700, true)
	if !errors.Is(err, geo.ErrInvalidCoordinate) {
		t.Fatalf("got %v, want ErrInvalidCoordinate", err)
	}
}

func TestNameExistsForOther(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organizationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a, err := store.Create(ctx, models.Organization{Name: "Alpha"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, models.Organization{Name: "Beta"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	exists, err := store.NameExistsForOther(ctx, text.Fold("Beta"), a.ID)
	if err != nil {
		t.Fatalf("NameExistsForOther failed: %v", err)
	}
	if !exists {
		t.Error("expected Beta to exist for another org")
	}

	exists, err = store.NameExistsForOther(ctx, text.Fold("Alpha"), a.ID)
	if err != nil {
		t.Fatalf("NameExistsForOther failed: %v", err)
	}
	if exists {
		t.Error("Alpha should not count as existing for itself")
	}
}
