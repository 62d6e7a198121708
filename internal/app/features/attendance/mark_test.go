package attendance_test

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	uierrors "github.com/aman124598/TeacherHQ/internal/app/features/errors"
	"github.com/aman124598/TeacherHQ/internal/app/features/attendance"
	attendancestore "github.com/aman124598/TeacherHQ/internal/app/store/attendance"
	"github.com/aman124598/TeacherHQ/internal/app/store/audit"
	"github.com/aman124598/TeacherHQ/internal/app/system/auditlog"
	"github.com/aman124598/TeacherHQ/internal/app/system/timezones"
	"github.com/aman124598/TeacherHQ/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(db *mongo.Database) *attendance.Handler {
	logger := zap.NewNop()
	auditLogger := auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth:       "db",
		Admin:      "db",
		Attendance: "db",
	})
	return attendance.NewHandler(db, auditLogger, uierrors.NewErrorLogger(logger), logger)
}

func markBody(lat, lng float64) string {
	return fmt.Sprintf(`{"latitude": %f, "longitude": %f}`, lat, lng)
}

func doMark(h *attendance.Handler, user testutil.TestUser, body string) *httptest.ResponseRecorder {
	req := testutil.NewJSONRequest("POST", "/attendance/mark", body)
	req = testutil.WithUser(req, user)
	rec := httptest.NewRecorder()
	h.HandleMark(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return out
}

func TestHandleMark_OnCampus_Succeeds(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fx.CreateOrganization(ctx, "Mark School")
	teacher := fx.CreateTeacher(ctx, "Mark Teacher", "teacher@mark.test", org.ID)
	user := testutil.TeacherUser(org.ID)
	user.ID = teacher.ID.Hex()

	h := newTestHandler(db)
	campus := testutil.CampusLocation()
	rec := doMark(h, user, markBody(campus.Latitude, campus.Longitude))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)

	loc := timezones.Resolve(org.TimeZone)
	wantDate := timezones.DateKey(time.Now(), loc)
	if body["date"] != wantDate {
		t.Errorf("date: got %v, want %s", body["date"], wantDate)
	}
	if body["time_in"] == nil || body["time_in"] == "" {
		t.Error("expected a time_in in the response")
	}

	ledger, err := attendancestore.New(db).Get(ctx, teacher.ID, org.ID)
	if err != nil {
		t.Fatalf("load ledger: %v", err)
	}
	if ledger.PresentDays != 1 || ledger.TotalDays != 1 {
		t.Errorf("ledger counters: got present=%d total=%d, want 1/1", ledger.PresentDays, ledger.TotalDays)
	}
	if len(ledger.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(ledger.Records))
	}
	if ledger.Records[0].Location == nil {
		t.Error("expected a position snapshot on the record")
	}

	events, err := audit.New(db).GetByUser(ctx, teacher.ID, 10)
	if err != nil {
		t.Fatalf("query audit events: %v", err)
	}
	found := false
	for _, ev := range events {
		if ev.EventType == audit.EventAttendanceMarked {
			found = true
		}
	}
	if !found {
		t.Error("expected an attendance_marked audit event")
	}
}

func TestHandleMark_OffCampus_Rejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fx.CreateOrganization(ctx, "Fence School")
	teacher := fx.CreateTeacher(ctx, "Fence Teacher", "teacher@fence.test", org.ID)
	user := testutil.TeacherUser(org.ID)
	user.ID = teacher.ID.Hex()

	h := newTestHandler(db)
	campus := testutil.CampusLocation()
	// roughly 5.5 km north of campus, far outside the 700 m default radius
	rec := doMark(h, user, markBody(campus.Latitude+0.05, campus.Longitude))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected %d, got %d: %s", http.StatusForbidden, rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["error"] != "out_of_range" {
		t.Errorf("error code: got %v, want out_of_range", body["error"])
	}
	dist, ok := body["distance_meters"].(float64)
	if !ok || dist <= org.RadiusMeters {
		t.Errorf("distance_meters: got %v, want > %v", body["distance_meters"], org.RadiusMeters)
	}
	if dist != math.Round(dist) {
		t.Errorf("distance_meters should be whole meters, got %v", dist)
	}

	if _, err := attendancestore.New(db).Get(ctx, teacher.ID, org.ID); err != mongo.ErrNoDocuments {
		t.Errorf("expected no ledger after rejected mark, got err=%v", err)
	}

	events, err := audit.New(db).GetByUser(ctx, teacher.ID, 10)
	if err != nil {
		t.Fatalf("query audit events: %v", err)
	}
	if len(events) != 1 || events[0].EventType != audit.EventAttendanceOutOfRange {
		t.Errorf("expected one attendance_out_of_range audit event, got %+v", events)
	}
}

func TestHandleMark_SecondMarkSameDay_Conflict(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fx.CreateOrganization(ctx, "Twice School")
	teacher := fx.CreateTeacher(ctx, "Twice Teacher", "teacher@twice.test", org.ID)
	user := testutil.TeacherUser(org.ID)
	user.ID = teacher.ID.Hex()

	h := newTestHandler(db)
	campus := testutil.CampusLocation()
	body := markBody(campus.Latitude, campus.Longitude)

	if rec := doMark(h, user, body); rec.Code != http.StatusOK {
		t.Fatalf("first mark: expected 200, got %d", rec.Code)
	}
	rec := doMark(h, user, body)

	if rec.Code != http.StatusConflict {
		t.Fatalf("second mark: expected %d, got %d", http.StatusConflict, rec.Code)
	}
	if got := decodeBody(t, rec)["error"]; got != "already_marked" {
		t.Errorf("error code: got %v, want already_marked", got)
	}

	ledger, err := attendancestore.New(db).Get(ctx, teacher.ID, org.ID)
	if err != nil {
		t.Fatalf("load ledger: %v", err)
	}
	if ledger.TotalDays != 1 || len(ledger.Records) != 1 {
		t.Errorf("duplicate mark mutated the ledger: total=%d records=%d", ledger.TotalDays, len(ledger.Records))
	}
}

func TestHandleMark_MissingPosition_WhenGeofenceActive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fx.CreateOrganization(ctx, "Strict School")
	teacher := fx.CreateTeacher(ctx, "Strict Teacher", "teacher@strict.test", org.ID)
	user := testutil.TeacherUser(org.ID)
	user.ID = teacher.ID.Hex()

	h := newTestHandler(db)
	rec := doMark(h, user, `{}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected %d, got %d", http.StatusBadRequest, rec.Code)
	}
	if got := decodeBody(t, rec)["error"]; got != "position_required" {
		t.Errorf("error code: got %v, want position_required", got)
	}
}

func TestHandleMark_InvalidCoordinate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fx.CreateOrganization(ctx, "Bounds School")
	teacher := fx.CreateTeacher(ctx, "Bounds Teacher", "teacher@bounds.test", org.ID)
	user := testutil.TeacherUser(org.ID)
	user.ID = teacher.ID.Hex()

	h := newTestHandler(db)
	rec := doMark(h, user, markBody(95.0, 200.0))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected %d, got %d", http.StatusBadRequest, rec.Code)
	}
	if got := decodeBody(t, rec)["error"]; got != "invalid_coordinate" {
		t.Errorf("error code: got %v, want invalid_coordinate", got)
	}
}

func TestHandleMark_GeofenceDisabled_NoPositionNeeded(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fx.CreateOrganizationWithLocation(ctx, "Open School", nil, 0)
	teacher := fx.CreateTeacher(ctx, "Open Teacher", "teacher@open.test", org.ID)
	user := testutil.TeacherUser(org.ID)
	user.ID = teacher.ID.Hex()

	h := newTestHandler(db)
	rec := doMark(h, user, `{}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	ledger, err := attendancestore.New(db).Get(ctx, teacher.ID, org.ID)
	if err != nil {
		t.Fatalf("load ledger: %v", err)
	}
	if ledger.Records[0].Location != nil {
		t.Error("expected no position snapshot when none was reported")
	}
}

func TestHandleMark_Unauthenticated(t *testing.T) {
	db := testutil.SetupTestDB(t)

	h := newTestHandler(db)
	req := testutil.NewJSONRequest("POST", "/attendance/mark", `{}`)
	rec := httptest.NewRecorder()
	h.HandleMark(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestHandleMark_NoOrganization(t *testing.T) {
	db := testutil.SetupTestDB(t)

	h := newTestHandler(db)
	user := testutil.TeacherUser(primitive.NewObjectID())
	user.OrganizationID = ""
	rec := doMark(h, user, `{}`)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected %d, got %d", http.StatusForbidden, rec.Code)
	}
	if got := decodeBody(t, rec)["error"]; got != "no_organization" {
		t.Errorf("error code: got %v, want no_organization", got)
	}
}
