package auditlog_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/aman124598/TeacherHQ/internal/app/store/audit"
	"github.com/aman124598/TeacherHQ/internal/app/system/auditlog"
	"github.com/aman124598/TeacherHQ/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestNilLoggerIsNoop(t *testing.T) {
	var l *auditlog.Logger
	// Must not panic.
	l.Log(context.Background(), audit.Event{Category: audit.CategoryAuth, EventType: audit.EventLogout})
}

func TestLog_RespectsOffSetting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	l := auditlog.New(store, zap.NewNop(), auditlog.Config{
		Auth:       "off",
		Attendance: "db",
	})

	userID := primitive.NewObjectID()
	l.Log(ctx, audit.Event{Category: audit.CategoryAuth, EventType: audit.EventLogout, UserID: &userID})

	count, err := store.CountByFilter(ctx, audit.QueryFilter{Category: audit.CategoryAuth})
	if err != nil {
		t.Fatalf("CountByFilter failed: %v", err)
	}
	if count != 0 {
		t.Errorf("auth events stored with setting off: %d", count)
	}
}

func TestAttendanceMarked_StoresEvent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	l := auditlog.New(store, zap.NewNop(), auditlog.Config{Attendance: "db"})
	r := httptest.NewRequest("POST", "/attendance/mark", nil)
	r.Header.Set("X-Forwarded-For", "203.0.113.9")

	userID := primitive.NewObjectID()
	orgID := primitive.NewObjectID()
	l.AttendanceMarked(ctx, r, userID, orgID, "2024-03-01", 42.5)

	events, err := store.Query(ctx, audit.QueryFilter{EventType: audit.EventAttendanceMarked})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	e := events[0]
	if e.IP != "203.0.113.9" {
		t.Errorf("IP: got %q", e.IP)
	}
	if e.Details["date"] != "2024-03-01" {
		t.Errorf("date detail: got %q", e.Details["date"])
	}
	if e.Details["distance_meters"] != "42.5" {
		t.Errorf("distance detail: got %q", e.Details["distance_meters"])
	}
}

func TestAttendanceRejected_StoresFailure(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	l := auditlog.New(store, zap.NewNop(), auditlog.Config{Attendance: "db"})
	r := httptest.NewRequest("POST", "/attendance/mark", nil)

	userID := primitive.NewObjectID()
	orgID := primitive.NewObjectID()
	l.AttendanceRejected(ctx, r, audit.EventAttendanceOutOfRange, userID, orgID, "1250m from campus")

	events, err := store.Query(ctx, audit.QueryFilter{EventType: audit.EventAttendanceOutOfRange})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Success {
		t.Error("rejected mark stored as success")
	}
	if events[0].FailureReason != "1250m from campus" {
		t.Errorf("FailureReason: got %q", events[0].FailureReason)
	}
}
