package logout_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aman124598/TeacherHQ/internal/app/features/logout"
	"github.com/aman124598/TeacherHQ/internal/app/store/audit"
	"github.com/aman124598/TeacherHQ/internal/app/system/auditlog"
	"github.com/aman124598/TeacherHQ/internal/app/system/auth"
	"github.com/aman124598/TeacherHQ/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestServeLogout_ClearsSessionAndRedirects(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := zap.NewNop()
	sm, err := auth.NewSessionManager("test-session-key-0123456789ABCDEF", "test-session", "", false, logger)
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	auditStore := audit.New(db)
	h := logout.NewHandler(sm, auditlog.New(auditStore, logger, auditlog.Config{Auth: "db"}), logger)

	userID := primitive.NewObjectID()
	req := httptest.NewRequest("GET", "/logout", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: userID.Hex(), Name: "Out Going", Role: "teacher"})
	rec := httptest.NewRecorder()

	h.ServeLogout(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("Location: got %q, want %q", loc, "/")
	}

	// The deletion cookie should have MaxAge < 0.
	cookies := rec.Result().Cookies()
	found := false
	for _, c := range cookies {
		if c.Name == "test-session" && c.MaxAge < 0 {
			found = true
		}
	}
	if !found {
		t.Error("expected an expired session cookie")
	}

	events, err := auditStore.GetByUser(ctx, userID, 10)
	if err != nil {
		t.Fatalf("query audit events: %v", err)
	}
	if len(events) != 1 || events[0].EventType != audit.EventLogout {
		t.Errorf("expected one logout audit event, got %+v", events)
	}
}
