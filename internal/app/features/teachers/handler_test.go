package teachers_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	uierrors "github.com/aman124598/TeacherHQ/internal/app/features/errors"
	"github.com/aman124598/TeacherHQ/internal/app/features/teachers"
	"github.com/aman124598/TeacherHQ/internal/app/store/audit"
	userstore "github.com/aman124598/TeacherHQ/internal/app/store/users"
	"github.com/aman124598/TeacherHQ/internal/app/system/auditlog"
	"github.com/aman124598/TeacherHQ/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(db *mongo.Database) *teachers.Handler {
	logger := zap.NewNop()
	auditLogger := auditlog.New(audit.New(db), logger, auditlog.Config{Admin: "db"})
	return teachers.NewHandler(db, auditLogger, uierrors.NewErrorLogger(logger), logger)
}

func postForm(target string, values url.Values, user testutil.TestUser) *http.Request {
	req := httptest.NewRequest("POST", target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return testutil.WithUser(req, user)
}

func TestHandleCreate_InternalTeacher(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fx.CreateOrganization(ctx, "Hire School")
	h := newTestHandler(db)

	req := postForm("/teachers/new", url.Values{
		"full_name":       {"New Hire"},
		"email":           {"hire@school.test"},
		"organization_id": {org.ID.Hex()},
		"auth_method":     {"internal"},
		"password":        {"first-password"},
	}, testutil.AdminUser())
	rec := httptest.NewRecorder()

	h.HandleCreate(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected %d, got %d", http.StatusSeeOther, rec.Code)
	}

	users := userstore.New(db)
	created, err := users.GetByEmail(ctx, "hire@school.test")
	if err != nil {
		t.Fatalf("created teacher not found: %v", err)
	}
	if created.Role != "teacher" || created.OrganizationID == nil || *created.OrganizationID != org.ID {
		t.Errorf("teacher not scoped to school: role=%q org=%v", created.Role, created.OrganizationID)
	}
	if _, err := users.VerifyCredentials(ctx, "hire@school.test", "first-password"); err != nil {
		t.Errorf("initial password should verify: %v", err)
	}

	events, err := audit.New(db).Query(ctx, audit.QueryFilter{EventType: audit.EventUserCreated})
	if err != nil || len(events) != 1 {
		t.Errorf("expected 1 user_created audit event, got %d (err=%v)", len(events), err)
	}
}

func TestHandleCreate_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fx.CreateOrganization(ctx, "Dup School")
	fx.CreateTeacher(ctx, "First Teacher", "taken@dup.test", org.ID)

	h := newTestHandler(db)
	req := postForm("/teachers/new", url.Values{
		"full_name":       {"Second Teacher"},
		"email":           {"taken@dup.test"},
		"organization_id": {org.ID.Hex()},
		"auth_method":     {"internal"},
		"password":        {"some-password"},
	}, testutil.AdminUser())
	rec := httptest.NewRecorder()

	// Re-renders the form, which needs the template engine.
	func() {
		defer func() { _ = recover() }()
		h.HandleCreate(rec, req)
	}()

	n, err := userstore.New(db).Count(ctx, bson.M{"email": "taken@dup.test"})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("duplicate email should not create a second account, got %d", n)
	}
}

func TestHandleEdit_DisablesAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fx.CreateOrganization(ctx, "Disable School")
	teacher := fx.CreateTeacher(ctx, "Fading Teacher", "fading@school.test", org.ID)

	h := newTestHandler(db)
	req := postForm("/teachers/"+teacher.ID.Hex()+"/edit", url.Values{
		"full_name":       {teacher.FullName},
		"email":           {teacher.Email},
		"organization_id": {org.ID.Hex()},
		"auth_method":     {"internal"},
		"status":          {"disabled"},
	}, testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "id", teacher.ID.Hex())
	rec := httptest.NewRecorder()

	h.HandleEdit(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected %d, got %d", http.StatusSeeOther, rec.Code)
	}

	updated, err := userstore.New(db).GetTeacherByID(ctx, teacher.ID)
	if err != nil {
		t.Fatalf("reload teacher: %v", err)
	}
	if updated.Status != "disabled" {
		t.Errorf("status: got %q, want disabled", updated.Status)
	}

	events, err := audit.New(db).Query(ctx, audit.QueryFilter{EventType: audit.EventUserDisabled})
	if err != nil || len(events) != 1 {
		t.Errorf("expected 1 user_disabled audit event, got %d (err=%v)", len(events), err)
	}
}

func TestHandleDelete_RemovesTeacherOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fx.CreateOrganization(ctx, "Leave School")
	teacher := fx.CreateTeacher(ctx, "Leaving Teacher", "leaving@school.test", org.ID)
	admin := fx.CreateAdmin(ctx, "Sticky Admin", "admin@leave.test")

	h := newTestHandler(db)
	req := postForm("/teachers/"+teacher.ID.Hex()+"/delete", url.Values{}, testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "id", teacher.ID.Hex())
	rec := httptest.NewRecorder()

	h.HandleDelete(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected %d, got %d", http.StatusSeeOther, rec.Code)
	}

	users := userstore.New(db)
	if _, err := users.GetTeacherByID(ctx, teacher.ID); err == nil {
		t.Error("teacher should be deleted")
	}
	if _, err := users.GetByID(ctx, admin.ID); err != nil {
		t.Errorf("admin should be untouched: %v", err)
	}

	events, err := audit.New(db).Query(ctx, audit.QueryFilter{EventType: audit.EventUserDeleted})
	if err != nil || len(events) != 1 {
		t.Errorf("expected 1 user_deleted audit event, got %d (err=%v)", len(events), err)
	}
}
