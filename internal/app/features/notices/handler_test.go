package notices_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	uierrors "github.com/aman124598/TeacherHQ/internal/app/features/errors"
	"github.com/aman124598/TeacherHQ/internal/app/features/notices"
	activitystore "github.com/aman124598/TeacherHQ/internal/app/store/activity"
	noticestore "github.com/aman124598/TeacherHQ/internal/app/store/notices"
	"github.com/aman124598/TeacherHQ/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(db *mongo.Database) *notices.Handler {
	logger := zap.NewNop()
	return notices.NewHandler(db, uierrors.NewErrorLogger(logger), logger)
}

func postForm(target string, values url.Values, user testutil.TestUser) *http.Request {
	req := httptest.NewRequest("POST", target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return testutil.WithUser(req, user)
}

func TestHandleCreate_PostsNoticeAndActivity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fx.CreateOrganization(ctx, "Notice School")
	h := newTestHandler(db)

	req := postForm("/notices/new", url.Values{
		"organization_id": {org.ID.Hex()},
		"title":           {"Sports day"},
		"body":            {"Assemble on the main field at 9am."},
		"date":            {"2026-09-15"},
	}, testutil.AdminUser())
	rec := httptest.NewRecorder()

	h.HandleCreate(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected %d, got %d", http.StatusSeeOther, rec.Code)
	}

	list, err := noticestore.New(db).ListByOrg(ctx, org.ID, 10)
	if err != nil {
		t.Fatalf("list notices: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 notice, got %d", len(list))
	}
	if list[0].Title != "Sports day" || list[0].Date != "2026-09-15" {
		t.Errorf("unexpected notice: %+v", list[0])
	}

	// The feed entry is written asynchronously.
	activities := activitystore.New(db, zap.NewNop())
	deadline := time.Now().Add(3 * time.Second)
	for {
		entries, err := activities.ListByOrg(ctx, org.ID, 10)
		if err != nil {
			t.Fatalf("list activity: %v", err)
		}
		if len(entries) == 1 && entries[0].Action == activitystore.ActionNoticePosted {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected a notice_posted feed entry, got %d entries", len(entries))
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func TestHandleCreate_RejectsBadDate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fx.CreateOrganization(ctx, "Bad Date School")
	h := newTestHandler(db)

	req := postForm("/notices/new", url.Values{
		"organization_id": {org.ID.Hex()},
		"title":           {"Mystery event"},
		"date":            {"15/09/2026"},
	}, testutil.AdminUser())
	rec := httptest.NewRecorder()

	// Re-renders the form, which needs the template engine.
	func() {
		defer func() { _ = recover() }()
		h.HandleCreate(rec, req)
	}()

	list, err := noticestore.New(db).ListByOrg(ctx, org.ID, 10)
	if err != nil {
		t.Fatalf("list notices: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("bad date should not create a notice, got %d", len(list))
	}
}

func TestHandleEdit_UpdatesContent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fx.CreateOrganization(ctx, "Edit School")
	admin := fx.CreateAdmin(ctx, "Notice Admin", "admin@edit.test")
	notice := fx.CreateNotice(ctx, org.ID, admin.ID, "Draft title", "Draft body")

	h := newTestHandler(db)
	req := postForm("/notices/"+notice.ID.Hex()+"/edit", url.Values{
		"title": {"Final title"},
		"body":  {"Final body"},
		"date":  {"2026-10-01"},
	}, testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "id", notice.ID.Hex())
	rec := httptest.NewRecorder()

	h.HandleEdit(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected %d, got %d", http.StatusSeeOther, rec.Code)
	}

	updated, err := noticestore.New(db).GetByID(ctx, notice.ID)
	if err != nil {
		t.Fatalf("reload notice: %v", err)
	}
	if updated.Title != "Final title" || updated.Date != "2026-10-01" {
		t.Errorf("notice not updated: %+v", updated)
	}
	if updated.OrganizationID != org.ID {
		t.Errorf("notice should stay with its school")
	}
}

func TestHandleDelete_RemovesNotice(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fx.CreateOrganization(ctx, "Purge School")
	admin := fx.CreateAdmin(ctx, "Notice Admin", "admin@purge.test")
	notice := fx.CreateNotice(ctx, org.ID, admin.ID, "Stale notice", "Old news")

	h := newTestHandler(db)
	req := postForm("/notices/"+notice.ID.Hex()+"/delete", url.Values{}, testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "id", notice.ID.Hex())
	rec := httptest.NewRecorder()

	h.HandleDelete(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if _, err := noticestore.New(db).GetByID(ctx, notice.ID); err == nil {
		t.Error("notice should be deleted")
	}
}

func TestServeList_LoadsSelectedSchool(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fx.CreateOrganization(ctx, "List School")
	admin := fx.CreateAdmin(ctx, "Notice Admin", "admin@list.test")
	fx.CreateNotice(ctx, org.ID, admin.ID, "Visible notice", "Body text")

	h := newTestHandler(db)
	req := testutil.NewAuthenticatedRequest("GET", "/notices?org="+org.ID.Hex(), testutil.AdminUser())
	rec := httptest.NewRecorder()

	// Rendering needs the template engine; the handler must not error
	// before reaching it.
	func() {
		defer func() { _ = recover() }()
		h.ServeList(rec, req)
	}()

	if rec.Code >= 400 {
		t.Errorf("list load failed with status %d", rec.Code)
	}
}
