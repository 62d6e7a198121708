package authz_test

import (
	"net/http/httptest"
	"testing"

	"github.com/aman124598/TeacherHQ/internal/app/system/auth"
	"github.com/aman124598/TeacherHQ/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserCtx_Anonymous(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)

	role, name, userID, ok := authz.UserCtx(req)
	if ok {
		t.Error("anonymous request should not be ok")
	}
	if role != "visitor" || name != "" || userID != primitive.NilObjectID {
		t.Errorf("got role=%q name=%q id=%v", role, name, userID)
	}
}

func TestUserCtx_MalformedID(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: "not-an-object-id", Role: "admin"})

	if _, _, _, ok := authz.UserCtx(req); ok {
		t.Error("malformed user ID must fail closed")
	}
}

func TestUserCtx_NormalizesRole(t *testing.T) {
	id := primitive.NewObjectID()
	req := httptest.NewRequest("GET", "/", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: id.Hex(), Name: "Asha", Role: "Teacher"})

	role, name, userID, ok := authz.UserCtx(req)
	if !ok {
		t.Fatal("expected ok")
	}
	if role != "teacher" {
		t.Errorf("role: got %q, want %q", role, "teacher")
	}
	if name != "Asha" || userID != id {
		t.Errorf("got name=%q id=%v", name, userID)
	}
}

func TestRoleHelpers(t *testing.T) {
	id := primitive.NewObjectID().Hex()

	admin := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{ID: id, Role: "admin"})
	if !authz.IsAdmin(admin) || authz.IsTeacher(admin) {
		t.Error("admin role helpers wrong")
	}

	teacher := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{ID: id, Role: "teacher"})
	if authz.IsAdmin(teacher) || !authz.IsTeacher(teacher) {
		t.Error("teacher role helpers wrong")
	}
}

func TestUserOrgID(t *testing.T) {
	orgID := primitive.NewObjectID()
	id := primitive.NewObjectID().Hex()

	req := auth.WithTestUser(httptest.NewRequest("GET", "/", nil),
		&auth.SessionUser{ID: id, Role: "teacher", OrganizationID: orgID.Hex()})
	if got := authz.UserOrgID(req); got != orgID {
		t.Errorf("got %v, want %v", got, orgID)
	}

	noOrg := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{ID: id, Role: "admin"})
	if got := authz.UserOrgID(noOrg); got != primitive.NilObjectID {
		t.Errorf("got %v, want NilObjectID", got)
	}
}
