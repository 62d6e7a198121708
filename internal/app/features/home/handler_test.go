package home_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aman124598/TeacherHQ/internal/app/features/home"
	"github.com/aman124598/TeacherHQ/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestServeRoot_RedirectsSignedInUser(t *testing.T) {
	handler := home.NewHandler(zap.NewNop())

	sessionUser := &auth.SessionUser{
		ID:      primitive.NewObjectID().Hex(),
		Name:    "Test Teacher",
		LoginID: "teacher@example.com",
		Role:    "teacher",
	}

	req := httptest.NewRequest("GET", "/", nil)
	req = auth.WithTestUser(req, sessionUser)
	rec := httptest.NewRecorder()

	handler.ServeRoot(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/dashboard" {
		t.Errorf("Location: got %q, want %q", loc, "/dashboard")
	}
}

func TestServeRoot_Unauthenticated(t *testing.T) {
	handler := home.NewHandler(zap.NewNop())

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()

	// Handler will try to render a template which may panic without initialized templates
	func() {
		defer func() {
			if r := recover(); r != nil {
				// Template rendering may panic in tests - that's expected
			}
		}()
		handler.ServeRoot(rec, req)
	}()

	// No redirect for visitors
	if rec.Code == http.StatusSeeOther {
		t.Error("visitor should not be redirected")
	}
}
