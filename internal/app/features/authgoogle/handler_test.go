package authgoogle_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	uierrors "github.com/aman124598/TeacherHQ/internal/app/features/errors"
	"github.com/aman124598/TeacherHQ/internal/app/features/authgoogle"
	"github.com/aman124598/TeacherHQ/internal/app/store/audit"
	"github.com/aman124598/TeacherHQ/internal/app/system/auditlog"
	"github.com/aman124598/TeacherHQ/internal/app/system/auth"
	"github.com/aman124598/TeacherHQ/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, db *mongo.Database, cfg authgoogle.Config) *authgoogle.Handler {
	t.Helper()
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager("test-session-key-0123456789ABCDEF", "test-session", "", false, logger)
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	auditLogger := auditlog.New(audit.New(db), logger, auditlog.Config{Auth: "db"})
	return authgoogle.NewHandler(db, sm, auditLogger, uierrors.NewErrorLogger(logger), cfg, logger)
}

func TestServeLogin_RedirectsToGoogle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	h := newTestHandler(t, db, authgoogle.Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		BaseURL:      "http://localhost:3000",
	})

	req := httptest.NewRequest("GET", "/auth/google?return=/dashboard", nil)
	rec := httptest.NewRecorder()

	h.ServeLogin(rec, req)

	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("expected %d, got %d", http.StatusTemporaryRedirect, rec.Code)
	}
	loc := rec.Header().Get("Location")
	if !strings.Contains(loc, "accounts.google.com") {
		t.Errorf("Location should point at Google, got %q", loc)
	}
	if !strings.Contains(loc, "state=") {
		t.Errorf("Location should carry a state parameter, got %q", loc)
	}

	// The state must be persisted for the callback to validate.
	count, err := db.Collection("oauth_states").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("count states: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 saved state, got %d", count)
	}
}

func TestServeLogin_NotConfigured(t *testing.T) {
	db := testutil.SetupTestDB(t)

	h := newTestHandler(t, db, authgoogle.Config{})

	req := httptest.NewRequest("GET", "/auth/google", nil)
	rec := httptest.NewRecorder()

	h.ServeLogin(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login?error=google_not_configured" {
		t.Errorf("Location: got %q", loc)
	}
}

func TestServeCallback_InvalidState(t *testing.T) {
	db := testutil.SetupTestDB(t)

	h := newTestHandler(t, db, authgoogle.Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		BaseURL:      "http://localhost:3000",
	})

	req := httptest.NewRequest("GET", "/auth/google/callback?state=bogus&code=whatever", nil)
	rec := httptest.NewRecorder()

	h.ServeCallback(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login?error=invalid_state" {
		t.Errorf("Location: got %q", loc)
	}
}

func TestServeCallback_ProviderError(t *testing.T) {
	db := testutil.SetupTestDB(t)

	h := newTestHandler(t, db, authgoogle.Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		BaseURL:      "http://localhost:3000",
	})

	req := httptest.NewRequest("GET", "/auth/google/callback?error=access_denied", nil)
	rec := httptest.NewRecorder()

	h.ServeCallback(rec, req)

	if loc := rec.Header().Get("Location"); loc != "/login?error=google_denied" {
		t.Errorf("Location: got %q", loc)
	}
}
