package passwordreset_test

import (
	"errors"
	"testing"
	"time"

	"github.com/aman124598/TeacherHQ/internal/app/store/passwordreset"
	"github.com/aman124598/TeacherHQ/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateAndConsume(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := passwordreset.New(db, 0)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	token, err := store.Create(ctx, userID, "reset@example.com")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}

	reset, err := store.Consume(ctx, token)
	if err != nil {
		t.Fatalf("Consume failed: %v", err)
	}
	if reset.UserID != userID || reset.Email != "reset@example.com" {
		t.Errorf("reset record: %+v", reset)
	}

	// Single use: the same token cannot be consumed twice.
	if _, err := store.Consume(ctx, token); !errors.Is(err, passwordreset.ErrNotFound) {
		t.Errorf("second consume: got %v, want ErrNotFound", err)
	}
}

func TestConsume_UnknownToken(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := passwordreset.New(db, 0)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Consume(ctx, "no-such-token"); !errors.Is(err, passwordreset.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestConsume_ExpiredToken(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := passwordreset.New(db, time.Millisecond)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	token, err := store.Create(ctx, primitive.NewObjectID(), "expired@example.com")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	if _, err := store.Consume(ctx, token); !errors.Is(err, passwordreset.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestCreate_NewTokenInvalidatesOld(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := passwordreset.New(db, 0)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	first, err := store.Create(ctx, userID, "rotate@example.com")
	if err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	second, err := store.Create(ctx, userID, "rotate@example.com")
	if err != nil {
		t.Fatalf("second Create failed: %v", err)
	}

	if _, err := store.Consume(ctx, first); !errors.Is(err, passwordreset.ErrNotFound) {
		t.Errorf("old token: got %v, want ErrNotFound", err)
	}
	if _, err := store.Consume(ctx, second); err != nil {
		t.Errorf("new token: %v", err)
	}
}

func TestCreate_RateLimit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := passwordreset.New(db, 0)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	for i := 0; i < passwordreset.MaxRequests; i++ {
		if _, err := store.Create(ctx, userID, "limit@example.com"); err != nil {
			t.Fatalf("Create %d failed: %v", i, err)
		}
	}

	_, err := store.Create(ctx, userID, "limit@example.com")
	if !errors.Is(err, passwordreset.ErrTooManyRequests) {
		t.Fatalf("got %v, want ErrTooManyRequests", err)
	}
}
