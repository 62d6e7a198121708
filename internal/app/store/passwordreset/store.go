// internal/app/store/passwordreset/store.go
package passwordreset

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	// DefaultExpiry is how long a reset token is valid.
	DefaultExpiry = 30 * time.Minute
	// MaxRequests is the maximum number of reset requests within the window.
	MaxRequests = 3
	// RequestWindow is the time window for request rate limiting.
	RequestWindow = 15 * time.Minute
)

var (
	// ErrNotFound is returned when a reset record is not found or expired.
	ErrNotFound = errors.New("password reset not found or expired")
	// ErrTooManyRequests is returned when too many resets have been requested.
	ErrTooManyRequests = errors.New("too many password reset requests")
)

// Reset represents a pending password reset.
type Reset struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	UserID       primitive.ObjectID `bson:"user_id"`
	Email        string             `bson:"email"`
	Token        string             `bson:"token"`      // UUID sent in the reset link
	ExpiresAt    time.Time          `bson:"expires_at"` // TTL index field
	CreatedAt    time.Time          `bson:"created_at"`
	RequestCount int                `bson:"request_count"` // requests in the current window
	WindowStart  time.Time          `bson:"window_start"`
}

// Store manages password reset records.
type Store struct {
	c      *mongo.Collection
	expiry time.Duration
}

// New creates a new Store with the specified expiry duration.
// If expiry is 0 or negative, DefaultExpiry (30 minutes) is used.
func New(db *mongo.Database, expiry time.Duration) *Store {
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	return &Store{
		c:      db.Collection("password_resets"),
		expiry: expiry,
	}
}

// Expiry returns the expiry duration for reset tokens.
func (s *Store) Expiry() time.Duration {
	return s.expiry
}

// EnsureIndexes creates necessary indexes including TTL index for auto-cleanup.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetName("idx_pwreset_expires_ttl").SetExpireAfterSeconds(0), // TTL index
		},
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetName("idx_pwreset_token"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("idx_pwreset_user"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create creates a new reset record and returns the token to email to the
// user. Repeated requests within the rate limit window return
// ErrTooManyRequests; each new request invalidates earlier tokens.
func (s *Store) Create(ctx context.Context, userID primitive.ObjectID, email string) (string, error) {
	now := time.Now().UTC()

	var existing Reset
	err := s.c.FindOne(ctx, bson.M{"user_id": userID}).Decode(&existing)
	existingFound := err == nil

	requestCount := 1
	windowStart := now
	if existingFound && now.Before(existing.WindowStart.Add(RequestWindow)) {
		if existing.RequestCount >= MaxRequests {
			return "", ErrTooManyRequests
		}
		requestCount = existing.RequestCount + 1
		windowStart = existing.WindowStart
	}

	// Previous tokens become invalid once a new one is issued.
	_, _ = s.c.DeleteMany(ctx, bson.M{"user_id": userID})

	token := uuid.NewString()
	reset := Reset{
		ID:           primitive.NewObjectID(),
		UserID:       userID,
		Email:        email,
		Token:        token,
		ExpiresAt:    now.Add(s.expiry),
		CreatedAt:    now,
		RequestCount: requestCount,
		WindowStart:  windowStart,
	}

	if _, err := s.c.InsertOne(ctx, reset); err != nil {
		return "", fmt.Errorf("insert password reset: %w", err)
	}
	return token, nil
}

// Consume verifies a reset token and returns the record if valid.
// The record is deleted, so each token works exactly once.
func (s *Store) Consume(ctx context.Context, token string) (*Reset, error) {
	var reset Reset
	err := s.c.FindOneAndDelete(ctx, bson.M{
		"token":      token,
		"expires_at": bson.M{"$gt": time.Now().UTC()},
	}).Decode(&reset)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &reset, nil
}

// DeleteByUser deletes all reset records for a user.
func (s *Store) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.c.DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}
