// internal/app/store/activity/store.go
package activity

import (
	"context"
	"time"

	"github.com/aman124598/TeacherHQ/internal/app/system/timezones"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Activity actions shown in user-facing feeds.
const (
	ActionAttendanceMarked = "attendance_marked"
	ActionTaskCompleted    = "task_completed"
	ActionNoticePosted     = "notice_posted"
	ActionPasswordChanged  = "password_changed"
)

// Entry is one row in a user's activity feed. Date and Time are display
// values in the organization's zone; Timestamp is the UTC instant.
type Entry struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty"`
	UserID         primitive.ObjectID  `bson:"user_id"`
	OrganizationID *primitive.ObjectID `bson:"organization_id,omitempty"`
	Action         string              `bson:"action"`
	Description    string              `bson:"description,omitempty"`
	Date           string              `bson:"date"`
	Time           string              `bson:"time"`
	Timestamp      time.Time           `bson:"timestamp"`
}

// Store manages user activity feed entries.
type Store struct {
	c   *mongo.Collection
	log *zap.Logger
}

// New creates a new activity Store.
func New(db *mongo.Database, logger *zap.Logger) *Store {
	return &Store{c: db.Collection("activity_logs"), log: logger}
}

// EnsureIndexes creates the feed query index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "timestamp", Value: -1},
		},
		Options: options.Index().SetName("idx_activity_user_time"),
	})
	return err
}

// Record inserts an activity entry, deriving the display date and time
// from occurredAt in loc (pass nil for UTC).
func (s *Store) Record(ctx context.Context, entry Entry, occurredAt time.Time, loc *time.Location) error {
	entry.ID = primitive.NewObjectID()
	entry.Date = timezones.DateKey(occurredAt, loc)
	entry.Time = timezones.TimeIn(occurredAt, loc)
	entry.Timestamp = occurredAt
	_, err := s.c.InsertOne(ctx, entry)
	return err
}

// RecordAsync records an activity entry on a background goroutine with its
// own timeout. The feed is informational, so a failed write is logged and
// never surfaced to the caller.
func (s *Store) RecordAsync(entry Entry, occurredAt time.Time, loc *time.Location) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Record(ctx, entry, occurredAt, loc); err != nil {
			s.log.Warn("activity record failed",
				zap.String("action", entry.Action),
				zap.String("user_id", entry.UserID.Hex()),
				zap.Error(err))
		}
	}()
}

// ListByUser returns a user's most recent activity entries.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)

	cur, err := s.c.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var entries []Entry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ListByOrg returns an organization's most recent activity entries.
func (s *Store) ListByOrg(ctx context.Context, orgID primitive.ObjectID, limit int64) ([]Entry, error) {
	if limit <= 0 {
		limit = 100
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)

	cur, err := s.c.Find(ctx, bson.M{"organization_id": orgID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var entries []Entry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ListRecent returns the most recent activity entries across all
// organizations, optionally bounded to [since, until).
func (s *Store) ListRecent(ctx context.Context, since, until time.Time, limit int64) ([]Entry, error) {
	if limit <= 0 {
		limit = 200
	}
	filter := bson.M{}
	window := bson.M{}
	if !since.IsZero() {
		window["$gte"] = since
	}
	if !until.IsZero() {
		window["$lt"] = until
	}
	if len(window) > 0 {
		filter["timestamp"] = window
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var entries []Entry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
