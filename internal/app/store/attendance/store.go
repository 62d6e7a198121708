// internal/app/store/attendance/store.go
package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aman124598/TeacherHQ/internal/app/system/timezones"
	"github.com/aman124598/TeacherHQ/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrAlreadyMarked is returned when the user already has a record for the
// calendar day. It is a business outcome, not a system fault; callers
// surface it as "already marked today".
var ErrAlreadyMarked = errors.New("attendance already marked for today")

// Store manages per-user, per-organization attendance ledgers.
//
// Each ledger is a single document, so MongoDB's document-level atomicity
// makes the mark operation's read-check-append sequence race-free: two
// concurrent marks for the same user and day resolve to one success and
// one ErrAlreadyMarked.
type Store struct {
	c *mongo.Collection
}

// New creates a new attendance Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("attendance")}
}

// EnsureIndexes creates the ledger uniqueness and query indexes.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		// One ledger per user per organization. Concurrent first marks
		// collide here and the loser retries against the winner's document.
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "organization_id", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_ledger_user_org"),
		},
		// Admin overview: ledgers by organization, most recently marked first.
		{
			Keys: bson.D{
				{Key: "organization_id", Value: 1},
				{Key: "last_marked", Value: -1},
			},
			Options: options.Index().SetName("idx_ledger_org_marked"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// MarkResult reports a successful mark back to the caller.
type MarkResult struct {
	Date   string // YYYY-MM-DD in the organization's zone
	TimeIn string // localized display time
}

// MarkPresent appends today's present entry to the user's ledger,
// creating the ledger on first mark.
//
// The calendar day is derived from occurredAt in loc (the organization's
// configured zone; pass nil for UTC). If a record for that day already
// exists, it returns ErrAlreadyMarked and mutates nothing. Counters and
// the record append move together in one document update, so the ledger
// invariant total == present + absent == len(records) holds on every path.
func (s *Store) MarkPresent(ctx context.Context, userID, orgID primitive.ObjectID, occurredAt time.Time, loc *time.Location, position *models.RecordLocation) (MarkResult, error) {
	dateKey := timezones.DateKey(occurredAt, loc)
	timeIn := timezones.TimeIn(occurredAt, loc)

	rec := models.AttendanceRecord{
		Date:      dateKey,
		TimeIn:    timeIn,
		Timestamp: occurredAt,
		Status:    models.StatusPresent,
		Location:  position,
	}
	key := bson.M{"user_id": userID, "organization_id": orgID}

	// Two attempts: the second runs only when a concurrent first mark wins
	// the ledger-creation race, and then resolves via the update filter.
	for attempt := 0; attempt < 2; attempt++ {
		res, err := s.c.UpdateOne(ctx,
			bson.M{
				"user_id":         userID,
				"organization_id": orgID,
				"records.date":    bson.M{"$ne": dateKey},
			},
			bson.M{
				"$push": bson.M{"records": rec},
				"$inc":  bson.M{"present_days": 1, "total_days": 1},
				"$set":  bson.M{"last_marked": occurredAt, "updated_at": time.Now().UTC()},
			},
		)
		if err != nil {
			return MarkResult{}, fmt.Errorf("append attendance record: %w", err)
		}
		if res.ModifiedCount == 1 {
			return MarkResult{Date: dateKey, TimeIn: timeIn}, nil
		}

		// No match: the ledger either has today's record or doesn't exist.
		err = s.c.FindOne(ctx, key).Err()
		if err == nil {
			return MarkResult{}, ErrAlreadyMarked
		}
		if err != mongo.ErrNoDocuments {
			return MarkResult{}, fmt.Errorf("load attendance ledger: %w", err)
		}

		now := time.Now().UTC()
		ledger := models.AttendanceLedger{
			ID:             primitive.NewObjectID(),
			UserID:         userID,
			OrganizationID: orgID,
			PresentDays:    1,
			AbsentDays:     0,
			TotalDays:      1,
			Records:        []models.AttendanceRecord{rec},
			LastMarked:     occurredAt,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		_, err = s.c.InsertOne(ctx, ledger)
		if err == nil {
			return MarkResult{Date: dateKey, TimeIn: timeIn}, nil
		}
		if !wafflemongo.IsDup(err) {
			return MarkResult{}, fmt.Errorf("create attendance ledger: %w", err)
		}
		// Lost the creation race; loop to append against the winner's doc.
	}

	return MarkResult{}, ErrAlreadyMarked
}

// Get loads the ledger for a user in an organization. Returns
// mongo.ErrNoDocuments if the user has never marked attendance.
func (s *Store) Get(ctx context.Context, userID, orgID primitive.ObjectID) (models.AttendanceLedger, error) {
	var ledger models.AttendanceLedger
	err := s.c.FindOne(ctx, bson.M{"user_id": userID, "organization_id": orgID}).Decode(&ledger)
	if err != nil {
		return models.AttendanceLedger{}, err
	}
	return ledger, nil
}

// GetByUser loads all ledgers for a user across organizations.
func (s *Store) GetByUser(ctx context.Context, userID primitive.ObjectID) ([]models.AttendanceLedger, error) {
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ledgers []models.AttendanceLedger
	if err := cur.All(ctx, &ledgers); err != nil {
		return nil, err
	}
	return ledgers, nil
}

// ListByOrg returns an organization's ledgers ordered by most recent mark.
func (s *Store) ListByOrg(ctx context.Context, orgID primitive.ObjectID, limit int64) ([]models.AttendanceLedger, error) {
	if limit <= 0 {
		limit = 200
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "last_marked", Value: -1}}).
		SetLimit(limit)

	cur, err := s.c.Find(ctx, bson.M{"organization_id": orgID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ledgers []models.AttendanceLedger
	if err := cur.All(ctx, &ledgers); err != nil {
		return nil, err
	}
	return ledgers, nil
}

// CountMarkedOn returns how many of an organization's ledgers contain a
// record for the given date key.
func (s *Store) CountMarkedOn(ctx context.Context, orgID primitive.ObjectID, dateKey string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{
		"organization_id": orgID,
		"records.date":    dateKey,
	})
}
