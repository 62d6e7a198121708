// internal/app/store/notices/noticestore.go
package noticestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aman124598/TeacherHQ/internal/app/system/htmlsanitize"
	"github.com/aman124598/TeacherHQ/internal/app/system/inputval"
	"github.com/aman124598/TeacherHQ/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	errEmptyTitle = errors.New("notice title is required")
	errBadDate    = errors.New("notice date must be YYYY-MM-DD")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("notices")}
}

// EnsureIndexes creates the dashboard query index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "organization_id", Value: 1},
			{Key: "date", Value: -1},
		},
		Options: options.Index().SetName("idx_notices_org_date"),
	})
	return err
}

// Create inserts a notice. The body passes through the HTML sanitizer
// before storage.
func (s *Store) Create(ctx context.Context, notice models.Notice) (models.Notice, error) {
	notice.Title = strings.TrimSpace(notice.Title)
	if notice.Title == "" {
		return models.Notice{}, errEmptyTitle
	}
	if !inputval.ValidDateKey(notice.Date) {
		return models.Notice{}, errBadDate
	}

	now := time.Now().UTC()
	notice.ID = primitive.NewObjectID()
	notice.Body = htmlsanitize.Sanitize(notice.Body)
	notice.CreatedAt = now
	notice.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, notice); err != nil {
		return models.Notice{}, err
	}
	return notice, nil
}

// GetByID loads a notice by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Notice, error) {
	var notice models.Notice
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&notice); err != nil {
		return models.Notice{}, err
	}
	return notice, nil
}

// Update modifies a notice's title, body, and date.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, title, body, date string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return errEmptyTitle
	}
	if !inputval.ValidDateKey(date) {
		return errBadDate
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"title":      title,
		"body":       htmlsanitize.Sanitize(body),
		"date":       date,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// Delete removes a notice by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListByOrg returns an organization's notices newest-dated first.
func (s *Store) ListByOrg(ctx context.Context, orgID primitive.ObjectID, limit int64) ([]models.Notice, error) {
	if limit <= 0 {
		limit = 50
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}}).
		SetLimit(limit)

	cur, err := s.c.Find(ctx, bson.M{"organization_id": orgID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var notices []models.Notice
	if err := cur.All(ctx, &notices); err != nil {
		return nil, err
	}
	return notices, nil
}

// ListUpcoming returns an organization's notices dated on or after the
// given date key, soonest first.
func (s *Store) ListUpcoming(ctx context.Context, orgID primitive.ObjectID, fromDate string, limit int64) ([]models.Notice, error) {
	if limit <= 0 {
		limit = 10
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: 1}}).
		SetLimit(limit)

	cur, err := s.c.Find(ctx, bson.M{
		"organization_id": orgID,
		"date":            bson.M{"$gte": fromDate},
	}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var notices []models.Notice
	if err := cur.All(ctx, &notices); err != nil {
		return nil, err
	}
	return notices, nil
}
