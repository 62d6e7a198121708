// internal/app/store/tasks/taskstore.go
package taskstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aman124598/TeacherHQ/internal/app/system/htmlsanitize"
	"github.com/aman124598/TeacherHQ/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var errEmptyTitle = errors.New("task title is required")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("tasks")}
}

// EnsureIndexes creates the board query index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "organization_id", Value: 1},
			{Key: "done", Value: 1},
			{Key: "created_at", Value: -1},
		},
		Options: options.Index().SetName("idx_tasks_org_done"),
	})
	return err
}

// Create inserts a task. Notes pass through the HTML sanitizer before
// storage.
func (s *Store) Create(ctx context.Context, task models.Task) (models.Task, error) {
	task.Title = strings.TrimSpace(task.Title)
	if task.Title == "" {
		return models.Task{}, errEmptyTitle
	}

	now := time.Now().UTC()
	task.ID = primitive.NewObjectID()
	task.Notes = htmlsanitize.Sanitize(task.Notes)
	task.Done = false
	task.CreatedAt = now
	task.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, task); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// GetByID loads a task by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Task, error) {
	var task models.Task
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&task); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// Update modifies a task's title and notes.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, title, notes string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return errEmptyTitle
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"title":      title,
		"notes":      htmlsanitize.Sanitize(notes),
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// SetDone marks a task done or not done.
func (s *Store) SetDone(ctx context.Context, id primitive.ObjectID, done bool) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"done":       done,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// Delete removes a task by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListByOrg returns an organization's tasks, open tasks first, newest
// within each group.
func (s *Store) ListByOrg(ctx context.Context, orgID primitive.ObjectID) ([]models.Task, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "done", Value: 1},
		{Key: "created_at", Value: -1},
	})
	cur, err := s.c.Find(ctx, bson.M{"organization_id": orgID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var tasks []models.Task
	if err := cur.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CountOpenByOrg returns the number of open tasks for an organization.
func (s *Store) CountOpenByOrg(ctx context.Context, orgID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"organization_id": orgID, "done": false})
}
