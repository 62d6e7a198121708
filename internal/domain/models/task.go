package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task is an item on the admin task board. Notes may contain a restricted
// subset of HTML; it is sanitized before storage.
type Task struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	OrganizationID primitive.ObjectID `bson:"organization_id"`
	Title          string             `bson:"title"`
	Notes          string             `bson:"notes,omitempty"`
	Done           bool               `bson:"done"`
	CreatedBy      primitive.ObjectID `bson:"created_by"`
	CreatedAt      time.Time          `bson:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at"`
}
