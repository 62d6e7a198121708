package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notice is a dated announcement (important dates, closures, deadlines)
// shown on the teacher dashboard. Body may contain a restricted subset of
// HTML; it is sanitized before storage.
type Notice struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	OrganizationID primitive.ObjectID `bson:"organization_id"`
	Title          string             `bson:"title"`
	Body           string             `bson:"body,omitempty"`
	Date           string             `bson:"date"` // YYYY-MM-DD in the organization's time zone
	CreatedBy      primitive.ObjectID `bson:"created_by"`
	CreatedAt      time.Time          `bson:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at"`
}
