package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents admins and teachers.
//
// PasswordHash is a bcrypt hash and is empty for Google-only accounts.
type User struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	FullName       string              `bson:"full_name" json:"full_name"`
	FullNameCI     string              `bson:"full_name_ci" json:"full_name_ci"` // lowercase, diacritics-stripped
	Email          string              `bson:"email" json:"email"`
	EmailCI        string              `bson:"email_ci" json:"email_ci"`
	PasswordHash   string              `bson:"password_hash,omitempty" json:"-"`
	AuthMethod     string              `bson:"auth_method,omitempty" json:"auth_method,omitempty"` // internal | google
	Role           string              `bson:"role" json:"role"`                                   // admin | teacher
	Status         string              `bson:"status,omitempty" json:"status,omitempty"`
	OrganizationID *primitive.ObjectID `bson:"organization_id,omitempty" json:"organization_id,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
