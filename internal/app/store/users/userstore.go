package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/aman124598/TeacherHQ/internal/app/system/normalize"
	"github.com/aman124598/TeacherHQ/internal/app/system/status"
	"github.com/aman124598/TeacherHQ/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// EnsureIndexes creates the unique email index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email_ci", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_user_email"),
	})
	return err
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetTeacherByID loads a user by ObjectID, returning an error if the user
// does not exist or is not a teacher role.
func (s *Store) GetTeacherByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id, "role": "teacher"}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email. Returns
// mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email_ci": text.Fold(normalize.Email(email))}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	// ErrBadCredentials is returned when an email/password pair does not match.
	ErrBadCredentials = errors.New("invalid email or password")
	errBadRole        = errors.New(`role must be "admin"|"teacher"`)
	errBadStatus      = errors.New(`status must be "active"|"disabled"`)
	errOrgNeeded      = errors.New("teacher must have organization_id")
)

// Create inserts a new user after normalizing & validating fields.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.FullName = normalize.Name(u.FullName)
	u.FullNameCI = text.Fold(u.FullName)
	u.Email = normalize.Email(u.Email)
	u.EmailCI = text.Fold(u.Email)
	u.Role = normalize.Role(u.Role)
	if u.AuthMethod == "" {
		u.AuthMethod = "internal"
	}
	if u.Status == "" {
		u.Status = status.Active
	}

	switch u.Role {
	case "admin", "teacher":
		// ok
	default:
		return models.User{}, errBadRole
	}

	if !status.IsValid(u.Status) {
		return models.User{}, errBadStatus
	}

	// Teachers must be scoped to an org.
	if u.Role == "teacher" && u.OrganizationID == nil {
		return models.User{}, errOrgNeeded
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// TeacherUpdate holds the fields that can be updated for a teacher.
type TeacherUpdate struct {
	FullName       string
	Email          string
	AuthMethod     string
	Status         string
	OrganizationID primitive.ObjectID
}

// UpdateTeacher updates a teacher's fields. Only updates users with role="teacher".
// Returns ErrDuplicateEmail if the email already exists for another user.
func (s *Store) UpdateTeacher(ctx context.Context, id primitive.ObjectID, upd TeacherUpdate) error {
	email := normalize.Email(upd.Email)
	set := bson.M{
		"full_name":       normalize.Name(upd.FullName),
		"full_name_ci":    text.Fold(upd.FullName),
		"email":           email,
		"email_ci":        text.Fold(email),
		"auth_method":     normalize.AuthMethod(upd.AuthMethod),
		"status":          normalize.Status(upd.Status),
		"organization_id": upd.OrganizationID,
		"updated_at":      time.Now().UTC(),
	}

	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id, "role": "teacher"}, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// DeleteTeacher deletes a user by ID, but only if they have role="teacher".
// Returns the number of documents deleted (0 or 1).
func (s *Store) DeleteTeacher(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "role": "teacher"})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// EmailExistsForOther checks if an email already exists for a user other than the given ID.
func (s *Store) EmailExistsForOther(ctx context.Context, email string, excludeID primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{
		"email_ci": text.Fold(normalize.Email(email)),
		"_id":      bson.M{"$ne": excludeID},
	}).Err()
	if err == nil {
		return true, nil
	}
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	return false, err
}

// SetPassword hashes and stores a new password for the user.
func (s *Store) SetPassword(ctx context.Context, id primitive.ObjectID, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"password_hash": string(hash),
		"updated_at":    time.Now().UTC(),
	}})
	return err
}

// VerifyCredentials looks up an active user by email and checks the
// password against the stored bcrypt hash. Returns ErrBadCredentials for
// unknown email, disabled account, Google-only account, or wrong password,
// so callers cannot distinguish which check failed.
func (s *Store) VerifyCredentials(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.GetByEmail(ctx, email)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if normalize.Status(u.Status) == status.Disabled {
		return nil, ErrBadCredentials
	}
	if u.PasswordHash == "" {
		return nil, ErrBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}
	return u, nil
}

// ListTeachersByOrg returns an organization's teachers sorted by name.
func (s *Store) ListTeachersByOrg(ctx context.Context, orgID primitive.ObjectID) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "full_name_ci", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"role": "teacher", "organization_id": orgID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Find returns users matching the given filter with optional find options.
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.User, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Count returns the number of users matching the given filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}
