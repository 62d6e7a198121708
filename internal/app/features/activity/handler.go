// internal/app/features/activity/handler.go
package activity

import (
	uierrors "github.com/aman124598/TeacherHQ/internal/app/features/errors"
	activitystore "github.com/aman124598/TeacherHQ/internal/app/store/activity"
	organizationstore "github.com/aman124598/TeacherHQ/internal/app/store/organizations"
	userstore "github.com/aman124598/TeacherHQ/internal/app/store/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the admin activity feed.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger

	Entries *activitystore.Store
	Orgs    *organizationstore.Store
	Users   *userstore.Store
}

// NewHandler constructs an Activity handler bound to a DB and logger.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Log:     logger,
		ErrLog:  errLog,
		Entries: activitystore.New(db, logger),
		Orgs:    organizationstore.New(db),
		Users:   userstore.New(db),
	}
}
