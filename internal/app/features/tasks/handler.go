// internal/app/features/tasks/handler.go
package tasks

import (
	uierrors "github.com/aman124598/TeacherHQ/internal/app/features/errors"
	activitystore "github.com/aman124598/TeacherHQ/internal/app/store/activity"
	organizationstore "github.com/aman124598/TeacherHQ/internal/app/store/organizations"
	taskstore "github.com/aman124598/TeacherHQ/internal/app/store/tasks"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the per-school admin task board.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger

	Tasks    *taskstore.Store
	Orgs     *organizationstore.Store
	Activity *activitystore.Store
}

// NewHandler constructs a Tasks handler bound to a DB and logger.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		Tasks:    taskstore.New(db),
		Orgs:     organizationstore.New(db),
		Activity: activitystore.New(db, logger),
	}
}
