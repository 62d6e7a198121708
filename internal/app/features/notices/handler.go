// internal/app/features/notices/handler.go
package notices

import (
	uierrors "github.com/aman124598/TeacherHQ/internal/app/features/errors"
	activitystore "github.com/aman124598/TeacherHQ/internal/app/store/activity"
	noticestore "github.com/aman124598/TeacherHQ/internal/app/store/notices"
	organizationstore "github.com/aman124598/TeacherHQ/internal/app/store/organizations"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves school notice administration. Posted notices surface on
// the teacher dashboard and in the activity feed.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger

	Notices  *noticestore.Store
	Orgs     *organizationstore.Store
	Activity *activitystore.Store
}

// NewHandler constructs a Notices handler bound to a DB and logger.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		Notices:  noticestore.New(db),
		Orgs:     organizationstore.New(db),
		Activity: activitystore.New(db, logger),
	}
}
