// internal/app/features/profile/handler.go
package profile

import (
	uierrors "github.com/aman124598/TeacherHQ/internal/app/features/errors"
	activitystore "github.com/aman124598/TeacherHQ/internal/app/store/activity"
	organizationstore "github.com/aman124598/TeacherHQ/internal/app/store/organizations"
	userstore "github.com/aman124598/TeacherHQ/internal/app/store/users"
	"github.com/aman124598/TeacherHQ/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the signed-in user's own profile page.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger

	Users    *userstore.Store
	Orgs     *organizationstore.Store
	Activity *activitystore.Store
}

// NewHandler constructs a Profile handler bound to a DB and logger.
func NewHandler(db *mongo.Database, auditLog *auditlog.Logger, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		AuditLog: auditLog,
		Users:    userstore.New(db),
		Orgs:     organizationstore.New(db),
		Activity: activitystore.New(db, logger),
	}
}
