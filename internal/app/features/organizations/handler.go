// internal/app/features/organizations/handler.go
package organizations

import (
	uierrors "github.com/aman124598/TeacherHQ/internal/app/features/errors"
	organizationstore "github.com/aman124598/TeacherHQ/internal/app/store/organizations"
	userstore "github.com/aman124598/TeacherHQ/internal/app/store/users"
	"github.com/aman124598/TeacherHQ/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for school administration.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger

	Orgs  *organizationstore.Store
	Users *userstore.Store
}

// NewHandler constructs an Organizations handler bound to a DB and logger.
func NewHandler(db *mongo.Database, audit *auditlog.Logger, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		AuditLog: audit,
		Orgs:     organizationstore.New(db),
		Users:    userstore.New(db),
	}
}
