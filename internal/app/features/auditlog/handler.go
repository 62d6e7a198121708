// internal/app/features/auditlog/handler.go
package auditlog

import (
	uierrors "github.com/aman124598/TeacherHQ/internal/app/features/errors"
	"github.com/aman124598/TeacherHQ/internal/app/store/audit"
	organizationstore "github.com/aman124598/TeacherHQ/internal/app/store/organizations"
	userstore "github.com/aman124598/TeacherHQ/internal/app/store/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the admin audit trail viewer.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger

	Events *audit.Store
	Users  *userstore.Store
	Orgs   *organizationstore.Store
}

// NewHandler constructs an audit trail handler bound to a DB and logger.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Log:    logger,
		ErrLog: errLog,
		Events: audit.New(db),
		Users:  userstore.New(db),
		Orgs:   organizationstore.New(db),
	}
}
