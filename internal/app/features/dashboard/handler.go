// internal/app/features/dashboard/handler.go
package dashboard

import (
	"net/http"
	"time"

	uierrors "github.com/aman124598/TeacherHQ/internal/app/features/errors"
	"github.com/aman124598/TeacherHQ/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const dashboardTimeout = 5 * time.Second

type Handler struct {
	DB     *mongo.Database
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		ErrLog: errLog,
		Log:    logger,
	}
}

// ServeDashboard routes to the role-appropriate dashboard view.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	role, _, _, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	switch role {
	case authz.RoleAdmin:
		h.ServeAdmin(w, r)
	case authz.RoleTeacher:
		h.ServeTeacher(w, r)
	default:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}
