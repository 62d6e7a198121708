// internal/app/features/teachers/delete.go
package teachers

import (
	"context"
	"net/http"

	uierrors "github.com/aman124598/TeacherHQ/internal/app/features/errors"
	"github.com/aman124598/TeacherHQ/internal/app/store/audit"
	"github.com/aman124598/TeacherHQ/internal/app/store/passwordreset"
	"github.com/aman124598/TeacherHQ/internal/app/system/authz"
	"github.com/aman124598/TeacherHQ/internal/app/system/navigation"
	"github.com/aman124598/TeacherHQ/internal/app/system/timeouts"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleDelete removes a teacher account. The attendance ledger is kept;
// it is the school's historical record, not the account's.
//
// Route: POST /teachers/{id}/delete
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	idHex := chi.URLParam(r, "id")
	oid, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		uierrors.RenderBadRequest(w, r, "Invalid teacher ID.", "/teachers")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	teacher, err := h.Users.GetTeacherByID(ctx, oid)
	if err != nil {
		// Already gone; deleting is idempotent.
		http.Redirect(w, r, navigation.SafeBackURL(r, navigation.TeachersBackURL), http.StatusSeeOther)
		return
	}

	deleted, err := h.Users.DeleteTeacher(ctx, oid)
	if err != nil {
		h.Log.Error("delete teacher failed", zap.Error(err), zap.String("user_id", idHex))
		h.ErrLog.LogServerError(w, r, "delete teacher failed", err, "A database error occurred.", "/teachers")
		return
	}

	// Outstanding reset tokens die with the account.
	if err := passwordreset.New(h.DB, 0).DeleteByUser(ctx, oid); err != nil {
		h.Log.Warn("purge reset tokens after delete failed", zap.Error(err), zap.String("user_id", idHex))
	}

	if _, _, actorID, ok := authz.UserCtx(r); ok && deleted > 0 {
		h.AuditLog.AdminAction(ctx, r, audit.EventUserDeleted, actorID, &oid, teacher.OrganizationID, map[string]string{"email": teacher.Email})
	}

	ret := navigation.SafeBackURL(r, navigation.TeachersBackURL)
	http.Redirect(w, r, ret, http.StatusSeeOther)
}
