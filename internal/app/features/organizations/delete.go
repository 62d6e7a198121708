// internal/app/features/organizations/delete.go
package organizations

import (
	"context"
	"net/http"

	uierrors "github.com/aman124598/TeacherHQ/internal/app/features/errors"
	"github.com/aman124598/TeacherHQ/internal/app/store/audit"
	"github.com/aman124598/TeacherHQ/internal/app/system/authz"
	"github.com/aman124598/TeacherHQ/internal/app/system/navigation"
	"github.com/aman124598/TeacherHQ/internal/app/system/timeouts"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleDelete deletes a school and redirects back to the list (or to a
// caller-provided return URL if present). A school that still has
// teachers cannot be deleted; the accounts must be moved or removed
// first so no teacher is left pointing at a missing school.
//
// Route: POST /organizations/{id}/delete
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	idHex := chi.URLParam(r, "id")
	oid, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		uierrors.RenderBadRequest(w, r, "Invalid school ID.", "/organizations")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	teachers, err := h.Users.ListTeachersByOrg(ctx, oid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list teachers before delete failed", err, "A database error occurred.", "/organizations")
		return
	}
	if len(teachers) > 0 {
		uierrors.RenderForbidden(w, r, "This school still has teacher accounts. Remove or reassign them first.", "/organizations")
		return
	}

	deleted, err := h.Orgs.Delete(ctx, oid)
	if err != nil {
		h.Log.Error("delete organization failed", zap.Error(err), zap.String("org_id", idHex))
		h.ErrLog.LogServerError(w, r, "delete organization failed", err, "A database error occurred.", "/organizations")
		return
	}
	if deleted == 0 {
		h.Log.Info("organization delete: no document found (idempotent)", zap.String("org_id", idHex))
	}

	if _, _, actorID, ok := authz.UserCtx(r); ok && deleted > 0 {
		h.AuditLog.AdminAction(ctx, r, audit.EventOrgDeleted, actorID, nil, &oid, nil)
	}

	ret := navigation.SafeBackURL(r, navigation.OrganizationsBackURL)
	http.Redirect(w, r, ret, http.StatusSeeOther)
}
