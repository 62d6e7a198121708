// internal/app/features/notices/delete.go
package notices

import (
	"context"
	"net/http"

	uierrors "github.com/aman124598/TeacherHQ/internal/app/features/errors"
	"github.com/aman124598/TeacherHQ/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleDelete removes a notice and redirects to its school's list.
// Deleting an already-gone notice is not an error.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderBadRequest(w, r, "Invalid notice ID.", "/notices")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	notice, err := h.Notices.GetByID(ctx, oid)
	if err != nil {
		http.Redirect(w, r, "/notices", http.StatusSeeOther)
		return
	}

	deleted, err := h.Notices.Delete(ctx, oid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "delete notice failed", err, "A database error occurred.", "/notices")
		return
	}
	if deleted == 0 {
		h.Log.Info("notice already deleted", zap.String("notice_id", oid.Hex()))
	}

	http.Redirect(w, r, "/notices?org="+notice.OrganizationID.Hex(), http.StatusSeeOther)
}
