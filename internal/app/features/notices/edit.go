// internal/app/features/notices/edit.go
package notices

import (
	"context"
	"net/http"
	"strings"

	uierrors "github.com/aman124598/TeacherHQ/internal/app/features/errors"
	"github.com/aman124598/TeacherHQ/internal/app/system/formutil"
	"github.com/aman124598/TeacherHQ/internal/app/system/inputval"
	"github.com/aman124598/TeacherHQ/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeEdit renders the Edit Notice page.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderBadRequest(w, r, "Invalid notice ID.", "/notices")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	notice, err := h.Notices.GetByID(ctx, oid)
	if err != nil {
		uierrors.RenderNotFound(w, r, "Notice not found.", "/notices")
		return
	}
	opts, err := h.loadOrgOptions(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load schools for notice form failed", err, "A database error occurred.", "/notices")
		return
	}

	data := editData{ID: notice.ID.Hex()}
	data.Title = notice.Title
	data.Body = notice.Body
	data.Date = notice.Date
	data.OrgID = notice.OrganizationID.Hex()
	data.Orgs = opts
	formutil.SetBase(&data.Base, r, "Edit Notice", "/notices")

	templates.Render(w, r, "notice_edit", data)
}

// HandleEdit processes the Edit Notice form POST. The notice stays with
// its original school; only title, body, and date change.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderBadRequest(w, r, "Invalid notice ID.", "/notices")
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/notices")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	body := strings.TrimSpace(r.FormValue("body"))
	date := strings.TrimSpace(r.FormValue("date"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	notice, err := h.Notices.GetByID(ctx, oid)
	if err != nil {
		uierrors.RenderNotFound(w, r, "Notice not found.", "/notices")
		return
	}
	opts, err := h.loadOrgOptions(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load schools for notice form failed", err, "A database error occurred.", "/notices")
		return
	}

	renderWithError := func(msg string) {
		data := editData{ID: notice.ID.Hex()}
		data.Title = title
		data.Body = body
		data.Date = date
		data.OrgID = notice.OrganizationID.Hex()
		data.Orgs = opts
		formutil.SetBase(&data.Base, r, "Edit Notice", "/notices")
		data.SetError(msg)
		templates.Render(w, r, "notice_edit", data)
	}

	if title == "" {
		renderWithError("Notice title is required.")
		return
	}
	if len(title) > 300 {
		renderWithError("Notice title must be 300 characters or fewer.")
		return
	}
	if !inputval.ValidDateKey(date) {
		renderWithError("Please pick a date for the notice.")
		return
	}

	if err := h.Notices.Update(ctx, oid, title, body, date); err != nil {
		h.ErrLog.LogServerError(w, r, "update notice failed", err, "A database error occurred.", "/notices")
		return
	}

	http.Redirect(w, r, "/notices?org="+notice.OrganizationID.Hex(), http.StatusSeeOther)
}
