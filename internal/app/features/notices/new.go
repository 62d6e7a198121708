// internal/app/features/notices/new.go
package notices

import (
	"context"
	"net/http"
	"strings"
	"time"

	activitystore "github.com/aman124598/TeacherHQ/internal/app/store/activity"
	"github.com/aman124598/TeacherHQ/internal/app/system/authz"
	"github.com/aman124598/TeacherHQ/internal/app/system/formutil"
	"github.com/aman124598/TeacherHQ/internal/app/system/inputval"
	"github.com/aman124598/TeacherHQ/internal/app/system/timeouts"
	"github.com/aman124598/TeacherHQ/internal/app/system/timezones"
	"github.com/aman124598/TeacherHQ/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeNew renders the "New Notice" form.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	opts, err := h.loadOrgOptions(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load schools for notice form failed", err, "A database error occurred.", "/notices")
		return
	}

	data := newData{}
	data.OrgID = query.Get(r, "org")
	data.Orgs = opts
	formutil.SetBase(&data.Base, r, "New Notice", "/notices")

	templates.Render(w, r, "notice_new", data)
}

// HandleCreate processes the New Notice form submission and drops the
// posting into the school's activity feed.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/notices")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	body := strings.TrimSpace(r.FormValue("body"))
	date := strings.TrimSpace(r.FormValue("date"))
	orgHex := strings.TrimSpace(r.FormValue("organization_id"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	opts, err := h.loadOrgOptions(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load schools for notice form failed", err, "A database error occurred.", "/notices")
		return
	}

	renderWithError := func(msg string) {
		data := newData{}
		data.Title = title
		data.Body = body
		data.Date = date
		data.OrgID = orgHex
		data.Orgs = opts
		formutil.SetBase(&data.Base, r, "New Notice", "/notices")
		data.SetError(msg)
		templates.Render(w, r, "notice_new", data)
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
	orgID, err := primitive.ObjectIDFromHex(orgHex)
	if err != nil {
		renderWithError("Please select a school.")
		return
	}
	org, err := h.Orgs.GetByID(ctx, orgID)
	if err != nil {
		renderWithError("That school no longer exists.")
		return
	}

	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		renderWithError("Your session has expired. Please sign in again.")
		return
	}

	created, err := h.Notices.Create(ctx, models.Notice{
		OrganizationID: orgID,
		Title:          title,
		Body:           body,
		Date:           date,
		CreatedBy:      userID,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create notice failed", err, "A database error occurred.", "/notices")
		return
	}

	h.Activity.RecordAsync(activitystore.Entry{
		UserID:         userID,
		OrganizationID: &orgID,
		Action:         activitystore.ActionNoticePosted,
		Description:    "Posted notice: " + created.Title,
	}, time.Now(), timezones.Resolve(org.TimeZone))

	http.Redirect(w, r, "/notices?org="+orgHex, http.StatusSeeOther)
}
