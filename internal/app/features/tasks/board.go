// internal/app/features/tasks/board.go
package tasks

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	uierrors "github.com/aman124598/TeacherHQ/internal/app/features/errors"
	activitystore "github.com/aman124598/TeacherHQ/internal/app/store/activity"
	"github.com/aman124598/TeacherHQ/internal/app/system/authz"
	"github.com/aman124598/TeacherHQ/internal/app/system/timeouts"
	"github.com/aman124598/TeacherHQ/internal/app/system/timezones"
	"github.com/aman124598/TeacherHQ/internal/app/system/viewdata"
	"github.com/aman124598/TeacherHQ/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type orgOption struct {
	ID   string
	Name string
}

type boardData struct {
	viewdata.BaseVM

	OrgFilter string
	OrgName   string
	Orgs      []orgOption
	Open      []models.Task
	Done      []models.Task
	Error     string
}

// ServeBoard handles GET /tasks: the task board for a selected school.
func (h *Handler) ServeBoard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	data := boardData{
		BaseVM: viewdata.NewBaseVM(r, "Tasks", "/dashboard"),
	}

	orgs, err := h.Orgs.Find(ctx, bson.M{})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load schools for task board failed", err, "A database error occurred.", "/dashboard")
		return
	}
	for _, o := range orgs {
		data.Orgs = append(data.Orgs, orgOption{ID: o.ID.Hex(), Name: o.Name})
	}

	orgFilter := query.Get(r, "org")
	if orgFilter == "" && len(orgs) > 0 {
		orgFilter = orgs[0].ID.Hex()
	}
	if orgFilter != "" {
		oid, err := primitive.ObjectIDFromHex(orgFilter)
		if err != nil {
			h.ErrLog.LogBadRequest(w, r, "malformed org filter", err, "That school does not exist.", "/tasks")
			return
		}
		org, err := h.Orgs.GetByID(ctx, oid)
		if err != nil {
			uierrors.RenderNotFound(w, r, "School not found.", "/tasks")
			return
		}
		data.OrgFilter = orgFilter
		data.OrgName = org.Name

		all, err := h.Tasks.ListByOrg(ctx, oid)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "list tasks failed", err, "Unable to load tasks.", "/dashboard")
			return
		}
		for _, t := range all {
			if t.Done {
				data.Done = append(data.Done, t)
			} else {
				data.Open = append(data.Open, t)
			}
		}
	}
	data.Error = query.Get(r, "err")

	templates.Render(w, r, "tasks_board", data)
}

// HandleCreate handles POST /tasks/new.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/tasks")
		return
	}

	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	orgHex := strings.TrimSpace(r.FormValue("org"))
	title := strings.TrimSpace(r.FormValue("title"))
	notes := strings.TrimSpace(r.FormValue("notes"))

	oid, err := primitive.ObjectIDFromHex(orgHex)
	if err != nil {
		uierrors.RenderBadRequest(w, r, "Invalid school ID.", "/tasks")
		return
	}
	if title == "" {
		http.Redirect(w, r, "/tasks?org="+orgHex+"&err="+url.QueryEscape("Task title is required."), http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Orgs.GetByID(ctx, oid); err != nil {
		uierrors.RenderNotFound(w, r, "School not found.", "/tasks")
		return
	}

	_, err = h.Tasks.Create(ctx, models.Task{
		OrganizationID: oid,
		Title:          title,
		Notes:          notes,
		CreatedBy:      userID,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create task failed", err, "A database error occurred.", "/tasks")
		return
	}

	http.Redirect(w, r, "/tasks?org="+orgHex, http.StatusSeeOther)
}

// HandleToggle handles POST /tasks/{id}/toggle, flipping done state.
// Completing a task lands in the school's activity feed.
func (h *Handler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderBadRequest(w, r, "Invalid task ID.", "/tasks")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	task, err := h.Tasks.GetByID(ctx, oid)
	if err != nil {
		uierrors.RenderNotFound(w, r, "Task not found.", "/tasks")
		return
	}

	newDone := !task.Done
	if err := h.Tasks.SetDone(ctx, oid, newDone); err != nil {
		h.ErrLog.LogServerError(w, r, "toggle task failed", err, "A database error occurred.", "/tasks")
		return
	}

	if newDone {
		if _, _, userID, ok := authz.UserCtx(r); ok {
			loc := timezones.Resolve("")
			if org, err := h.Orgs.GetByID(ctx, task.OrganizationID); err == nil {
				loc = timezones.Resolve(org.TimeZone)
			}
			h.Activity.RecordAsync(activitystore.Entry{
				UserID:         userID,
				OrganizationID: &task.OrganizationID,
				Action:         activitystore.ActionTaskCompleted,
				Description:    "Completed task: " + task.Title,
			}, time.Now(), loc)
		}
	}

	http.Redirect(w, r, "/tasks?org="+task.OrganizationID.Hex(), http.StatusSeeOther)
}

// HandleDelete handles POST /tasks/{id}/delete.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderBadRequest(w, r, "Invalid task ID.", "/tasks")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	task, err := h.Tasks.GetByID(ctx, oid)
	if err != nil {
		http.Redirect(w, r, "/tasks", http.StatusSeeOther)
		return
	}
	if _, err := h.Tasks.Delete(ctx, oid); err != nil {
		h.ErrLog.LogServerError(w, r, "delete task failed", err, "A database error occurred.", "/tasks")
		return
	}

	http.Redirect(w, r, "/tasks?org="+task.OrganizationID.Hex(), http.StatusSeeOther)
}
