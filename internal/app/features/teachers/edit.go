// internal/app/features/teachers/edit.go
package teachers

import (
	"context"
	"net/http"
	"strings"

	uierrors "github.com/aman124598/TeacherHQ/internal/app/features/errors"
	"github.com/aman124598/TeacherHQ/internal/app/store/audit"
	userstore "github.com/aman124598/TeacherHQ/internal/app/store/users"
	"github.com/aman124598/TeacherHQ/internal/app/system/authz"
	"github.com/aman124598/TeacherHQ/internal/app/system/formutil"
	"github.com/aman124598/TeacherHQ/internal/app/system/inputval"
	"github.com/aman124598/TeacherHQ/internal/app/system/navigation"
	"github.com/aman124598/TeacherHQ/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/templates"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeEdit renders the Edit Teacher page.
// Authorization: RequireRole("admin") middleware in routes.go ensures only admins reach this handler.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderBadRequest(w, r, "Invalid teacher ID.", "/teachers")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	teacher, err := h.Users.GetTeacherByID(ctx, oid)
	if err != nil {
		uierrors.RenderNotFound(w, r, "Teacher not found.", "/teachers")
		return
	}

	opts, err := h.loadOrgOptions(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load schools for teacher form failed", err, "A database error occurred.", "/teachers")
		return
	}

	data := editData{ID: teacher.ID.Hex()}
	data.FullName = teacher.FullName
	data.Email = teacher.Email
	data.AuthMethod = teacher.AuthMethod
	data.Status = teacher.Status
	if teacher.OrganizationID != nil {
		data.OrgID = teacher.OrganizationID.Hex()
	}
	data.Orgs = opts
	formutil.SetBase(&data.Base, r, "Edit Teacher", "/teachers")

	templates.Render(w, r, "teacher_edit", data)
}

// HandleEdit processes the Edit Teacher form POST. An optional new
// password replaces the stored hash; leaving it blank keeps the old one.
// Authorization: RequireRole("admin") middleware in routes.go ensures only admins reach this handler.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/teachers")
		return
	}

	idHex := chi.URLParam(r, "id")
	oid, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		uierrors.RenderBadRequest(w, r, "Invalid teacher ID.", "/teachers")
		return
	}

	fullName := strings.TrimSpace(r.FormValue("full_name"))
	email := strings.TrimSpace(r.FormValue("email"))
	orgHex := strings.TrimSpace(r.FormValue("organization_id"))
	authMethod := strings.TrimSpace(r.FormValue("auth_method"))
	statusVal := strings.TrimSpace(r.FormValue("status"))
	password := r.FormValue("password")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	existing, err := h.Users.GetTeacherByID(ctx, oid)
	if err != nil {
		uierrors.RenderNotFound(w, r, "Teacher not found.", "/teachers")
		return
	}

	opts, err := h.loadOrgOptions(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load schools for teacher form failed", err, "A database error occurred.", "/teachers")
		return
	}

	reRender := func(msg string) {
		data := editData{ID: idHex}
		data.FullName = fullName
		data.Email = email
		data.OrgID = orgHex
		data.AuthMethod = authMethod
		data.Status = statusVal
		data.Orgs = opts
		formutil.SetBase(&data.Base, r, "Edit Teacher", "/teachers")
		data.SetError(msg)
		templates.Render(w, r, "teacher_edit", data)
	}

	if fullName == "" {
		reRender("Full name is required.")
		return
	}
	if !inputval.IsValidEmail(email) {
		reRender("Please enter a valid email address.")
		return
	}
	if authMethod != "internal" && authMethod != "google" {
		reRender("Please choose how this teacher signs in.")
		return
	}
	if statusVal != "active" && statusVal != "disabled" {
		reRender("Please choose a valid account status.")
		return
	}
	if password != "" && len(password) < 8 {
		reRender("Password must be at least 8 characters.")
		return
	}
	orgID, err := primitive.ObjectIDFromHex(orgHex)
	if err != nil {
		reRender("Please select a school.")
		return
	}
	if _, err := h.Orgs.GetByID(ctx, orgID); err != nil {
		reRender("That school no longer exists.")
		return
	}

	exists, err := h.Users.EmailExistsForOther(ctx, email, oid)
	if err != nil {
		reRender("Database error checking the email address.")
		return
	}
	if exists {
		reRender("Another user already uses that email.")
		return
	}

	err = h.Users.UpdateTeacher(ctx, oid, userstore.TeacherUpdate{
		FullName:       fullName,
		Email:          email,
		AuthMethod:     authMethod,
		Status:         statusVal,
		OrganizationID: orgID,
	})
	if err != nil {
		msg := "Database error while updating the teacher."
		if err == userstore.ErrDuplicateEmail {
			msg = "Another user already uses that email."
		}
		reRender(msg)
		return
	}

	if password != "" {
		if err := h.Users.SetPassword(ctx, oid, password); err != nil {
			h.ErrLog.LogServerError(w, r, "set password failed", err, "The teacher was updated but the password could not be changed.", "/teachers")
			return
		}
	}

	if _, _, actorID, ok := authz.UserCtx(r); ok {
		h.AuditLog.AdminAction(ctx, r, audit.EventUserUpdated, actorID, &oid, &orgID, map[string]string{"email": email})
		if existing.Status != statusVal {
			event := audit.EventUserDisabled
			if statusVal == "active" {
				event = audit.EventUserEnabled
			}
			h.AuditLog.AdminAction(ctx, r, event, actorID, &oid, &orgID, nil)
		}
	}

	ret := navigation.SafeBackURL(r, navigation.TeachersBackURL)
	http.Redirect(w, r, ret, http.StatusSeeOther)
}
