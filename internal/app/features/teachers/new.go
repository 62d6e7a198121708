// internal/app/features/teachers/new.go
package teachers

import (
	"context"
	"net/http"
	"strings"

	"github.com/aman124598/TeacherHQ/internal/app/store/audit"
	userstore "github.com/aman124598/TeacherHQ/internal/app/store/users"
	"github.com/aman124598/TeacherHQ/internal/app/system/authz"
	"github.com/aman124598/TeacherHQ/internal/app/system/formutil"
	"github.com/aman124598/TeacherHQ/internal/app/system/inputval"
	"github.com/aman124598/TeacherHQ/internal/app/system/navigation"
	"github.com/aman124598/TeacherHQ/internal/app/system/timeouts"
	"github.com/aman124598/TeacherHQ/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// loadOrgOptions lists schools for the form's school select.
func (h *Handler) loadOrgOptions(ctx context.Context) ([]orgOption, error) {
	orgs, err := h.Orgs.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	opts := make([]orgOption, 0, len(orgs))
	for _, o := range orgs {
		opts = append(opts, orgOption{ID: o.ID.Hex(), Name: o.Name})
	}
	return opts, nil
}

// ServeNew renders the "New Teacher" form.
// Authorization: RequireRole("admin") middleware in routes.go ensures only admins reach this handler.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	opts, err := h.loadOrgOptions(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load schools for teacher form failed", err, "A database error occurred.", "/teachers")
		return
	}

	data := newData{}
	data.AuthMethod = "internal"
	data.Status = "active"
	data.Orgs = opts
	formutil.SetBase(&data.Base, r, "New Teacher", "/teachers")

	templates.Render(w, r, "teacher_new", data)
}

// HandleCreate processes the New Teacher form submission.
// Authorization: RequireRole("admin") middleware in routes.go ensures only admins reach this handler.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/teachers")
		return
	}

	fullName := strings.TrimSpace(r.FormValue("full_name"))
	email := strings.TrimSpace(r.FormValue("email"))
	orgHex := strings.TrimSpace(r.FormValue("organization_id"))
	authMethod := strings.TrimSpace(r.FormValue("auth_method"))
	password := r.FormValue("password")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	opts, err := h.loadOrgOptions(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load schools for teacher form failed", err, "A database error occurred.", "/teachers")
		return
	}

	renderWithError := func(msg string) {
		data := newData{}
		data.FullName = fullName
		data.Email = email
		data.OrgID = orgHex
		data.AuthMethod = authMethod
		data.Status = "active"
		data.Orgs = opts
		formutil.SetBase(&data.Base, r, "New Teacher", "/teachers")
		data.SetError(msg)
		templates.Render(w, r, "teacher_new", data)
	}

	if fullName == "" {
		renderWithError("Full name is required.")
		return
	}
	if !inputval.IsValidEmail(email) {
		renderWithError("Please enter a valid email address.")
		return
	}
	if authMethod != "internal" && authMethod != "google" {
		renderWithError("Please choose how this teacher signs in.")
		return
	}
	if authMethod == "internal" && len(password) < 8 {
		renderWithError("Password must be at least 8 characters.")
		return
	}
	orgID, err := primitive.ObjectIDFromHex(orgHex)
	if err != nil {
		renderWithError("Please select a school.")
		return
	}
	if _, err := h.Orgs.GetByID(ctx, orgID); err != nil {
		renderWithError("That school no longer exists.")
		return
	}

	created, err := h.Users.Create(ctx, models.User{
		FullName:       fullName,
		Email:          email,
		Role:           "teacher",
		AuthMethod:     authMethod,
		OrganizationID: &orgID,
	})
	if err != nil {
		msg := "Database error while creating the teacher."
		if err == userstore.ErrDuplicateEmail {
			msg = "A user with that email already exists."
		}
		renderWithError(msg)
		return
	}

	if authMethod == "internal" {
		if err := h.Users.SetPassword(ctx, created.ID, password); err != nil {
			h.ErrLog.LogServerError(w, r, "set initial password failed", err, "The account was created but the password could not be set.", "/teachers")
			return
		}
	}

	if _, _, actorID, ok := authz.UserCtx(r); ok {
		h.AuditLog.AdminAction(ctx, r, audit.EventUserCreated, actorID, &created.ID, &orgID, map[string]string{
			"email":       created.Email,
			"auth_method": created.AuthMethod,
		})
	}

	ret := navigation.SafeBackURL(r, navigation.TeachersBackURL)
	http.Redirect(w, r, ret, http.StatusSeeOther)
}
