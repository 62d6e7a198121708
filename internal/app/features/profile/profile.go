// internal/app/features/profile/profile.go
package profile

import (
	"context"
	"net/http"
	"time"

	uierrors "github.com/aman124598/TeacherHQ/internal/app/features/errors"
	activitystore "github.com/aman124598/TeacherHQ/internal/app/store/activity"
	userstore "github.com/aman124598/TeacherHQ/internal/app/store/users"
	"github.com/aman124598/TeacherHQ/internal/app/system/authz"
	"github.com/aman124598/TeacherHQ/internal/app/system/timeouts"
	"github.com/aman124598/TeacherHQ/internal/app/system/timezones"
	"github.com/aman124598/TeacherHQ/internal/app/system/viewdata"
	"github.com/aman124598/TeacherHQ/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
)

// profileData is the view model for the profile page.
type profileData struct {
	viewdata.BaseVM

	FullName   string
	Email      string
	AuthMethod string
	SchoolName string

	// Password changes apply to internal accounts only; Google accounts
	// manage credentials with Google.
	ShowPasswordSection bool

	Error   string
	Success string
}

// ServeProfile renders the signed-in user's profile.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		uierrors.RenderNotFound(w, r, "User not found.", "/")
		return
	}

	data := h.buildProfileData(ctx, r, user)
	if r.URL.Query().Get("success") == "password" {
		data.Success = "Password changed."
	}

	templates.Render(w, r, "profile", data)
}

// HandleChangePassword processes the change-password form.
func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/profile")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		uierrors.RenderNotFound(w, r, "User not found.", "/")
		return
	}

	renderWithError := func(msg string) {
		data := h.buildProfileData(ctx, r, user)
		data.Error = msg
		templates.Render(w, r, "profile", data)
	}

	if user.AuthMethod != "internal" {
		renderWithError("This account signs in with Google; there is no password to change.")
		return
	}

	currentPassword := r.FormValue("current_password")
	newPassword := r.FormValue("new_password")
	confirmPassword := r.FormValue("confirm_password")

	if _, err := h.Users.VerifyCredentials(ctx, user.Email, currentPassword); err != nil {
		if err == userstore.ErrBadCredentials {
			renderWithError("Current password is incorrect.")
			return
		}
		h.ErrLog.LogServerError(w, r, "verify current password failed", err, "A database error occurred.", "/profile")
		return
	}
	if len(newPassword) < 8 {
		renderWithError("New password must be at least 8 characters.")
		return
	}
	if newPassword != confirmPassword {
		renderWithError("New passwords do not match.")
		return
	}
	if newPassword == currentPassword {
		renderWithError("New password must differ from the current one.")
		return
	}

	if err := h.Users.SetPassword(ctx, uid, newPassword); err != nil {
		h.ErrLog.LogServerError(w, r, "set password failed", err, "Failed to update the password.", "/profile")
		return
	}

	h.AuditLog.PasswordChanged(ctx, r, uid)

	loc := timezones.Resolve("")
	if user.OrganizationID != nil {
		if org, err := h.Orgs.GetByID(ctx, *user.OrganizationID); err == nil {
			loc = timezones.Resolve(org.TimeZone)
		}
	}
	h.Activity.RecordAsync(activitystore.Entry{
		UserID:         uid,
		OrganizationID: user.OrganizationID,
		Action:         activitystore.ActionPasswordChanged,
		Description:    "Changed account password",
	}, time.Now(), loc)

	http.Redirect(w, r, "/profile?success=password", http.StatusSeeOther)
}

func (h *Handler) buildProfileData(ctx context.Context, r *http.Request, user *models.User) profileData {
	data := profileData{
		BaseVM:              viewdata.NewBaseVM(r, "Profile", "/dashboard"),
		FullName:            user.FullName,
		Email:               user.Email,
		AuthMethod:          formatAuthMethod(user.AuthMethod),
		ShowPasswordSection: user.AuthMethod == "internal",
	}
	if user.OrganizationID != nil {
		if org, err := h.Orgs.GetByID(ctx, *user.OrganizationID); err == nil {
			data.SchoolName = org.Name
		}
	}
	return data
}

func formatAuthMethod(method string) string {
	switch method {
	case "internal":
		return "Email and password"
	case "google":
		return "Google"
	default:
		return method
	}
}
