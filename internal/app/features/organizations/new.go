// internal/app/features/organizations/new.go
package organizations

import (
	"context"
	"net/http"
	"strings"

	"github.com/aman124598/TeacherHQ/internal/app/store/audit"
	organizationstore "github.com/aman124598/TeacherHQ/internal/app/store/organizations"
	"github.com/aman124598/TeacherHQ/internal/app/system/authz"
	"github.com/aman124598/TeacherHQ/internal/app/system/formutil"
	"github.com/aman124598/TeacherHQ/internal/app/system/navigation"
	"github.com/aman124598/TeacherHQ/internal/app/system/timeouts"
	"github.com/aman124598/TeacherHQ/internal/app/system/timezones"
	"github.com/aman124598/TeacherHQ/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
)

// ServeNew renders the "New School" form.
// Authorization: RequireRole("admin") middleware in routes.go ensures only admins reach this handler.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	data := newData{}
	data.TimeZoneGroups = timezones.Groups()
	data.VerifyOn = true
	formutil.SetBase(&data.Base, r, "New School", "/organizations")

	templates.Render(w, r, "organization_new", data)
}

// HandleCreate processes the New School form submission.
// Authorization: RequireRole("admin") middleware in routes.go ensures only admins reach this handler.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/organizations")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	city := strings.TrimSpace(r.FormValue("city"))
	state := strings.TrimSpace(r.FormValue("state"))
	contact := strings.TrimSpace(r.FormValue("contact"))
	tz := strings.TrimSpace(r.FormValue("timezone"))
	verify := r.FormValue("location_verification") != ""

	renderWithError := func(msg string) {
		data := newData{}
		data.Name = name
		data.City = city
		data.State = state
		data.TimeZone = tz
		data.Contact = contact
		data.Latitude = strings.TrimSpace(r.FormValue("latitude"))
		data.Longitude = strings.TrimSpace(r.FormValue("longitude"))
		data.RadiusMeters = strings.TrimSpace(r.FormValue("radius_meters"))
		data.VerifyOn = verify
		data.TimeZoneGroups = timezones.Groups()
		formutil.SetBase(&data.Base, r, "New School", "/organizations")
		data.SetError(msg)
		templates.Render(w, r, "organization_new", data)
	}

	if name == "" {
		renderWithError("School name is required.")
		return
	}
	if len(name) > 200 {
		renderWithError("School name is too long.")
		return
	}
	if !timezones.Valid(tz) {
		renderWithError("Please select a valid time zone.")
		return
	}

	location, radius, errMsg := parseGeofenceForm(r)
	if errMsg != "" {
		renderWithError(errMsg)
		return
	}
	if verify && location == nil {
		renderWithError("Location verification needs campus coordinates.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	org := models.Organization{
		Name:         name,
		City:         city,
		State:        state,
		ContactInfo:  contact,
		TimeZone:     tz,
		Location:     location,
		RadiusMeters: radius,
		Settings:     models.OrganizationSettings{LocationVerification: verify && location != nil},
	}

	created, err := h.Orgs.Create(ctx, org)
	if err != nil {
		msg := "Database error while creating the school."
		if err == organizationstore.ErrDuplicateOrganization {
			msg = "A school with that name already exists."
		}
		renderWithError(msg)
		return
	}

	if _, _, actorID, ok := authz.UserCtx(r); ok {
		details := map[string]string{"name": created.Name}
		if location != nil {
			details["geofenced"] = "true"
		}
		h.AuditLog.AdminAction(ctx, r, audit.EventOrgCreated, actorID, nil, &created.ID, details)
	}

	ret := navigation.SafeBackURL(r, navigation.OrganizationsBackURL)
	http.Redirect(w, r, ret, http.StatusSeeOther)
}
