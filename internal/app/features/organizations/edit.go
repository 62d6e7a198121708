// internal/app/features/organizations/edit.go
package organizations

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	uierrors "github.com/aman124598/TeacherHQ/internal/app/features/errors"
	"github.com/aman124598/TeacherHQ/internal/app/store/audit"
	organizationstore "github.com/aman124598/TeacherHQ/internal/app/store/organizations"
	"github.com/aman124598/TeacherHQ/internal/app/system/authz"
	"github.com/aman124598/TeacherHQ/internal/app/system/formutil"
	"github.com/aman124598/TeacherHQ/internal/app/system/navigation"
	"github.com/aman124598/TeacherHQ/internal/app/system/timeouts"
	"github.com/aman124598/TeacherHQ/internal/app/system/timezones"
	"github.com/aman124598/TeacherHQ/internal/domain/geo"
	"github.com/aman124598/TeacherHQ/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/text"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeEdit renders the Edit School page, including the geofence fields.
// Authorization: RequireRole("admin") middleware in routes.go ensures only admins reach this handler.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderBadRequest(w, r, "Invalid school ID.", "/organizations")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	org, err := h.Orgs.GetByID(ctx, oid)
	if err != nil {
		uierrors.RenderNotFound(w, r, "School not found.", "/organizations")
		return
	}

	data := editData{ID: org.ID.Hex()}
	data.Name = org.Name
	data.City = org.City
	data.State = org.State
	data.TimeZone = org.TimeZone
	data.Contact = org.ContactInfo
	data.RadiusMeters = strconv.FormatFloat(org.RadiusMeters, 'f', -1, 64)
	data.VerifyOn = org.Settings.LocationVerification
	if org.Location != nil {
		data.Latitude = strconv.FormatFloat(org.Location.Latitude, 'f', -1, 64)
		data.Longitude = strconv.FormatFloat(org.Location.Longitude, 'f', -1, 64)
	}
	data.TimeZoneGroups = timezones.Groups()
	formutil.SetBase(&data.Base, r, "Edit School", "/organizations")

	templates.Render(w, r, "organization_edit", data)
}

// HandleEdit processes the Edit School form POST. Profile fields and the
// geofence update together; the geofence change is audited separately so
// the trail shows when marking rules moved.
// Authorization: RequireRole("admin") middleware in routes.go ensures only admins reach this handler.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/organizations")
		return
	}

	idHex := chi.URLParam(r, "id")
	oid, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		uierrors.RenderBadRequest(w, r, "Invalid school ID.", "/organizations")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	city := strings.TrimSpace(r.FormValue("city"))
	state := strings.TrimSpace(r.FormValue("state"))
	contact := strings.TrimSpace(r.FormValue("contact"))
	tz := strings.TrimSpace(r.FormValue("timezone"))
	verify := r.FormValue("location_verification") != ""

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	existing, err := h.Orgs.GetByID(ctx, oid)
	if err != nil {
		uierrors.RenderNotFound(w, r, "School not found.", "/organizations")
		return
	}

	reRender := func(msg string) {
		data := editData{ID: idHex}
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
		formutil.SetBase(&data.Base, r, "Edit School", "/organizations")
		data.SetError(msg)
		templates.Render(w, r, "organization_edit", data)
	}

	if name == "" {
		reRender("School name is required.")
		return
	}
	if len(name) > 200 {
		reRender("School name is too long.")
		return
	}
	if !timezones.Valid(tz) {
		reRender("Please select a valid time zone.")
		return
	}

	location, radius, errMsg := parseGeofenceForm(r)
	if errMsg != "" {
		reRender(errMsg)
		return
	}
	if verify && location == nil {
		reRender("Location verification needs campus coordinates.")
		return
	}

	// Preflight duplicate by name_ci excluding self
	exists, err := h.Orgs.NameExistsForOther(ctx, text.Fold(name), oid)
	if err != nil {
		reRender("Database error checking the school name.")
		return
	}
	if exists {
		reRender("Another school already uses that name.")
		return
	}

	update := models.Organization{
		Name:        name,
		City:        city,
		State:       state,
		ContactInfo: contact,
		TimeZone:    tz,
	}
	if err := h.Orgs.Update(ctx, oid, update); err != nil {
		msg := "Database error while updating the school."
		if err == organizationstore.ErrDuplicateOrganization {
			msg = "Another school already uses that name."
		}
		reRender(msg)
		return
	}

	geofenceChanged := geofenceDiffers(existing, location, radius, verify)
	if geofenceChanged {
		if err := h.Orgs.SetGeofence(ctx, oid, location, radius, verify); err != nil {
			reRender("Database error while updating the geofence.")
			return
		}
	}

	if _, _, actorID, ok := authz.UserCtx(r); ok {
		h.AuditLog.AdminAction(ctx, r, audit.EventOrgUpdated, actorID, nil, &oid, map[string]string{"name": name})
		if geofenceChanged {
			details := map[string]string{
				"radius_meters": strconv.FormatFloat(radius, 'f', -1, 64),
				"verification":  strconv.FormatBool(verify && location != nil),
			}
			if location != nil {
				details["latitude"] = strconv.FormatFloat(location.Latitude, 'f', -1, 64)
				details["longitude"] = strconv.FormatFloat(location.Longitude, 'f', -1, 64)
			}
			h.AuditLog.AdminAction(ctx, r, audit.EventGeofenceSet, actorID, nil, &oid, details)
		}
	}

	ret := navigation.SafeBackURL(r, navigation.OrganizationsBackURL)
	http.Redirect(w, r, ret, http.StatusSeeOther)
}

func geofenceDiffers(org models.Organization, location *geo.GeoPoint, radius float64, verify bool) bool {
	if (org.Location == nil) != (location == nil) {
		return true
	}
	if location != nil && (org.Location.Latitude != location.Latitude || org.Location.Longitude != location.Longitude) {
		return true
	}
	return org.RadiusMeters != radius || org.Settings.LocationVerification != (verify && location != nil)
}
