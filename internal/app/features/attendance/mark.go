// internal/app/features/attendance/mark.go
package attendance

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/aman124598/TeacherHQ/internal/app/store/activity"
	attendancestore "github.com/aman124598/TeacherHQ/internal/app/store/attendance"
	"github.com/aman124598/TeacherHQ/internal/app/store/audit"
	"github.com/aman124598/TeacherHQ/internal/app/system/authz"
	"github.com/aman124598/TeacherHQ/internal/app/system/timeouts"
	"github.com/aman124598/TeacherHQ/internal/app/system/timezones"
	"github.com/aman124598/TeacherHQ/internal/domain/geo"
	"github.com/aman124598/TeacherHQ/internal/domain/models"
	"go.uber.org/zap"
)

// markRequest is the JSON body posted by the marking page.
type markRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// markResponse is returned on success.
type markResponse struct {
	Date           string  `json:"date"`
	TimeIn         string  `json:"time_in"`
	DistanceMeters float64 `json:"distance_meters,omitempty"`
}

// markError is returned on every failure path with a machine-readable code.
type markError struct {
	Error          string  `json:"error"`
	Message        string  `json:"message"`
	DistanceMeters float64 `json:"distance_meters,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /attendance/mark                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleMark marks the teacher present for today.
//
// The reported position is re-validated server side against the school's
// registered location; client-side checks are advisory only. Responses:
//
//	200 {date, time_in, distance_meters}   marked
//	400 {error:"invalid_coordinate"}       malformed or out-of-range position
//	403 {error:"out_of_range"}             outside the geofence
//	409 {error:"already_marked"}           today's record already exists
func (h *Handler) HandleMark(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, markError{Error: "unauthorized", Message: "Sign in to mark attendance."})
		return
	}
	orgID := authz.UserOrgID(r)
	if orgID.IsZero() {
		writeJSON(w, http.StatusForbidden, markError{Error: "no_organization", Message: "Your account has no school assigned."})
		return
	}

	var req markRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, markError{Error: "bad_request", Message: "Malformed request body."})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	org, err := h.Orgs.GetByID(ctx, orgID)
	if err != nil {
		h.Log.Error("load organization for mark", zap.Error(err), zap.String("org_id", orgID.Hex()))
		writeJSON(w, http.StatusInternalServerError, markError{Error: "internal", Message: "A server error occurred."})
		return
	}

	loc := timezones.Resolve(org.TimeZone)
	now := time.Now()
	today := timezones.DateKey(now, loc)

	var position *models.RecordLocation

	geofenceActive := org.Settings.LocationVerification && org.Location != nil
	if geofenceActive {
		if req.Latitude == nil || req.Longitude == nil {
			writeJSON(w, http.StatusBadRequest, markError{Error: "position_required", Message: "Location is required to mark attendance."})
			return
		}

		user := geo.GeoPoint{Latitude: *req.Latitude, Longitude: *req.Longitude}
		eval, err := geo.Evaluate(user, *org.Location, org.RadiusMeters)
		if err != nil {
			h.AuditLog.AttendanceRejected(ctx, r, audit.EventAttendanceOutOfRange, userID, orgID, "invalid coordinate")
			writeJSON(w, http.StatusBadRequest, markError{Error: "invalid_coordinate", Message: "The reported position is not a valid coordinate."})
			return
		}
		if !eval.WithinRange {
			h.AuditLog.AttendanceRejected(ctx, r, audit.EventAttendanceOutOfRange, userID, orgID, "outside geofence")
			writeJSON(w, http.StatusForbidden, markError{
				Error:          "out_of_range",
				Message:        "You are not on campus. Move closer and try again.",
				DistanceMeters: math.Round(eval.DistanceMeters),
			})
			return
		}

		position = &models.RecordLocation{
			Latitude:       user.Latitude,
			Longitude:      user.Longitude,
			DistanceMeters: eval.DistanceMeters,
		}
	} else if req.Latitude != nil && req.Longitude != nil {
		// Verification is off; snapshot the position if it is usable.
		user := geo.GeoPoint{Latitude: *req.Latitude, Longitude: *req.Longitude}
		if user.Validate() == nil {
			position = &models.RecordLocation{Latitude: user.Latitude, Longitude: user.Longitude}
			if org.Location != nil {
				position.DistanceMeters = geo.Distance(user, *org.Location)
			}
		}
	}

	result, err := h.Ledgers.MarkPresent(ctx, userID, orgID, now, loc, position)
	switch {
	case errors.Is(err, attendancestore.ErrAlreadyMarked):
		h.AuditLog.AttendanceRejected(ctx, r, audit.EventAttendanceDuplicate, userID, orgID, "already marked for "+today)
		writeJSON(w, http.StatusConflict, markError{Error: "already_marked", Message: "Attendance is already marked for today."})
		return
	case err != nil:
		h.Log.Error("mark present", zap.Error(err),
			zap.String("user_id", userID.Hex()),
			zap.String("org_id", orgID.Hex()))
		writeJSON(w, http.StatusInternalServerError, markError{Error: "internal", Message: "A server error occurred."})
		return
	}

	distance := 0.0
	if position != nil {
		distance = position.DistanceMeters
	}
	h.AuditLog.AttendanceMarked(ctx, r, userID, orgID, result.Date, distance)

	activity.New(h.DB, h.Log).RecordAsync(activity.Entry{
		UserID:         userID,
		OrganizationID: &orgID,
		Action:         activity.ActionAttendanceMarked,
		Description:    "Marked attendance at " + result.TimeIn,
	}, now, loc)

	writeJSON(w, http.StatusOK, markResponse{
		Date:           result.Date,
		TimeIn:         result.TimeIn,
		// Displayed distances are whole meters.
		DistanceMeters: math.Round(distance),
	})
}
