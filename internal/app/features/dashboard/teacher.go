// internal/app/features/dashboard/teacher.go
package dashboard

import (
	"context"
	"net/http"
	"time"

	"github.com/aman124598/TeacherHQ/internal/app/store/activity"
	"github.com/aman124598/TeacherHQ/internal/app/store/attendance"
	noticestore "github.com/aman124598/TeacherHQ/internal/app/store/notices"
	organizationstore "github.com/aman124598/TeacherHQ/internal/app/store/organizations"
	"github.com/aman124598/TeacherHQ/internal/app/system/authz"
	"github.com/aman124598/TeacherHQ/internal/app/system/timezones"
	"github.com/aman124598/TeacherHQ/internal/app/system/viewdata"
	"github.com/aman124598/TeacherHQ/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type teacherData struct {
	viewdata.BaseVM

	OrgName         string
	GeofenceActive  bool
	RadiusMeters    float64
	MarkedToday     bool
	TodayTimeIn     string
	PresentDays     int
	TotalDays       int
	UpcomingNotices []models.Notice
	RecentActivity  []activity.Entry
}

// ServeTeacher renders the teacher dashboard: today's attendance state,
// geofence status, upcoming notices, and recent activity.
func (h *Handler) ServeTeacher(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	orgID := authz.UserOrgID(r)
	if orgID.IsZero() {
		h.ErrLog.LogServerError(w, r, "teacher without organization", nil,
			"Your account has no school assigned. Please contact an administrator.", "/")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), dashboardTimeout)
	defer cancel()

	org, err := organizationstore.New(h.DB).GetByID(ctx, orgID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading organization", err, "A database error occurred.", "/")
		return
	}

	loc := timezones.Resolve(org.TimeZone)
	today := timezones.DateKey(time.Now(), loc)

	data := teacherData{
		BaseVM:         viewdata.NewBaseVM(r, "Dashboard", "/"),
		OrgName:        org.Name,
		GeofenceActive: org.Settings.LocationVerification && org.Location != nil,
		RadiusMeters:   org.RadiusMeters,
	}

	ledger, err := attendance.New(h.DB).Get(ctx, userID, orgID)
	switch err {
	case nil:
		data.PresentDays = ledger.PresentDays
		data.TotalDays = ledger.TotalDays
		if rec, found := ledger.RecordForDate(today); found {
			data.MarkedToday = true
			data.TodayTimeIn = rec.TimeIn
		}
	case mongo.ErrNoDocuments:
		// No ledger yet; zero counters are correct.
	default:
		h.ErrLog.LogServerError(w, r, "database error loading ledger", err, "A database error occurred.", "/")
		return
	}

	if notices, err := noticestore.New(h.DB).ListUpcoming(ctx, orgID, today, 5); err == nil {
		data.UpcomingNotices = notices
	} else {
		h.Log.Warn("failed to load upcoming notices", zap.Error(err))
	}

	if entries, err := activity.New(h.DB, h.Log).ListByUser(ctx, userID, 10); err == nil {
		data.RecentActivity = entries
	} else {
		h.Log.Warn("failed to load recent activity", zap.Error(err))
	}

	templates.Render(w, r, "teacher_dashboard", data)
}
