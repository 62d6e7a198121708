// internal/app/features/attendance/handler.go
package attendance

import (
	"context"
	"net/http"
	"time"

	uierrors "github.com/aman124598/TeacherHQ/internal/app/features/errors"
	attendancestore "github.com/aman124598/TeacherHQ/internal/app/store/attendance"
	noticestore "github.com/aman124598/TeacherHQ/internal/app/store/notices"
	organizationstore "github.com/aman124598/TeacherHQ/internal/app/store/organizations"
	userstore "github.com/aman124598/TeacherHQ/internal/app/store/users"
	"github.com/aman124598/TeacherHQ/internal/app/system/auditlog"
	"github.com/aman124598/TeacherHQ/internal/app/system/authz"
	"github.com/aman124598/TeacherHQ/internal/app/system/timeouts"
	"github.com/aman124598/TeacherHQ/internal/app/system/timezones"
	"github.com/aman124598/TeacherHQ/internal/app/system/viewdata"
	"github.com/aman124598/TeacherHQ/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger

	Ledgers *attendancestore.Store
	Orgs    *organizationstore.Store
	Users   *userstore.Store
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		AuditLog: audit,
		Ledgers:  attendancestore.New(db),
		Orgs:     organizationstore.New(db),
		Users:    userstore.New(db),
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /attendance – marking page (teacher)                                    |
*─────────────────────────────────────────────────────────────────────────────*/

type markPageData struct {
	viewdata.BaseVM

	OrgName        string
	GeofenceActive bool
	RadiusMeters   float64
	MarkedToday    bool
	TodayTimeIn    string
	NoticeCount    int
}

// ServeMarkPage renders the marking page. The page's script captures the
// browser position and posts it to /attendance/mark.
func (h *Handler) ServeMarkPage(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	orgID := authz.UserOrgID(r)
	if orgID.IsZero() {
		h.ErrLog.LogServerError(w, r, "teacher without organization", nil,
			"Your account has no school assigned. Please contact an administrator.", "/dashboard")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	org, err := h.Orgs.GetByID(ctx, orgID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading organization", err, "A database error occurred.", "/dashboard")
		return
	}

	loc := timezones.Resolve(org.TimeZone)
	today := timezones.DateKey(time.Now(), loc)

	data := markPageData{
		BaseVM:         viewdata.NewBaseVM(r, "Mark Attendance", "/dashboard"),
		OrgName:        org.Name,
		GeofenceActive: org.Settings.LocationVerification && org.Location != nil,
		RadiusMeters:   org.RadiusMeters,
	}

	ledger, err := h.Ledgers.Get(ctx, userID, orgID)
	switch err {
	case nil:
		if rec, found := ledger.RecordForDate(today); found {
			data.MarkedToday = true
			data.TodayTimeIn = rec.TimeIn
		}
	case mongo.ErrNoDocuments:
		// first mark ever
	default:
		h.ErrLog.LogServerError(w, r, "database error loading ledger", err, "A database error occurred.", "/dashboard")
		return
	}

	if notices, err := noticestore.New(h.DB).ListUpcoming(ctx, orgID, today, 50); err == nil {
		data.NoticeCount = len(notices)
	}

	templates.Render(w, r, "attendance_mark", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /attendance/history – teacher's own ledger                              |
*─────────────────────────────────────────────────────────────────────────────*/

type historyData struct {
	viewdata.BaseVM

	OrgName     string
	PresentDays int
	AbsentDays  int
	TotalDays   int
	Records     []models.AttendanceRecord
}

// ServeHistory renders the teacher's ledger, newest day first.
func (h *Handler) ServeHistory(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	orgID := authz.UserOrgID(r)
	if orgID.IsZero() {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	org, err := h.Orgs.GetByID(ctx, orgID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading organization", err, "A database error occurred.", "/dashboard")
		return
	}

	data := historyData{
		BaseVM:  viewdata.NewBaseVM(r, "Attendance History", "/dashboard"),
		OrgName: org.Name,
	}

	ledger, err := h.Ledgers.Get(ctx, userID, orgID)
	switch err {
	case nil:
		data.PresentDays = ledger.PresentDays
		data.AbsentDays = ledger.AbsentDays
		data.TotalDays = ledger.TotalDays
		// newest first for display
		for i := len(ledger.Records) - 1; i >= 0; i-- {
			data.Records = append(data.Records, ledger.Records[i])
		}
	case mongo.ErrNoDocuments:
		// empty history renders fine
	default:
		h.ErrLog.LogServerError(w, r, "database error loading ledger", err, "A database error occurred.", "/dashboard")
		return
	}

	templates.Render(w, r, "attendance_history", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /attendance/org/{orgID} – admin overview                                |
*─────────────────────────────────────────────────────────────────────────────*/

type orgRow struct {
	TeacherName string
	PresentDays int
	TotalDays   int
	LastMarked  string
	MarkedToday bool
}

type orgOverviewData struct {
	viewdata.BaseVM

	OrgName     string
	Today       string
	MarkedToday int64
	Rows        []orgRow
}

// ServeOrgOverview renders the per-school attendance table for admins.
func (h *Handler) ServeOrgOverview(w http.ResponseWriter, r *http.Request) {
	orgID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "orgID"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "malformed org id", err, "That school does not exist.", "/dashboard")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	org, err := h.Orgs.GetByID(ctx, orgID)
	if err == mongo.ErrNoDocuments {
		h.ErrLog.LogBadRequest(w, r, "org not found", err, "That school does not exist.", "/dashboard")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading organization", err, "A database error occurred.", "/dashboard")
		return
	}

	loc := timezones.Resolve(org.TimeZone)
	today := timezones.DateKey(time.Now(), loc)

	data := orgOverviewData{
		BaseVM:  viewdata.NewBaseVM(r, "Attendance · "+org.Name, "/dashboard"),
		OrgName: org.Name,
		Today:   today,
	}

	if n, err := h.Ledgers.CountMarkedOn(ctx, orgID, today); err == nil {
		data.MarkedToday = n
	}

	teachers, err := h.Users.ListTeachersByOrg(ctx, orgID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error listing teachers", err, "A database error occurred.", "/dashboard")
		return
	}

	ledgers, err := h.Ledgers.ListByOrg(ctx, orgID, 0)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error listing ledgers", err, "A database error occurred.", "/dashboard")
		return
	}
	byUser := make(map[primitive.ObjectID]models.AttendanceLedger, len(ledgers))
	for _, l := range ledgers {
		byUser[l.UserID] = l
	}

	for _, t := range teachers {
		row := orgRow{TeacherName: t.FullName}
		if l, okL := byUser[t.ID]; okL {
			row.PresentDays = l.PresentDays
			row.TotalDays = l.TotalDays
			row.LastMarked = timezones.DateKey(l.LastMarked, loc) + " " + timezones.TimeIn(l.LastMarked, loc)
			_, row.MarkedToday = l.RecordForDate(today)
		}
		data.Rows = append(data.Rows, row)
	}

	templates.Render(w, r, "attendance_org", data)
}
