// internal/app/features/dashboard/admin.go
package dashboard

import (
	"context"
	"net/http"
	"time"

	metricsstore "github.com/aman124598/TeacherHQ/internal/app/store/metrics"
	organizationstore "github.com/aman124598/TeacherHQ/internal/app/store/organizations"
	"github.com/aman124598/TeacherHQ/internal/app/system/authz"
	"github.com/aman124598/TeacherHQ/internal/app/system/timezones"
	"github.com/aman124598/TeacherHQ/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type orgSummary struct {
	ID          string
	Name        string
	Teachers    int64
	MarkedToday int64
	OpenTasks   int64
}

type adminData struct {
	viewdata.BaseVM

	OrganizationsCount int64
	TeachersCount      int64
	AdminsCount        int64

	Organizations []orgSummary
}

// ServeAdmin renders the admin dashboard: global counts plus a per-school
// summary with today's attendance totals.
func (h *Handler) ServeAdmin(w http.ResponseWriter, r *http.Request) {
	_, uname, _, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), dashboardTimeout)
	defer cancel()

	counts := metricsstore.FetchDashboardCounts(ctx, h.DB)

	data := adminData{
		BaseVM:             viewdata.NewBaseVM(r, "Admin Dashboard", "/"),
		OrganizationsCount: counts.Organizations,
		TeachersCount:      counts.Teachers,
		AdminsCount:        counts.Admins,
	}

	orgs, err := organizationstore.New(h.DB).Find(ctx, bson.M{})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error listing organizations", err, "A database error occurred.", "/")
		return
	}

	now := time.Now()
	for _, org := range orgs {
		loc := timezones.Resolve(org.TimeZone)
		oc := metricsstore.FetchOrgCounts(ctx, h.DB, org.ID, timezones.DateKey(now, loc))
		data.Organizations = append(data.Organizations, orgSummary{
			ID:          org.ID.Hex(),
			Name:        org.Name,
			Teachers:    oc.Teachers,
			MarkedToday: oc.MarkedToday,
			OpenTasks:   oc.OpenTasks,
		})
	}

	h.Log.Debug("admin dashboard served", zap.String("user", uname))

	templates.Render(w, r, "admin_dashboard", data)
}
