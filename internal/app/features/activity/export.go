// internal/app/features/activity/export.go
package activity

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/aman124598/TeacherHQ/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// ServeExportCSV handles GET /activity/export.csv with the same filters
// as the feed page, streaming the rows as a CSV download.
// Authorization: RequireRole("admin") middleware in routes.go ensures only admins reach this handler.
func (h *Handler) ServeExportCSV(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	since, until, _, _ := parseWindow(r)

	entries, _, _, err := h.loadEntries(ctx, r, since, until)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load activity export failed", err, "Unable to export activity.", "/activity")
		return
	}
	rows := h.resolveRows(ctx, entries)

	filename := fmt.Sprintf("activity-%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"date", "time", "user", "school", "action", "description"})
	for _, row := range rows {
		_ = cw.Write([]string{row.Date, row.Time, row.UserName, row.OrgName, row.Action, row.Description})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		h.Log.Warn("activity csv write failed", zap.Error(err))
	}
}
