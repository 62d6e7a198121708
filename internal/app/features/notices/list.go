// internal/app/features/notices/list.go
package notices

import (
	"context"
	"net/http"

	uierrors "github.com/aman124598/TeacherHQ/internal/app/features/errors"
	"github.com/aman124598/TeacherHQ/internal/app/system/timeouts"
	"github.com/aman124598/TeacherHQ/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const listLimit = 100

// loadOrgOptions lists schools for the school select.
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

// ServeList handles GET /notices: a school's notices, newest-dated first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	data := listData{
		BaseVM: viewdata.NewBaseVM(r, "Notices", "/dashboard"),
	}

	opts, err := h.loadOrgOptions(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load schools for notices failed", err, "A database error occurred.", "/dashboard")
		return
	}
	data.Orgs = opts

	orgFilter := query.Get(r, "org")
	if orgFilter == "" && len(opts) > 0 {
		orgFilter = opts[0].ID
	}
	if orgFilter != "" {
		oid, err := primitive.ObjectIDFromHex(orgFilter)
		if err != nil {
			h.ErrLog.LogBadRequest(w, r, "malformed org filter", err, "That school does not exist.", "/notices")
			return
		}
		org, err := h.Orgs.GetByID(ctx, oid)
		if err != nil {
			uierrors.RenderNotFound(w, r, "School not found.", "/notices")
			return
		}
		data.OrgFilter = orgFilter
		data.OrgName = org.Name

		notices, err := h.Notices.ListByOrg(ctx, oid, listLimit)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "list notices failed", err, "Unable to load notices.", "/dashboard")
			return
		}
		data.Notices = notices
	}

	templates.Render(w, r, "notices_list", data)
}
