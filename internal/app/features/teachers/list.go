// internal/app/features/teachers/list.go
package teachers

import (
	"context"
	"maps"
	"net/http"

	"github.com/aman124598/TeacherHQ/internal/app/system/paging"
	"github.com/aman124598/TeacherHQ/internal/app/system/timeouts"
	"github.com/aman124598/TeacherHQ/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/text"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ServeList handles GET /teachers (with optional ?q= search and ?org=
// school filter). It supports HTMX partial refresh of the table when
// HX-Target="teachers-table-wrap".
// Authorization: RequireRole("admin") middleware in routes.go ensures only admins reach this handler.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	q := query.Search(r, "q")
	orgFilter := query.Get(r, "org")
	after := query.Get(r, "after")
	before := query.Get(r, "before")
	start := paging.ParseStart(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	base := bson.M{"role": "teacher"}
	orgName := ""
	if orgFilter != "" {
		oid, err := primitive.ObjectIDFromHex(orgFilter)
		if err != nil {
			h.ErrLog.LogBadRequest(w, r, "malformed org filter", err, "That school does not exist.", "/teachers")
			return
		}
		base["organization_id"] = oid
		if org, err := h.Orgs.GetByID(ctx, oid); err == nil {
			orgName = org.Name
		}
	}

	var searchOr []bson.M
	if q != "" {
		fq := text.Fold(q)
		if fq != "" {
			hi := fq + "\uffff"
			searchOr = []bson.M{
				{"full_name_ci": bson.M{"$gte": fq, "$lt": hi}},
				{"email_ci": bson.M{"$gte": fq, "$lt": hi}},
			}
			base["$or"] = searchOr
		}
	}

	total, err := h.DB.Collection("users").CountDocuments(ctx, base)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count teachers failed", err, "Unable to load teachers.", "")
		return
	}

	f := maps.Clone(base)
	find := options.Find()
	sortField := "full_name_ci"

	cfg := paging.ConfigureKeyset(before, after)
	cfg.ApplyToFind(find, sortField)

	if ks := cfg.KeysetWindow(sortField); ks != nil {
		if q != "" && len(searchOr) > 0 {
			f["$and"] = []bson.M{{"$or": searchOr}, ks}
			delete(f, "$or")
		} else {
			maps.Copy(f, ks)
		}
	}

	type teacherRow struct {
		ID             primitive.ObjectID  `bson:"_id"`
		FullName       string              `bson:"full_name"`
		FullNameCI     string              `bson:"full_name_ci"`
		Email          string              `bson:"email"`
		AuthMethod     string              `bson:"auth_method"`
		Status         string              `bson:"status"`
		OrganizationID *primitive.ObjectID `bson:"organization_id,omitempty"`
	}

	cur, err := h.DB.Collection("users").Find(ctx, f, find)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "find teachers failed", err, "Unable to load teachers.", "")
		return
	}
	defer cur.Close(ctx)

	var rows []teacherRow
	if err := cur.All(ctx, &rows); err != nil {
		h.ErrLog.LogServerError(w, r, "decode teachers failed", err, "Unable to load teachers.", "")
		return
	}

	if cfg.Direction == paging.Backward {
		paging.Reverse(rows)
	}

	page := paging.TrimPage(&rows, before, after)

	shown := len(rows)
	rng := paging.ComputeRange(start, shown)

	// Resolve school names for the rows in one query.
	orgIDs := make([]primitive.ObjectID, 0, len(rows))
	seen := make(map[primitive.ObjectID]bool)
	for _, row := range rows {
		if row.OrganizationID != nil && !seen[*row.OrganizationID] {
			seen[*row.OrganizationID] = true
			orgIDs = append(orgIDs, *row.OrganizationID)
		}
	}
	orgNames := make(map[primitive.ObjectID]string, len(orgIDs))
	if orgs, err := h.Orgs.GetByIDs(ctx, orgIDs); err == nil {
		for _, o := range orgs {
			orgNames[o.ID] = o.Name
		}
	}

	items := make([]listItem, 0, len(rows))
	for _, row := range rows {
		item := listItem{
			ID:         row.ID,
			FullName:   row.FullName,
			FullNameCI: row.FullNameCI,
			Email:      row.Email,
			AuthMethod: row.AuthMethod,
			Status:     row.Status,
		}
		if row.OrganizationID != nil {
			item.OrgName = orgNames[*row.OrganizationID]
		}
		items = append(items, item)
	}

	prevCur, nextCur := paging.BuildCursors(rows,
		func(t teacherRow) string { return t.FullNameCI },
		func(t teacherRow) primitive.ObjectID { return t.ID })

	data := listData{
		BaseVM:    viewdata.NewBaseVM(r, "Teachers", "/dashboard"),
		Q:         q,
		OrgFilter: orgFilter,
		OrgName:   orgName,
		Items:     items,

		Shown:      shown,
		Total:      total,
		HasPrev:    page.HasPrev,
		HasNext:    page.HasNext,
		PrevCursor: prevCur,
		NextCursor: nextCur,
		RangeStart: rng.Start,
		RangeEnd:   rng.End,
		PrevStart:  rng.PrevStart,
		NextStart:  rng.NextStart,
	}

	if r.Header.Get("HX-Request") != "" && r.Header.Get("HX-Target") == "teachers-table-wrap" {
		templates.RenderSnippet(w, "teachers_table", data)
		return
	}

	templates.Render(w, r, "teachers_list", data)
}
