// internal/app/features/organizations/list.go
package organizations

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

// ServeList handles GET /organizations (with optional ?q= search).
// It supports HTMX partial refresh of the table when HX-Target="orgs-table-wrap".
// Authorization: RequireRole("admin") middleware in routes.go ensures only admins reach this handler.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	q := query.Search(r, "q")
	after := query.Get(r, "after")
	before := query.Get(r, "before")
	start := paging.ParseStart(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	base := bson.M{}
	var searchOr []bson.M
	if q != "" {
		fq := text.Fold(q)
		if fq != "" {
			hi := fq + "\uffff"
			searchOr = []bson.M{
				{"name_ci": bson.M{"$gte": fq, "$lt": hi}},
				{"city_ci": bson.M{"$gte": fq, "$lt": hi}},
				{"state_ci": bson.M{"$gte": fq, "$lt": hi}},
			}
			base["$or"] = searchOr
		}
	}

	total, err := h.DB.Collection("organizations").CountDocuments(ctx, base)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count organizations failed", err, "Unable to load schools.", "")
		return
	}

	f := maps.Clone(base)
	find := options.Find()
	sortField := "name_ci"

	cfg := paging.ConfigureKeyset(before, after)
	cfg.ApplyToFind(find, sortField)

	// Apply cursor conditions (handle $or clause specially)
	if ks := cfg.KeysetWindow(sortField); ks != nil {
		if q != "" && len(searchOr) > 0 {
			f["$and"] = []bson.M{{"$or": searchOr}, ks}
			delete(f, "$or")
		} else {
			maps.Copy(f, ks)
		}
	}

	type orgRow struct {
		ID       primitive.ObjectID `bson:"_id"`
		Name     string             `bson:"name"`
		NameCI   string             `bson:"name_ci"`
		City     string             `bson:"city"`
		State    string             `bson:"state"`
		TimeZone string             `bson:"time_zone"`
		Location *struct {
			Latitude float64 `bson:"latitude"`
		} `bson:"location,omitempty"`
	}

	cur, err := h.DB.Collection("organizations").Find(ctx, f, find)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "find organizations failed", err, "Unable to load schools.", "")
		return
	}
	defer cur.Close(ctx)

	var orgs []orgRow
	if err := cur.All(ctx, &orgs); err != nil {
		h.ErrLog.LogServerError(w, r, "decode organizations failed", err, "Unable to load schools.", "")
		return
	}

	if cfg.Direction == paging.Backward {
		paging.Reverse(orgs)
	}

	page := paging.TrimPage(&orgs, before, after)

	shown := len(orgs)
	rng := paging.ComputeRange(start, shown)

	orgIDs := make([]primitive.ObjectID, 0, len(orgs))
	for _, o := range orgs {
		orgIDs = append(orgIDs, o.ID)
	}

	teachersMap, err := countByOrg(ctx, h.DB, "users", bson.M{
		"role":            "teacher",
		"organization_id": bson.M{"$in": orgIDs},
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "aggregate teacher counts failed", err, "Unable to load school data.", "")
		return
	}

	items := make([]listItem, 0, len(orgs))
	for _, o := range orgs {
		items = append(items, listItem{
			ID:            o.ID,
			Name:          o.Name,
			NameCI:        o.NameCI,
			City:          o.City,
			State:         o.State,
			TimeZone:      o.TimeZone,
			Geofenced:     o.Location != nil,
			TeachersCount: teachersMap[o.ID],
		})
	}

	prevCur, nextCur := paging.BuildCursors(orgs,
		func(o orgRow) string { return o.NameCI },
		func(o orgRow) primitive.ObjectID { return o.ID })

	data := listData{
		BaseVM: viewdata.NewBaseVM(r, "Schools", "/dashboard"),
		Q:      q,
		Items:  items,

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

	// HTMX partial: just the table
	if r.Header.Get("HX-Request") != "" && r.Header.Get("HX-Target") == "orgs-table-wrap" {
		templates.RenderSnippet(w, "organizations_table", data)
		return
	}

	templates.Render(w, r, "organizations_list", data)
}
