// internal/app/features/activity/feed.go
package activity

import (
	"context"
	"net/http"
	"time"

	activitystore "github.com/aman124598/TeacherHQ/internal/app/store/activity"
	"github.com/aman124598/TeacherHQ/internal/app/system/timeouts"
	"github.com/aman124598/TeacherHQ/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const feedLimit = 200

type feedRow struct {
	UserName    string
	OrgName     string
	Action      string
	Description string
	Date        string
	Time        string
}

type feedData struct {
	viewdata.BaseVM

	OrgFilter string
	OrgName   string
	Start     string
	End       string
	Orgs      []orgOption
	Rows      []feedRow
}

type orgOption struct {
	ID   string
	Name string
}

// parseWindow reads the optional start/end date filters. End is
// inclusive, so it extends to the start of the following day.
func parseWindow(r *http.Request) (since, until time.Time, startRaw, endRaw string) {
	startRaw = query.Get(r, "start")
	endRaw = query.Get(r, "end")
	if startRaw != "" {
		if t, err := time.Parse("2006-01-02", startRaw); err == nil {
			since = t
		}
	}
	if endRaw != "" {
		if t, err := time.Parse("2006-01-02", endRaw); err == nil {
			until = t.AddDate(0, 0, 1)
		}
	}
	return since, until, startRaw, endRaw
}

// ServeFeed handles GET /activity: the cross-school feed, optionally
// narrowed by ?org= and a start/end date window.
// Authorization: RequireRole("admin") middleware in routes.go ensures only admins reach this handler.
func (h *Handler) ServeFeed(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	since, until, startRaw, endRaw := parseWindow(r)

	entries, orgFilter, orgName, err := h.loadEntries(ctx, r, since, until)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load activity feed failed", err, "Unable to load activity.", "/dashboard")
		return
	}

	data := feedData{
		BaseVM:    viewdata.NewBaseVM(r, "Activity", "/dashboard"),
		OrgFilter: orgFilter,
		OrgName:   orgName,
		Start:     startRaw,
		End:       endRaw,
		Rows:      h.resolveRows(ctx, entries),
	}

	if orgs, err := h.Orgs.Find(ctx, bson.M{}); err == nil {
		for _, o := range orgs {
			data.Orgs = append(data.Orgs, orgOption{ID: o.ID.Hex(), Name: o.Name})
		}
	}

	templates.Render(w, r, "activity_feed", data)
}

// loadEntries fetches the window of entries the filters describe.
func (h *Handler) loadEntries(ctx context.Context, r *http.Request, since, until time.Time) ([]activitystore.Entry, string, string, error) {
	orgFilter := query.Get(r, "org")
	if orgFilter == "" {
		entries, err := h.Entries.ListRecent(ctx, since, until, feedLimit)
		return entries, "", "", err
	}

	oid, err := primitive.ObjectIDFromHex(orgFilter)
	if err != nil {
		return nil, "", "", err
	}
	orgName := ""
	if org, err := h.Orgs.GetByID(ctx, oid); err == nil {
		orgName = org.Name
	}

	entries, err := h.Entries.ListByOrg(ctx, oid, feedLimit)
	if err != nil {
		return nil, "", "", err
	}
	// ListByOrg has no window arguments; apply the date filter here.
	if !since.IsZero() || !until.IsZero() {
		kept := entries[:0]
		for _, e := range entries {
			if !since.IsZero() && e.Timestamp.Before(since) {
				continue
			}
			if !until.IsZero() && !e.Timestamp.Before(until) {
				continue
			}
			kept = append(kept, e)
		}
		entries = kept
	}
	return entries, orgFilter, orgName, nil
}

// resolveRows joins entries with user and school names for display.
func (h *Handler) resolveRows(ctx context.Context, entries []activitystore.Entry) []feedRow {
	userIDs := make([]primitive.ObjectID, 0, len(entries))
	orgIDs := make([]primitive.ObjectID, 0, len(entries))
	seenUser := make(map[primitive.ObjectID]bool)
	seenOrg := make(map[primitive.ObjectID]bool)
	for _, e := range entries {
		if !seenUser[e.UserID] {
			seenUser[e.UserID] = true
			userIDs = append(userIDs, e.UserID)
		}
		if e.OrganizationID != nil && !seenOrg[*e.OrganizationID] {
			seenOrg[*e.OrganizationID] = true
			orgIDs = append(orgIDs, *e.OrganizationID)
		}
	}

	userNames := make(map[primitive.ObjectID]string, len(userIDs))
	if len(userIDs) > 0 {
		if users, err := h.Users.Find(ctx, bson.M{"_id": bson.M{"$in": userIDs}}); err == nil {
			for _, u := range users {
				userNames[u.ID] = u.FullName
			}
		}
	}
	orgNames := make(map[primitive.ObjectID]string, len(orgIDs))
	if orgs, err := h.Orgs.GetByIDs(ctx, orgIDs); err == nil {
		for _, o := range orgs {
			orgNames[o.ID] = o.Name
		}
	}

	rows := make([]feedRow, 0, len(entries))
	for _, e := range entries {
		row := feedRow{
			UserName:    userNames[e.UserID],
			Action:      e.Action,
			Description: e.Description,
			Date:        e.Date,
			Time:        e.Time,
		}
		if e.OrganizationID != nil {
			row.OrgName = orgNames[*e.OrganizationID]
		}
		rows = append(rows, row)
	}
	return rows
}
