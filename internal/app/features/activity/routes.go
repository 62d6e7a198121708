// internal/app/features/activity/routes.go
package activity

import (
	"github.com/aman124598/TeacherHQ/internal/app/system/auth"
	"github.com/aman124598/TeacherHQ/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the activity feed under the base path (typically
// "/activity" from bootstrap).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(authz.RoleAdmin))

		pr.Get("/", h.ServeFeed)
		pr.Get("/export.csv", h.ServeExportCSV)
	})

	return r
}
