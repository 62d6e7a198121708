// internal/app/features/attendance/routes.go
package attendance

import (
	"github.com/aman124598/TeacherHQ/internal/app/system/auth"
	"github.com/aman124598/TeacherHQ/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Teacher marking surface
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole(authz.RoleTeacher))
		pr.Get("/", h.ServeMarkPage)
		pr.Post("/mark", h.HandleMark)
		pr.Get("/history", h.ServeHistory)
	})

	// Admin overview
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole(authz.RoleAdmin))
		pr.Get("/org/{orgID}", h.ServeOrgOverview)
	})

	return r
}
