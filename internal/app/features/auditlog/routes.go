// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/aman124598/TeacherHQ/internal/app/system/auth"
	"github.com/aman124598/TeacherHQ/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the audit trail under the base path (typically "/audit"
// from bootstrap). Admin only.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(authz.RoleAdmin))

		pr.Get("/", h.ServeList)
	})

	return r
}
