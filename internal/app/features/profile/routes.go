// internal/app/features/profile/routes.go
package profile

import (
	"github.com/aman124598/TeacherHQ/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the profile pages under the base path (typically
// "/profile" from bootstrap). Any signed-in user may manage their own
// profile.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeProfile)
		pr.Post("/password", h.HandleChangePassword)
	})

	return r
}
