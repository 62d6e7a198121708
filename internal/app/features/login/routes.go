// internal/app/features/login/routes.go
package login

import (
	"net/http"
	"time"

	"github.com/aman124598/TeacherHQ/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

// Routes returns the subrouter mounted at /login. The sign-in POST is
// throttled per IP and per email inside the handler; the forgot and
// reset POSTs share a per-IP guard here.
func Routes(h *Handler) chi.Router {
	limiter := ratelimit.New(10, time.Minute)
	guard := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(ratelimit.ClientIP(r)) {
				http.Error(w, "Too many attempts. Try again in a minute.", http.StatusTooManyRequests)
				return
			}
			next(w, r)
		}
	}

	r := chi.NewRouter()
	r.Get("/", h.ServeLogin)
	r.Post("/", h.HandleLoginPost)
	r.Get("/forgot", h.ServeForgotPage)
	r.Post("/forgot", guard(h.HandleForgotPost))
	r.Get("/reset/{token}", h.ServeResetPage)
	r.Post("/reset/{token}", guard(h.HandleResetPost))
	return r
}
