// Package navigation provides helpers for safe URL navigation and redirects.
package navigation

import (
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
)

// BackURLOptions configures the behavior of SafeBackURL.
type BackURLOptions struct {
	// AllowedPrefix is the required URL prefix (e.g., "/organizations").
	// If empty, any safe URL is allowed.
	AllowedPrefix string

	// ExcludedSubpaths are subpath patterns to reject (e.g., "/edit",
	// "/delete", "/new") to prevent redirect loops back to action pages.
	ExcludedSubpaths []string

	// Fallback is the default URL if no valid return URL is found.
	Fallback string
}

// Common option presets.
var (
	OrganizationsBackURL = BackURLOptions{
		AllowedPrefix:    "/organizations",
		ExcludedSubpaths: []string{"/edit", "/delete", "/new"},
		Fallback:         "/organizations",
	}
	TeachersBackURL = BackURLOptions{
		AllowedPrefix:    "/teachers",
		ExcludedSubpaths: []string{"/edit", "/delete", "/new"},
		Fallback:         "/teachers",
	}
	AttendanceBackURL = BackURLOptions{
		AllowedPrefix: "/attendance",
		Fallback:      "/attendance",
	}
	DashboardBackURL = BackURLOptions{
		Fallback: "/dashboard",
	}
)

// SafeBackURL extracts and validates a return URL from the request.
//
// It checks both the query parameter and form value for "return", validates
// the URL is safe (not an open redirect), optionally validates the prefix,
// and excludes specified subpaths.
func SafeBackURL(r *http.Request, opts BackURLOptions) string {
	ret := urlutil.SafeReturn(query.Get(r, "return"), "", "")
	if ret == "" {
		ret = urlutil.SafeReturn(strings.TrimSpace(r.FormValue("return")), "", "")
	}

	if ret != "" {
		valid := true

		if opts.AllowedPrefix != "" && !strings.HasPrefix(ret, opts.AllowedPrefix) {
			valid = false
		}
		for _, excluded := range opts.ExcludedSubpaths {
			if strings.Contains(ret, excluded) {
				valid = false
				break
			}
		}

		if valid {
			return ret
		}
	}

	if opts.Fallback != "" {
		return opts.Fallback
	}
	return "/"
}
