// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"

	"github.com/aman124598/TeacherHQ/internal/app/system/auth"
	"github.com/dalemusser/waffle/pantry/httpnav"
)

// BaseVM contains common fields for all view models. Embed it in
// feature-specific view models:
//
//	type myPageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
type BaseVM struct {
	SiteName string

	// User context (from auth middleware)
	IsLoggedIn bool
	Role       string
	UserName   string

	// Page context
	Title       string
	BackURL     string
	CurrentPath string
}

var siteName = "TeacherHQ"

// Init sets the site name shown in page chrome. Called once at startup.
func Init(name string) {
	if name != "" {
		siteName = name
	}
}

// NewBaseVM builds the common view model for a page.
func NewBaseVM(r *http.Request, title, backDefault string) BaseVM {
	vm := BaseVM{
		SiteName:    siteName,
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
	}
	if u, ok := auth.CurrentUser(r); ok {
		vm.IsLoggedIn = true
		vm.Role = u.Role
		vm.UserName = u.Name
	}
	return vm
}
