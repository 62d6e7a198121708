// Package formutil provides helpers for form re-rendering with validation
// errors.
//
// When a form submission fails validation, the form is re-rendered with the
// user's previously entered values, an error message, and the context data
// the form needs. Base can be embedded in form data structs to carry the
// common fields.
package formutil

import (
	"html/template"
	"net/http"

	"github.com/aman124598/TeacherHQ/internal/app/system/viewdata"
)

// Base contains common fields for form pages.
type Base struct {
	viewdata.BaseVM

	Error template.HTML
}

// SetBase populates the common Base fields from the request context.
func SetBase(b *Base, r *http.Request, title, backDefault string) {
	b.BaseVM = viewdata.NewBaseVM(r, title, backDefault)
}

// SetError sets the error message on a Base struct.
func (b *Base) SetError(msg string) {
	b.Error = template.HTML(msg)
}
