// internal/app/features/teachers/types.go
package teachers

import (
	"github.com/aman124598/TeacherHQ/internal/app/system/formutil"
	"github.com/aman124598/TeacherHQ/internal/app/system/viewdata"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// listItem is a single row in the teachers list.
type listItem struct {
	ID         primitive.ObjectID
	FullName   string
	FullNameCI string // for cursor building
	Email      string
	AuthMethod string
	Status     string
	OrgName    string
}

// listData is the view model for the teachers list page.
type listData struct {
	viewdata.BaseVM

	Q         string
	OrgFilter string
	OrgName   string
	Items     []listItem

	// Pagination
	Shown      int
	Total      int64
	HasPrev    bool
	HasNext    bool
	PrevCursor string
	NextCursor string
	RangeStart int
	RangeEnd   int
	PrevStart  int
	NextStart  int
}

// orgOption is a school choice in the teacher forms.
type orgOption struct {
	ID   string
	Name string
}

// teacherFormFields holds the posted (or loaded) values shared by the
// new and edit forms.
type teacherFormFields struct {
	FullName   string
	Email      string
	OrgID      string
	AuthMethod string
	Status     string

	Orgs []orgOption
}

// newData is the view model for the "New Teacher" page.
type newData struct {
	formutil.Base

	teacherFormFields
}

// editData is the view model for the "Edit Teacher" page.
type editData struct {
	formutil.Base

	ID string

	teacherFormFields
}
