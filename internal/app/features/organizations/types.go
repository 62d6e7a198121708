// internal/app/features/organizations/types.go
package organizations

import (
	"github.com/aman124598/TeacherHQ/internal/app/system/formutil"
	"github.com/aman124598/TeacherHQ/internal/app/system/timezones"
	"github.com/aman124598/TeacherHQ/internal/app/system/viewdata"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// listItem is a single row in the schools list.
type listItem struct {
	ID            primitive.ObjectID
	Name          string
	NameCI        string // case-insensitive name for cursor building
	City          string
	State         string
	TimeZone      string
	Geofenced     bool
	TeachersCount int64
}

// listData is the view model for the schools list page.
type listData struct {
	viewdata.BaseVM

	Q     string
	Items []listItem

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

// orgFormFields holds the posted (or loaded) values shared by the new
// and edit forms.
type orgFormFields struct {
	Name     string
	City     string
	State    string
	TimeZone string
	Contact  string

	Latitude     string
	Longitude    string
	RadiusMeters string
	VerifyOn     bool

	TimeZoneGroups []timezones.ZoneGroup
}

// newData is the view model for the "New School" page.
type newData struct {
	formutil.Base

	orgFormFields
}

// editData is the view model for the "Edit School" page.
type editData struct {
	formutil.Base

	ID string

	orgFormFields
}
