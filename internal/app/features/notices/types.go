// internal/app/features/notices/types.go
package notices

import (
	"github.com/aman124598/TeacherHQ/internal/app/system/formutil"
	"github.com/aman124598/TeacherHQ/internal/app/system/viewdata"
	"github.com/aman124598/TeacherHQ/internal/domain/models"
)

type orgOption struct {
	ID   string
	Name string
}

type listData struct {
	viewdata.BaseVM

	OrgFilter string
	OrgName   string
	Orgs      []orgOption
	Notices   []models.Notice
}

type noticeFormFields struct {
	Title string
	Body  string
	Date  string
	OrgID string
	Orgs  []orgOption
}

type newData struct {
	formutil.Base
	noticeFormFields
}

type editData struct {
	formutil.Base
	noticeFormFields
	ID string
}
