// internal/app/features/auditlog/types.go
package auditlog

import (
	"time"

	"github.com/aman124598/TeacherHQ/internal/app/store/audit"
	"github.com/aman124598/TeacherHQ/internal/app/system/viewdata"
)

// listItem is one audit event row for display. Names are resolved from
// the stored ObjectIDs; a raw hex ID appears when the account is gone.
type listItem struct {
	ID         string
	Timestamp  time.Time
	Category   string
	EventType  string
	ActorName  string
	TargetName string
	OrgName    string
	IP         string
	Success    bool
	Details    map[string]string
}

// listData is the view model for the audit trail page.
type listData struct {
	viewdata.BaseVM

	Items []listItem

	// Filters
	Category  string
	EventType string
	StartDate string
	EndDate   string

	// Filter options
	Categories []categoryOption
	EventTypes []string

	// Pagination
	Page       int
	TotalPages int
	Total      int64
	Shown      int
	HasPrev    bool
	HasNext    bool
	PrevPage   int
	NextPage   int
}

type categoryOption struct {
	Value string
	Label string
}

func allCategories() []categoryOption {
	return []categoryOption{
		{Value: audit.CategoryAuth, Label: "Authentication"},
		{Value: audit.CategoryAdmin, Label: "Administration"},
		{Value: audit.CategoryAttendance, Label: "Attendance"},
	}
}

// eventTypesForCategory returns the event types for a given category.
// An empty category returns every event type.
func eventTypesForCategory(category string) []string {
	authEvents := []string{
		audit.EventLoginSuccess,
		audit.EventLoginFailedUserNotFound,
		audit.EventLoginFailedWrongPassword,
		audit.EventLoginFailedUserDisabled,
		audit.EventLogout,
		audit.EventPasswordChanged,
		audit.EventPasswordResetRequested,
		audit.EventGoogleLinkUsed,
	}

	adminEvents := []string{
		audit.EventUserCreated,
		audit.EventUserUpdated,
		audit.EventUserDisabled,
		audit.EventUserEnabled,
		audit.EventUserDeleted,
		audit.EventOrgCreated,
		audit.EventOrgUpdated,
		audit.EventOrgDeleted,
		audit.EventGeofenceSet,
	}

	attendanceEvents := []string{
		audit.EventAttendanceMarked,
		audit.EventAttendanceDuplicate,
		audit.EventAttendanceOutOfRange,
	}

	switch category {
	case audit.CategoryAuth:
		return authEvents
	case audit.CategoryAdmin:
		return adminEvents
	case audit.CategoryAttendance:
		return attendanceEvents
	case "":
		all := make([]string, 0, len(authEvents)+len(adminEvents)+len(attendanceEvents))
		all = append(all, authEvents...)
		all = append(all, adminEvents...)
		all = append(all, attendanceEvents...)
		return all
	default:
		return nil
	}
}
