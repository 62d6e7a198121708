package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Attendance statuses. Only "present" is written by the marking flow;
// "absent" is reserved in the data model but has no write path until a
// policy for it is defined.
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
)

// RecordLocation is the snapshot of the reported position and its computed
// distance from the organization's registered location at marking time.
type RecordLocation struct {
	Latitude       float64 `bson:"latitude" json:"latitude"`
	Longitude      float64 `bson:"longitude" json:"longitude"`
	DistanceMeters float64 `bson:"distance_meters" json:"distance_meters"`
}

// AttendanceRecord is a single daily entry in a ledger.
//
// Date is the calendar day key (YYYY-MM-DD) in the organization's time
// zone. TimeIn is display-only; Timestamp is the authoritative instant.
type AttendanceRecord struct {
	Date      string          `bson:"date" json:"date"`
	TimeIn    string          `bson:"time_in" json:"time_in"`
	Timestamp time.Time       `bson:"timestamp" json:"timestamp"`
	Status    string          `bson:"status" json:"status"`
	Location  *RecordLocation `bson:"location,omitempty" json:"location,omitempty"`
}

// AttendanceLedger is the per-user, per-organization aggregate document.
//
// Invariant: TotalDays == PresentDays + AbsentDays == len(Records), and no
// two records share a Date.
type AttendanceLedger struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID `bson:"user_id" json:"user_id"`
	OrganizationID primitive.ObjectID `bson:"organization_id" json:"organization_id"`

	PresentDays int                `bson:"present_days" json:"present_days"`
	AbsentDays  int                `bson:"absent_days" json:"absent_days"`
	TotalDays   int                `bson:"total_days" json:"total_days"`
	Records     []AttendanceRecord `bson:"records" json:"records"`
	LastMarked  time.Time          `bson:"last_marked" json:"last_marked"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// RecordForDate returns the record with the given date key, if any.
func (l *AttendanceLedger) RecordForDate(dateKey string) (AttendanceRecord, bool) {
	for _, rec := range l.Records {
		if rec.Date == dateKey {
			return rec, true
		}
	}
	return AttendanceRecord{}, false
}
