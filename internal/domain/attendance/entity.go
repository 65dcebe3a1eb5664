package attendance

import "time"

// AttendanceRule is the geofence and tolerance policy attendance events are
// evaluated against. One rule per deployment, updated in place.
type AttendanceRule struct {
	ID              string
	OfficeLatitude  float64
	OfficeLongitude float64
	RadiusMeters    float64
	MaxLateMinutes  int // grace period after shift start for an on-time check-in
	MaxLateCheckIn  int // minutes before shift end after which check-in is rejected
	MaxLateCheckOut int // minutes after shift end within which check-out is on time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Attendance struct {
	ID                string
	EmployeeID        string
	Date              time.Time // the shift day, not a timestamp
	ShiftID           *string
	ClockIn           *time.Time
	ClockOut          *time.Time
	ClockInLatitude   *float64
	ClockInLongitude  *float64
	ClockOutLatitude  *float64
	ClockOutLongitude *float64
	Status            string
	WithinGeofence    *bool
	DistanceMeters    *float64
	LateMinutes       *int
	EarlyLeaveMinutes *int
	OvertimeMinutes   *int
	WorkDuration      *string // hh:mm:ss
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// DTO
	EmployeeName *string
}

// CheckEvent is a raw device-produced attendance event. Coordinates are nil
// when the device failed to obtain a GPS fix; that is a distinct failure from
// being outside the geofence.
type CheckEvent struct {
	EmployeeID string
	ShiftID    *string
	Timestamp  time.Time
	Latitude   *float64
	Longitude  *float64
}

type TimingStatus string

const (
	TimingOnTime                TimingStatus = "on_time"
	TimingLate                  TimingStatus = "late"
	TimingEarly                 TimingStatus = "early"
	TimingRejectedOutsideWindow TimingStatus = "rejected_outside_window"
)

// EvaluationVerdict is the computed classification of a single check event.
// A rejected verdict is still a verdict: the attempt is recorded and flagged,
// it is not an error.
type EvaluationVerdict struct {
	WithinGeofence bool
	DistanceMeters float64
	TimingStatus   TimingStatus
	Minutes        int    // minutes late or early; zero for on_time and rejected
	WorkDuration   string // hh:mm:ss, set on check-out only
}
