package attendance

import (
	"strings"

	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/validator"
)

type CheckInRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Timestamp *string  `json:"timestamp,omitempty"` // RFC3339; defaults to server time
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	// Missing coordinates are reported by the evaluator as a distinct
	// LocationUnavailable failure; only the format is validated here.
	if r.Latitude != nil && (*r.Latitude < -90 || *r.Latitude > 90) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}
	if r.Longitude != nil && (*r.Longitude < -180 || *r.Longitude > 180) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}
	if r.Timestamp != nil {
		if _, ok := validator.IsValidDateTime(*r.Timestamp); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "timestamp",
				Message: "timestamp must be an RFC3339 instant",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CheckOutRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Timestamp *string  `json:"timestamp,omitempty"`
}

func (r *CheckOutRequest) Validate() error {
	in := CheckInRequest{Latitude: r.Latitude, Longitude: r.Longitude, Timestamp: r.Timestamp}
	return in.Validate()
}

type AttendanceResponse struct {
	ID                string   `json:"id"`
	EmployeeID        string   `json:"employee_id"`
	EmployeeName      *string  `json:"employee_name,omitempty"`
	Date              string   `json:"date"`
	ShiftID           *string  `json:"shift_id"`
	ClockInTime       *string  `json:"clock_in_time"`
	ClockOutTime      *string  `json:"clock_out_time"`
	ClockInLatitude   *float64 `json:"clock_in_latitude"`
	ClockInLongitude  *float64 `json:"clock_in_longitude"`
	ClockOutLatitude  *float64 `json:"clock_out_latitude"`
	ClockOutLongitude *float64 `json:"clock_out_longitude"`
	Status            string   `json:"status"`
	WithinGeofence    *bool    `json:"within_geofence"`
	DistanceMeters    *float64 `json:"distance_meters"`
	LateMinutes       *int     `json:"late_minutes"`
	EarlyLeaveMinutes *int     `json:"early_leave_minutes"`
	OvertimeMinutes   *int     `json:"overtime_minutes"`
	WorkDuration      *string  `json:"work_duration"`
	CreatedAt         string   `json:"created_at"`
	UpdatedAt         string   `json:"updated_at"`
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Showing     string               `json:"showing"`
	Attendances []AttendanceResponse `json:"attendances"`
}

type AttendanceFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Status     *string `json:"status,omitempty"`
	DateFrom   *string `json:"date_from,omitempty"` // YYYY-MM-DD
	DateTo     *string `json:"date_to,omitempty"`   // YYYY-MM-DD

	Page  int `json:"page"`
	Limit int `json:"limit"`

	SortBy    string `json:"sort_by"`    // date, status, created_at
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.DateFrom != nil {
		if _, ok := validator.IsValidDate(*f.DateFrom); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date_from",
				Message: "date_from must be in YYYY-MM-DD format",
			})
		}
	}
	if f.DateTo != nil {
		if _, ok := validator.IsValidDate(*f.DateTo); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date_to",
				Message: "date_to must be in YYYY-MM-DD format",
			})
		}
	}

	if f.SortBy != "" {
		if !validator.IsInSlice(f.SortBy, []string{"date", "status", "created_at"}) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_by",
				Message: "sort_by must be one of: date, status, created_at",
			})
		}
	} else {
		f.SortBy = "date"
	}

	if f.SortOrder != "" {
		if !validator.IsInSlice(strings.ToLower(f.SortOrder), []string{"asc", "desc"}) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_order",
				Message: "sort_order must be one of: asc, desc",
			})
		}
	} else {
		f.SortOrder = "desc"
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateAttendanceRuleRequest struct {
	OfficeLatitude  *float64 `json:"office_latitude"`
	OfficeLongitude *float64 `json:"office_longitude"`
	RadiusMeters    *float64 `json:"radius_meters"`
	MaxLateMinutes  *int     `json:"max_late_minutes"`
	MaxLateCheckIn  *int     `json:"max_late_check_in"`
	MaxLateCheckOut *int     `json:"max_late_check_out"`
}

func (r *UpdateAttendanceRuleRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.OfficeLatitude != nil && (*r.OfficeLatitude < -90 || *r.OfficeLatitude > 90) {
		errs = append(errs, validator.ValidationError{
			Field:   "office_latitude",
			Message: "office_latitude must be between -90 and 90",
		})
	}
	if r.OfficeLongitude != nil && (*r.OfficeLongitude < -180 || *r.OfficeLongitude > 180) {
		errs = append(errs, validator.ValidationError{
			Field:   "office_longitude",
			Message: "office_longitude must be between -180 and 180",
		})
	}
	if r.RadiusMeters != nil && *r.RadiusMeters <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "radius_meters",
			Message: "radius_meters must be greater than 0",
		})
	}
	if r.MaxLateMinutes != nil && *r.MaxLateMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "max_late_minutes",
			Message: "max_late_minutes must be a non-negative number",
		})
	}
	if r.MaxLateCheckIn != nil && *r.MaxLateCheckIn < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "max_late_check_in",
			Message: "max_late_check_in must be a non-negative number",
		})
	}
	if r.MaxLateCheckOut != nil && *r.MaxLateCheckOut < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "max_late_check_out",
			Message: "max_late_check_out must be a non-negative number",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AttendanceRuleResponse struct {
	ID              string  `json:"id"`
	OfficeLatitude  float64 `json:"office_latitude"`
	OfficeLongitude float64 `json:"office_longitude"`
	RadiusMeters    float64 `json:"radius_meters"`
	MaxLateMinutes  int     `json:"max_late_minutes"`
	MaxLateCheckIn  int     `json:"max_late_check_in"`
	MaxLateCheckOut int     `json:"max_late_check_out"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}
