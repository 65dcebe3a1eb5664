package shift

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/validator"
)

type CreateShiftRequest struct {
	Name         string `json:"name"`
	WorkDays     []int  `json:"work_days"`
	StartTime    string `json:"start_time"` // HH:MM format
	EndTime      string `json:"end_time"`   // HH:MM format
	IsNightShift *bool  `json:"is_night_shift"`
	IsActive     *bool  `json:"is_active"`
	DateStart    string `json:"date_start"` // YYYY-MM-DD format
	DateEnd      string `json:"date_end"`   // YYYY-MM-DD format
}

func (r *CreateShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if len(r.WorkDays) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "work_days",
			Message: "work_days is required",
		})
	}
	for _, d := range r.WorkDays {
		if d < 1 || d > 7 {
			errs = append(errs, validator.ValidationError{
				Field:   "work_days",
				Message: "work_days entries must be between 1 (Monday) and 7 (Sunday)",
			})
			break
		}
	}

	startTime, startOK := validator.IsValidTime(r.StartTime)
	if validator.IsEmpty(r.StartTime) || !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_time",
			Message: "start_time is required in HH:MM format",
		})
	}
	endTime, endOK := validator.IsValidTime(r.EndTime)
	if validator.IsEmpty(r.EndTime) || !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_time",
			Message: "end_time is required in HH:MM format",
		})
	}
	if r.IsNightShift == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "is_night_shift",
			Message: "is_night_shift is required",
		})
	}

	// Equal start and end without the night flag is ambiguous; reject at the
	// administrator boundary rather than during evaluation.
	if startOK && endOK && r.IsNightShift != nil && !*r.IsNightShift &&
		minutesOfDay(endTime) == minutesOfDay(startTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_time",
			Message: "end_time must differ from start_time unless is_night_shift is set",
		})
	}

	dateStart, dsOK := validator.IsValidDate(r.DateStart)
	if !dsOK {
		errs = append(errs, validator.ValidationError{
			Field:   "date_start",
			Message: "date_start is required in YYYY-MM-DD format",
		})
	}
	dateEnd, deOK := validator.IsValidDate(r.DateEnd)
	if !deOK {
		errs = append(errs, validator.ValidationError{
			Field:   "date_end",
			Message: "date_end is required in YYYY-MM-DD format",
		})
	}
	if dsOK && deOK && dateEnd.Before(dateStart) {
		errs = append(errs, validator.ValidationError{
			Field:   "date_end",
			Message: "date_end must not be before date_start",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateShiftRequest struct {
	ID           string  `json:"-"`
	Name         *string `json:"name,omitempty"`
	WorkDays     *[]int  `json:"work_days,omitempty"`
	StartTime    *string `json:"start_time,omitempty"`
	EndTime      *string `json:"end_time,omitempty"`
	IsNightShift *bool   `json:"is_night_shift,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
	DateStart    *string `json:"date_start,omitempty"`
	DateEnd      *string `json:"date_end,omitempty"`
}

func (r *UpdateShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not be empty",
		})
	}
	if r.WorkDays != nil {
		for _, d := range *r.WorkDays {
			if d < 1 || d > 7 {
				errs = append(errs, validator.ValidationError{
					Field:   "work_days",
					Message: "work_days entries must be between 1 (Monday) and 7 (Sunday)",
				})
				break
			}
		}
	}
	if r.StartTime != nil {
		if _, ok := validator.IsValidTime(*r.StartTime); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_time",
				Message: "start_time must be in HH:MM format",
			})
		}
	}
	if r.EndTime != nil {
		if _, ok := validator.IsValidTime(*r.EndTime); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_time",
				Message: "end_time must be in HH:MM format",
			})
		}
	}
	if r.DateStart != nil {
		if _, ok := validator.IsValidDate(*r.DateStart); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date_start",
				Message: "date_start must be in YYYY-MM-DD format",
			})
		}
	}
	if r.DateEnd != nil {
		if _, ok := validator.IsValidDate(*r.DateEnd); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date_end",
				Message: "date_end must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ShiftResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	WorkDays     []int  `json:"work_days"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	IsNightShift bool   `json:"is_night_shift"`
	IsActive     bool   `json:"is_active"`
	DateStart    string `json:"date_start"`
	DateEnd      string `json:"date_end"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

type ListShiftsResponse struct {
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
	Showing    string          `json:"showing"`
	Shifts     []ShiftResponse `json:"shifts"`
}

type ShiftFilter struct {
	Name     *string `json:"name,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`

	SortBy    string `json:"sort_by"`    // name, date_start, created_at
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *ShiftFilter) Validate() error {
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

	if f.SortBy != "" {
		validSortFields := []string{"name", "date_start", "created_at"}
		if !validator.IsInSlice(f.SortBy, validSortFields) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_by",
				Message: "sort_by must be one of: name, date_start, created_at",
			})
		}
	} else {
		f.SortBy = "name"
	}

	if f.SortOrder != "" {
		if !validator.IsInSlice(strings.ToLower(f.SortOrder), []string{"asc", "desc"}) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_order",
				Message: "sort_order must be one of: asc, desc",
			})
		}
	} else {
		f.SortOrder = "asc"
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CreateRollingRuleRequest struct {
	Name             string   `json:"name"`
	Period           string   `json:"period"`
	CustomPeriodDays *int     `json:"custom_period_days,omitempty"`
	StartDate        string   `json:"start_date"` // YYYY-MM-DD format
	DepartmentIDs    []string `json:"department_ids"`
}

func (r *CreateRollingRuleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if !validator.IsInSlice(r.Period, RotationPeriodValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "period",
			Message: "period must be one of: " + strings.Join(RotationPeriodValues, ", "),
		})
	}
	if r.Period == string(PeriodCustom) && (r.CustomPeriodDays == nil || *r.CustomPeriodDays < 1) {
		errs = append(errs, validator.ValidationError{
			Field:   "custom_period_days",
			Message: "custom_period_days must be at least 1 when period is custom",
		})
	}
	if r.Period != string(PeriodCustom) && r.CustomPeriodDays != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "custom_period_days",
			Message: "custom_period_days is only allowed when period is custom",
		})
	}
	if _, ok := validator.IsValidDate(r.StartDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date is required in YYYY-MM-DD format",
		})
	}
	if len(r.DepartmentIDs) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "department_ids",
			Message: "department_ids is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateRollingRuleRequest struct {
	ID               string    `json:"-"`
	Name             *string   `json:"name,omitempty"`
	Period           *string   `json:"period,omitempty"`
	CustomPeriodDays *int      `json:"custom_period_days,omitempty"`
	StartDate        *string   `json:"start_date,omitempty"`
	DepartmentIDs    *[]string `json:"department_ids,omitempty"`
}

func (r *UpdateRollingRuleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not be empty",
		})
	}
	if r.Period != nil && !validator.IsInSlice(*r.Period, RotationPeriodValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "period",
			Message: "period must be one of: " + strings.Join(RotationPeriodValues, ", "),
		})
	}
	if r.CustomPeriodDays != nil && *r.CustomPeriodDays < 1 {
		errs = append(errs, validator.ValidationError{
			Field:   "custom_period_days",
			Message: "custom_period_days must be at least 1",
		})
	}
	if r.StartDate != nil {
		if _, ok := validator.IsValidDate(*r.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SetPatternSlotRequest struct {
	RuleID  string  `json:"-"`
	Order   int     `json:"-"`
	ShiftID *string `json:"shift_id"` // null clears the slot back to unassigned
}

func (r *SetPatternSlotRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RuleID) {
		errs = append(errs, validator.ValidationError{
			Field:   "rule_id",
			Message: "rule_id is required",
		})
	}
	if r.Order < 1 {
		errs = append(errs, validator.ValidationError{
			Field:   "order",
			Message: "order must be at least 1",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RollingRuleResponse struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Period           string         `json:"period"`
	CustomPeriodDays *int           `json:"custom_period_days,omitempty"`
	StartDate        string         `json:"start_date"`
	Patterns         []PatternEntry `json:"patterns"`
	DepartmentIDs    []string       `json:"department_ids"`
	CreatedAt        string         `json:"created_at"`
	UpdatedAt        string         `json:"updated_at"`
}

type ListRollingRulesResponse struct {
	TotalCount int64                 `json:"total_count"`
	Page       int                   `json:"page"`
	Limit      int                   `json:"limit"`
	TotalPages int                   `json:"total_pages"`
	Showing    string                `json:"showing"`
	Rules      []RollingRuleResponse `json:"rules"`
}

type RotationPlanFilter struct {
	RuleID     string `json:"-"`
	EmployeeID string `json:"employee_id"`
	From       string `json:"from"` // YYYY-MM-DD format
	To         string `json:"to"`   // YYYY-MM-DD format
}

func (f *RotationPlanFilter) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(f.RuleID) {
		errs = append(errs, validator.ValidationError{
			Field:   "rule_id",
			Message: "rule_id is required",
		})
	}
	if validator.IsEmpty(f.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	from, fromOK := validator.IsValidDate(f.From)
	if !fromOK {
		errs = append(errs, validator.ValidationError{
			Field:   "from",
			Message: "from is required in YYYY-MM-DD format",
		})
	}
	to, toOK := validator.IsValidDate(f.To)
	if !toOK {
		errs = append(errs, validator.ValidationError{
			Field:   "to",
			Message: "to is required in YYYY-MM-DD format",
		})
	}
	if fromOK && toOK {
		if to.Before(from) {
			errs = append(errs, validator.ValidationError{
				Field:   "to",
				Message: "to must not be before from",
			})
		} else if to.Sub(from) > 92*24*time.Hour {
			errs = append(errs, validator.ValidationError{
				Field:   "to",
				Message: "plan horizon must not exceed 92 days",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RollingAssignmentResponse struct {
	Date      string  `json:"date"`
	Order     int     `json:"order"`
	ShiftID   *string `json:"shift_id"`
	ShiftName string  `json:"shift_name"`
}

type RotationPlanResponse struct {
	RuleID     string                      `json:"rule_id"`
	EmployeeID string                      `json:"employee_id"`
	Days       []RollingAssignmentResponse `json:"days"`
}

type ResolvedShiftResponse struct {
	EmployeeID string         `json:"employee_id"`
	Date       string         `json:"date"`
	Shift      *ShiftResponse `json:"shift"` // null when the slot is unassigned or a day off
}

type SwitchAssignmentsRequest struct {
	EmployeeIDs []string `json:"employee_ids"`
	FromShiftID *string  `json:"from_shift_id,omitempty"` // restrict the move to employees currently on this shift
	ToShiftID   string   `json:"to_shift_id"`
}

func (r *SwitchAssignmentsRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.EmployeeIDs) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_ids",
			Message: "employee_ids is required",
		})
	}
	if validator.IsEmpty(r.ToShiftID) {
		errs = append(errs, validator.ValidationError{
			Field:   "to_shift_id",
			Message: "to_shift_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RemoveAssignmentsRequest struct {
	EmployeeIDs []string `json:"employee_ids"`
}

func (r *RemoveAssignmentsRequest) Validate() error {
	if len(r.EmployeeIDs) == 0 {
		return validator.ValidationErrors{{
			Field:   "employee_ids",
			Message: "employee_ids is required",
		}}
	}
	return nil
}

type AssignmentResponse struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	ShiftID    string `json:"shift_id"`
	IsActive   bool   `json:"is_active"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}
