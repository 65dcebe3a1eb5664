package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/clock"
	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	officeLat = -6.200000
	officeLon = 106.816666
)

type fakeAttendanceRepo struct {
	records map[string]attendance.Attendance
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[string]attendance.Attendance)}
}

func (f *fakeAttendanceRepo) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	att.CreatedAt = time.Now().UTC()
	att.UpdatedAt = att.CreatedAt
	f.records[att.ID] = att
	return att, nil
}

func (f *fakeAttendanceRepo) Update(ctx context.Context, att attendance.Attendance) error {
	f.records[att.ID] = att
	return nil
}

func (f *fakeAttendanceRepo) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	att, ok := f.records[id]
	if !ok {
		return attendance.Attendance{}, pgx.ErrNoRows
	}
	return att, nil
}

func (f *fakeAttendanceRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	for _, att := range f.records {
		if att.EmployeeID == employeeID && att.Date.Equal(date) {
			found := att
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeAttendanceRepo) GetOpenSession(ctx context.Context, employeeID string) (attendance.Attendance, error) {
	for _, att := range f.records {
		if att.EmployeeID == employeeID && att.ClockIn != nil && att.ClockOut == nil {
			return att, nil
		}
	}
	return attendance.Attendance{}, pgx.ErrNoRows
}

func (f *fakeAttendanceRepo) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	var out []attendance.Attendance
	for _, att := range f.records {
		if filter.EmployeeID != nil && att.EmployeeID != *filter.EmployeeID {
			continue
		}
		out = append(out, att)
	}
	return out, int64(len(out)), nil
}

func (f *fakeAttendanceRepo) ListOpenSessionsBefore(ctx context.Context, cutoff time.Time) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, att := range f.records {
		if att.ClockIn != nil && att.ClockOut == nil && att.ClockIn.Before(cutoff) {
			out = append(out, att)
		}
	}
	return out, nil
}

type fakeRuleRepo struct {
	rule *attendance.AttendanceRule
}

func (f *fakeRuleRepo) Get(ctx context.Context) (*attendance.AttendanceRule, error) {
	return f.rule, nil
}

func (f *fakeRuleRepo) Upsert(ctx context.Context, rule attendance.AttendanceRule) (attendance.AttendanceRule, error) {
	f.rule = &rule
	return rule, nil
}

type fakeResolver struct {
	byEmployee map[string]*shift.ShiftDefinition
}

func (f *fakeResolver) ResolveShiftForDate(ctx context.Context, employeeID string, date time.Time) (*shift.ShiftDefinition, error) {
	return f.byEmployee[employeeID], nil
}

func testRule() *attendance.AttendanceRule {
	return &attendance.AttendanceRule{
		ID:              "rule-1",
		OfficeLatitude:  officeLat,
		OfficeLongitude: officeLon,
		RadiusMeters:    100,
		MaxLateMinutes:  15,
		MaxLateCheckIn:  60,
		MaxLateCheckOut: 15,
	}
}

func dayShift() *shift.ShiftDefinition {
	return &shift.ShiftDefinition{
		ID:           "shift-day",
		Name:         "Office Hours",
		WorkDays:     []int{1, 2, 3, 4, 5},
		StartTime:    time.Date(0, 1, 1, 8, 0, 0, 0, time.UTC),
		EndTime:      time.Date(0, 1, 1, 17, 0, 0, 0, time.UTC),
		IsNightShift: false,
		IsActive:     true,
		DateStart:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		DateEnd:      time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	}
}

func nightShift() *shift.ShiftDefinition {
	def := dayShift()
	def.ID = "shift-night"
	def.Name = "Night Watch"
	def.StartTime = time.Date(0, 1, 1, 22, 0, 0, 0, time.UTC)
	def.EndTime = time.Date(0, 1, 1, 6, 0, 0, 0, time.UTC)
	def.IsNightShift = true
	return def
}

func authedContext(t *testing.T, employeeID string) context.Context {
	t.Helper()

	tokenAuth := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := tokenAuth.Encode(map[string]interface{}{
		"employee_id": employeeID,
		"role":        "employee",
		"type":        "access",
	})
	require.NoError(t, err)

	return jwtauth.NewContext(context.Background(), token, nil)
}

func newService(repo *fakeAttendanceRepo, rule *attendance.AttendanceRule, def *shift.ShiftDefinition, now time.Time) attendance.AttendanceService {
	resolver := &fakeResolver{byEmployee: map[string]*shift.ShiftDefinition{}}
	if def != nil {
		resolver.byEmployee["emp-1"] = def
	}
	return NewAttendanceService(repo, &fakeRuleRepo{rule: rule}, resolver, clock.Fixed(now))
}

func floatPtr(v float64) *float64 {
	return &v
}

func TestCheckIn_OnTime(t *testing.T) {
	now := time.Date(2025, 1, 10, 8, 5, 0, 0, time.UTC)
	repo := newFakeAttendanceRepo()
	svc := newService(repo, testRule(), dayShift(), now)

	resp, err := svc.CheckIn(authedContext(t, "emp-1"), attendance.CheckInRequest{
		Latitude:  floatPtr(officeLat),
		Longitude: floatPtr(officeLon),
	})
	require.NoError(t, err)

	assert.Equal(t, "emp-1", resp.EmployeeID)
	assert.Equal(t, "2025-01-10", resp.Date)
	assert.Equal(t, string(attendance.TimingOnTime), resp.Status)
	assert.Nil(t, resp.LateMinutes)
	require.NotNil(t, resp.WithinGeofence)
	assert.True(t, *resp.WithinGeofence)
}

func TestCheckIn_LateRecordsMinutes(t *testing.T) {
	now := time.Date(2025, 1, 10, 8, 20, 0, 0, time.UTC)
	repo := newFakeAttendanceRepo()
	svc := newService(repo, testRule(), dayShift(), now)

	resp, err := svc.CheckIn(authedContext(t, "emp-1"), attendance.CheckInRequest{
		Latitude:  floatPtr(officeLat),
		Longitude: floatPtr(officeLon),
	})
	require.NoError(t, err)

	assert.Equal(t, string(attendance.TimingLate), resp.Status)
	require.NotNil(t, resp.LateMinutes)
	assert.Equal(t, 20, *resp.LateMinutes)
}

func TestCheckIn_TwiceRejected(t *testing.T) {
	now := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	repo := newFakeAttendanceRepo()
	svc := newService(repo, testRule(), dayShift(), now)
	ctx := authedContext(t, "emp-1")

	req := attendance.CheckInRequest{Latitude: floatPtr(officeLat), Longitude: floatPtr(officeLon)}
	_, err := svc.CheckIn(ctx, req)
	require.NoError(t, err)

	_, err = svc.CheckIn(ctx, req)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestCheckIn_NoShiftForToday(t *testing.T) {
	now := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	repo := newFakeAttendanceRepo()
	svc := newService(repo, testRule(), nil, now)

	_, err := svc.CheckIn(authedContext(t, "emp-1"), attendance.CheckInRequest{
		Latitude:  floatPtr(officeLat),
		Longitude: floatPtr(officeLon),
	})
	assert.ErrorIs(t, err, attendance.ErrNoShiftForToday)
}

func TestCheckIn_NoRuleConfigured(t *testing.T) {
	now := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	repo := newFakeAttendanceRepo()
	svc := newService(repo, nil, dayShift(), now)

	_, err := svc.CheckIn(authedContext(t, "emp-1"), attendance.CheckInRequest{
		Latitude:  floatPtr(officeLat),
		Longitude: floatPtr(officeLon),
	})
	assert.ErrorIs(t, err, attendance.ErrAttendanceRuleNotFound)
}

func TestCheckIn_OutsideGeofenceStillRecorded(t *testing.T) {
	now := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	repo := newFakeAttendanceRepo()
	svc := newService(repo, testRule(), dayShift(), now)

	resp, err := svc.CheckIn(authedContext(t, "emp-1"), attendance.CheckInRequest{
		Latitude:  floatPtr(-6.210000),
		Longitude: floatPtr(officeLon),
	})
	require.NoError(t, err)

	assert.Equal(t, string(attendance.TimingRejectedOutsideWindow), resp.Status)
	require.NotNil(t, resp.WithinGeofence)
	assert.False(t, *resp.WithinGeofence)
}

func TestCheckOut_WithoutCheckIn(t *testing.T) {
	now := time.Date(2025, 1, 10, 17, 0, 0, 0, time.UTC)
	repo := newFakeAttendanceRepo()
	svc := newService(repo, testRule(), dayShift(), now)

	_, err := svc.CheckOut(authedContext(t, "emp-1"), attendance.CheckOutRequest{
		Latitude:  floatPtr(officeLat),
		Longitude: floatPtr(officeLon),
	})
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)
}

func TestCheckOut_NightShiftClosesNextDay(t *testing.T) {
	repo := newFakeAttendanceRepo()
	checkInAt := time.Date(2025, 1, 10, 22, 5, 0, 0, time.UTC)
	svc := newService(repo, testRule(), nightShift(), checkInAt)
	ctx := authedContext(t, "emp-1")

	loc := attendance.CheckInRequest{Latitude: floatPtr(officeLat), Longitude: floatPtr(officeLon)}
	_, err := svc.CheckIn(ctx, loc)
	require.NoError(t, err)

	checkOutAt := "2025-01-11T06:10:00Z"
	resp, err := svc.CheckOut(ctx, attendance.CheckOutRequest{
		Latitude:  floatPtr(officeLat),
		Longitude: floatPtr(officeLon),
		Timestamp: &checkOutAt,
	})
	require.NoError(t, err)

	// The record stays on the check-in's date even though the check-out
	// landed the next morning.
	assert.Equal(t, "2025-01-10", resp.Date)
	require.NotNil(t, resp.WorkDuration)
	assert.Equal(t, "08:05:00", *resp.WorkDuration)
	assert.Equal(t, string(attendance.TimingOnTime), resp.Status)
}

func TestCheckOut_EarlyLeave(t *testing.T) {
	repo := newFakeAttendanceRepo()
	checkInAt := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	svc := newService(repo, testRule(), dayShift(), checkInAt)
	ctx := authedContext(t, "emp-1")

	loc := attendance.CheckInRequest{Latitude: floatPtr(officeLat), Longitude: floatPtr(officeLon)}
	_, err := svc.CheckIn(ctx, loc)
	require.NoError(t, err)

	checkOutAt := "2025-01-10T16:00:00Z"
	resp, err := svc.CheckOut(ctx, attendance.CheckOutRequest{
		Latitude:  floatPtr(officeLat),
		Longitude: floatPtr(officeLon),
		Timestamp: &checkOutAt,
	})
	require.NoError(t, err)

	assert.Equal(t, string(attendance.TimingEarly), resp.Status)
	require.NotNil(t, resp.EarlyLeaveMinutes)
	assert.Equal(t, 60, *resp.EarlyLeaveMinutes)
}

func TestCheckOut_OvertimeFlaggedLate(t *testing.T) {
	repo := newFakeAttendanceRepo()
	checkInAt := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	svc := newService(repo, testRule(), dayShift(), checkInAt)
	ctx := authedContext(t, "emp-1")

	loc := attendance.CheckInRequest{Latitude: floatPtr(officeLat), Longitude: floatPtr(officeLon)}
	_, err := svc.CheckIn(ctx, loc)
	require.NoError(t, err)

	// An hour past a 17:00 end, well beyond the 15 minute tolerance.
	checkOutAt := "2025-01-10T18:00:00Z"
	resp, err := svc.CheckOut(ctx, attendance.CheckOutRequest{
		Latitude:  floatPtr(officeLat),
		Longitude: floatPtr(officeLon),
		Timestamp: &checkOutAt,
	})
	require.NoError(t, err)

	assert.Equal(t, string(attendance.TimingLate), resp.Status)
	require.NotNil(t, resp.OvertimeMinutes)
	assert.Equal(t, 60, *resp.OvertimeMinutes)
	assert.Nil(t, resp.EarlyLeaveMinutes)

	stored := repo.records[resp.ID]
	assert.Equal(t, string(attendance.TimingLate), stored.Status)
	require.NotNil(t, stored.OvertimeMinutes)
	assert.Equal(t, 60, *stored.OvertimeMinutes)
}

func TestCheckOut_TwiceRejected(t *testing.T) {
	repo := newFakeAttendanceRepo()
	checkInAt := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	svc := newService(repo, testRule(), dayShift(), checkInAt)
	ctx := authedContext(t, "emp-1")

	loc := attendance.CheckInRequest{Latitude: floatPtr(officeLat), Longitude: floatPtr(officeLon)}
	_, err := svc.CheckIn(ctx, loc)
	require.NoError(t, err)

	checkOutAt := "2025-01-10T17:00:00Z"
	out := attendance.CheckOutRequest{
		Latitude:  floatPtr(officeLat),
		Longitude: floatPtr(officeLon),
		Timestamp: &checkOutAt,
	}
	_, err = svc.CheckOut(ctx, out)
	require.NoError(t, err)

	_, err = svc.CheckOut(ctx, out)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
}

func TestGetMyAttendance_ScopedToClaims(t *testing.T) {
	now := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	repo := newFakeAttendanceRepo()
	repo.records["a1"] = attendance.Attendance{ID: "a1", EmployeeID: "emp-1", Date: now}
	repo.records["a2"] = attendance.Attendance{ID: "a2", EmployeeID: "emp-2", Date: now}
	svc := newService(repo, testRule(), dayShift(), now)

	resp, err := svc.GetMyAttendance(authedContext(t, "emp-1"), attendance.AttendanceFilter{})
	require.NoError(t, err)

	require.Len(t, resp.Attendances, 1)
	assert.Equal(t, "emp-1", resp.Attendances[0].EmployeeID)
}

func TestUpdateRule_SeedsAndPatches(t *testing.T) {
	now := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	repo := newFakeAttendanceRepo()
	ruleRepo := &fakeRuleRepo{}
	svc := NewAttendanceService(repo, ruleRepo, &fakeResolver{}, clock.Fixed(now))
	ctx := authedContext(t, "admin-1")

	created, err := svc.UpdateRule(ctx, attendance.UpdateAttendanceRuleRequest{
		OfficeLatitude:  floatPtr(officeLat),
		OfficeLongitude: floatPtr(officeLon),
		RadiusMeters:    floatPtr(150),
		MaxLateMinutes:  intPtr(10),
		MaxLateCheckIn:  intPtr(60),
		MaxLateCheckOut: intPtr(15),
	})
	require.NoError(t, err)
	assert.Equal(t, 150.0, created.RadiusMeters)

	patched, err := svc.UpdateRule(ctx, attendance.UpdateAttendanceRuleRequest{
		RadiusMeters: floatPtr(200),
	})
	require.NoError(t, err)

	// Untouched fields keep their values.
	assert.Equal(t, 200.0, patched.RadiusMeters)
	assert.Equal(t, 10, patched.MaxLateMinutes)
	assert.Equal(t, officeLat, patched.OfficeLatitude)
}

func intPtr(v int) *int {
	return &v
}
