package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/clock"
)

// staleAfter is how long past clock-in an open session may linger before the
// auto-close job claims it.
const staleAfter = 18 * time.Hour

type AttendanceJobs struct {
	attendanceRepo attendance.AttendanceRepository
	resolver       shift.Resolver
	clock          clock.Clock
}

func NewAttendanceJobs(
	attendanceRepo attendance.AttendanceRepository,
	resolver shift.Resolver,
	clk clock.Clock,
) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceRepo: attendanceRepo,
		resolver:       resolver,
		clock:          clk,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("auto_close_stale_attendances", 1*time.Hour, j.AutoCloseStaleAttendances)
}

// AutoCloseStaleAttendances closes sessions whose check-out never arrived.
// The session is closed at its shift window end so the recorded duration
// never exceeds the scheduled hours.
func (j *AttendanceJobs) AutoCloseStaleAttendances(ctx context.Context) error {
	cutoff := j.clock.Now().UTC().Add(-staleAfter)

	staleSessions, err := j.attendanceRepo.ListOpenSessionsBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to get stale sessions: %w", err)
	}

	if len(staleSessions) == 0 {
		return nil
	}

	closedCount := 0
	for _, session := range staleSessions {
		def, err := j.resolver.ResolveShiftForDate(ctx, session.EmployeeID, session.Date)
		if err != nil || def == nil {
			slog.Error("Cron: Failed to resolve shift for stale session",
				"attendance_id", session.ID,
				"employee_id", session.EmployeeID,
				"error", err)
			continue
		}

		window, err := shift.ResolveWindow(*def, session.Date)
		if err != nil {
			slog.Error("Cron: Failed to resolve shift window",
				"attendance_id", session.ID,
				"error", err)
			continue
		}

		closedAt := window.End
		if session.ClockIn != nil && closedAt.Before(*session.ClockIn) {
			closedAt = *session.ClockIn
		}
		duration := attendance.FormatWorkDuration(closedAt.Sub(*session.ClockIn))

		session.ClockOut = &closedAt
		session.WorkDuration = &duration
		session.Status = "auto_closed"

		if err := j.attendanceRepo.Update(ctx, session); err != nil {
			slog.Error("Cron: Failed to auto-close attendance",
				"attendance_id", session.ID,
				"employee_id", session.EmployeeID,
				"error", err)
			continue
		}

		closedCount++
	}

	slog.Info("Cron: Auto-closed stale attendances", "count", closedCount)
	return nil
}
