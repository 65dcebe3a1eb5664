package attendance

import (
	"fmt"
	"math"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/geo"
)

// EvaluateCheckIn classifies a check-in event against the attendance rule and
// the employee's shift window on the event's date. Missing coordinates are a
// hard failure; a location outside the geofence or a check-in too close to the
// shift end still yields a verdict, flagged rejected_outside_window.
func EvaluateCheckIn(rule AttendanceRule, def shift.ShiftDefinition, event CheckEvent) (EvaluationVerdict, error) {
	if event.Latitude == nil || event.Longitude == nil {
		return EvaluationVerdict{}, ErrLocationUnavailable
	}

	distance := geo.DistanceMeters(*event.Latitude, *event.Longitude, rule.OfficeLatitude, rule.OfficeLongitude)
	within := distance <= rule.RadiusMeters

	window, err := shift.ResolveWindow(def, event.Timestamp)
	if err != nil {
		return EvaluationVerdict{}, err
	}

	verdict := EvaluationVerdict{
		WithinGeofence: within,
		DistanceMeters: distance,
		TimingStatus:   TimingOnTime,
	}

	graceEnd := window.Start.Add(time.Duration(rule.MaxLateMinutes) * time.Minute)
	if event.Timestamp.After(graceEnd) {
		verdict.TimingStatus = TimingLate
		verdict.Minutes = wholeMinutes(event.Timestamp.Sub(window.Start))
	}

	// Checking in this close to the scheduled end is no longer meaningful.
	cutoff := window.End.Add(-time.Duration(rule.MaxLateCheckIn) * time.Minute)
	if event.Timestamp.After(cutoff) {
		verdict.TimingStatus = TimingRejectedOutsideWindow
		verdict.Minutes = 0
	}

	if !within {
		verdict.TimingStatus = TimingRejectedOutsideWindow
		verdict.Minutes = 0
	}

	return verdict, nil
}

// EvaluateCheckOut classifies a check-out event paired with the day's prior
// check-in. The shift window is resolved against the check-in's date so that
// night shifts spanning midnight are handled correctly.
func EvaluateCheckOut(rule AttendanceRule, def shift.ShiftDefinition, checkIn, checkOut CheckEvent) (EvaluationVerdict, error) {
	if checkOut.Latitude == nil || checkOut.Longitude == nil {
		return EvaluationVerdict{}, ErrLocationUnavailable
	}

	distance := geo.DistanceMeters(*checkOut.Latitude, *checkOut.Longitude, rule.OfficeLatitude, rule.OfficeLongitude)
	within := distance <= rule.RadiusMeters

	window, err := shift.ResolveWindow(def, checkIn.Timestamp)
	if err != nil {
		return EvaluationVerdict{}, err
	}

	verdict := EvaluationVerdict{
		WithinGeofence: within,
		DistanceMeters: distance,
	}

	lateLimit := window.End.Add(time.Duration(rule.MaxLateCheckOut) * time.Minute)
	switch {
	case checkOut.Timestamp.Before(window.End):
		verdict.TimingStatus = TimingEarly
		verdict.Minutes = wholeMinutes(window.End.Sub(checkOut.Timestamp))
	case !checkOut.Timestamp.After(lateLimit):
		verdict.TimingStatus = TimingOnTime
	default:
		// Excessive overtime is flagged, not rejected.
		verdict.TimingStatus = TimingLate
		verdict.Minutes = wholeMinutes(checkOut.Timestamp.Sub(window.End))
	}

	if !within {
		verdict.TimingStatus = TimingRejectedOutsideWindow
		verdict.Minutes = 0
	}

	worked := checkOut.Timestamp.Sub(checkIn.Timestamp)
	if worked < 0 {
		return EvaluationVerdict{}, ErrInvalidDuration
	}
	verdict.WorkDuration = FormatWorkDuration(worked)

	return verdict, nil
}

// FormatWorkDuration renders an elapsed duration as hh:mm:ss.
func FormatWorkDuration(d time.Duration) string {
	total := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}

func wholeMinutes(d time.Duration) int {
	return int(math.Floor(d.Minutes()))
}
