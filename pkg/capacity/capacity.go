// Package capacity computes calendar slot availability: how many
// on-duty technicians of each role remain unbooked in an hour, and
// whether the slot is still bookable under the company's minimum
// scheduling notice. It estimates remaining slack only; it never
// reserves or commits anything.
package capacity

import (
	"time"

	"github.com/restoreline/dispatch-api-go/pkg/duty"
	"github.com/restoreline/dispatch-api-go/pkg/models"
)

// Slot is the availability picture for one calendar slot.
type Slot struct {
	OnDuty          int                 `json:"on_duty"`
	AvailableByRole map[models.Role]int `json:"available_by_role"`
	Locked          bool                `json:"locked"`
}

// DateFormat is the calendar date layout used by bookings.
const DateFormat = "2006-01-02"

// Locked reports whether a slot falls inside the minimum-notice
// blackout. Emergency slots are never locked: emergencies bypass the
// advance-notice policy.
func Locked(slot time.Time, mode models.DispatchMode, noticeHours int, now time.Time) bool {
	if mode == models.ModeEmergency {
		return false
	}
	return slot.Before(now.Add(time.Duration(noticeHours) * time.Hour))
}

// ForSlot computes the slot picture for one date and dispatch mode.
// With hasHour set the duty check runs at minute granularity at
// day+hour:00; without it, the coarser day-level check is used (month
// view). Booked events overlapping the same date (and hour, when given)
// are subtracted per role, resolved through the roster.
func ForSlot(roster []models.Technician, mode models.DispatchMode, day time.Time,
	hour int, hasHour bool, booked []models.Booking, noticeHours int, now time.Time) Slot {

	slotTime := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())

	onDutyByRole := make(map[models.Role]int)
	onDuty := 0
	roleByID := make(map[string]models.Role, len(roster))
	for i := range roster {
		tech := &roster[i]
		roleByID[tech.ID] = tech.Role
		ms := tech.Mode(mode)

		var active bool
		if hasHour {
			active = duty.Evaluate(ms.Override, ms.Days, slotTime).Active
		} else {
			active = duty.ActiveOnDay(ms.Override, ms.Days, day)
		}
		if !active {
			continue
		}
		onDuty++
		onDutyByRole[tech.Role]++
	}

	bookedByRole := make(map[models.Role]int)
	date := day.Format(DateFormat)
	for _, b := range booked {
		if b.Date != date || b.Mode != mode {
			continue
		}
		if hasHour && b.Hour != hour {
			continue
		}
		role, ok := roleByID[b.TechnicianID]
		if !ok {
			continue
		}
		bookedByRole[role]++
	}

	available := make(map[models.Role]int, len(onDutyByRole))
	for role, n := range onDutyByRole {
		remaining := n - bookedByRole[role]
		if remaining < 0 {
			remaining = 0
		}
		available[role] = remaining
	}

	return Slot{
		OnDuty:          onDuty,
		AvailableByRole: available,
		Locked:          Locked(slotTime, mode, noticeHours, now),
	}
}
