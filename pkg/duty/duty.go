// Package duty decides whether a technician is on duty for a dispatch
// mode at a point in time, given the weekly schedule and the mode-level
// override. Evaluation is a pure function: malformed schedule data
// degrades to off duty, it never errors.
package duty

import (
	"time"

	"github.com/restoreline/dispatch-api-go/pkg/models"
	"github.com/restoreline/dispatch-api-go/pkg/timeslot"
)

// Verdict is the outcome of a duty evaluation.
type Verdict struct {
	StatusLabel string `json:"status_label"`
	Active      bool   `json:"active"`
	IsOverride  bool   `json:"is_override"`
}

// The five terminal states. No others exist.
const (
	StatusOnDutyForced  = "On Duty (Forced)"
	StatusOffDutyForced = "Off Duty (Forced)"
	StatusOnDuty24h     = "On Duty (24h)"
	StatusOnDuty        = "On Duty"
	StatusOffDuty       = "Off Duty"
)

// WeekdayAbbrev resolves t to the three-letter weekday label stored
// under day_name (Mon..Sun).
func WeekdayAbbrev(t time.Time) string {
	return t.Weekday().String()[:3]
}

// Evaluate runs the duty decision in strict order, first match wins:
// override, then day lookup and the enabled flag, then 24-hour days,
// then the half-open [start, end) minute window.
func Evaluate(override models.Override, days []models.DaySchedule, at time.Time) Verdict {
	switch override {
	case models.OverrideActive:
		return Verdict{StatusLabel: StatusOnDutyForced, Active: true, IsOverride: true}
	case models.OverrideOffDuty:
		return Verdict{StatusLabel: StatusOffDutyForced, Active: false, IsOverride: true}
	}

	today := WeekdayAbbrev(at)
	var entry *models.DaySchedule
	for i := range days {
		if days[i].Day == today {
			entry = &days[i]
			break
		}
	}
	if entry == nil || !entry.Enabled {
		return Verdict{StatusLabel: StatusOffDuty}
	}

	if entry.Is24Hours {
		return Verdict{StatusLabel: StatusOnDuty24h, Active: true}
	}

	start, okStart := timeslot.ToMinutes(entry.Start, false)
	end, okEnd := timeslot.ToMinutes(entry.End, true)
	if !okStart || !okEnd {
		return Verdict{StatusLabel: StatusOffDuty}
	}

	nowMinutes := at.Hour()*60 + at.Minute()
	if start <= nowMinutes && nowMinutes < end {
		return Verdict{StatusLabel: StatusOnDuty, Active: true}
	}
	return Verdict{StatusLabel: StatusOffDuty}
}

// ActiveOnDay reports day-granularity availability for month-view
// summaries: overrides still win, otherwise the day's enabled flag
// decides without looking at hours.
func ActiveOnDay(override models.Override, days []models.DaySchedule, day time.Time) bool {
	switch override {
	case models.OverrideActive:
		return true
	case models.OverrideOffDuty:
		return false
	}

	label := WeekdayAbbrev(day)
	for i := range days {
		if days[i].Day == label {
			return days[i].Enabled
		}
	}
	return false
}
