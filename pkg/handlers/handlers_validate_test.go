package handlers

import (
	"testing"

	"github.com/restoreline/dispatch-api-go/pkg/models"
)

func fullWeek() []models.DaySchedule {
	days := make([]models.DaySchedule, 0, 7)
	for _, name := range models.DayNames {
		days = append(days, models.DaySchedule{
			Day:     name,
			Enabled: true,
			Start:   "8:00 AM",
			End:     "6:00 PM",
		})
	}
	return days
}

func TestValidateSchedulePayload_Valid(t *testing.T) {
	p := SchedulePayload{
		Mode:     models.ModeEmergency,
		Override: models.OverrideNone,
		Days:     fullWeek(),
	}
	if reasons := ValidateSchedulePayload(&p); len(reasons) != 0 {
		t.Errorf("Expected valid payload, got reasons %v", reasons)
	}
}

func TestValidateSchedulePayload_MidnightEndIsValid(t *testing.T) {
	days := fullWeek()
	days[0].Start = "9:00 PM"
	days[0].End = "12:00 AM"

	p := SchedulePayload{Mode: models.ModeInspection, Override: models.OverrideNone, Days: days}
	if reasons := ValidateSchedulePayload(&p); len(reasons) != 0 {
		t.Errorf("Expected 12:00 AM end to be valid, got reasons %v", reasons)
	}
}

func TestValidateSchedulePayload_Rejections(t *testing.T) {
	badMode := SchedulePayload{Mode: "overnight", Override: models.OverrideNone, Days: fullWeek()}
	if reasons := ValidateSchedulePayload(&badMode); len(reasons) == 0 {
		t.Error("Expected unknown mode to be rejected")
	}

	badOverride := SchedulePayload{Mode: models.ModeEmergency, Override: "Sometimes", Days: fullWeek()}
	if reasons := ValidateSchedulePayload(&badOverride); len(reasons) == 0 {
		t.Error("Expected unknown override to be rejected")
	}

	short := SchedulePayload{Mode: models.ModeEmergency, Override: models.OverrideNone, Days: fullWeek()[:5]}
	if reasons := ValidateSchedulePayload(&short); len(reasons) == 0 {
		t.Error("Expected short week to be rejected")
	}

	badDay := fullWeek()
	badDay[2].Day = "Monday"
	p := SchedulePayload{Mode: models.ModeEmergency, Override: models.OverrideNone, Days: badDay}
	if reasons := ValidateSchedulePayload(&p); len(reasons) == 0 {
		t.Error("Expected long-form day name to be rejected")
	}

	inverted := fullWeek()
	inverted[0].Start = "6:00 PM"
	inverted[0].End = "8:00 AM"
	p = SchedulePayload{Mode: models.ModeEmergency, Override: models.OverrideNone, Days: inverted}
	if reasons := ValidateSchedulePayload(&p); len(reasons) == 0 {
		t.Error("Expected inverted window to be rejected")
	}

	quarterHour := fullWeek()
	quarterHour[0].Start = "8:15 AM"
	p = SchedulePayload{Mode: models.ModeEmergency, Override: models.OverrideNone, Days: quarterHour}
	if reasons := ValidateSchedulePayload(&p); len(reasons) == 0 {
		t.Error("Expected off-grid label to be rejected")
	}
}

func TestValidateSchedulePayload_DisabledDaysSkipLabelChecks(t *testing.T) {
	days := fullWeek()
	for i := range days {
		days[i].Enabled = false
		days[i].Start = ""
		days[i].End = ""
	}
	p := SchedulePayload{Mode: models.ModeEmergency, Override: models.OverrideNone, Days: days}
	if reasons := ValidateSchedulePayload(&p); len(reasons) != 0 {
		t.Errorf("Expected disabled days to skip label checks, got %v", reasons)
	}

	for i := range days {
		days[i].Enabled = true
		days[i].Is24Hours = true
	}
	if reasons := ValidateSchedulePayload(&p); len(reasons) != 0 {
		t.Errorf("Expected 24h days to skip label checks, got %v", reasons)
	}
}
