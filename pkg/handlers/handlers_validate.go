package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/restoreline/dispatch-api-go/pkg/models"
	"github.com/restoreline/dispatch-api-go/pkg/timeslot"
)

// SchedulePayload is the schedule-editor save payload for one
// technician-mode pair.
type SchedulePayload struct {
	Mode     models.DispatchMode  `json:"mode"`
	Override models.Override      `json:"override"`
	Days     []models.DaySchedule `json:"days"`
}

// ValidateSchedulePayload checks a schedule payload and returns the
// reasons it is unusable, or nil. A payload that passes still produces
// off-duty verdicts for any day whose labels fail to parse at
// evaluation time; this guards the persistence write, not the evaluator.
func ValidateSchedulePayload(p *SchedulePayload) []string {
	var reasons []string

	if !p.Mode.Valid() {
		reasons = append(reasons, "mode must be emergency or inspection")
	}
	if !p.Override.Valid() {
		reasons = append(reasons, "override must be None, ForceActive or ForceOffDuty")
	}
	if len(p.Days) != len(models.DayNames) {
		reasons = append(reasons, "exactly 7 day entries are required")
		return reasons
	}

	seen := make(map[string]bool, len(p.Days))
	for _, d := range p.Days {
		known := false
		for _, name := range models.DayNames {
			if d.Day == name {
				known = true
				break
			}
		}
		if !known {
			reasons = append(reasons, "unknown day name: "+d.Day)
			continue
		}
		if seen[d.Day] {
			reasons = append(reasons, "duplicate day entry: "+d.Day)
			continue
		}
		seen[d.Day] = true

		if !d.Enabled || d.Is24Hours {
			continue
		}
		if !timeslot.Valid(d.Start) {
			reasons = append(reasons, d.Day+": start must be a half-hour label")
			continue
		}
		if !timeslot.Valid(d.End) {
			reasons = append(reasons, d.Day+": end must be a half-hour label")
			continue
		}
		start, _ := timeslot.ToMinutes(d.Start, false)
		end, _ := timeslot.ToMinutes(d.End, true)
		if start >= end {
			reasons = append(reasons, d.Day+": start must be before end")
		}
	}
	return reasons
}

// ValidateInput handles the schedule-payload validation request
func (h *Handler) ValidateInput(c *gin.Context) {
	var payload SchedulePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	if reasons := ValidateSchedulePayload(&payload); len(reasons) > 0 {
		c.JSON(http.StatusOK, gin.H{
			"valid":   false,
			"reasons": reasons,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"stats": gin.H{
			"day_count": len(payload.Days),
		},
	})
}
