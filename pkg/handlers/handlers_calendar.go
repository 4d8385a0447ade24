package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/restoreline/dispatch-api-go/pkg/capacity"
	"github.com/restoreline/dispatch-api-go/pkg/database"
	"github.com/restoreline/dispatch-api-go/pkg/duty"
	"github.com/restoreline/dispatch-api-go/pkg/metrics"
	"github.com/restoreline/dispatch-api-go/pkg/models"
)

// parseAt reads an optional ?at= RFC3339 timestamp, defaulting to now.
func parseAt(c *gin.Context) (time.Time, bool) {
	raw := c.Query("at")
	if raw == "" {
		return time.Now(), true
	}
	at, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at must be RFC3339"})
		return time.Time{}, false
	}
	return at, true
}

func parseMode(c *gin.Context) (models.DispatchMode, bool) {
	mode := models.DispatchMode(c.Query("mode"))
	if !mode.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mode must be emergency or inspection"})
		return "", false
	}
	return mode, true
}

// GetStatus returns one technician's duty verdict for a dispatch mode
func (h *Handler) GetStatus(c *gin.Context) {
	company, ok := h.company(c)
	if !ok {
		return
	}
	mode, ok := parseMode(c)
	if !ok {
		return
	}
	at, ok := parseAt(c)
	if !ok {
		return
	}
	id := c.Param("id")

	roster, err := LoadRoster(h.DB, company.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load roster"})
		return
	}

	for i := range roster {
		if roster[i].ID != id {
			continue
		}
		ms := roster[i].Mode(mode)
		verdict := duty.Evaluate(ms.Override, ms.Days, at)
		metrics.DutyEvaluations.WithLabelValues(string(mode)).Inc()
		h.RecordUsage(c, 0, 1)
		c.JSON(http.StatusOK, gin.H{
			"technician_id": id,
			"mode":          mode,
			"verdict":       verdict,
		})
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "Technician not found"})
}

// RosterStatus returns duty verdicts for the whole roster. The console
// polls this about once a minute to keep duty badges current.
func (h *Handler) RosterStatus(c *gin.Context) {
	company, ok := h.company(c)
	if !ok {
		return
	}
	mode, ok := parseMode(c)
	if !ok {
		return
	}
	at, ok := parseAt(c)
	if !ok {
		return
	}

	roster, err := LoadRoster(h.DB, company.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load roster"})
		return
	}

	type entry struct {
		TechnicianID string       `json:"technician_id"`
		Name         string       `json:"name"`
		Role         models.Role  `json:"role"`
		Verdict      duty.Verdict `json:"verdict"`
	}

	onDuty := 0
	statuses := make([]entry, 0, len(roster))
	for i := range roster {
		ms := roster[i].Mode(mode)
		verdict := duty.Evaluate(ms.Override, ms.Days, at)
		if verdict.Active {
			onDuty++
		}
		statuses = append(statuses, entry{
			TechnicianID: roster[i].ID,
			Name:         roster[i].Name,
			Role:         roster[i].Role,
			Verdict:      verdict,
		})
	}

	metrics.DutyEvaluations.WithLabelValues(string(mode)).Add(float64(len(roster)))
	metrics.OnDutyTechnicians.WithLabelValues(string(mode)).Set(float64(onDuty))
	h.RecordUsage(c, len(roster), len(roster))

	c.JSON(http.StatusOK, gin.H{
		"mode":     mode,
		"at":       at.Format(time.RFC3339),
		"on_duty":  onDuty,
		"statuses": statuses,
	})
}

// GetCapacity returns the slot availability picture for a calendar slot.
// Hour is optional: without it the check runs at day granularity for
// month-view summaries.
func (h *Handler) GetCapacity(c *gin.Context) {
	company, ok := h.company(c)
	if !ok {
		return
	}
	mode, ok := parseMode(c)
	if !ok {
		return
	}

	day, err := time.Parse(capacity.DateFormat, c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	hour := 0
	hasHour := false
	if raw := c.Query("hour"); raw != "" {
		hour, err = strconv.Atoi(raw)
		if err != nil || hour < 0 || hour > 23 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "hour must be 0-23"})
			return
		}
		hasHour = true
	}

	roster, err := LoadRoster(h.DB, company.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load roster"})
		return
	}

	var bookingRows []database.Booking
	if err := h.DB.Where("company_id = ? AND date = ?", company.ID, c.Query("date")).
		Find(&bookingRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load bookings"})
		return
	}
	booked := make([]models.Booking, 0, len(bookingRows))
	for _, b := range bookingRows {
		booked = append(booked, models.Booking{
			TechnicianID: b.TechnicianID,
			Mode:         models.DispatchMode(b.Mode),
			Date:         b.Date,
			Hour:         b.Hour,
		})
	}

	slot := capacity.ForSlot(roster, mode, day, hour, hasHour, booked,
		company.MinimumSchedulingNotice, time.Now())
	if slot.Locked {
		metrics.LockedSlotChecks.Inc()
	}
	h.RecordUsage(c, len(roster), len(roster))

	c.JSON(http.StatusOK, slot)
}

// CreateBooking records a scheduled event occupying a technician for one
// calendar hour
func (h *Handler) CreateBooking(c *gin.Context) {
	company, ok := h.company(c)
	if !ok {
		return
	}

	var req struct {
		TechnicianID string              `json:"technician_id"`
		Mode         models.DispatchMode `json:"mode"`
		Date         string              `json:"date"`
		Hour         int                 `json:"hour"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Mode.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mode must be emergency or inspection"})
		return
	}
	if _, err := time.Parse(capacity.DateFormat, req.Date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	if req.Hour < 0 || req.Hour > 23 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hour must be 0-23"})
		return
	}

	var tech database.Technician
	if err := h.DB.Where("id = ? AND company_id = ?", req.TechnicianID, company.ID).
		First(&tech).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Technician not found"})
		return
	}

	booking := database.Booking{
		CompanyID:    company.ID,
		TechnicianID: req.TechnicianID,
		Mode:         string(req.Mode),
		Date:         req.Date,
		Hour:         req.Hour,
	}
	if err := h.DB.Create(&booking).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create booking"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": booking.ID})
}
