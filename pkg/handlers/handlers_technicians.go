package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/restoreline/dispatch-api-go/pkg/database"
	"github.com/restoreline/dispatch-api-go/pkg/metrics"
	"github.com/restoreline/dispatch-api-go/pkg/models"
	"github.com/restoreline/dispatch-api-go/pkg/ranking"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListTechnicians returns the company roster with per-mode state
func (h *Handler) ListTechnicians(c *gin.Context) {
	company, ok := h.company(c)
	if !ok {
		return
	}

	roster, err := LoadRoster(h.DB, company.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load roster"})
		return
	}

	h.RecordUsage(c, len(roster), 0)
	c.JSON(http.StatusOK, gin.H{"technicians": roster})
}

// CreateTechnician onboards a technician: sentinel ranks, no override,
// and a disabled 7-day schedule for both dispatch modes.
func (h *Handler) CreateTechnician(c *gin.Context) {
	company, ok := h.company(c)
	if !ok {
		return
	}

	var req struct {
		Name  string      `json:"name"`
		Role  models.Role `json:"role"`
		Phone string      `json:"phone"`
		Email string      `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	if !req.Role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role must be Lead or Assistant"})
		return
	}

	tech := database.Technician{
		ID:        uuid.NewString(),
		CompanyID: company.ID,
		Name:      req.Name,
		Role:      string(req.Role),
		Phone:     req.Phone,
		Email:     req.Email,
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&tech).Error; err != nil {
			return err
		}
		for _, mode := range models.Modes {
			modeRow := database.TechnicianMode{
				TechnicianID:   tech.ID,
				Mode:           string(mode),
				PriorityNumber: models.Unranked,
				PriorityLabel:  "None",
				Override:       string(models.OverrideNone),
			}
			if err := tx.Create(&modeRow).Error; err != nil {
				return err
			}
			rows := DefaultDayRows(tech.ID, mode)
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create technician"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": tech.ID})
}

// UpdateRank applies a priority edit (and optionally a role change) and
// renumbers every affected cohort so ranks stay dense. The whole cohort
// write happens in one transaction: either every member's rank lands or
// none does.
func (h *Handler) UpdateRank(c *gin.Context) {
	company, ok := h.company(c)
	if !ok {
		return
	}
	id := c.Param("id")

	var req struct {
		Mode          models.DispatchMode `json:"mode"`
		RequestedRank int                 `json:"requested_rank"`
		Role          models.Role         `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Mode.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mode must be emergency or inspection"})
		return
	}
	if (req.RequestedRank < 1 || req.RequestedRank > 6) && req.RequestedRank != models.Unranked {
		c.JSON(http.StatusBadRequest, gin.H{"error": "requested_rank must be 1-6 or 99"})
		return
	}

	var tech database.Technician
	if err := h.DB.Where("id = ? AND company_id = ?", id, company.ID).First(&tech).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Technician not found"})
		return
	}

	oldRole := models.Role(tech.Role)
	newRole := oldRole
	if req.Role != "" {
		if !req.Role.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "role must be Lead or Assistant"})
			return
		}
		newRole = req.Role
	}
	roleChanged := newRole != oldRole

	// The role column is global, so a role change moves the technician
	// between cohorts in BOTH dispatch modes; every affected cohort must
	// come out dense. In the non-edited mode the technician keeps its
	// stored rank as the effective rank.
	modesToFix := []models.DispatchMode{req.Mode}
	if roleChanged {
		modesToFix = models.Modes
	}

	type cohortWrite struct {
		mode  models.DispatchMode
		ranks map[string]int
	}
	writes := make([]cohortWrite, 0, 2*len(modesToFix))
	var finalRanks map[string]int

	for _, m := range modesToFix {
		newCohort, err := h.loadCohort(company.ID, newRole, m, id, roleChanged)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load cohort"})
			return
		}

		requested := req.RequestedRank
		if m != req.Mode {
			requested = models.Unranked
			for _, e := range newCohort {
				if e.ID == id {
					requested = e.Rank
					break
				}
			}
		}
		newRanks := ranking.ReRank(newCohort, id, requested)
		writes = append(writes, cohortWrite{m, newRanks})
		if m == req.Mode {
			finalRanks = newRanks
		}

		// A role change leaves a gap in the old cohort; densify it too.
		if roleChanged {
			oldCohort, err := h.loadCohort(company.ID, oldRole, m, id, false)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load cohort"})
				return
			}
			remaining := oldCohort[:0]
			for _, e := range oldCohort {
				if e.ID != id {
					remaining = append(remaining, e)
				}
			}
			writes = append(writes, cohortWrite{m, ranking.ReRank(remaining, "", 0)})
		}
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if roleChanged {
			if err := tx.Model(&database.Technician{}).Where("id = ?", id).
				Update("role", string(newRole)).Error; err != nil {
				return err
			}
		}
		for _, w := range writes {
			if err := persistRanks(tx, w.mode, w.ranks); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		metrics.RankWriteFailures.Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save cohort ranks; no changes were applied"})
		return
	}

	metrics.RankEdits.Inc()
	h.RecordUsage(c, len(finalRanks), 0)

	labels := make(map[string]string, len(finalRanks))
	for techID, rank := range finalRanks {
		labels[techID] = ranking.Label(rank)
	}
	c.JSON(http.StatusOK, gin.H{
		"ranks":  finalRanks,
		"labels": labels,
	})
}

// loadCohort gathers rank entries for every technician of one role. With
// includeEdited set, the edited technician is included even though its
// stored role still differs (a pending role change).
func (h *Handler) loadCohort(companyID uint, role models.Role, mode models.DispatchMode,
	editedID string, includeEdited bool) ([]ranking.Entry, error) {

	q := h.DB.Where("company_id = ? AND role = ?", companyID, string(role))
	if includeEdited {
		q = h.DB.Where("company_id = ? AND (role = ? OR id = ?)", companyID, string(role), editedID)
	}

	var techRows []database.Technician
	if err := q.Order("created_at").Find(&techRows).Error; err != nil {
		return nil, err
	}

	entries := make([]ranking.Entry, 0, len(techRows))
	for _, tr := range techRows {
		var modeRow database.TechnicianMode
		rank := models.Unranked
		if err := h.DB.Where("technician_id = ? AND mode = ?", tr.ID, string(mode)).
			First(&modeRow).Error; err == nil {
			rank = modeRow.PriorityNumber
		}
		entries = append(entries, ranking.Entry{ID: tr.ID, Rank: rank})
	}
	return entries, nil
}

// persistRanks upserts the (priority_number, priority_label) pair for
// every cohort member in the given rank map.
func persistRanks(tx *gorm.DB, mode models.DispatchMode, ranks map[string]int) error {
	for techID, rank := range ranks {
		row := database.TechnicianMode{
			TechnicianID:   techID,
			Mode:           string(mode),
			PriorityNumber: rank,
			PriorityLabel:  ranking.Label(rank),
		}
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "technician_id"}, {Name: "mode"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"priority_number": rank,
				"priority_label":  ranking.Label(rank),
			}),
		}).Create(&row).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// UpdateSchedule replaces a technician's 7-day schedule for one dispatch
// mode (delete-then-insert) and stores the mode-level override.
func (h *Handler) UpdateSchedule(c *gin.Context) {
	company, ok := h.company(c)
	if !ok {
		return
	}
	id := c.Param("id")

	var req SchedulePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if reasons := ValidateSchedulePayload(&req); len(reasons) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid schedule", "reasons": reasons})
		return
	}

	var tech database.Technician
	if err := h.DB.Where("id = ? AND company_id = ?", id, company.ID).First(&tech).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Technician not found"})
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		row := database.TechnicianMode{
			TechnicianID:   id,
			Mode:           string(req.Mode),
			PriorityNumber: models.Unranked,
			PriorityLabel:  "None",
			Override:       string(req.Override),
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "technician_id"}, {Name: "mode"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"override": string(req.Override),
			}),
		}).Create(&row).Error; err != nil {
			return err
		}

		if err := tx.Where("technician_id = ? AND mode = ?", id, string(req.Mode)).
			Delete(&database.DayScheduleRow{}).Error; err != nil {
			return err
		}
		rows := make([]database.DayScheduleRow, 0, len(req.Days))
		for _, d := range req.Days {
			rows = append(rows, database.DayScheduleRow{
				TechnicianID: id,
				Mode:         string(req.Mode),
				DayName:      d.Day,
				Enabled:      d.Enabled,
				Is24Hours:    d.Is24Hours,
				StartLabel:   d.Start,
				EndLabel:     d.End,
			})
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save schedule"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Schedule saved"})
}

// UpdateNotice sets the company's minimum scheduling notice in hours
func (h *Handler) UpdateNotice(c *gin.Context) {
	company, ok := h.company(c)
	if !ok {
		return
	}

	var req struct {
		Hours int `json:"hours"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Hours < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hours must be non-negative"})
		return
	}

	if err := h.DB.Model(&database.Company{}).Where("id = ?", company.ID).
		Update("minimum_scheduling_notice", req.Hours).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update notice policy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"minimum_scheduling_notice": req.Hours})
}
