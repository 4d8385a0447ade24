package handlers

import (
	"github.com/restoreline/dispatch-api-go/pkg/database"
	"github.com/restoreline/dispatch-api-go/pkg/models"
	"gorm.io/gorm"
)

// LoadRoster assembles the in-memory roster for a company from the
// technician, mode and day-schedule tables. The override is read from
// the technician_modes row, never from day rows, so the 7 copies in a
// legacy flat export can't diverge in memory.
func LoadRoster(db *gorm.DB, companyID uint) ([]models.Technician, error) {
	var techRows []database.Technician
	if err := db.Where("company_id = ?", companyID).Order("created_at").Find(&techRows).Error; err != nil {
		return nil, err
	}
	if len(techRows) == 0 {
		return []models.Technician{}, nil
	}

	ids := make([]string, 0, len(techRows))
	for _, tr := range techRows {
		ids = append(ids, tr.ID)
	}

	var modeRows []database.TechnicianMode
	if err := db.Where("technician_id IN ?", ids).Find(&modeRows).Error; err != nil {
		return nil, err
	}
	var dayRows []database.DayScheduleRow
	if err := db.Where("technician_id IN ?", ids).Find(&dayRows).Error; err != nil {
		return nil, err
	}

	type key struct {
		tech string
		mode string
	}
	daysBy := make(map[key][]models.DaySchedule)
	for _, dr := range dayRows {
		k := key{dr.TechnicianID, dr.Mode}
		daysBy[k] = append(daysBy[k], models.DaySchedule{
			Day:       dr.DayName,
			Enabled:   dr.Enabled,
			Is24Hours: dr.Is24Hours,
			Start:     dr.StartLabel,
			End:       dr.EndLabel,
		})
	}

	statesBy := make(map[key]*models.ModeState)
	for _, mr := range modeRows {
		k := key{mr.TechnicianID, mr.Mode}
		statesBy[k] = &models.ModeState{
			PriorityNumber: mr.PriorityNumber,
			PriorityLabel:  mr.PriorityLabel,
			Override:       models.Override(mr.Override),
			Days:           daysBy[k],
		}
	}

	roster := make([]models.Technician, 0, len(techRows))
	for _, tr := range techRows {
		tech := models.Technician{
			ID:    tr.ID,
			Name:  tr.Name,
			Role:  models.Role(tr.Role),
			Phone: tr.Phone,
			Email: tr.Email,
			Modes: make(map[models.DispatchMode]*models.ModeState, len(models.Modes)),
		}
		for _, m := range models.Modes {
			if ms, ok := statesBy[key{tr.ID, string(m)}]; ok {
				tech.Modes[m] = ms
			}
		}
		roster = append(roster, tech)
	}
	return roster, nil
}

// DefaultDayRows builds the 7 disabled day rows a new technician-mode
// pair starts with.
func DefaultDayRows(technicianID string, mode models.DispatchMode) []database.DayScheduleRow {
	rows := make([]database.DayScheduleRow, 0, len(models.DayNames))
	for _, name := range models.DayNames {
		rows = append(rows, database.DayScheduleRow{
			TechnicianID: technicianID,
			Mode:         string(mode),
			DayName:      name,
			Enabled:      false,
		})
	}
	return rows
}
