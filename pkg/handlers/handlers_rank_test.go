package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/restoreline/dispatch-api-go/pkg/database"
	"github.com/restoreline/dispatch-api-go/pkg/models"
	"github.com/restoreline/dispatch-api-go/pkg/ranking"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("could not open test database: %v", err)
	}
	err = db.AutoMigrate(&database.Company{}, &database.Technician{}, &database.TechnicianMode{},
		&database.DayScheduleRow{}, &database.Booking{}, &database.APIKey{}, &database.APIUsage{})
	if err != nil {
		t.Fatalf("could not migrate test database: %v", err)
	}
	return db
}

func seedTechnician(t *testing.T, db *gorm.DB, companyID uint, id string, role models.Role, ranks map[models.DispatchMode]int) {
	t.Helper()
	tech := database.Technician{ID: id, CompanyID: companyID, Name: id, Role: string(role)}
	if err := db.Create(&tech).Error; err != nil {
		t.Fatalf("could not seed technician %s: %v", id, err)
	}
	for mode, rank := range ranks {
		row := database.TechnicianMode{
			TechnicianID:   id,
			Mode:           string(mode),
			PriorityNumber: rank,
			PriorityLabel:  ranking.Label(rank),
			Override:       string(models.OverrideNone),
		}
		if err := db.Create(&row).Error; err != nil {
			t.Fatalf("could not seed mode row for %s: %v", id, err)
		}
	}
}

func storedRank(t *testing.T, db *gorm.DB, id string, mode models.DispatchMode) int {
	t.Helper()
	var row database.TechnicianMode
	if err := db.Where("technician_id = ? AND mode = ?", id, string(mode)).First(&row).Error; err != nil {
		t.Fatalf("could not read mode row for %s/%s: %v", id, mode, err)
	}
	return row.PriorityNumber
}

func TestUpdateRank_RoleChangeRepairsBothModes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testDB(t, "rolechange")

	company := database.Company{Name: "acme"}
	if err := db.Create(&company).Error; err != nil {
		t.Fatalf("could not seed company: %v", err)
	}
	bothModes := func(rank int) map[models.DispatchMode]int {
		return map[models.DispatchMode]int{models.ModeEmergency: rank, models.ModeInspection: rank}
	}
	seedTechnician(t, db, company.ID, "lead-1", models.RoleLead, bothModes(1))
	seedTechnician(t, db, company.ID, "lead-2", models.RoleLead, bothModes(2))
	seedTechnician(t, db, company.ID, "asst-1", models.RoleAssistant, bothModes(1))

	h := &Handler{DB: db}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "lead-1"}}
	c.Set("company", &company)
	c.Request = httptest.NewRequest(http.MethodPut, "/api/technicians/lead-1/rank",
		strings.NewReader(`{"mode":"emergency","requested_rank":1,"role":"Assistant"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.UpdateRank(c)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var tech database.Technician
	if err := db.First(&tech, "id = ?", "lead-1").Error; err != nil {
		t.Fatalf("could not reload technician: %v", err)
	}
	if tech.Role != string(models.RoleAssistant) {
		t.Errorf("Expected role Assistant, got %s", tech.Role)
	}

	// The role column is global, so every cohort in BOTH modes must come
	// out dense: no duplicate ranks in the Assistant cohorts, no gap left
	// in the Lead cohorts.
	for _, mode := range models.Modes {
		if got := storedRank(t, db, "lead-1", mode); got != 1 {
			t.Errorf("%s: expected moved technician at rank 1, got %d", mode, got)
		}
		if got := storedRank(t, db, "asst-1", mode); got != 2 {
			t.Errorf("%s: expected prior occupant pushed to rank 2, got %d", mode, got)
		}
		if got := storedRank(t, db, "lead-2", mode); got != 1 {
			t.Errorf("%s: expected old cohort densified to rank 1, got %d", mode, got)
		}
	}

	var row database.TechnicianMode
	if err := db.Where("technician_id = ? AND mode = ?", "lead-2", string(models.ModeInspection)).
		First(&row).Error; err != nil {
		t.Fatalf("could not read lead-2 inspection row: %v", err)
	}
	if row.PriorityLabel != "1st Priority" {
		t.Errorf("Expected densified label 1st Priority, got %s", row.PriorityLabel)
	}
}

func TestUpdateRank_SameRoleTouchesOnlyEditedMode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testDB(t, "samerole")

	company := database.Company{Name: "acme"}
	if err := db.Create(&company).Error; err != nil {
		t.Fatalf("could not seed company: %v", err)
	}
	seedTechnician(t, db, company.ID, "lead-1", models.RoleLead,
		map[models.DispatchMode]int{models.ModeEmergency: 1, models.ModeInspection: 1})
	seedTechnician(t, db, company.ID, "lead-2", models.RoleLead,
		map[models.DispatchMode]int{models.ModeEmergency: 2, models.ModeInspection: 2})

	h := &Handler{DB: db}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "lead-2"}}
	c.Set("company", &company)
	c.Request = httptest.NewRequest(http.MethodPut, "/api/technicians/lead-2/rank",
		strings.NewReader(`{"mode":"emergency","requested_rank":1}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.UpdateRank(c)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	if got := storedRank(t, db, "lead-2", models.ModeEmergency); got != 1 {
		t.Errorf("Expected edited technician at emergency rank 1, got %d", got)
	}
	if got := storedRank(t, db, "lead-1", models.ModeEmergency); got != 2 {
		t.Errorf("Expected prior occupant at emergency rank 2, got %d", got)
	}
	// Inspection ranks are untouched by a same-role emergency edit.
	if got := storedRank(t, db, "lead-1", models.ModeInspection); got != 1 {
		t.Errorf("Expected inspection rank 1 untouched, got %d", got)
	}
	if got := storedRank(t, db, "lead-2", models.ModeInspection); got != 2 {
		t.Errorf("Expected inspection rank 2 untouched, got %d", got)
	}
}
