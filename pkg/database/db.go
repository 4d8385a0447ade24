package database

import (
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Company represents the companies table. MinimumSchedulingNotice is the
// lead time in hours before a bookable inspection slot.
type Company struct {
	ID                      uint      `gorm:"primaryKey" json:"id"`
	Name                    string    `gorm:"not null" json:"name"`
	MinimumSchedulingNotice int       `gorm:"default:0" json:"minimum_scheduling_notice"`
	CreatedAt               time.Time `json:"created_at"`
}

// Technician represents the technicians table.
type Technician struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	CompanyID uint      `gorm:"index;not null" json:"company_id"`
	Name      string    `gorm:"not null" json:"name"`
	Role      string    `gorm:"not null" json:"role"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// TechnicianMode represents the technician_modes table: one row per
// technician per dispatch mode carrying the priority pair and the
// mode-level duty override.
type TechnicianMode struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	TechnicianID   string `gorm:"uniqueIndex:idx_tech_mode;not null" json:"technician_id"`
	Mode           string `gorm:"uniqueIndex:idx_tech_mode;not null" json:"mode"`
	PriorityNumber int    `gorm:"default:99" json:"priority_number"`
	PriorityLabel  string `gorm:"default:None" json:"priority_label"`
	Override       string `gorm:"default:None" json:"override"`
}

// DayScheduleRow represents the day_schedules table: exactly 7 rows per
// technician-mode pair, keyed by the three-letter day_name. The whole
// set is replaced wholesale on schedule edits.
type DayScheduleRow struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	TechnicianID string `gorm:"index:idx_sched_tech_mode;not null" json:"technician_id"`
	Mode         string `gorm:"index:idx_sched_tech_mode;not null" json:"mode"`
	DayName      string `gorm:"not null" json:"day_name"`
	Enabled      bool   `gorm:"default:false" json:"enabled"`
	Is24Hours    bool   `gorm:"default:false" json:"is_24_hours"`
	StartLabel   string `json:"start_label"`
	EndLabel     string `json:"end_label"`
}

// Booking represents the bookings table: a scheduled event occupying a
// technician for one calendar hour.
type Booking struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CompanyID    uint      `gorm:"index;not null" json:"company_id"`
	TechnicianID string    `gorm:"index;not null" json:"technician_id"`
	Mode         string    `gorm:"not null" json:"mode"`
	Date         string    `gorm:"index;not null" json:"date"` // YYYY-MM-DD
	Hour         int       `gorm:"not null" json:"hour"`
	CreatedAt    time.Time `json:"created_at"`
}

// APIKey represents the api_keys table
type APIKey struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Key        string     `gorm:"unique;not null" json:"key"`
	Name       string     `gorm:"not null" json:"name"`
	KeyPreview string     `json:"key_preview"`
	CompanyID  uint       `gorm:"index" json:"company_id"`
	RateLimit  int        `gorm:"default:10000" json:"rate_limit"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsed   *time.Time `json:"last_used"`
}

// APIUsage represents the api_usage table
type APIUsage struct {
	ID               uint   `gorm:"primaryKey" json:"id"`
	KeyID            uint   `gorm:"uniqueIndex:idx_key_date;not null" json:"key_id"`
	Date             string `gorm:"uniqueIndex:idx_key_date;not null" json:"date"`
	RequestCount     int    `gorm:"default:0" json:"request_count"`
	TotalTechnicians int    `gorm:"default:0" json:"total_technicians"`
	TotalEvaluations int    `gorm:"default:0" json:"total_evaluations"`
}

// MasterUser represents the master_users table
type MasterUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// InitDB initializes the database connection and migrates the schema
func InitDB() *gorm.DB {
	var db *gorm.DB
	var err error

	dsn := os.Getenv("DATABASE_URL")
	if dsn != "" {
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	} else {
		dbPath := os.Getenv("DATA_PATH")
		if dbPath == "" {
			dbPath = "dispatch.db"
		}
		db, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	}

	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	// Auto Migration
	db.AutoMigrate(&Company{}, &Technician{}, &TechnicianMode{}, &DayScheduleRow{},
		&Booking{}, &APIKey{}, &APIUsage{}, &MasterUser{})

	return db
}
