package database

import (
	"fmt"

	"medcare-api/internal/domain/entity"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NewSQLiteConnection opens a SQLite database. An empty path means a private in-memory database.
func NewSQLiteConnection(path string, debug bool) (*gorm.DB, error) {
	if path == "" {
		path = ":memory:"
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormLogger(debug),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	// one connection: an in-memory database lives and dies with it
	sqlDB.SetMaxOpenConns(1)

	logrus.Infof("Opened SQLite database at %s", path)

	return db, nil
}

// Models lists every persisted entity in dependency order.
func Models() []interface{} {
	return []interface{}{
		&entity.Role{},
		&entity.User{},
		&entity.Department{},
		&entity.Specialization{},
		&entity.Insurance{},
		&entity.Doctor{},
		&entity.DoctorCalendar{},
		&entity.Patient{},
		&entity.PatientAllergy{},
		&entity.PatientMedication{},
		&entity.TimeSlot{},
		&entity.Appointment{},
		&entity.MedicalRecord{},
		&entity.ChatMessage{},
		&entity.Notification{},
		&entity.ChatbotLog{},
		&entity.AuditLog{},
	}
}

// activeSlotIndex allows at most one non-cancelled appointment per slot.
// The statement is valid on both SQLite and PostgreSQL.
const activeSlotIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_appointments_active_slot ON appointments (slot_id) WHERE status <> 'Cancelled'`

// AutoMigrate creates the schema from the models, adds the partial unique
// index gorm tags cannot express and seeds the fixed roles.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}
	if err := db.Exec(activeSlotIndex).Error; err != nil {
		return fmt.Errorf("failed to create active slot index: %w", err)
	}
	return SeedRoles(db)
}

// SeedRoles inserts the admin, doctor and patient roles if missing.
func SeedRoles(db *gorm.DB) error {
	roles := []entity.Role{
		{ID: entity.RoleIDAdmin, RoleName: string(entity.RoleAdmin), Description: "System administrator"},
		{ID: entity.RoleIDDoctor, RoleName: string(entity.RoleDoctor), Description: "Medical doctor"},
		{ID: entity.RoleIDPatient, RoleName: string(entity.RolePatient), Description: "Patient"},
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&roles).Error
}
