package database

import (
	"testing"
	"time"

	. "github.com/vatger-pmp/pmp-server/internal/interfaces/operation"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testQueryTimeout = 5 * time.Second

// openTestDB spins up an isolated in-memory database with the full
// schema. One connection keeps every query on the same sqlite handle.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(
		&User{},
		&Registration{},
		&Training{},
		&TrainingMentor{},
		&TrainingSession{},
		&TrainingSessionTopic{},
		&CheckrideAvailability{},
		&Checkride{},
		&CheckrideAssessment{},
		&MentorInvite{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, cid int, role Role) *User {
	t.Helper()
	user := &User{Cid: cid, Name: "Test User", Email: "user@example.com", Role: role}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user %d: %v", cid, err)
	}
	return user
}
