package services

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hariram-suresh/loom-harmony/v1/models"
)

// SetupSQLiteTestDB creates an in-memory SQLite database for testing
func SetupSQLiteTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("Failed to connect to SQLite test database: %v", err)
	}

	// Auto-migrate all models
	err = db.AutoMigrate(
		&models.Profile{},
		&models.Saree{},
		&models.Order{},
		&models.GovernmentScheme{},
		&models.SchemeApplication{},
		&models.WeaverMetric{},
		&models.Message{},
		&models.ProgressUpdate{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// RequireTestDB sets up a test database and fails the test outright if
// the database cannot be established.
func RequireTestDB(t *testing.T) *gorm.DB {
	db := SetupSQLiteTestDB(t)
	if db == nil {
		t.Fatal("Test database setup failed - cannot proceed with test")
	}
	return db
}

// StringPtr returns a pointer to the given string, for optional fields
func StringPtr(s string) *string {
	return &s
}

// Float64Ptr returns a pointer to the given float64, for optional fields
func Float64Ptr(f float64) *float64 {
	return &f
}
