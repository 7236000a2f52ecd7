package database

import (
	"path/filepath"
	"testing"

	"workdesk/backend/internal/config"
	"workdesk/backend/internal/models"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Database: config.DatabaseConfig{
			Driver:       "sqlite",
			Path:         filepath.Join(t.TempDir(), "test.db"),
			MaxOpenConns: 5,
			MaxIdleConns: 2,
		},
	}
}

func TestConnect_Sqlite(t *testing.T) {
	db, err := Connect(testConfig(t))
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to access connection pool: %v", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		t.Errorf("Expected database to be reachable: %v", err)
	}

	if sqlDB.Stats().MaxOpenConnections != 5 {
		t.Errorf("Expected max open conns 5, got %d", sqlDB.Stats().MaxOpenConnections)
	}
}

func TestConnect_UnsupportedDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.Driver = "oracle"

	if _, err := Connect(cfg); err == nil {
		t.Error("Expected error for unsupported driver")
	}
}

func TestMigrate(t *testing.T) {
	db, err := Connect(testConfig(t))
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}

	if err := Migrate(db); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	for _, model := range []interface{}{&models.Todo{}, &models.WorkSession{}, &models.HealthLog{}} {
		if !db.Migrator().HasTable(model) {
			t.Errorf("Expected table for %T to exist after migration", model)
		}
	}
}
