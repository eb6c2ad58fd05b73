package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/recontrack/internal/domain/vehicle"
	"github.com/rpggio/recontrack/internal/domain/workflow"
	"github.com/stretchr/testify/require"
)

// NewTestDB creates a new in-memory SQLite database for testing
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(context.Background(), ":memory:")
	require.NoError(t, err, "failed to create test database")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

var testClock = time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC)

// insertVehicle stores a vehicle with an initialized workflow
func insertVehicle(t *testing.T, db *DB, stock string, dateIn time.Time) *vehicle.Vehicle {
	t.Helper()

	engine := workflow.NewEngine(func() time.Time { return testClock })
	v := &vehicle.Vehicle{
		StockNumber: stock,
		Year:        2019,
		Make:        "Honda",
		Model:       "Civic",
		Color:       "Blue",
		DateIn:      dateIn,
		CreatedAt:   testClock,
		UpdatedAt:   testClock,
	}
	engine.GetOrInit(v)
	engine.Refresh(v)
	require.NoError(t, NewVehicleRepository(db).Create(context.Background(), v))
	return v
}

// TestMigrations verifies that migrations run successfully
func TestMigrations(t *testing.T) {
	db := NewTestDB(t)

	tables := []string{
		"schema_version",
		"detailers",
		"vehicles",
		"activity_log",
		"vehicles_fts",
	}

	for _, table := range tables {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err, "failed to query table %s", table)
		require.Equal(t, 1, count, "table %s not found", table)
	}
}

// TestMigrations_Idempotent verifies a second run applies nothing
func TestMigrations_Idempotent(t *testing.T) {
	db := NewTestDB(t)
	require.NoError(t, db.RunMigrations(context.Background()))

	var versions int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&versions))
	require.Equal(t, 1, versions)
}

// TestForeignKeys verifies that foreign key constraints are enabled
func TestForeignKeys(t *testing.T) {
	db := NewTestDB(t)

	var enabled int
	err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled)
	require.NoError(t, err)
	require.Equal(t, 1, enabled, "foreign keys not enabled")
}

func TestMigrationVersion(t *testing.T) {
	v, err := migrationVersion("001_initial_schema.up.sql")
	require.NoError(t, err)
	require.Equal(t, 1, v)

	_, err = migrationVersion("initial.sql")
	require.Error(t, err)
}
