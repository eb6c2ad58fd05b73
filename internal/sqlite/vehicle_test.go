package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/recontrack/internal/domain/activity"
	"github.com/rpggio/recontrack/internal/domain/detailer"
	"github.com/rpggio/recontrack/internal/domain/vehicle"
	"github.com/rpggio/recontrack/internal/domain/workflow"
	"github.com/rpggio/recontrack/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestVehicleRepository_CreateGet(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	dateIn := time.Date(2025, 5, 19, 9, 0, 0, 0, time.UTC)

	created := insertVehicle(t, db, "A1234", dateIn)

	repo := NewVehicleRepository(db)
	got, err := repo.Get(ctx, "a1234")
	require.NoError(t, err)
	require.Equal(t, "A1234", got.StockNumber)
	require.Equal(t, "Honda", got.Make)
	require.Equal(t, dateIn, got.DateIn)
	require.Nil(t, got.DateOut)
	require.Equal(t, workflow.StageNewArrival, got.Status)
	require.Equal(t, created.Workflow, got.Workflow)
}

func TestVehicleRepository_CreateDuplicate(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertVehicle(t, db, "A1234", testClock)

	dup := &vehicle.Vehicle{StockNumber: "a1234", Status: workflow.StageNewArrival, DateIn: testClock, CreatedAt: testClock, UpdatedAt: testClock}
	err := NewVehicleRepository(db).Create(ctx, dup)
	require.ErrorIs(t, err, repository.ErrConflict)
}

func TestVehicleRepository_GetNotFound(t *testing.T) {
	db := NewTestDB(t)
	_, err := NewVehicleRepository(db).Get(context.Background(), "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestVehicleRepository_UpdateWorkflow(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewVehicleRepository(db)
	engine := workflow.NewEngine(func() time.Time { return testClock })

	v := insertVehicle(t, db, "A1234", testClock.Add(-72*time.Hour))
	for _, id := range workflow.SubSteps() {
		require.NoError(t, engine.SetSubStepCompletion(v.Workflow, id, true, nil))
	}
	require.NoError(t, engine.SetStageCompletion(v.Workflow, workflow.StageSold, true, nil))
	engine.Refresh(v)
	v.SetDateOut(testClock)
	v.Notes = "sold on the spot"
	require.NoError(t, repo.Update(ctx, v))

	got, err := repo.Get(ctx, "A1234")
	require.NoError(t, err)
	require.Equal(t, workflow.StageSold, got.Status)
	require.Equal(t, "sold on the spot", got.Notes)
	require.NotNil(t, got.DateOut)
	require.Equal(t, testClock, *got.DateOut)
	require.True(t, got.Workflow.IsCompleted(workflow.StageMechanical))
	require.Equal(t, v.Workflow, got.Workflow)
}

func TestVehicleRepository_UpdateMissing(t *testing.T) {
	db := NewTestDB(t)
	v := &vehicle.Vehicle{StockNumber: "nope", Status: workflow.StageNewArrival, DateIn: testClock, UpdatedAt: testClock}
	err := NewVehicleRepository(db).Update(context.Background(), v)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestVehicleRepository_UpdateUnknownDetailer(t *testing.T) {
	db := NewTestDB(t)
	v := insertVehicle(t, db, "A1", testClock)
	v.DetailerID = "ghost"
	err := NewVehicleRepository(db).Update(context.Background(), v)
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)
}

func TestVehicleRepository_LegacyWorkflowColumn(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, `
		INSERT INTO vehicles (stock_number, status, date_in, workflow, created_at, updated_at)
		VALUES (?, 'Mechanical', ?, ?, ?, ?)`,
		"L1", formatTime(testClock), `{"Mechanical":{"completed":true,"date":"2025-05-20"}}`,
		formatTime(testClock), formatTime(testClock))
	require.NoError(t, err)

	got, err := NewVehicleRepository(db).Get(ctx, "L1")
	require.NoError(t, err)
	require.True(t, got.Workflow.IsCompleted(workflow.StageNewArrival))
	require.True(t, got.Workflow.IsCompleted(workflow.StageMechanical))
	require.Equal(t, workflow.StageDetailing, workflow.DeriveStatus(got.Workflow))
}

func TestVehicleRepository_NullWorkflow(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, `
		INSERT INTO vehicles (stock_number, status, date_in, created_at, updated_at)
		VALUES ('N1', 'New Arrival', ?, ?, ?)`,
		formatTime(testClock), formatTime(testClock), formatTime(testClock))
	require.NoError(t, err)

	got, err := NewVehicleRepository(db).Get(ctx, "N1")
	require.NoError(t, err)
	require.Nil(t, got.Workflow)
}

func TestVehicleRepository_ListFilters(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewVehicleRepository(db)

	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	insertVehicle(t, db, "C3", base.Add(48*time.Hour))
	insertVehicle(t, db, "A1", base)
	sold := insertVehicle(t, db, "B2", base.Add(24*time.Hour))

	d := &detailer.Detailer{ID: "d1", Name: "Marco", Active: true, CreatedAt: testClock, UpdatedAt: testClock}
	require.NoError(t, NewDetailerRepository(db).Create(ctx, d))

	sold.Status = workflow.StageSold
	sold.DetailerID = "d1"
	sold.Detailer = "Marco"
	require.NoError(t, repo.Update(ctx, sold))

	all, err := repo.List(ctx, vehicle.ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, []string{"A1", "B2", "C3"}, stockNumbers(all))

	inRecon, err := repo.List(ctx, vehicle.ListOptions{InReconOnly: true})
	require.NoError(t, err)
	require.Equal(t, []string{"A1", "C3"}, stockNumbers(inRecon))

	bySold, err := repo.List(ctx, vehicle.ListOptions{Statuses: []workflow.Stage{workflow.StageSold}})
	require.NoError(t, err)
	require.Equal(t, []string{"B2"}, stockNumbers(bySold))

	byDetailer, err := repo.List(ctx, vehicle.ListOptions{Detailer: "marco"})
	require.NoError(t, err)
	require.Equal(t, []string{"B2"}, stockNumbers(byDetailer))

	paged, err := repo.List(ctx, vehicle.ListOptions{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Equal(t, []string{"B2"}, stockNumbers(paged))

	offsetOnly, err := repo.List(ctx, vehicle.ListOptions{Offset: 2})
	require.NoError(t, err)
	require.Equal(t, []string{"C3"}, stockNumbers(offsetOnly))
}

func TestVehicleRepository_DeleteCascadesTimeline(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertVehicle(t, db, "A1", testClock)

	activities := NewActivityRepository(db)
	require.NoError(t, activities.Log(ctx, activityEntry("A1", activity.TypeIntake)))

	repo := NewVehicleRepository(db)
	require.NoError(t, repo.Delete(ctx, "A1"))
	require.ErrorIs(t, repo.Delete(ctx, "A1"), repository.ErrNotFound)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM activity_log").Scan(&count))
	require.Zero(t, count)
}

func stockNumbers(list []vehicle.Vehicle) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		out = append(out, v.StockNumber)
	}
	return out
}
