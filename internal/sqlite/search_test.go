package sqlite

import (
	"context"
	"testing"

	"github.com/rpggio/recontrack/internal/domain/vehicle"
	"github.com/rpggio/recontrack/internal/domain/workflow"
	"github.com/stretchr/testify/require"
)

func TestSearchRepository_Search(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	insertVehicle(t, db, "A-1234", testClock)
	other := insertVehicle(t, db, "B-5678", testClock)
	other.Make = "Ford"
	other.Model = "F-150"
	other.Notes = "needs windshield"
	require.NoError(t, NewVehicleRepository(db).Update(ctx, other))

	repo := NewSearchRepository(db)

	results, err := repo.Search(ctx, "windshield", vehicle.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "B-5678", results[0].Vehicle.StockNumber)
	require.NotNil(t, results[0].Vehicle.Workflow)

	results, err = repo.Search(ctx, "A-1234", vehicle.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "A-1234", results[0].Vehicle.StockNumber)

	results, err = repo.Search(ctx, "hon civ", vehicle.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, results, 1)

	results, err = repo.Search(ctx, "ford", vehicle.SearchOptions{Statuses: []workflow.Stage{workflow.StageSold}})
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestSearchRepository_UpdateReindexes(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	v := insertVehicle(t, db, "A1", testClock)
	v.Notes = "hail damage"
	require.NoError(t, NewVehicleRepository(db).Update(ctx, v))

	repo := NewSearchRepository(db)
	results, err := repo.Search(ctx, "hail", vehicle.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, results, 1)

	require.NoError(t, NewVehicleRepository(db).Delete(ctx, "A1"))
	results, err = repo.Search(ctx, "hail", vehicle.SearchOptions{})
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestFTSQuery(t *testing.T) {
	require.Equal(t, `"A-1234"*`, ftsQuery("A-1234"))
	require.Equal(t, `"ford"* "f-150"*`, ftsQuery(`  ford "f-150" `))
	require.Equal(t, "", ftsQuery(`  "" `))
}
